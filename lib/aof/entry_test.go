package aof

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"plain set", NewSetEntry("k", "v"), "SET k v"},
		{"plain del", NewDelEntry("a", "b", "c"), "DEL a b c"},
		{"value with space", NewSetEntry("greeting", "hello world"), `SET greeting "hello world"`},
		{"value with newline", NewSetEntry("k", "a\nb"), `SET k "a\nb"`},
		{"empty value", NewSetEntry("k", ""), `SET k ""`},
		{"quote in key", NewSetEntry(`a"b`, "v"), `SET "a\"b" v`},
		{"unicode stays plain", NewSetEntry("schlüssel", "wert"), "SET schlüssel wert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Encode())
		})
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Entry
		wantErr error
	}{
		{"set", "SET k v", NewSetEntry("k", "v"), nil},
		{"set with newline", "SET k v\n", NewSetEntry("k", "v"), nil},
		{"set with crlf", "SET k v\r\n", NewSetEntry("k", "v"), nil},
		{"del one", "DEL a", NewDelEntry("a"), nil},
		{"del many", "DEL a b c", NewDelEntry("a", "b", "c"), nil},
		{"quoted value", `SET greeting "hello world"`, NewSetEntry("greeting", "hello world"), nil},
		{"quoted empty", `SET k ""`, NewSetEntry("k", ""), nil},
		{"blank", "", Entry{}, ErrEmptyLine},
		{"spaces only", "   ", Entry{}, ErrEmptyLine},
		{"unknown op", "GET k", Entry{}, ErrUnknownOp},
		{"lowercase op", "set k v", Entry{}, ErrUnknownOp},
		{"set too few", "SET k", Entry{}, ErrMalformed},
		{"set too many", "SET k v extra", Entry{}, ErrMalformed},
		{"del without keys", "DEL", Entry{}, ErrMalformed},
		{"unterminated quote", `SET k "abc`, Entry{}, ErrMalformed},
		{"text after quote", `SET k "abc"def`, Entry{}, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntry(tt.line)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	values := []string{"x", "two words", "tab\there", "line\nbreak", `back\slash`, `"quoted"`, "", " leading", "trailing ", "\x00\x01"}
	for _, v := range values {
		e := NewSetEntry("key "+v, v)
		got, err := ParseEntry(e.Encode())
		require.NoError(t, err, "line %q", e.Encode())
		assert.Equal(t, e, got)
	}

	del := NewDelEntry("a b", "", "c")
	got, err := ParseEntry(del.Encode())
	require.NoError(t, err)
	assert.Equal(t, del, got)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, NewSetEntry("k", "v").Validate())
	assert.NoError(t, NewDelEntry("k").Validate())
	assert.ErrorIs(t, Entry{Op: OpSet}.Validate(), ErrMalformed)
	assert.ErrorIs(t, NewDelEntry().Validate(), ErrMalformed)
	assert.ErrorIs(t, Entry{Op: "GET", Keys: []string{"k"}}.Validate(), ErrUnknownOp)
}
