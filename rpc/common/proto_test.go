package common

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ValentinKolb/rKV/lib/store"
)

func TestMessageString(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{"ping", NewPingRequest(), "PING"},
		{"set", NewSetRequest("k", "v w"), `SET k "v w"`},
		{"get", NewGetRequest("k"), "GET k"},
		{"del", NewDelRequest("a", "b"), "DEL a b"},
		{"exit", NewExitRequest(), "EXIT"},
		{"illegal", NewIllegalRequest("foo bar"), "ILLEGAL foo bar"},
		{"illegal empty", NewIllegalRequest(""), "ILLEGAL"},
		{"pong", NewPingResponse(), `OK "PONG"`},
		{"null", NewGetResponse("", false, nil), `VALUE "NULL!"`},
		{"error", NewErrorResponse(errors.New("boom")), `ERROR err="boom"`},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     *Message
		wantErr bool
	}{
		{"ping", NewPingRequest(), false},
		{"exit", NewExitRequest(), false},
		{"set", NewSetRequest("k", ""), false},
		{"set without value", &Message{MsgType: MsgTSet, Keys: []string{"k"}}, true},
		{"set two keys", &Message{MsgType: MsgTSet, Keys: []string{"a", "b"}, Value: strPtr("v")}, true},
		{"get", NewGetRequest("k"), false},
		{"get without key", &Message{MsgType: MsgTGet}, true},
		{"del", NewDelRequest("a", "b", "c"), false},
		{"del without keys", NewDelRequest(), true},
		{"illegal", NewIllegalRequest("x"), true},
		{"response", NewEmptyResponse(), true},
		{"unknown", &Message{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !store.IsCode(err, store.RetCProtocolError) {
				t.Errorf("Validate() error = %v, want protocol error", err)
			}
		})
	}
}

func TestResponses(t *testing.T) {
	if got := NewSetResponse(nil); got.MsgType != MsgTOk || got.GetValue() != SetValue {
		t.Errorf("NewSetResponse(nil) = %v", got)
	}
	if got := NewGetResponse("v", true, nil); got.MsgType != MsgTValue || got.GetValue() != "v" {
		t.Errorf("NewGetResponse(v) = %v", got)
	}
	if got := NewDelResponse(2, nil); got.MsgType != MsgTValue || got.GetValue() != "2" {
		t.Errorf("NewDelResponse(2) = %v", got)
	}
	if got := NewEmptyResponse(); got.MsgType != MsgTOk || got.Value != nil {
		t.Errorf("NewEmptyResponse() = %v", got)
	}

	errResp := NewDelResponse(0, errors.New("disk full"))
	if errResp.MsgType != MsgTError || errResp.ErrorOf() == nil || errResp.ErrorOf().Error() != "disk full" {
		t.Errorf("NewDelResponse(err) = %v", errResp)
	}
	if NewPingResponse().ErrorOf() != nil {
		t.Error("ErrorOf() on ok response should be nil")
	}
}

func TestMessageTypeJSON(t *testing.T) {
	for typ := MsgTUnknown; typ <= MsgTIllegal; typ++ {
		data, err := json.Marshal(typ)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", typ, err)
		}
		var back MessageType
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if back != typ {
			t.Errorf("round trip of %v gave %v", typ, back)
		}
	}

	var typ MessageType
	if err := json.Unmarshal([]byte(`"frobnicate"`), &typ); err == nil {
		t.Error("expected error for unknown message type")
	}
}

func TestConfigString(t *testing.T) {
	cfg := ServerConfig{
		Transport:  ServerTransportConfig{Endpoint: "localhost:8080"},
		AOFPath:    "rkv.aof",
		ExitPolicy: ExitPolicyShutdown,
		LogLevel:   "info",
	}
	out := cfg.String()
	for _, want := range []string{"localhost:8080", "rkv.aof", "shutdown", "APPEND ONLY LOG"} {
		if !strings.Contains(out, want) {
			t.Errorf("config string misses %q:\n%s", want, out)
		}
	}

	if _, err := ParseExitPolicy("later"); err == nil {
		t.Error("expected error for unknown exit policy")
	}
	if p, err := ParseExitPolicy("IMMEDIATE"); err != nil || p != ExitPolicyImmediate {
		t.Errorf("ParseExitPolicy(IMMEDIATE) = %v, %v", p, err)
	}
}
