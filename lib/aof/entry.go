package aof

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Op is the keyword at the start of every log line.
type Op string

const (
	OpSet Op = "SET"
	OpDel Op = "DEL"
)

var (
	// ErrEmptyLine is returned by ParseEntry for a line without any token.
	ErrEmptyLine = errors.New("aof: empty line")
	// ErrUnknownOp is returned by ParseEntry when the first token is neither SET nor DEL.
	ErrUnknownOp = errors.New("aof: unknown operation")
	// ErrMalformed is returned by ParseEntry for a line with a known keyword but a wrong
	// number of arguments or broken quoting.
	ErrMalformed = errors.New("aof: malformed entry")
)

// Entry is a single mutation recorded in the log.
// A SET entry carries exactly one key and a value, a DEL entry one or more keys.
type Entry struct {
	Op    Op
	Keys  []string
	Value string
}

// NewSetEntry returns the entry recording key=value.
func NewSetEntry(key, value string) Entry {
	return Entry{Op: OpSet, Keys: []string{key}, Value: value}
}

// NewDelEntry returns the entry recording the removal of keys.
func NewDelEntry(keys ...string) Entry {
	return Entry{Op: OpDel, Keys: keys}
}

// Validate checks the arity of the entry.
func (e Entry) Validate() error {
	switch e.Op {
	case OpSet:
		if len(e.Keys) != 1 {
			return fmt.Errorf("%w: SET needs exactly one key, got %d", ErrMalformed, len(e.Keys))
		}
	case OpDel:
		if len(e.Keys) == 0 {
			return fmt.Errorf("%w: DEL needs at least one key", ErrMalformed)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, string(e.Op))
	}
	return nil
}

// Encode returns the log line for the entry without the trailing newline.
// Plain tokens are written verbatim; tokens that are empty or contain whitespace,
// quotes, backslashes or non-printable characters are written as Go quoted strings.
func (e Entry) Encode() string {
	var sb strings.Builder
	sb.WriteString(string(e.Op))
	for _, k := range e.Keys {
		sb.WriteByte(' ')
		sb.WriteString(encodeToken(k))
	}
	if e.Op == OpSet {
		sb.WriteByte(' ')
		sb.WriteString(encodeToken(e.Value))
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (e Entry) String() string {
	return e.Encode()
}

// ParseEntry parses one log line (with or without trailing newline).
func ParseEntry(line string) (Entry, error) {
	line = strings.TrimRight(line, "\r\n")
	tokens, err := tokenize(line)
	if err != nil {
		return Entry{}, err
	}
	if len(tokens) == 0 {
		return Entry{}, ErrEmptyLine
	}

	switch op := Op(tokens[0]); op {
	case OpSet:
		if len(tokens) != 3 {
			return Entry{}, fmt.Errorf("%w: SET expects 2 arguments, got %d", ErrMalformed, len(tokens)-1)
		}
		return NewSetEntry(tokens[1], tokens[2]), nil
	case OpDel:
		if len(tokens) < 2 {
			return Entry{}, fmt.Errorf("%w: DEL expects at least 1 argument", ErrMalformed)
		}
		return NewDelEntry(tokens[1:]...), nil
	default:
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownOp, tokens[0])
	}
}

// --------------------------------------------------------------------------
// Tokens
// --------------------------------------------------------------------------

func needsQuoting(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return true
	}
	for _, r := range s {
		if r == '"' || r == '\\' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}

func encodeToken(s string) string {
	if needsQuoting(s) {
		return strconv.Quote(s)
	}
	return s
}

// tokenize splits a line on spaces. A token starting with a double quote
// is read as a Go quoted string and must be followed by a space or the end of the line.
func tokenize(line string) ([]string, error) {
	var tokens []string
	for {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			return tokens, nil
		}

		if line[0] == '"' {
			quoted, err := strconv.QuotedPrefix(line)
			if err != nil {
				return nil, fmt.Errorf("%w: bad quoting: %v", ErrMalformed, err)
			}
			unquoted, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("%w: bad quoting: %v", ErrMalformed, err)
			}
			line = line[len(quoted):]
			if line != "" && line[0] != ' ' && line[0] != '\t' {
				return nil, fmt.Errorf("%w: text after quoted token", ErrMalformed)
			}
			tokens = append(tokens, unquoted)
			continue
		}

		end := strings.IndexAny(line, " \t")
		if end < 0 {
			end = len(line)
		}
		tokens = append(tokens, line[:end])
		line = line[end:]
	}
}
