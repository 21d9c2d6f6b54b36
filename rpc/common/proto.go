package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/rKV/lib/store"
)

// NullValue is the value of a Get response for a key that does not exist.
const NullValue = "NULL!"

// Fixed response values.
const (
	PongValue = "PONG"
	SetValue  = "OK!"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests (commands) and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request only fields
	Keys []string `json:"keys,omitempty"` // Used for: Set, Get (exactly one key), Del (one or more keys)

	// General fields
	Value *string `json:"value,omitempty"` // Used for: Set (request), Ok and Value responses

	// Response only fields
	Err string `json:"err,omitempty"` // Empty if no error, otherwise contains the error message
}

// String renders the message as a single line, e.g. `SET k "v"` or `VALUE "1"`.
// The first token is always the upper case message type.
func (m *Message) String() string {
	if m == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(m.MsgType.String()))
	for _, k := range m.Keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
	}
	if m.Value != nil {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(*m.Value))
	}
	if m.Err != "" {
		sb.WriteString(" err=")
		sb.WriteString(strconv.Quote(m.Err))
	}
	return sb.String()
}

// GetValue returns the value of the message or "" if it has none.
func (m *Message) GetValue() string {
	if m == nil || m.Value == nil {
		return ""
	}
	return *m.Value
}

// Validate checks that a request carries the keys and value its type requires.
// Response types, Illegal and unknown types are rejected, since none of them can be executed.
func (m *Message) Validate() error {
	if m == nil {
		return store.NewError(store.RetCProtocolError, "empty message")
	}
	switch m.MsgType {
	case MsgTPing, MsgTExit:
		return nil
	case MsgTSet:
		if len(m.Keys) != 1 {
			return store.NewError(store.RetCProtocolError, fmt.Sprintf("set requires exactly one key, got %d", len(m.Keys)))
		}
		if m.Value == nil {
			return store.NewError(store.RetCProtocolError, "set requires a value")
		}
	case MsgTGet:
		if len(m.Keys) != 1 {
			return store.NewError(store.RetCProtocolError, fmt.Sprintf("get requires exactly one key, got %d", len(m.Keys)))
		}
	case MsgTDel:
		if len(m.Keys) == 0 {
			return store.NewError(store.RetCProtocolError, "del requires at least one key")
		}
	case MsgTIllegal:
		return store.NewError(store.RetCProtocolError, "illegal command")
	default:
		return store.NewError(store.RetCProtocolError, fmt.Sprintf("%s is not a command", m.MsgType))
	}
	return nil
}

// ErrorOf returns the error carried by a response, or nil.
func (m *Message) ErrorOf() error {
	if m == nil || m.MsgType != MsgTError {
		return nil
	}
	return fmt.Errorf("%s", m.Err)
}

func strPtr(s string) *string {
	return &s
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewPingRequest creates a new Ping request
func NewPingRequest() *Message {
	return &Message{MsgType: MsgTPing}
}

// NewPingResponse creates a new Ping response
func NewPingResponse() *Message {
	return &Message{MsgType: MsgTOk, Value: strPtr(PongValue)}
}

// NewSetRequest creates a new Set request
func NewSetRequest(key, value string) *Message {
	return &Message{
		MsgType: MsgTSet,
		Keys:    []string{key},
		Value:   strPtr(value),
	}
}

// NewSetResponse creates a new Set response
func NewSetResponse(err error) *Message {
	if err != nil {
		return NewErrorResponse(err)
	}
	return &Message{MsgType: MsgTOk, Value: strPtr(SetValue)}
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTGet,
		Keys:    []string{key},
	}
}

// NewGetResponse creates a new Get response. A missing key yields the NullValue sentinel.
func NewGetResponse(value string, loaded bool, err error) *Message {
	if err != nil {
		return NewErrorResponse(err)
	}
	if !loaded {
		value = NullValue
	}
	return &Message{MsgType: MsgTValue, Value: strPtr(value)}
}

// NewDelRequest creates a new Del request
func NewDelRequest(keys ...string) *Message {
	return &Message{
		MsgType: MsgTDel,
		Keys:    keys,
	}
}

// NewDelResponse creates a new Del response carrying the number of removed keys
func NewDelResponse(removed int, err error) *Message {
	if err != nil {
		return NewErrorResponse(err)
	}
	return &Message{MsgType: MsgTValue, Value: strPtr(strconv.Itoa(removed))}
}

// NewExitRequest creates a new Exit request
func NewExitRequest() *Message {
	return &Message{MsgType: MsgTExit}
}

// NewIllegalRequest creates a request for input that could not be parsed into a command.
// The raw input is kept as the only key so it shows up in logs.
func NewIllegalRequest(raw string) *Message {
	msg := &Message{MsgType: MsgTIllegal}
	if raw != "" {
		msg.Keys = []string{raw}
	}
	return msg
}

// NewEmptyResponse creates the default response without a value
func NewEmptyResponse() *Message {
	return &Message{MsgType: MsgTOk}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err error) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err.Error(),
	}
}

// --------------------------------------------------------------------------
// Message Type
// --------------------------------------------------------------------------

// MessageType is the type of message
type MessageType uint8

// String returns the string representation of the message type
func (t MessageType) String() string {
	switch t {
	case MsgTOk:
		return "ok"
	case MsgTValue:
		return "value"
	case MsgTError:
		return "error"
	case MsgTPing:
		return "ping"
	case MsgTSet:
		return "set"
	case MsgTGet:
		return "get"
	case MsgTDel:
		return "del"
	case MsgTExit:
		return "exit"
	case MsgTIllegal:
		return "illegal"
	default:
		return "unknown"
	}
}

// ParseMessageType is the inverse of MessageType.String.
func ParseMessageType(s string) (MessageType, error) {
	switch s {
	case "ok":
		return MsgTOk, nil
	case "value":
		return MsgTValue, nil
	case "error":
		return MsgTError, nil
	case "ping":
		return MsgTPing, nil
	case "set":
		return MsgTSet, nil
	case "get":
		return MsgTGet, nil
	case "del":
		return MsgTDel, nil
	case "exit":
		return MsgTExit, nil
	case "illegal":
		return MsgTIllegal, nil
	case "unknown":
		return MsgTUnknown, nil
	default:
		return MsgTUnknown, fmt.Errorf("unknown message type: %s", s)
	}
}

// IsRequest reports whether the type is a command type.
func (t MessageType) IsRequest() bool {
	return t >= MsgTPing && t <= MsgTIllegal
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMessageType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	MsgTUnknown MessageType = iota

	// Responses

	MsgTOk    // Successful command, optional value
	MsgTValue // Successful command returning a value
	MsgTError // The command failed

	// Commands

	MsgTPing    // Liveness check
	MsgTSet     // Set a key-value pair
	MsgTGet     // Get a value by key
	MsgTDel     // Delete one or more keys
	MsgTExit    // Stop the server
	MsgTIllegal // Input that could not be parsed into a command
)
