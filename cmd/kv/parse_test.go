package kv

import (
	"testing"

	"github.com/ValentinKolb/rKV/rpc/common"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantType common.MessageType
		wantKeys []string
		wantVal  *string
		wantQuit bool
	}{
		{name: "ping", line: "ping", wantType: common.MsgTPing},
		{name: "set", line: "set a 1", wantType: common.MsgTSet, wantKeys: []string{"a"}, wantVal: ptr("1")},
		{name: "set with newline", line: "set a 1\n", wantType: common.MsgTSet, wantKeys: []string{"a"}, wantVal: ptr("1")},
		{name: "get", line: "get a", wantType: common.MsgTGet, wantKeys: []string{"a"}},
		{name: "del one", line: "del a", wantType: common.MsgTDel, wantKeys: []string{"a"}},
		{name: "del many", line: "del a b c", wantType: common.MsgTDel, wantKeys: []string{"a", "b", "c"}},
		{name: "del none", line: "del", wantType: common.MsgTDel},
		{name: "shutdown", line: "shutdown", wantType: common.MsgTExit},
		{name: "exit", line: "exit", wantQuit: true},
		{name: "exit with args", line: "exit now", wantType: common.MsgTIllegal, wantKeys: []string{"exit now"}},
		{name: "set missing value", line: "set a", wantType: common.MsgTIllegal, wantKeys: []string{"set a"}},
		{name: "set too many", line: "set a 1 2", wantType: common.MsgTIllegal, wantKeys: []string{"set a 1 2"}},
		{name: "get missing key", line: "get", wantType: common.MsgTIllegal, wantKeys: []string{"get"}},
		{name: "upper case", line: "PING", wantType: common.MsgTIllegal, wantKeys: []string{"PING"}},
		{name: "unknown", line: "foo bar", wantType: common.MsgTIllegal, wantKeys: []string{"foo bar"}},
		{name: "empty", line: "", wantType: common.MsgTIllegal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, quit := ParseCommand(tt.line)
			if quit != tt.wantQuit {
				t.Fatalf("quit = %v, want %v", quit, tt.wantQuit)
			}
			if tt.wantQuit {
				if msg != nil {
					t.Fatalf("msg = %v, want nil", msg)
				}
				return
			}
			if msg.MsgType != tt.wantType {
				t.Errorf("type = %s, want %s", msg.MsgType, tt.wantType)
			}
			if len(msg.Keys) != len(tt.wantKeys) {
				t.Fatalf("keys = %v, want %v", msg.Keys, tt.wantKeys)
			}
			for i := range msg.Keys {
				if msg.Keys[i] != tt.wantKeys[i] {
					t.Errorf("keys = %v, want %v", msg.Keys, tt.wantKeys)
				}
			}
			if (msg.Value == nil) != (tt.wantVal == nil) || (msg.Value != nil && *msg.Value != *tt.wantVal) {
				t.Errorf("value = %v, want %v", msg.Value, tt.wantVal)
			}
		})
	}
}

func TestParsedIllegalCommandsAreRejected(t *testing.T) {
	for _, line := range []string{"foo", "set a", "get", ""} {
		msg, _ := ParseCommand(line)
		if err := msg.Validate(); err == nil {
			t.Errorf("%q: expected validation error", line)
		}
	}
}

func ptr(s string) *string {
	return &s
}
