package kv

import (
	"strings"

	"github.com/ValentinKolb/rKV/rpc/common"
)

// Command words understood by the interactive shell
const (
	cmdPing     = "ping"
	cmdSet      = "set"
	cmdGet      = "get"
	cmdDel      = "del"
	cmdExit     = "exit"
	cmdShutdown = "shutdown"
)

// ParseCommand turns one line of shell input into a request.
// quit is true if the line asks to leave the shell, in that case msg is nil.
// Lines that are not a valid command become an Illegal request carrying the
// line, the server rejects those.
func ParseCommand(line string) (msg *common.Message, quit bool) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return common.NewIllegalRequest(line), false
	}

	switch args := fields[1:]; {
	case fields[0] == cmdPing && len(args) == 0:
		return common.NewPingRequest(), false
	case fields[0] == cmdSet && len(args) == 2:
		return common.NewSetRequest(args[0], args[1]), false
	case fields[0] == cmdGet && len(args) == 1:
		return common.NewGetRequest(args[0]), false
	case fields[0] == cmdDel:
		return common.NewDelRequest(args...), false
	case fields[0] == cmdExit && len(args) == 0:
		return nil, true
	case fields[0] == cmdShutdown && len(args) == 0:
		return common.NewExitRequest(), false
	default:
		return common.NewIllegalRequest(line), false
	}
}
