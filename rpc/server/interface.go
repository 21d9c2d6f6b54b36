package server

import (
	"github.com/ValentinKolb/rKV/rpc/common"
)

// Handler handles a request and returns a response.
// If the request cannot be handled, an error is returned instead.
type Handler[Req, Resp any] interface {
	Handle(req Req) (resp Resp, err error)
}

// HandlerFunc adapts an ordinary function to the Handler interface
type HandlerFunc[Req, Resp any] func(req Req) (Resp, error)

// Handle calls f(req)
func (f HandlerFunc[Req, Resp]) Handle(req Req) (Resp, error) {
	return f(req)
}

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for turning a request message into a response message.
// A nil response means the command produced no response.
// Failures of the command are reported as an Error response, the returned
// error is reserved for requests that could not be handled at all.
type IRPCServerAdapter = Handler[*common.Message, *common.Message]
