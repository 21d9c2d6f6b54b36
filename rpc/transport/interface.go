package transport

import (
	"context"

	"github.com/ValentinKolb/rKV/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes a serialized request and returns a serialized response.
// An empty response means the command produced no response; transports still
// acknowledge it (an empty frame, or 204 for http) so clients do not wait.
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and blocks while serving requests.
	// It returns nil once Shutdown was called.
	Listen(config common.ServerConfig) error
	// Shutdown stops accepting connections and waits until in-flight requests are
	// answered or ctx is done. Connections still open when ctx is done are closed.
	Shutdown(ctx context.Context) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response
	// An empty response means the server sent no response for this request.
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
