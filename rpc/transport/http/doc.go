// Package http implements an HTTP-based transport layer for RPC communication
// in rKV. It provides concrete implementations of the transport interfaces defined
// in the parent package, enabling communication between clients and servers over HTTP.
//
// The package focuses on:
//   - Client-side HTTP transport for sending RPC requests to servers
//   - Server-side HTTP transport for receiving and handling RPC requests
//   - Round-robin load balancing across multiple server endpoints
//
// Routes:
//
//	POST /        body is a serialized request, the body of a 200 response is the
//	              serialized response, 204 means the command produced no response
//	GET /metrics  Prometheus text exposition of all registered metrics
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport interface, managing
//     connections to server endpoints and implementing retry mechanisms. It uses
//     round-robin selection for load balancing across multiple server endpoints.
//
//   - httpServerTransport: Implements IRPCServerTransport interface, setting up
//     an HTTP server that passes incoming requests to the registered handler and
//     shuts down gracefully via http.Server.Shutdown.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently. It uses
//	atomic operations for the round-robin counter to ensure thread safety when
//	selecting server endpoints.
package http
