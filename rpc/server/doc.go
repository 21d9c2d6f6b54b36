// Package server implements the RPC server of rKV. It wires the durable store,
// the command dispatcher and the logging middleware to a transport and a serializer.
//
// The package focuses on:
//   - Executing commands (Ping, Set, Get, Del, Exit) against a store.IStore
//   - A generic middleware that logs requests and rejects illegal or malformed ones
//   - Replaying the durability log before the server accepts connections
//   - Graceful shutdown when a client sends Exit
//
// Key Components:
//
//   - Handler / HandlerFunc: Generic request handler abstraction. IRPCServerAdapter
//     is the Handler for common.Message requests and responses.
//
//   - NewStoreServerAdapter: Creates the command dispatcher, translating RPC requests
//     to store.IStore method calls. Get answers a missing key with common.NullValue,
//     Exit produces no response.
//
//   - LoggingMiddleware: Wraps any Handler, logs each request and response with its
//     latency and short-circuits requests whose text form starts with a marker
//     (IllegalMarker for messages) or that fail their Validate method.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Transport:  common.ServerTransportConfig{Endpoint: "0.0.0.0:8080", WorkersPerConn: 1},
//	  AOFPath:    "rkv.aof",
//	  ExitPolicy: common.ExitPolicyShutdown,
//	  LogLevel:   "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Exit Policies:
//
//   - shutdown: stop accepting connections, answer all commands already received,
//     close the log and return from Serve
//   - immediate: terminate the process at once
//   - disabled: answer Exit with an error
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each request is processed independently.
//	Serve is not thread-safe and should be called only once.
package server
