// Package client implements the RPC client of rKV. It provides an implementation
// of the store.IStore interface that communicates with a remote server via RPC.
//
// The package focuses on:
//   - Transparent RPC access to a remote store
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between RPC and domain errors
//
// Key Components:
//
//   - NewRPCStore: Factory function that creates an IRPCStore. Besides the
//     store.IStore methods it offers Ping, Exit and Do, the latter sending any
//     message and returning the raw response (used by the interactive shell).
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:8080"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create a store client
//	kv, err := client.NewRPCStore(
//	  config,
//	  tcp.NewTCPClientTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//	if err != nil {
//	  log.Fatalf("Failed to create store client: %v", err)
//	}
//	defer kv.Close()
//
//	// Use the store
//	err = kv.Set("key", "value")
//	value, found, err := kv.Get("key")
//	removed, err := kv.Delete("key")
//
// Limitations:
//
//	The server answers a Get for a missing key with the value "NULL!", so a
//	stored value equal to "NULL!" is reported as missing.
//
// Thread Safety:
//
//	All client implementations are thread-safe and can be used concurrently
//	from multiple goroutines, as long as the underlying transport is thread-safe.
package client
