// Package rpc provides the remote procedure call layer of rKV. It connects
// clients to the durable key-value store running in a server process.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON,
//     GOB, RESP) for converting between Message objects and byte arrays.
//
//   - client: RPC client implementing the store interface, allowing applications to
//     use a remote store transparently.
//
//   - server: RPC server components that handle incoming requests: the command
//     dispatcher, the logging middleware and the server lifecycle.
package rpc
