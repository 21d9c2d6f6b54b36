// Package common provides core data structures and utilities shared across
// the rKV server, client and command line tools. It defines the message
// protocol, the configuration structures and the logging setup.
//
// The package focuses on:
//   - Message protocol definition for client/server communication
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with the Dragonboat logger registry
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. The same struct carries
//     commands (Ping, Set, Get, Del, Exit, Illegal) and responses (Ok, Value, Error).
//     Factory functions build every request and response, e.g. NewGetResponse turns a
//     missing key into the "NULL!" sentinel. Validate checks that a command carries the
//     keys and value its type needs.
//
//   - MessageType: Enumeration of all command and response types. Types serialize to
//     their lower case name in JSON; Message.String renders them upper case, so an
//     unparsable command always renders with the prefix "ILLEGAL".
//
//   - ServerConfig: Configuration for the server, including the transport endpoint,
//     the append-only log, the exit policy, metrics and logging.
//
//   - ClientConfig: Configuration for client components, controlling endpoints,
//     timeouts and retry behavior.
//
//   - Logger: A logger factory for github.com/lni/dragonboat/v4/logger whose loggers
//     write through logrus. Every package obtains its logger with logger.GetLogger(name);
//     InitLoggers swaps in the logrus backend and sets the level for all of them.
package common
