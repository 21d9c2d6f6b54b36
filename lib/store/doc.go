// Package store provides the interface for key-value storage operations together with
// the unified error handling shared by every layer of rKV.
//
// The package focuses on:
//   - A unified interface (IStore) for key-value operations across different implementations
//   - Typed errors (Error with a RetCode) that survive wrapping
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining Set, Get and Delete. Keys and values
//     are plain strings. A missing key on Get is reported through the loaded flag and is
//     never an error. Delete accepts several keys and reports how many were removed.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     and descriptive messages. IsCode checks a (possibly wrapped) error for a code, so
//     callers can tell an IOError from the durability log apart from a ProtocolError
//     raised before the store was reached.
//
// Implementations:
//
//	- Local Store (lstore): An in-memory map guarded by a single mutex. Every operation
//	  is one critical section over the whole map.
//	  Available in the "github.com/ValentinKolb/rKV/lib/store/lstore" package.
//
//	- Persistent Store (pstore): Wraps any IStore and appends every successful mutation
//	  to an append-only log inside the same critical section. It also rebuilds the
//	  wrapped store from that log at startup.
//	  Available in the "github.com/ValentinKolb/rKV/lib/store/pstore" package.
package store
