// Package lstore implements a local, in-memory, single-node key-value store based on the
// store.IStore interface. Data is stored entirely in memory and is not persisted between
// process restarts; wrap it with pstore for durability.
//
// Key Features:
//   - Pure in-memory storage using a plain map
//   - One sync.Mutex guarding the whole map
//   - Multi-key deletes that are atomic as a whole
//
// Thread Safety:
//
//	Every operation (Set, Get, Delete, Len) is one exclusive critical section over the
//	entire map. Reads are serialized with writes as well, so a Get never observes a
//	partially applied multi-key Delete.
//
// Usage Example:
//
//	s := lstore.NewLocalStore()
//	_ = s.Set("a", "1")
//	value, exists, _ := s.Get("a")          // "1", true
//	removed, _ := s.Delete("a", "missing")  // 1
package lstore
