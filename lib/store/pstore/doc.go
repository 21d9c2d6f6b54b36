// Package pstore makes any store.IStore durable by recording every successful
// mutation in an append-only log (see package aof) and rebuilding the store from
// that log at startup.
//
// Atomicity:
//
//	Set and Delete hold the store's mutex across both the in-memory mutation and the
//	log append. Two concurrent mutations therefore can never be applied in one order
//	and logged in the other, and replaying the log always reproduces the state that
//	clients observed. Get only takes the lock of the wrapped store.
//
// Append Failures:
//
//	A failed append never rolls back the in-memory mutation. By default the failure is
//	logged and the command still succeeds; the data is visible until the process
//	stops. With Options.Strict the *store.Error (code RetCIOError) is returned to the
//	caller as well.
//
// Recovery:
//
//	Recover replays the log once, before the server accepts commands. Each SET and DEL
//	line is applied to the wrapped store directly; nothing is logged again. Blank
//	lines and unknown keywords are ignored, malformed lines are skipped. A missing log
//	file means an empty store. Only a failure to read an existing file aborts startup.
//
// Usage Example:
//
//	log := aof.Open("rkv.aof", aof.Options{})
//	s := pstore.NewPersistentStore(lstore.NewLocalStore(), log, pstore.Options{})
//	if _, err := s.Recover(); err != nil {
//		// the log exists but could not be read
//	}
//	_ = s.Set("a", "1") // appends "SET a 1"
package pstore
