// Package aof implements the append-only operation log used to make the store durable.
//
// Every successful mutation is recorded as one text line:
//
//	SET <key> <value>
//	DEL <key1> <key2> ...
//
// Tokens are separated by a single space. Keys and values made of printable,
// non-space characters are written as they are, so simple logs look exactly like
// the example above. Empty tokens and tokens containing whitespace, double quotes,
// backslashes or non-printable characters are written as Go quoted strings
// (strconv.Quote), e.g.
//
//	SET greeting "hello world"
//
// The log is never rewritten or compacted. Replaying every line from an empty store
// reproduces the final store state, since SET is an overwrite and DEL an idempotent
// remove. Lines with an unknown keyword and blank lines are ignored on replay.
//
// Errors opening, writing or reading the file are reported as *store.Error with
// code store.RetCIOError.
package aof
