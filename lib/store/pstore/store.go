package pstore

import (
	"errors"
	"sync"

	"github.com/ValentinKolb/rKV/lib/aof"
	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Logger is the logger for the persistent store.
var Logger = logger.GetLogger("store")

// AppendLog is the durability log a Store writes its mutations to.
// *aof.File implements it.
type AppendLog interface {
	// Append records one mutation.
	Append(e aof.Entry) error
	// Replay calls fn for every recorded line in order.
	Replay(fn func(line string) error) error
}

// Options configure a Store.
type Options struct {
	// Strict returns append errors to the caller. The mutation itself is applied
	// in either case.
	Strict bool
}

// RecoveryResult summarizes a call to Recover.
type RecoveryResult struct {
	Lines   int // lines read from the log
	Applied int // SET and DEL entries applied to the store
	Skipped int // blank, unknown and malformed lines
}

// Store wraps an in-memory store.IStore and records every successful mutation
// in an AppendLog. A mutation and its log entry form one critical section, so the
// order of entries in the log is the order in which mutations became visible.
type Store struct {
	mu   sync.Mutex
	mem  store.IStore
	log  AppendLog
	opts Options
}

// NewPersistentStore returns a store that writes mutations of mem to log.
func NewPersistentStore(mem store.IStore, log AppendLog, opts Options) *Store {
	return &Store{
		mem:  mem,
		log:  log,
		opts: opts,
	}
}

// compile time check
var _ store.IStore = (*Store)(nil)

// Recover rebuilds the in-memory store from the log. It must run before the store
// serves any command. Entries are applied directly to the wrapped store and are not
// logged again. Blank lines and lines with unknown keywords are ignored, malformed
// lines are skipped with a warning. Only an error reading the log is returned.
func (s *Store) Recover() (RecoveryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res RecoveryResult
	err := s.log.Replay(func(line string) error {
		res.Lines++
		entry, err := aof.ParseEntry(line)
		if err != nil {
			res.Skipped++
			if errors.Is(err, aof.ErrMalformed) {
				Logger.Warningf("skipping malformed log line %d: %v", res.Lines, err)
			}
			return nil
		}
		if err := s.apply(entry); err != nil {
			return err
		}
		res.Applied++
		return nil
	})
	if err != nil {
		return res, err
	}

	Logger.Infof("recovered store from log: %d lines, %d applied, %d skipped", res.Lines, res.Applied, res.Skipped)
	return res, nil
}

func (s *Store) apply(e aof.Entry) error {
	switch e.Op {
	case aof.OpSet:
		return s.mem.Set(e.Keys[0], e.Value)
	case aof.OpDel:
		_, err := s.mem.Delete(e.Keys...)
		return err
	}
	return nil
}

// afterAppend applies the append error policy. Must be called with s.mu held.
func (s *Store) afterAppend(err error) error {
	if err == nil {
		return nil
	}
	Logger.Errorf("failed to append to log, mutation is applied but not durable: %v", err)
	if s.opts.Strict {
		return err
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.Set(key, value); err != nil {
		return err
	}
	return s.afterAppend(s.log.Append(aof.NewSetEntry(key, value)))
}

func (s *Store) Get(key string) (string, bool, error) {
	return s.mem.Get(key)
}

func (s *Store) Delete(keys ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.mem.Delete(keys...)
	if err != nil {
		return 0, err
	}
	return removed, s.afterAppend(s.log.Append(aof.NewDelEntry(keys...)))
}
