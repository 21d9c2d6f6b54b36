package aof

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

// Logger is the logger for the append-only log.
var Logger = logger.GetLogger("aof")

// DefaultPath is the file used when no path is configured.
const DefaultPath = "rkv.aof"

// maxLineSize bounds a single log line during replay.
const maxLineSize = 64 << 20

var (
	appendsTotal      = metrics.GetOrCreateCounter("rkv_aof_appends_total")
	appendErrorsTotal = metrics.GetOrCreateCounter("rkv_aof_append_errors_total")
	bytesWrittenTotal = metrics.GetOrCreateCounter("rkv_aof_bytes_written_total")
)

// Options configure a File.
type Options struct {
	// Sync calls fsync after every append.
	Sync bool
}

// File is an append-only log on disk. It is safe for concurrent use;
// appends are serialized and each one is a single write of one complete line.
type File struct {
	mu   sync.Mutex
	path string
	opts Options
	f    *os.File

	closed bool // set by Close, appends fail afterwards
}

// Open returns a log for path. No I/O happens until the first Append or Replay.
func Open(path string, opts Options) *File {
	if path == "" {
		path = DefaultPath
	}
	return &File{path: path, opts: opts}
}

// Path returns the file path of the log.
func (l *File) Path() string {
	return l.path
}

// Append writes e as one line at the end of the log.
// On a failed write the file handle is dropped so the next Append reopens it.
// Once the log is closed every Append fails with an IOError.
func (l *File) Append(e Entry) error {
	if err := e.Validate(); err != nil {
		return store.WrapError(store.RetCInvalidOperation, "invalid log entry", err)
	}
	line := []byte(e.Encode() + "\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		appendErrorsTotal.Inc()
		return store.NewError(store.RetCIOError, fmt.Sprintf("append to %s: log is closed", l.path))
	}

	if l.f == nil {
		f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			appendErrorsTotal.Inc()
			return store.WrapError(store.RetCIOError, fmt.Sprintf("open %s", l.path), err)
		}
		l.f = f
	}

	n, err := l.f.Write(line)
	if err == nil && l.opts.Sync {
		err = l.f.Sync()
	}
	bytesWrittenTotal.Add(n)
	if err != nil {
		appendErrorsTotal.Inc()
		_ = l.f.Close()
		l.f = nil
		return store.WrapError(store.RetCIOError, fmt.Sprintf("append to %s", l.path), err)
	}

	appendsTotal.Inc()
	return nil
}

// Replay calls fn for every line of the log in file order, blank lines included.
// A missing file is an empty log. Replay stops at the first error returned by fn
// and returns it unchanged.
func (l *File) Replay(fn func(line string) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		Logger.Infof("no log found at %s, starting empty", l.path)
		return nil
	}
	if err != nil {
		return store.WrapError(store.RetCIOError, fmt.Sprintf("open %s", l.path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return store.WrapError(store.RetCIOError, fmt.Sprintf("read %s", l.path), err)
	}
	return nil
}

// ReadAll parses every entry of the log, skipping blank lines, unknown operations
// and malformed lines.
func (l *File) ReadAll() ([]Entry, error) {
	var entries []Entry
	err := l.Replay(func(line string) error {
		if e, err := ParseEntry(line); err == nil {
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

// Close closes the underlying file if it is open. Later appends are refused,
// Replay still works. Closing twice is a no-op.
func (l *File) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	if err != nil {
		return store.WrapError(store.RetCIOError, fmt.Sprintf("close %s", l.path), err)
	}
	return nil
}
