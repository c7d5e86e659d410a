// Package cache stores processed output on disk, keyed by a digest of the
// input and the settings it was processed with.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/token"
	"github.com/tliron/commonlog"
	"github.com/vmihailenco/msgpack/v5"
)

func log() commonlog.Logger { return commonlog.GetLogger("omakase.cache") }

// Current schema version. Increment when Entry changes.
const schemaVersion uint16 = 1

// Key identifies a cache entry.
type Key [sha256.Size]byte

// KeyFor returns the key of text processed with the given settings.
func KeyFor(text string, settings ...string) Key {
	h := sha256.New()
	for _, s := range settings {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write([]byte(text))

	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// String returns the key in hex.
func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Entry is the cached result of processing one stylesheet.
type Entry struct {
	Schema      uint16
	Output      string
	Diagnostics []Diagnostic
}

// Diagnostic is the stored form of a broadcast.Diagnostic.
type Diagnostic struct {
	Line     int
	Column   int
	Severity uint8
	Message  string
}

// NewEntry returns an entry for output and its diagnostics.
func NewEntry(output string, diags []broadcast.Diagnostic) *Entry {
	e := &Entry{Schema: schemaVersion, Output: output}
	for _, d := range diags {
		e.Diagnostics = append(e.Diagnostics, Diagnostic{
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
			Severity: uint8(d.Severity),
			Message:  d.Message,
		})
	}
	return e
}

// BroadcastDiagnostics returns the diagnostics of e, attributed to source.
func (e *Entry) BroadcastDiagnostics(source string) []broadcast.Diagnostic {
	var a []broadcast.Diagnostic
	for _, d := range e.Diagnostics {
		a = append(a, broadcast.Diagnostic{
			Pos:      token.Pos{Line: d.Line, Column: d.Column},
			Severity: broadcast.Severity(d.Severity),
			Message:  d.Message,
			Source:   source,
		})
	}
	return a
}

// Cache is a directory of entries. It is safe for concurrent use. A nil
// cache stores nothing.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a cache in dir, creating it if needed. An empty dir selects
// the user cache directory.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "omakase")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) pathFor(k Key) string {
	s := k.String()
	return filepath.Join(c.dir, s[:2], s+".mp")
}

// Put writes e under k, replacing any existing entry.
func (c *Cache) Put(k Key, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(k)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	e.Schema = schemaVersion
	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		return fmt.Errorf("cache: encode %s: %w", k, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry under k. Entries written with another schema are
// treated as missing.
func (c *Cache) Get(k Key) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(k))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", k, err)
	}
	if e.Schema != schemaVersion {
		log().Debugf("stale entry %s: schema %d", k, e.Schema)
		return nil, false, nil
	}
	return &e, true, nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
