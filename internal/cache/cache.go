// Package cache persists per-file analysis results between runs. Entries are
// keyed by the file's normalized content hash combined with a fingerprint of
// the engine configuration, so either kind of change invalidates naturally.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"loupe/internal/diag"
)

// Increment when the payload format changes; stale entries are ignored.
const schemaVersion uint16 = 1

// Digest identifies one cache entry.
type Digest [32]byte

// Key combines a content hash with the configuration fingerprint.
func Key(contentHash [32]byte, fingerprint string) Digest {
	h := sha256.New()
	h.Write(contentHash[:])
	h.Write([]byte(fingerprint))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// payload is the on-disk entry.
type payload struct {
	Schema uint16
	Result diag.FileResult
}

// Cache is a disk cache of file results. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes the cache at the standard XDG location for the given app
// name.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenAt(filepath.Join(base, app))
}

// OpenAt initializes the cache in an explicit directory.
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a file result. The write goes through a temp
// file and an atomic rename so a concurrent reader never sees a torn entry.
func (c *Cache) Put(key Digest, result diag.FileResult) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload{Schema: schemaVersion, Result: result}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a cached file result. A missing or stale-schema entry is a miss,
// not an error.
func (c *Cache) Get(key Digest) (diag.FileResult, bool, error) {
	if c == nil {
		return diag.FileResult{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return diag.FileResult{}, false, nil
		}
		return diag.FileResult{}, false, err
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return diag.FileResult{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if p.Schema != schemaVersion {
		return diag.FileResult{}, false, nil
	}
	return p.Result, true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
