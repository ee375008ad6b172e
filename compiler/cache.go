package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the interface for caching rendered documents.
// MemoryCache and FileCache are provided; users may plug in any other
// store (e.g., Redis, Memcached).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies the output of one dialect for one input document
// under one configuration. Name is the base name of the output file.
type CacheKey struct {
	Dialect     string
	Name        string
	Fingerprint string
	Input       []byte
}

// String returns the string representation of the cache key: the dialect
// name followed by the hex SHA-256 of the other parts.
func (k CacheKey) String() string {
	h := sha256.New()
	h.Write([]byte(k.Dialect))
	h.Write([]byte{0})
	h.Write([]byte(k.Name))
	h.Write([]byte{0})
	h.Write([]byte(k.Fingerprint))
	h.Write([]byte{0})
	h.Write(k.Input)
	return k.Dialect + ":" + hex.EncodeToString(h.Sum(nil))
}

// entry is a cached value with its expiration time.
type entry struct {
	Value   []byte    `msgpack:"v"`
	Expires time.Time `msgpack:"e,omitempty"`
}

func (e *entry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}

func newEntry(value []byte, ttl time.Duration, now time.Time) *entry {
	e := &entry{Value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.Expires = now.Add(ttl)
	}
	return e
}

// MemoryCache is a Cache held in process memory. It is safe for concurrent
// use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryCache returns an empty memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*entry), now: time.Now}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.expired(c.now()) {
		return nil, nil
	}
	return append([]byte(nil), e.Value...), nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = newEntry(value, ttl, c.now())
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

// Len returns the number of stored values, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// FileCache is a Cache persisted as a single msgpack manifest file. The
// manifest is read on first use and rewritten on every change. It is safe
// for concurrent use within one process.
type FileCache struct {
	path string

	mu      sync.Mutex
	loaded  bool
	entries map[string]*entry
	now     func() time.Time
}

// NewFileCache returns a cache stored at path. The file is created on the
// first write.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path, now: time.Now}
}

// Path returns the manifest path.
func (c *FileCache) Path() string { return c.path }

// Get implements Cache.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, err
	}
	e, ok := c.entries[key]
	if !ok || e.expired(c.now()) {
		return nil, nil
	}
	return append([]byte(nil), e.Value...), nil
}

// Set implements Cache.
func (c *FileCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return c.update(func(entries map[string]*entry) {
		entries[key] = newEntry(value, ttl, c.now())
	})
}

// Delete implements Cache.
func (c *FileCache) Delete(_ context.Context, key string) error {
	return c.update(func(entries map[string]*entry) {
		delete(entries, key)
	})
}

// DeletePrefix implements Cache.
func (c *FileCache) DeletePrefix(_ context.Context, prefix string) error {
	return c.update(func(entries map[string]*entry) {
		for k := range entries {
			if strings.HasPrefix(k, prefix) {
				delete(entries, k)
			}
		}
	})
}

// Clear implements Cache.
func (c *FileCache) Clear(context.Context) error {
	return c.update(func(entries map[string]*entry) {
		clear(entries)
	})
}

func (c *FileCache) update(fn func(map[string]*entry)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return err
	}
	fn(c.entries)
	now := c.now()
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
	return c.save()
}

// load reads the manifest once. A missing manifest is an empty cache.
func (c *FileCache) load() error {
	if c.loaded {
		return nil
	}
	c.entries = make(map[string]*entry)
	data, err := os.ReadFile(c.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("compiler: read cache %s: %w", c.path, err)
	default:
		if err := msgpack.Unmarshal(data, &c.entries); err != nil {
			return fmt.Errorf("compiler: decode cache %s: %w", c.path, err)
		}
	}
	c.loaded = true
	return nil
}

// save writes the manifest through a temporary file in the same directory.
func (c *FileCache) save() error {
	data, err := msgpack.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("compiler: encode cache: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("compiler: create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("compiler: write cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("compiler: write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("compiler: write cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("compiler: write cache: %w", err)
	}
	return nil
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*FileCache)(nil)
)
