package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the payload format changes so stale entries self-invalidate.
const cacheSchemaVersion uint16 = 1

// Cache stores per-package generation results on disk, keyed by a digest of
// the package's sources and generation options. A hit means the outputs on
// disk are already up to date and the package can be skipped entirely.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// OutputMeta records one generated file and the hash of its content.
type OutputMeta struct {
	Path string
	Hash [32]byte
}

// Payload is the cached result of generating one package.
type Payload struct {
	Schema  uint16
	PkgPath string
	Outputs []OutputMeta
}

// OpenCache initializes a cache at the standard user cache location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCacheAt(filepath.Join(base, app))
}

// OpenCacheAt initializes a cache rooted at dir.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "pkgs", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload, replacing any previous entry
// atomically.
func (c *Cache) Put(key [32]byte, payload *Payload) error {
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

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. The boolean reports whether an entry existed and
// carried the current schema.
func (c *Cache) Get(key [32]byte, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// cacheKey folds the package content digest with every option that affects
// the generated bytes.
func cacheKey(pkgPath string, digest [32]byte, suffix, header string) [32]byte {
	h := sha256.New()
	fmt.Fprintf(h, "schema=%d\n", cacheSchemaVersion)
	fmt.Fprintf(h, "pkg=%s\n", pkgPath)
	h.Write(digest[:])
	fmt.Fprintf(h, "\nsuffix=%s\nheader=%s\n", suffix, header)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// outputsUpToDate verifies every recorded output still exists with the
// recorded content.
func outputsUpToDate(payload *Payload) bool {
	for _, out := range payload.Outputs {
		content, err := os.ReadFile(out.Path)
		if err != nil {
			return false
		}
		if sha256.Sum256(content) != out.Hash {
			return false
		}
	}
	return true
}
