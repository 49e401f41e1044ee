package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"textlen/internal/length"
)

// Current schema version - increment when Entry format changes
const diskCacheSchemaVersion uint16 = 1

// Key identifies a cache entry: SHA-256 over file content and column unit.
type Key [sha256.Size]byte

// KeyFor derives the cache key for content measured in unit.
func KeyFor(contentHash [sha256.Size]byte, unit length.Unit) Key {
	h := sha256.New()
	_, _ = h.Write(contentHash[:])
	var u [2]byte
	binary.BigEndian.PutUint16(u[:], uint16(unit))
	_, _ = h.Write(u[:])
	var out Key
	copy(out[:], h.Sum(nil))
	return out
}

// Entry is the cached measurement of one file.
type Entry struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Length       uint64 // packed length.Length
	LongestWidth uint32
	LongestLine  int
}

// DiskCache хранит результаты измерений на диске по Key.
// Thread-safe for concurrent access. A nil *DiskCache is a disabled cache.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache returns a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Key) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог по первому байту, чтобы не держать всё в одной папке.
	return filepath.Join(c.dir, "len", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes an entry to the disk cache.
func (c *DiskCache) Put(key Key, entry *Entry) (err error) {
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
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	stored := *entry
	stored.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(&stored); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads an entry from the disk cache. Entries written with another
// schema version are reported as misses.
func (c *DiskCache) Get(key Key, out *Entry) (bool, error) {
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

	var entry Entry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return false, err
	}
	if entry.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = entry
	return true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// entryFrom packs measured values for storage.
func entryFrom(l length.Length, width uint32, line int) *Entry {
	return &Entry{Length: uint64(l), LongestWidth: width, LongestLine: line}
}
