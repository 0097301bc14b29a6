package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// FileCache stores entries as zstd-compressed files in a directory.
type FileCache struct {
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewFileCache creates a file cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &FileCache{dir: dir, enc: enc, dec: dec}, nil
}

type cacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value. Corrupt and expired entries are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	entry, err := c.read(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if entry == nil || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// read loads the entry at path. A nil entry with a nil error means the
// file is not a valid entry.
func (c *FileCache) read(path string) (*cacheEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry cacheEntry
	data, err := c.dec.DecodeAll(raw, nil)
	if err == nil {
		err = json.Unmarshal(data, &entry)
	}
	if err != nil {
		return nil, nil
	}
	return &entry, nil
}

func (e *cacheEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Set stores a value.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, c.enc.EncodeAll(encoded, nil), 0644)
}

// Delete removes a value.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the directory holding the entries.
func (c *FileCache) Dir() string { return c.dir }

// Stats summarizes the entries on disk.
type Stats struct {
	Entries int
	// Expired counts entries past their TTL and unreadable ones.
	Expired int
	// Bytes is the compressed size of all entries.
	Bytes int64
}

// Stats walks the cache directory.
func (c *FileCache) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	now := time.Now()
	err := c.walk(ctx, func(path string, info fs.FileInfo) error {
		st.Entries++
		st.Bytes += info.Size()
		if entry, err := c.read(path); err == nil && (entry == nil || entry.expired(now)) {
			st.Expired++
		}
		return nil
	})
	return st, err
}

// Prune removes expired and unreadable entries, or every entry when all is
// set, and returns how many were removed. Emptied subdirectories are
// removed too.
func (c *FileCache) Prune(ctx context.Context, all bool) (int, error) {
	removed := 0
	now := time.Now()
	err := c.walk(ctx, func(path string, _ fs.FileInfo) error {
		if !all {
			entry, err := c.read(path)
			if err != nil || (entry != nil && !entry.expired(now)) {
				return nil
			}
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, err
	}
	subdirs, _ := os.ReadDir(c.dir)
	for _, d := range subdirs {
		if d.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, d.Name())) // fails unless empty
		}
	}
	return removed, nil
}

// walk calls fn for every entry file.
func (c *FileCache) walk(ctx context.Context, fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".zst") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		return fn(path, info)
	})
}

// Close releases the codecs.
func (c *FileCache) Close() error {
	c.dec.Close()
	return c.enc.Close()
}

// path spreads entries over subdirectories named by the first two hash
// characters.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".zst")
}

var _ Cache = (*FileCache)(nil)
