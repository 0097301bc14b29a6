package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	inputs := [][]byte{[]byte("title = 'a'"), []byte("time,flux\n")}
	k1 := ArtifactKey(inputs, ArtifactKeyOpts{Format: "svg"})
	if k1 != ArtifactKey(inputs, ArtifactKeyOpts{Format: "svg"}) {
		t.Error("ArtifactKey should be deterministic")
	}

	tests := []struct {
		name   string
		inputs [][]byte
		opts   ArtifactKeyOpts
	}{
		{"format", inputs, ArtifactKeyOpts{Format: "zip"}},
		{"embed", inputs, ArtifactKeyOpts{Format: "svg", Embed: true}},
		{"size", inputs, ArtifactKeyOpts{Format: "svg", Width: 400}},
		{"data", [][]byte{inputs[0], []byte("time,flux\n1,2\n")}, ArtifactKeyOpts{Format: "svg"}},
		{"order", [][]byte{inputs[1], inputs[0]}, ArtifactKeyOpts{Format: "svg"}},
	}
	for _, tt := range tests {
		if ArtifactKey(tt.inputs, tt.opts) == k1 {
			t.Errorf("%s: key should change", tt.name)
		}
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	value := []byte(strings.Repeat("<svg></svg>", 100))
	if err := c.Set(ctx, "key", value, time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != string(value) {
		t.Error("cached value differs")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry returned")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not zstd"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCacheStatsAndPrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := ArtifactKey([][]byte{[]byte("title = 'x'")}, ArtifactKeyOpts{Format: "svg"})
	if err := c.Set(ctx, key, []byte("<svg/>"), TTLArtifact); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)

	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 2 || st.Expired != 1 || st.Bytes == 0 {
		t.Errorf("Stats = %+v, want 2 entries with 1 expired", st)
	}

	n, err := c.Prune(ctx, false)
	if err != nil || n != 1 {
		t.Fatalf("Prune(expired) = %d, %v", n, err)
	}
	if _, hit, _ := c.Get(ctx, key); !hit {
		t.Error("live entry pruned")
	}

	n, err = c.Prune(ctx, true)
	if err != nil || n != 1 {
		t.Fatalf("Prune(all) = %d, %v", n, err)
	}
	if st, _ := c.Stats(ctx); st.Entries != 0 {
		t.Errorf("Stats after prune = %+v", st)
	}
	dirs, _ := os.ReadDir(c.Dir())
	if len(dirs) != 0 {
		t.Errorf("%d subdirectories left after prune", len(dirs))
	}
}

func TestFileCacheStatsMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	st, err := c.Stats(context.Background())
	if err != nil || st.Entries != 0 {
		t.Errorf("Stats = %+v, %v", st, err)
	}
}
