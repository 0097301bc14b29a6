package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/aperiosoftware/aas-timeseries/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", "aas-timeseries")},
		{"xdg", "/tmp/xdg-cache", filepath.Join("/tmp/xdg-cache", "aas-timeseries")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatal(err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("--no-cache should give a NullCache, got %T", c)
	}

	c, err = newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("newCache(false) = %T, want *cache.FileCache", c)
	}
	if filepath.Base(fc.Dir()) != appName {
		t.Errorf("cache dir = %q, want it to end in %s", fc.Dir(), appName)
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	fc, err := openCache()
	if err != nil {
		t.Fatal(err)
	}
	key := cache.ArtifactKey([][]byte{[]byte("title = 'x'")}, cache.ArtifactKeyOpts{Format: "svg"})
	if err := fc.Set(ctx, key, []byte("<svg/>"), cache.TTLArtifact); err != nil {
		t.Fatal(err)
	}
	fc.Close()

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
		root.SetOut(&out)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	dir, _ := cacheDir()
	if got := strings.TrimSpace(run("cache", "path")); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
	run("cache", "info")

	run("cache", "clear", "--expired")
	fc, _ = openCache()
	if st, _ := fc.Stats(ctx); st.Entries != 1 {
		t.Errorf("clear --expired removed a live artifact: %+v", st)
	}
	fc.Close()

	run("cache", "clear")
	fc, _ = openCache()
	defer fc.Close()
	if st, _ := fc.Stats(ctx); st.Entries != 0 {
		t.Errorf("entries after clear = %d", st.Entries)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
