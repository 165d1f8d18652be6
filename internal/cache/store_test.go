package cache

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MemoryCapacity = 1024
	cfg.DiskCapacity = 10240
	cfg.DiskPath = "/cache"
	cfg.CleanupInterval = 0
	return cfg
}

func TestStore_BasicOperations(t *testing.T) {
	store, err := NewStore(afero.NewMemMapFs(), testConfig())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	store.Flush()

	got, ok := store.Get("k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Get("k"); ok {
		t.Error("Key still exists after delete")
	}

	stats := store.Stats()
	if stats.L1Hits != 1 || stats.TotalMisses != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStore_PromotesDiskHits(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store, err := NewStore(fsys, testConfig())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	store.Put("k", []byte("payload"))
	store.Close()

	// A new store starts with an empty memory level.
	store, err = NewStore(fsys, testConfig())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.Get("k"); !ok {
		t.Fatal("disk entry not found after reopen")
	}
	if _, ok := store.Get("k"); !ok {
		t.Fatal("promoted entry not found")
	}

	stats := store.Stats()
	if stats.L2Hits != 1 || stats.L1Hits != 1 || stats.Promotions != 1 {
		t.Errorf("stats = %+v, want one disk hit then one memory hit", stats)
	}
}

func TestStore_MemoryOnly(t *testing.T) {
	cfg := testConfig()
	cfg.DiskPath = ""
	store, err := NewStore(afero.NewMemMapFs(), cfg)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer store.Close()

	store.Put("k", []byte("v"))
	if _, ok := store.Get("k"); !ok {
		t.Error("memory-only store lost the entry")
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear failed: %v", err)
	}
}

func TestStore_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"negative memory", func(c *Config) { c.MemoryCapacity = -1 }, "memory capacity must not be negative"},
		{"compression too high", func(c *Config) { c.CompressionLevel = 30 }, "compression level must be between"},
		{"unknown key", func(c *Config) { c.Key = "crc32" }, "cache key must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			_, err := NewStore(afero.NewMemMapFs(), cfg)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}
