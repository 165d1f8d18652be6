package cache

import (
	"errors"
	"fmt"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheMiss is returned when an item is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheCorrupted is returned when cache data is corrupted
	ErrCacheCorrupted = errors.New("cache data corrupted")
)

// Level represents the cache tier
type Level int

const (
	// LevelL1 is the memory cache
	LevelL1 Level = iota

	// LevelL2 is the disk cache
	LevelL2
)

// String returns the string representation of the cache level
func (l Level) String() string {
	switch l {
	case LevelL1:
		return "L1-Memory"
	case LevelL2:
		return "L2-Disk"
	default:
		return "Unknown"
	}
}

// Stats holds cache performance metrics
type Stats struct {
	Capacity  int64 // Maximum capacity in bytes
	Size      int64 // Current size in bytes
	ItemCount int64

	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)

	LastAccess time.Time
	LastEvict  time.Time
}

func (s *Stats) updateHitRate() {
	if s.Hits+s.Misses > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Hits+s.Misses)
	}
}

// Metadata describes a cached item
type Metadata struct {
	Key        string
	Size       int64
	Timestamp  time.Time // When item was cached
	LastAccess time.Time
	Hits       int64
	Level      Level
}

// Config holds configuration for cache instances
type Config struct {
	// Memory cache (L1), in bytes
	MemoryCapacity int64 `yaml:"memory_capacity" mapstructure:"memory_capacity"`

	// Disk cache (L2)
	DiskCapacity     int64  `yaml:"disk_capacity" mapstructure:"disk_capacity"`
	DiskPath         string `yaml:"dir" mapstructure:"dir"`
	CompressionLevel int    `yaml:"compression_level" mapstructure:"compression_level"` // Zstd level, 0 disables

	// Entries older than TTL are dropped by the cleanup routine; 0 keeps them
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`

	// Name of the key generator: identity, md5 or sha256
	Key string `yaml:"key" mapstructure:"key"`
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MemoryCapacity:   64 * 1024 * 1024,  // 64MB
		DiskCapacity:     512 * 1024 * 1024, // 512MB
		CompressionLevel: 3,
		TTL:              7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
		Key:              KeyMD5,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MemoryCapacity < 0 {
		return fmt.Errorf("memory capacity must not be negative, got %d", c.MemoryCapacity)
	}
	if c.DiskCapacity < 0 {
		return fmt.Errorf("disk capacity must not be negative, got %d", c.DiskCapacity)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 22 {
		return fmt.Errorf("compression level must be between 0 and 22, got %d", c.CompressionLevel)
	}
	if _, err := KeyGeneratorByName(c.Key); err != nil {
		return err
	}
	return nil
}

// Cache is a byte cache level.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	Clear() error

	Size() int64
	Contains(key string) bool
	Stats() Stats
}
