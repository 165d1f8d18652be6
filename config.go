package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/svgaplay/internal/cache"
	"github.com/dgnsrekt/svgaplay/internal/fetch"
	"github.com/dgnsrekt/svgaplay/internal/player"
)

// fileConfig mirrors the layout of svgaplay.yml. It only backs the
// config schema; values are read key by key through viper.
type fileConfig struct {
	Player player.Config `yaml:"player"`
	Fetch  fetch.Config  `yaml:"fetch"`
	Cache  cacheSection  `yaml:"cache"`
	Assets assetsSection `yaml:"assets"`
	TUI    tuiSection    `yaml:"tui"`
}

type cacheSection struct {
	Enabled          bool          `yaml:"enabled"`
	Dir              string        `yaml:"dir" jsonschema:"description=Download cache directory; empty uses the user cache dir"`
	MemoryMB         int64         `yaml:"memory_mb"`
	DiskMB           int64         `yaml:"disk_mb"`
	CompressionLevel int           `yaml:"compression_level" jsonschema:"minimum=0,maximum=22"`
	TTL              time.Duration `yaml:"ttl"`
	Key              string        `yaml:"key" jsonschema:"enum=identity,enum=md5,enum=sha256"`
}

type assetsSection struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

type tuiSection struct {
	AutoAdvance bool `yaml:"auto_advance"`
	Mouse       bool `yaml:"mouse"`
}

func setDefaults() {
	player.SetDefaults()

	f := fetch.DefaultConfig()
	viper.SetDefault("fetch.timeout", f.Timeout)
	viper.SetDefault("fetch.requests_per_minute", f.RequestsPerMinute)
	viper.SetDefault("fetch.user_agent", f.UserAgent)
	viper.SetDefault("fetch.max_bytes", f.MaxBytes)

	c := cache.DefaultConfig()
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.memory_mb", c.MemoryCapacity>>20)
	viper.SetDefault("cache.disk_mb", c.DiskCapacity>>20)
	viper.SetDefault("cache.compression_level", c.CompressionLevel)
	viper.SetDefault("cache.ttl", c.TTL)
	viper.SetDefault("cache.key", c.Key)

	viper.SetDefault("assets.dir", ".")
	viper.SetDefault("assets.watch", false)

	viper.SetDefault("tui.auto_advance", true)
	viper.SetDefault("tui.mouse", false)
}

func loadFetchConfig() (fetch.Config, error) {
	cfg := fetch.Config{
		Timeout:           viper.GetDuration("fetch.timeout"),
		RequestsPerMinute: viper.GetInt("fetch.requests_per_minute"),
		UserAgent:         viper.GetString("fetch.user_agent"),
		MaxBytes:          viper.GetInt64("fetch.max_bytes"),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid fetch configuration: %w", err)
	}
	return cfg, nil
}

// loadCacheConfig reads the cache section. An empty dir selects the user
// cache directory.
func loadCacheConfig() (cache.Config, error) {
	cfg := cache.DefaultConfig()
	cfg.MemoryCapacity = viper.GetInt64("cache.memory_mb") << 20
	cfg.DiskCapacity = viper.GetInt64("cache.disk_mb") << 20
	cfg.CompressionLevel = viper.GetInt("cache.compression_level")
	cfg.TTL = viper.GetDuration("cache.ttl")
	cfg.Key = viper.GetString("cache.key")

	dir := viper.GetString("cache.dir")
	if dir == "" {
		base, err := gap.NewScope(gap.User, "svgaplay").CacheDir()
		if err != nil {
			return cfg, fmt.Errorf("unable to find cache directory: %w", err)
		}
		dir = filepath.Join(base, "downloads")
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return cfg, fmt.Errorf("unable to expand cache directory: %w", err)
	}
	cfg.DiskPath = dir

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid cache configuration: %w", err)
	}
	return cfg, nil
}

func assetsDir() string {
	dir, err := homedir.Expand(viper.GetString("assets.dir"))
	if err != nil {
		return viper.GetString("assets.dir")
	}
	return dir
}
