package svga

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"github.com/dgnsrekt/svgaplay/internal/assets"
	"github.com/dgnsrekt/svgaplay/internal/cache"
	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
)

// ErrNoFetcher is returned by DecodeURL when the decoder cannot fetch.
var ErrNoFetcher = errors.New("no fetcher configured")

// AssetReader reads bundled animations by name.
type AssetReader interface {
	Read(name string) ([]byte, error)
}

// Fetcher downloads remote files.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DecoderOptions configures a Decoder.
type DecoderOptions struct {
	Assets   AssetReader
	Fetcher  Fetcher
	Dispatch runloop.Dispatch

	// Memory budget for decoded movies, in bytes.
	CacheCapacity int64

	// Maximum parses running at once; 0 means 4.
	MaxConcurrent int64
}

// Decoder implements player.Decoder. Work runs on background goroutines
// and completions are handed to the dispatch.
type Decoder struct {
	ctx      context.Context
	assets   AssetReader
	fetcher  Fetcher
	dispatch runloop.Dispatch
	movies   *cache.MemoryCache[*Movie]
	sem      *semaphore.Weighted
}

// NewDecoder creates a decoder. Cancelling ctx aborts queued work.
func NewDecoder(ctx context.Context, opts DecoderOptions) *Decoder {
	if opts.Dispatch == nil {
		opts.Dispatch = runloop.Inline
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	return &Decoder{
		ctx:      ctx,
		assets:   opts.Assets,
		fetcher:  opts.Fetcher,
		dispatch: opts.Dispatch,
		movies:   cache.NewMemoryCache(opts.CacheCapacity, (*Movie).Bytes),
		sem:      semaphore.NewWeighted(opts.MaxConcurrent),
	}
}

// DecodeData parses data, reusing a cached movie under opts.CacheKey.
func (d *Decoder) DecodeData(data []byte, opts player.DecodeOptions, done player.DecodeFunc) {
	d.run(opts.CacheKey, opts.MemoryCache, done, func() (*Movie, error) {
		return Parse(data)
	})
}

// DecodeURL fetches and parses url.
func (d *Decoder) DecodeURL(url string, opts player.DecodeOptions, done player.DecodeFunc) {
	d.run(url, opts.MemoryCache, done, func() (*Movie, error) {
		if d.fetcher == nil {
			return nil, ErrNoFetcher
		}
		data, err := d.fetcher.Fetch(d.ctx, url)
		if err != nil {
			return nil, err
		}
		return Parse(data)
	})
}

// DecodeAsset reads and parses a bundled animation.
func (d *Decoder) DecodeAsset(name string, opts player.DecodeOptions, done player.DecodeFunc) {
	d.run(assetKey(name), opts.MemoryCache, done, func() (*Movie, error) {
		if d.assets == nil {
			return nil, fmt.Errorf("asset %q: no asset bundle configured", name)
		}
		data, err := d.assets.Read(name)
		if err != nil {
			return nil, err
		}
		return Parse(data)
	})
}

// InvalidateAsset drops the cached movie of a bundled animation.
func (d *Decoder) InvalidateAsset(name string) {
	_ = d.movies.Delete(assetKey(name))
}

// Purge drops every cached movie.
func (d *Decoder) Purge() {
	_ = d.movies.Clear()
}

// CacheStats reports the decoded movie cache.
func (d *Decoder) CacheStats() cache.Stats {
	return d.movies.Stats()
}

func (d *Decoder) run(key string, useCache bool, done player.DecodeFunc, decode func() (*Movie, error)) {
	if useCache && key != "" {
		if m, ok := d.movies.Get(key); ok {
			log.Debug("decoded movie cache hit", "key", key)
			// Callers run on the control goroutine, which must never block on
			// its own full queue.
			go d.dispatch(func() { done(m, nil) })
			return
		}
	}

	go func() {
		m, err := d.decode(key, decode)
		if err == nil && useCache && key != "" {
			if err := d.movies.Put(key, m); err != nil {
				log.Debug("movie not cached", "key", key, "error", err)
			}
		}

		d.dispatch(func() {
			if err != nil {
				done(nil, err)
				return
			}
			done(m, nil)
		})
	}()
}

func (d *Decoder) decode(key string, decode func() (*Movie, error)) (*Movie, error) {
	if err := d.sem.Acquire(d.ctx, 1); err != nil {
		return nil, err
	}
	defer d.sem.Release(1)

	m, err := decode()
	if err != nil {
		log.Debug("decode failed", "key", key, "error", err)
		return nil, err
	}
	if m.Origin == "" {
		m.Origin = key
	}
	log.Debug("decoded movie", "key", key, "version", m.Version,
		"frames", m.FrameCount, "fps", m.FrameRate, "sprites", len(m.Sprites))
	return m, nil
}

// assetKey names a bundled animation the way the bundle lists it: slash
// separated, without the .svga extension.
func assetKey(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	if ext := path.Ext(name); strings.EqualFold(ext, assets.Ext) {
		name = strings.TrimSuffix(name, ext)
	}
	return "asset:" + name
}

var _ player.Decoder = (*Decoder)(nil)
