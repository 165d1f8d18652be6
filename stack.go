package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/svgaplay/internal/assets"
	"github.com/dgnsrekt/svgaplay/internal/cache"
	"github.com/dgnsrekt/svgaplay/internal/fetch"
	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
	"github.com/dgnsrekt/svgaplay/internal/svga"
)

// stack holds the collaborators shared by every player of one run.
type stack struct {
	fs      afero.Fs
	store   *cache.Store // nil when the download cache is disabled
	client  *fetch.Client
	bundle  *assets.Bundle
	decoder *svga.Decoder
	hooks   player.Hooks
}

// newStack builds the collaborators from the loaded configuration. Every
// completion is handed to dispatch.
func newStack(ctx context.Context, fsys afero.Fs, dispatch runloop.Dispatch) (*stack, error) {
	cacheCfg, err := loadCacheConfig()
	if err != nil {
		return nil, err
	}
	keyOf, err := cache.KeyGeneratorByName(cacheCfg.Key)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	fetchCfg, err := loadFetchConfig()
	if err != nil {
		return nil, err
	}

	s := &stack{fs: fsys}

	var clientOpts []fetch.Option
	if viper.GetBool("cache.enabled") {
		s.store, err = cache.NewStore(fsys, cacheCfg)
		if err != nil {
			return nil, fmt.Errorf("unable to open download cache: %w", err)
		}
		clientOpts = append(clientOpts, fetch.WithStore(s.store, keyOf))
		log.Debug("download cache enabled", "dir", cacheCfg.DiskPath,
			"memory", humanize.IBytes(uint64(cacheCfg.MemoryCapacity)), //nolint:gosec
			"disk", humanize.IBytes(uint64(cacheCfg.DiskCapacity))) //nolint:gosec
	}

	s.client, err = fetch.NewClient(fetchCfg, clientOpts...)
	if err != nil {
		_ = s.Close()
		return nil, err //nolint:wrapcheck
	}

	s.bundle = assets.NewBundle(fsys, assetsDir())
	s.decoder = svga.NewDecoder(ctx, svga.DecoderOptions{
		Assets:        s.bundle,
		Fetcher:       s.client,
		Dispatch:      dispatch,
		CacheCapacity: cacheCfg.MemoryCapacity,
	})
	s.hooks = player.Hooks{
		Resolver:     fetch.NewLocalResolver(fsys),
		Downloader:   fetch.NewDownloader(ctx, s.client, dispatch),
		KeyGenerator: player.KeyGeneratorFunc(keyOf),
	}

	if viper.GetBool("assets.watch") {
		err := s.bundle.Watch(ctx, func(name string) {
			dispatch(func() {
				log.Info("asset changed", "name", name)
				s.decoder.InvalidateAsset(name)
			})
		})
		if err != nil {
			log.Warn("unable to watch assets", "dir", s.bundle.Dir(), "error", err)
		}
	}
	return s, nil
}

// read loads a source the way the resolver would, synchronously: http(s)
// through the client, existing files from disk, anything else from the
// bundle.
func (s *stack) read(ctx context.Context, source string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	fail := func(e error) { err = e }
	c := player.NewContinuation(
		func(b []byte) { data = b },
		fail,
		func(location string) { data, err = s.client.Fetch(ctx, location) },
		func(name string) { data, err = s.bundle.Read(name) },
	)
	fetch.NewLocalResolver(s.fs).Resolve(source, c)
	return data, err
}

// Close flushes pending cache writes.
func (s *stack) Close() error {
	if s.store == nil {
		return nil
	}
	s.store.Flush()
	if st := s.store.Stats(); st.TotalHits+st.TotalMisses > 0 {
		log.Debug("download cache", "hits", st.TotalHits, "misses", st.TotalMisses, "promotions", st.Promotions)
	}
	return s.store.Close() //nolint:wrapcheck
}
