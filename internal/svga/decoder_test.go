package svga

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
)

type mapAssets map[string][]byte

func (m mapAssets) Read(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, errors.New("no such asset")
	}
	return data, nil
}

type countingFetcher struct {
	mu    sync.Mutex
	data  []byte
	err   error
	calls int
}

func (f *countingFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.data, f.err
}

type result struct {
	entity player.Entity
	err    error
}

// newTestDecoder starts a run loop and returns a decoder bound to it, plus a
// helper that issues one call and waits for its completion.
func newTestDecoder(t *testing.T, opts DecoderOptions) (*Decoder, func(func(*Decoder, player.DecodeFunc)) result) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	loop := runloop.New(4)
	go loop.Run(ctx)

	opts.Dispatch = loop.Dispatch()
	d := NewDecoder(ctx, opts)

	do := func(call func(*Decoder, player.DecodeFunc)) result {
		ch := make(chan result, 1)
		call(d, func(e player.Entity, err error) { ch <- result{e, err} })
		return <-ch
	}
	return d, do
}

func TestDecoderAsset(t *testing.T) {
	assets := mapAssets{"local/a": sampleV2(t, 30, 15), "broken": []byte("nope")}
	_, do := newTestDecoder(t, DecoderOptions{Assets: assets, CacheCapacity: 1 << 20})

	res := do(func(d *Decoder, done player.DecodeFunc) {
		d.DecodeAsset("local/a", player.DecodeOptions{}, done)
	})
	if res.err != nil {
		t.Fatalf("DecodeAsset failed: %v", res.err)
	}
	if res.entity.Frames() != 30 || res.entity.FPS() != 15 {
		t.Errorf("entity = %d frames @ %d fps", res.entity.Frames(), res.entity.FPS())
	}
	if id := res.entity.(player.SourceIdentifier).SourceID(); id != "asset:local/a" {
		t.Errorf("origin = %q", id)
	}

	for _, name := range []string{"broken", "missing"} {
		res := do(func(d *Decoder, done player.DecodeFunc) {
			d.DecodeAsset(name, player.DecodeOptions{}, done)
		})
		if res.err == nil || res.entity != nil {
			t.Errorf("%s: got (%v, %v), want an error and no entity", name, res.entity, res.err)
		}
	}
}

func TestDecoderMemoryCache(t *testing.T) {
	fetcher := &countingFetcher{data: sampleV2(t, 10, 10)}
	d, do := newTestDecoder(t, DecoderOptions{Fetcher: fetcher, CacheCapacity: 1 << 20})

	decode := func(cached bool) result {
		return do(func(d *Decoder, done player.DecodeFunc) {
			d.DecodeURL("https://x/a.svga", player.DecodeOptions{MemoryCache: cached}, done)
		})
	}

	first := decode(true)
	second := decode(true)
	if first.err != nil || second.err != nil {
		t.Fatalf("decode errors: %v, %v", first.err, second.err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 with caching", fetcher.calls)
	}
	if first.entity != second.entity {
		t.Error("cached decode returned a different movie")
	}

	decode(false)
	if fetcher.calls != 2 {
		t.Errorf("fetch calls = %d, want 2 without caching", fetcher.calls)
	}

	d.Purge()
	decode(true)
	if fetcher.calls != 3 {
		t.Errorf("fetch calls = %d, want 3 after purge", fetcher.calls)
	}
}

func TestDecoderInvalidateAsset(t *testing.T) {
	assets := mapAssets{"a": sampleV2(t, 10, 10)}
	d, do := newTestDecoder(t, DecoderOptions{Assets: assets, CacheCapacity: 1 << 20})

	decode := func() player.Entity {
		return do(func(d *Decoder, done player.DecodeFunc) {
			d.DecodeAsset("a", player.DecodeOptions{MemoryCache: true}, done)
		}).entity
	}

	first := decode()
	assets["a"] = sampleV2(t, 20, 10)
	if decode() != first {
		t.Fatal("second decode should hit the cache")
	}

	d.InvalidateAsset("a")
	if got := decode(); got.Frames() != 20 {
		t.Errorf("frames after invalidate = %d, want 20", got.Frames())
	}
}

func TestDecoderData(t *testing.T) {
	_, do := newTestDecoder(t, DecoderOptions{CacheCapacity: 1 << 20})

	res := do(func(d *Decoder, done player.DecodeFunc) {
		d.DecodeData(sampleV2(t, 5, 5), player.DecodeOptions{CacheKey: "k", MemoryCache: true}, done)
	})
	if res.err != nil || res.entity.Frames() != 5 {
		t.Fatalf("DecodeData = (%v, %v)", res.entity, res.err)
	}

	res = do(func(d *Decoder, done player.DecodeFunc) {
		d.DecodeData([]byte("garbage"), player.DecodeOptions{}, done)
	})
	if !errors.Is(res.err, ErrUnsupportedFormat) || res.entity != nil {
		t.Errorf("garbage = (%v, %v), want ErrUnsupportedFormat", res.entity, res.err)
	}
}

func TestDecoderWithoutFetcher(t *testing.T) {
	_, do := newTestDecoder(t, DecoderOptions{})
	res := do(func(d *Decoder, done player.DecodeFunc) {
		d.DecodeURL("https://x/a.svga", player.DecodeOptions{}, done)
	})
	if !errors.Is(res.err, ErrNoFetcher) {
		t.Errorf("error = %v, want ErrNoFetcher", res.err)
	}
}

func TestDecoderInvalidateAssetByListedName(t *testing.T) {
	assets := mapAssets{"gifts/a.svga": sampleV2(t, 10, 10)}
	d, do := newTestDecoder(t, DecoderOptions{Assets: assets, CacheCapacity: 1 << 20})

	decode := func() player.Entity {
		return do(func(d *Decoder, done player.DecodeFunc) {
			d.DecodeAsset("gifts/a.svga", player.DecodeOptions{MemoryCache: true}, done)
		}).entity
	}

	decode()
	assets["gifts/a.svga"] = sampleV2(t, 20, 10)

	// The bundle and its watcher name assets without the extension.
	d.InvalidateAsset("gifts/a")
	if got := decode(); got.Frames() != 20 {
		t.Errorf("frames after change and invalidate = %d, want 20", got.Frames())
	}
}

func TestAssetKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a", "asset:a"},
		{"a.svga", "asset:a"},
		{"a.SVGA", "asset:a"},
		{"./gifts/car.svga", "asset:gifts/car"},
		{"notes.md", "asset:notes.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assetKey(tt.name); got != tt.want {
				t.Errorf("assetKey(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestDecoderCacheHitDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := runloop.New(1)
	loop.Post(func() {}) // queue full until Run starts
	d := NewDecoder(ctx, DecoderOptions{Dispatch: loop.Dispatch(), CacheCapacity: 1 << 20})

	m, err := Parse(sampleV2(t, 5, 5))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.movies.Put("k", m); err != nil {
		t.Fatal(err)
	}

	got := make(chan player.Entity, 1)
	returned := make(chan struct{})
	go func() {
		d.DecodeData(nil, player.DecodeOptions{CacheKey: "k", MemoryCache: true}, func(e player.Entity, _ error) {
			got <- e
		})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("cache hit blocked on a full run loop")
	}

	go loop.Run(ctx)
	select {
	case e := <-got:
		if e != m {
			t.Errorf("entity = %v, want the cached movie", e)
		}
	case <-time.After(time.Second):
		t.Fatal("cache hit was never delivered")
	}
}
