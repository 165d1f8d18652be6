package player

import (
	"time"
)

type fakeEntity struct {
	frames int
	fps    int
	w, h   float64
}

func (e *fakeEntity) Frames() int              { return e.frames }
func (e *fakeEntity) FPS() int                 { return e.fps }
func (e *fakeEntity) Size() (float64, float64) { return e.w, e.h }

func newEntity(frames, fps int) *fakeEntity {
	return &fakeEntity{frames: frames, fps: fps, w: 100, h: 100}
}

type decodeCall struct {
	kind string // "data", "url" or "asset"
	arg  string
	data []byte
	opts DecodeOptions
	done DecodeFunc
}

// fakeDecoder records every call and leaves completion to the test.
type fakeDecoder struct {
	calls []decodeCall
}

func (d *fakeDecoder) DecodeData(data []byte, opts DecodeOptions, done DecodeFunc) {
	d.calls = append(d.calls, decodeCall{kind: "data", arg: opts.CacheKey, data: data, opts: opts, done: done})
}

func (d *fakeDecoder) DecodeURL(url string, opts DecodeOptions, done DecodeFunc) {
	d.calls = append(d.calls, decodeCall{kind: "url", arg: url, opts: opts, done: done})
}

func (d *fakeDecoder) DecodeAsset(name string, opts DecodeOptions, done DecodeFunc) {
	d.calls = append(d.calls, decodeCall{kind: "asset", arg: name, opts: opts, done: done})
}

func (d *fakeDecoder) last() decodeCall {
	if len(d.calls) == 0 {
		return decodeCall{done: func(Entity, error) {}}
	}
	return d.calls[len(d.calls)-1]
}

type fakeRenderer struct {
	delegate   RendererDelegate
	entity     Entity
	current    int
	start, end int
	loops      int
	loopCount  int
	animating  bool
	failStep   bool
	failStart  bool
	steps      []int
	stops      int
	clears     int
	dynamics   int
}

func newRenderer() *fakeRenderer {
	return &fakeRenderer{end: -1}
}

func (r *fakeRenderer) SetDelegate(d RendererDelegate) { r.delegate = d }
func (r *fakeRenderer) SetEntity(e Entity)             { r.entity = e }

func (r *fakeRenderer) StepToFrame(frame int, play bool) bool {
	if r.failStep || isNil(r.entity) || frame < 0 || frame >= r.entity.Frames() {
		return false
	}
	r.current = frame
	r.steps = append(r.steps, frame)
	r.animating = play
	return true
}

func (r *fakeRenderer) StartAnimation() bool {
	if r.failStart || isNil(r.entity) {
		return false
	}
	r.animating = true
	return true
}

func (r *fakeRenderer) PauseAnimation() { r.animating = false }

func (r *fakeRenderer) StopAnimation(clear bool) {
	r.animating = false
	r.stops++
	if clear {
		r.clears++
	}
}

func (r *fakeRenderer) ClearDynamicObjects() { r.dynamics++ }
func (r *fakeRenderer) CurrentFrame() int    { return r.current }
func (r *fakeRenderer) StartFrame() int      { return r.start }
func (r *fakeRenderer) EndFrame() int        { return r.end }
func (r *fakeRenderer) LeadingFrame() int    { return r.start }

func (r *fakeRenderer) TrailingFrame() int {
	if r.end >= 0 {
		return r.end
	}
	return MaxFrame(r.entity)
}

func (r *fakeRenderer) SetFrameRange(start, end int) { r.start, r.end = start, end }
func (r *fakeRenderer) Loops() int                   { return r.loops }
func (r *fakeRenderer) SetLoops(n int)               { r.loops = n }
func (r *fakeRenderer) LoopCount() int               { return r.loopCount }
func (r *fakeRenderer) ResetLoopCount()              { r.loopCount = 0 }

type fade struct {
	alpha float64
	done  func()
}

type fakeSurface struct {
	alpha float64
	fades []fade
}

func (s *fakeSurface) SetAlpha(alpha float64) { s.alpha = alpha }

func (s *fakeSurface) Fade(alpha float64, _ time.Duration, done func()) {
	s.fades = append(s.fades, fade{alpha: alpha, done: done})
}

// finish completes fade i.
func (s *fakeSurface) finish(i int) {
	f := s.fades[i]
	s.alpha = f.alpha
	if f.done != nil {
		f.done()
	}
}

// recorder keeps every event in order.
type recorder struct {
	events []Event
}

func (r *recorder) add(e Event) { r.events = append(r.events, e) }

func (r *recorder) StatusChanged(from, to Status) {
	r.add(Event{Kind: EventStatusChanged, From: from, To: to})
}
func (r *recorder) UnknownSource(s string) { r.add(Event{Kind: EventUnknownSource, Source: s}) }
func (r *recorder) DownloadFailed(s string, err error) {
	r.add(Event{Kind: EventDownloadFailed, Source: s, Err: err})
}
func (r *recorder) DataParseFailed(s string, err error) {
	r.add(Event{Kind: EventDataParseFailed, Source: s, Err: err})
}
func (r *recorder) AssetParseFailed(s string, err error) {
	r.add(Event{Kind: EventAssetParseFailed, Source: s, Err: err})
}
func (r *recorder) EntityInvalid(s string, e Entity, v Validity) {
	r.add(Event{Kind: EventEntityInvalid, Source: s, Entity: e, Reason: v})
}
func (r *recorder) ParseDone(s string, e Entity) {
	r.add(Event{Kind: EventParseDone, Source: s, Entity: e})
}
func (r *recorder) ReadyForPlay(s string, autoplay bool) {
	r.add(Event{Kind: EventReadyForPlay, Source: s, Autoplay: autoplay})
}
func (r *recorder) AnimatingToFrame(s string, frame int) {
	r.add(Event{Kind: EventAnimatingToFrame, Source: s, Frame: frame})
}
func (r *recorder) FinishedOnce(s string, n int) {
	r.add(Event{Kind: EventFinishedOnce, Source: s, LoopCount: n})
}
func (r *recorder) FinishedAll(s string, user bool) {
	r.add(Event{Kind: EventFinishedAll, Source: s, UserInitiated: user})
}

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) statuses() [][2]Status {
	var out [][2]Status
	for _, e := range r.events {
		if e.Kind == EventStatusChanged {
			out = append(out, [2]Status{e.From, e.To})
		}
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

type harness struct {
	player   *Player
	decoder  *fakeDecoder
	renderer *fakeRenderer
	events   *recorder
}

func newHarness(cfg Config, opts ...Option) *harness {
	h := &harness{
		decoder:  &fakeDecoder{},
		renderer: newRenderer(),
		events:   &recorder{},
	}
	opts = append([]Option{WithListener(h.events)}, opts...)
	h.player = New(h.decoder, h.renderer, cfg, opts...)
	return h
}

// playAsset plays source and completes its asset decode with e.
func (h *harness) playAsset(source string, e Entity) {
	h.player.Play(source)
	h.decoder.last().done(e, nil)
}
