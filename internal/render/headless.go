// Package render provides a frame clock that drives an entity without
// drawing it. Frontends read the current frame and draw it themselves.
package render

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
)

// Headless implements player.Renderer with a ticker. All methods must be
// called on the control goroutine; ticks are dispatched onto it.
type Headless struct {
	dispatch runloop.Dispatch
	delegate player.RendererDelegate
	entity   player.Entity

	current    int
	start, end int // end -1 means the last frame
	reversed   bool

	loops     int // 0 loops forever
	loopCount int

	dynamics map[string]any

	// gen identifies the running ticker; ticks of older tickers are ignored.
	gen  int
	stop chan struct{}
}

// NewHeadless creates a renderer whose ticks are dispatched through d.
func NewHeadless(d runloop.Dispatch) *Headless {
	if d == nil {
		d = runloop.Inline
	}
	return &Headless{
		dispatch: d,
		end:      -1,
		dynamics: map[string]any{},
	}
}

func (h *Headless) SetDelegate(d player.RendererDelegate) { h.delegate = d }

// SetEntity replaces the entity and parks on the leading frame.
func (h *Headless) SetEntity(e player.Entity) {
	h.halt()
	h.entity = e
	h.current = h.LeadingFrame()
}

// Entity returns the current entity.
func (h *Headless) Entity() player.Entity { return h.entity }

// StepToFrame moves to frame, which must lie within the frame range, and
// optionally starts animating from there.
func (h *Headless) StepToFrame(frame int, play bool) bool {
	if h.entity == nil || frame < h.firstFrame() || frame > h.lastFrame() {
		return false
	}

	h.current = frame
	if play {
		return h.StartAnimation()
	}
	h.halt()
	return true
}

// StartAnimation starts the ticker at the entity's frame rate.
func (h *Headless) StartAnimation() bool {
	if h.entity == nil || h.entity.FPS() <= 0 {
		return false
	}
	if h.IsAnimating() {
		return true
	}

	h.gen++
	gen := h.gen
	stop := make(chan struct{})
	h.stop = stop

	interval := time.Second / time.Duration(h.entity.FPS())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.dispatch(func() { h.tick(gen) })
			case <-stop:
				return
			}
		}
	}()

	log.Debug("renderer started", "frame", h.current, "interval", interval)
	return true
}

func (h *Headless) PauseAnimation() { h.halt() }

// StopAnimation halts the ticker. With clear, the dynamic objects go too.
func (h *Headless) StopAnimation(clear bool) {
	h.halt()
	if clear {
		h.ClearDynamicObjects()
	}
}

// IsAnimating reports whether the ticker is running.
func (h *Headless) IsAnimating() bool { return h.stop != nil }

// SetDynamicObject attaches a replacement object to key.
func (h *Headless) SetDynamicObject(key string, v any) { h.dynamics[key] = v }

// DynamicObjects returns the number of attached dynamic objects.
func (h *Headless) DynamicObjects() int { return len(h.dynamics) }

func (h *Headless) ClearDynamicObjects() { clear(h.dynamics) }

func (h *Headless) CurrentFrame() int { return h.current }
func (h *Headless) StartFrame() int   { return h.start }
func (h *Headless) EndFrame() int     { return h.end }

// LeadingFrame is where playback begins: the range start, or its end when
// reversed.
func (h *Headless) LeadingFrame() int {
	if h.reversed {
		return h.lastFrame()
	}
	return h.firstFrame()
}

// TrailingFrame is where playback ends.
func (h *Headless) TrailingFrame() int {
	if h.reversed {
		return h.firstFrame()
	}
	return h.lastFrame()
}

// SetFrameRange restricts playback to [start, end]. The current frame is
// clamped into the new range.
func (h *Headless) SetFrameRange(start, end int) {
	h.start, h.end = max(start, 0), end
	h.current = min(max(h.current, h.firstFrame()), h.lastFrame())
}

// SetReversed plays the range backwards.
func (h *Headless) SetReversed(b bool) { h.reversed = b }

// IsReversed reports whether playback runs backwards.
func (h *Headless) IsReversed() bool { return h.reversed }

func (h *Headless) Loops() int      { return h.loops }
func (h *Headless) SetLoops(n int)  { h.loops = max(n, 0) }
func (h *Headless) LoopCount() int  { return h.loopCount }
func (h *Headless) ResetLoopCount() { h.loopCount = 0 }

func (h *Headless) maxFrame() int { return player.MaxFrame(h.entity) }

func (h *Headless) firstFrame() int { return min(h.start, h.maxFrame()) }

func (h *Headless) lastFrame() int {
	if h.end < 0 || h.end > h.maxFrame() {
		return h.maxFrame()
	}
	return max(h.end, h.firstFrame())
}

// tick advances one frame. Reaching the trailing frame completes a loop;
// the last allowed loop stops the ticker and reports completion.
func (h *Headless) tick(gen int) {
	if h.stop == nil || gen != h.gen || h.entity == nil {
		return
	}

	if h.current == h.TrailingFrame() {
		h.loopCount++
		if h.delegate != nil {
			h.delegate.DidFinishOnce(h.loopCount)
		}
		if h.loops > 0 && h.loopCount >= h.loops {
			h.halt()
			if h.delegate != nil {
				h.delegate.DidFinishAll()
			}
			return
		}
		h.current = h.LeadingFrame()
	} else if h.reversed {
		h.current--
	} else {
		h.current++
	}

	if h.delegate != nil {
		h.delegate.DidAnimate(h.current)
	}
}

func (h *Headless) halt() {
	if h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
}

var _ player.Renderer = (*Headless)(nil)
