package player

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// intent is the start request captured when a load begins.
type intent struct {
	frame    int
	autoplay bool
}

// Player owns the current source, entity and status of one animation.
type Player struct {
	cfg      Config
	decoder  Decoder
	renderer Renderer
	hooks    Hooks
	listener Listener
	surface  Surface
	logger   *log.Logger

	guard   Guard
	status  Status
	source  string
	entity  Entity
	pending intent
}

// Option configures a Player.
type Option func(*Player)

// WithHooks installs resolution hooks.
func WithHooks(h Hooks) Option {
	return func(p *Player) { p.hooks = h }
}

// WithListener installs the event listener.
func WithListener(l Listener) Option {
	return func(p *Player) { p.listener = l }
}

// WithSurface attaches the surface whose visibility the player manages.
func WithSurface(s Surface) Option {
	return func(p *Player) { p.surface = s }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// New creates a Player driving r with entities produced by d.
func New(d Decoder, r Renderer, cfg Config, opts ...Option) *Player {
	p := &Player{
		cfg:      cfg,
		decoder:  d,
		renderer: r,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.WithPrefix("player")
	}
	if cfg.Debug {
		p.logger.SetLevel(log.DebugLevel)
	}

	r.SetDelegate(rendererEvents{p})
	r.SetLoops(cfg.Loops)
	r.SetFrameRange(cfg.StartFrame, cfg.EndFrame)

	if p.surface != nil && cfg.HidesWhenStopped {
		p.surface.SetAlpha(0)
	}
	return p
}

// Status returns the current status.
func (p *Player) Status() Status { return p.status }

func (p *Player) IsIdle() bool    { return p.status == Idle }
func (p *Player) IsLoading() bool { return p.status == Loading }
func (p *Player) IsPlaying() bool { return p.status == Playing }
func (p *Player) IsPaused() bool  { return p.status == Paused }
func (p *Player) IsStopped() bool { return p.status == Stopped }

// Source returns the current source identifier, or "" when cleared.
func (p *Player) Source() string { return p.source }

// Entity returns the held entity, or nil.
func (p *Player) Entity() Entity { return p.entity }

// Config returns a copy of the current configuration.
func (p *Player) Config() Config { return p.cfg }

func (p *Player) CurrentFrame() int  { return p.renderer.CurrentFrame() }
func (p *Player) LeadingFrame() int  { return p.renderer.LeadingFrame() }
func (p *Player) TrailingFrame() int { return p.renderer.TrailingFrame() }
func (p *Player) LoopCount() int     { return p.renderer.LoopCount() }
func (p *Player) Loops() int         { return p.renderer.Loops() }

// DebugInfo summarizes the player for diagnostics.
func (p *Player) DebugInfo() string {
	return fmt.Sprintf("source: %s, status: %s, startFrame: %d, endFrame: %d, currentFrame: %d, loops: %d, loopCount: %d",
		p.source, p.status, p.renderer.StartFrame(), p.renderer.EndFrame(),
		p.renderer.CurrentFrame(), p.renderer.Loops(), p.renderer.LoopCount())
}

// Play loads source and plays it from the leading frame.
func (p *Player) Play(source string) {
	p.PlayFrom(source, p.renderer.LeadingFrame(), true)
}

// PlayFrom loads source and seeks to frame, animating if autoplay is set.
// A different source hides the surface first, when configured to.
func (p *Player) PlayFrom(source string, frame int, autoplay bool) {
	if p.source == source {
		p.load(source, frame, autoplay)
		return
	}

	p.source = source
	p.entity = nil
	p.guard.Invalidate()
	p.setStatus(Idle)

	p.hideIfNeeded(func() {
		p.load(source, frame, autoplay)
	})
}

// PlayEntity plays an already decoded entity from the leading frame.
func (p *Player) PlayEntity(e Entity) {
	p.PlayEntityFrom(e, p.renderer.LeadingFrame(), true)
}

// PlayEntityFrom plays an already decoded entity, skipping resolution. The
// entity is still validated.
func (p *Player) PlayEntityFrom(e Entity, frame int, autoplay bool) {
	p.guard.Invalidate()

	source := entitySource(e)
	if !p.validate(source, e) {
		return
	}

	if p.source == source && sameEntity(p.entity, e) {
		p.seek(frame, autoplay, false)
		return
	}

	p.source = source
	p.entity = nil
	p.setStatus(Idle)

	p.hideIfNeeded(func() {
		p.renderer.StopAnimation(true)
		p.renderer.ClearDynamicObjects()

		p.entity = e
		p.renderer.SetEntity(e)
		p.seek(frame, autoplay, true)
	})
}

// Resume continues a paused animation. Otherwise it plays the current
// source from the current frame, loading it if needed.
func (p *Player) Resume() {
	switch p.status {
	case Paused:
		if p.renderer.StartAnimation() {
			p.logger.Debug("resumed", "source", p.source)
			p.setStatus(Playing)
		} else {
			p.logger.Debug("resume failed, staying paused", "source", p.source)
			p.renderer.PauseAnimation()
		}
	case Playing:
		return
	default:
		p.PlayCurrent(p.renderer.CurrentFrame(), true)
	}
}

// PlayCurrent seeks the current source to frame, loading it first when no
// entity is held. It does nothing without a source.
func (p *Player) PlayCurrent(frame int, autoplay bool) {
	if p.source == "" {
		return
	}
	if p.entity == nil {
		p.logger.Debug("play needs load", "source", p.source)
		p.load(p.source, frame, autoplay)
		return
	}
	p.seek(frame, autoplay, false)
}

// Reset returns to the leading frame, loading the source if needed.
func (p *Player) Reset(autoplay bool) {
	p.PlayCurrent(p.renderer.LeadingFrame(), autoplay)
}

// Pause halts a playing animation. Called during a load, it cancels the
// pending autoplay instead.
func (p *Player) Pause() {
	if p.status != Playing {
		p.pending.autoplay = false
		return
	}
	p.renderer.PauseAnimation()
	p.setStatus(Paused)
}

// Stop ends playback. With clear, the source and entity are dropped and the
// player returns to idle; otherwise it parks on the leading or trailing
// frame. FinishedAll is reported as user initiated. Without a source there
// is nothing to finish; the player just settles on idle.
func (p *Player) Stop(clear bool) {
	source := p.source
	if source == "" {
		p.stop(true)
		return
	}
	p.hideIfNeeded(func() {
		p.stop(clear)
		if p.listener != nil {
			p.listener.FinishedAll(source, true)
		}
	})
}

// Detach force-clears the player synchronously, for when its surface goes
// away. Outstanding loads become stale.
func (p *Player) Detach() {
	p.logger.Debug("detached", "source", p.source)
	p.stop(true)
}

// SetAnimated toggles fade transitions.
func (p *Player) SetAnimated(b bool) { p.cfg.Animated = b }

// SetHidesWhenStopped toggles hiding while inactive and applies it at once.
func (p *Player) SetHidesWhenStopped(b bool) {
	p.cfg.HidesWhenStopped = b
	if p.surface == nil {
		return
	}
	switch p.status {
	case Idle, Loading, Stopped:
		p.surface.SetAlpha(lo.Ternary(b, 0.0, 1.0))
	default:
		p.surface.SetAlpha(1)
	}
}

// SetStepToTrailingWhenStopped picks the stop frame. A stopped player moves
// to the new frame immediately.
func (p *Player) SetStepToTrailingWhenStopped(b bool) {
	p.cfg.StepToTrailingWhenStopped = b
	if p.status == Stopped {
		p.renderer.StepToFrame(p.restFrame(), false)
	}
}

// SetReversed plays backwards when the renderer supports it and reports
// whether it does. A stopped player moves to its new rest frame.
func (p *Player) SetReversed(b bool) bool {
	r, ok := p.renderer.(Reverser)
	if !ok {
		return false
	}
	r.SetReversed(b)
	if p.status == Stopped {
		p.renderer.StepToFrame(p.restFrame(), false)
	}
	return true
}

// IsReversed reports whether playback runs backwards.
func (p *Player) IsReversed() bool {
	r, ok := p.renderer.(Reverser)
	return ok && r.IsReversed()
}

// SetResetLoopCountWhenStopped toggles loop counter resets on non-clearing
// stops.
func (p *Player) SetResetLoopCountWhenStopped(b bool) { p.cfg.ResetLoopCountWhenStopped = b }

// SetMemoryCache toggles decoder memory caching for future loads.
func (p *Player) SetMemoryCache(b bool) { p.cfg.MemoryCache = b }

// SetLoops sets the renderer loop budget; 0 loops forever.
func (p *Player) SetLoops(n int) {
	p.cfg.Loops = n
	p.renderer.SetLoops(n)
}

// SetFrameRange restricts playback to [start, end]; end -1 means the last
// frame.
func (p *Player) SetFrameRange(start, end int) {
	p.cfg.StartFrame, p.cfg.EndFrame = start, end
	p.renderer.SetFrameRange(start, end)
}

func (p *Player) setStatus(to Status) {
	from := p.status
	if from == to {
		return
	}
	if !expectedTransition(from, to) {
		p.logger.Debug("unexpected status transition", "from", from, "to", to)
	}
	p.status = to
	p.logger.Debug("status changed", "source", p.source, "from", from, "to", to)

	if p.listener != nil {
		p.listener.StatusChanged(from, to)
	}
}

// seek moves the renderer to frame and settles on playing or paused.
func (p *Player) seek(frame int, autoplay, fresh bool) {
	if fresh && p.listener != nil {
		p.listener.ReadyForPlay(p.source, autoplay)
	}

	if p.renderer.StepToFrame(frame, autoplay) {
		p.logger.Debug("stepped to frame", "source", p.source, "frame", frame, "autoplay", autoplay)
		p.setStatus(lo.Ternary(autoplay, Playing, Paused))
	} else {
		p.logger.Debug("cannot step to frame", "source", p.source, "frame", frame)
		p.renderer.PauseAnimation()
		p.setStatus(Paused)
	}

	p.show()
}

// stop halts the renderer and either clears everything or parks on the
// rest frame. It always invalidates the live token. A player without a
// source is always cleared.
func (p *Player) stop(clear bool) {
	clear = clear || p.source == ""

	p.guard.Invalidate()
	p.renderer.StopAnimation(clear)

	if p.cfg.ResetLoopCountWhenStopped || clear {
		p.renderer.ResetLoopCount()
	}

	if clear {
		p.source = ""
		p.entity = nil
		p.renderer.SetEntity(nil)
		p.renderer.ClearDynamicObjects()
		p.logger.Debug("stopped and cleared")
		p.setStatus(Idle)
		return
	}

	p.renderer.StepToFrame(p.restFrame(), false)
	p.logger.Debug("stopped", "source", p.source, "frame", p.restFrame())
	p.setStatus(Stopped)
}

func (p *Player) restFrame() int {
	return lo.Ternary(p.cfg.StepToTrailingWhenStopped, p.renderer.TrailingFrame(), p.renderer.LeadingFrame())
}

// rendererEvents adapts renderer callbacks without exposing them on Player.
type rendererEvents struct {
	p *Player
}

func (r rendererEvents) DidAnimate(frame int) {
	if r.p.listener != nil {
		r.p.listener.AnimatingToFrame(r.p.source, frame)
	}
}

func (r rendererEvents) DidFinishOnce(loopCount int) {
	if r.p.listener != nil {
		r.p.listener.FinishedOnce(r.p.source, loopCount)
	}
}

func (r rendererEvents) DidFinishAll() {
	p := r.p
	source := p.source
	p.logger.Debug("finished all loops", "source", source)
	p.hideIfNeeded(func() {
		p.stop(false)
		if p.listener != nil {
			p.listener.FinishedAll(source, false)
		}
	})
}
