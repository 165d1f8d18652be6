package player

import "time"

// DecodeOptions is passed to every Decoder entry point.
type DecodeOptions struct {
	// CacheKey names the decoded result for byte decodes. Empty for URL and
	// asset decodes, which key on their own location.
	CacheKey string
	// MemoryCache allows the decoder to reuse a previously decoded entity.
	MemoryCache bool
}

// DecodeFunc receives the outcome of a decode. Exactly one of entity and err
// is expected to be non-nil; a nil entity with a nil error is treated as an
// empty result.
type DecodeFunc func(entity Entity, err error)

// Decoder turns bytes, a URL or an asset name into an Entity. Completions
// must be delivered on the player's control goroutine.
type Decoder interface {
	DecodeData(data []byte, opts DecodeOptions, done DecodeFunc)
	DecodeURL(url string, opts DecodeOptions, done DecodeFunc)
	DecodeAsset(name string, opts DecodeOptions, done DecodeFunc)
}

// RendererDelegate receives renderer notifications. Calls must arrive on the
// player's control goroutine.
type RendererDelegate interface {
	DidAnimate(frame int)
	DidFinishOnce(loopCount int)
	DidFinishAll()
}

// Renderer draws an Entity frame by frame. The player is its only caller;
// none of these primitives are exposed through the player.
type Renderer interface {
	SetDelegate(d RendererDelegate)
	SetEntity(e Entity)

	// StepToFrame seeks to frame and optionally starts animating. It reports
	// false when no entity is set or frame is out of range.
	StepToFrame(frame int, play bool) bool
	// StartAnimation resumes from the current frame.
	StartAnimation() bool
	PauseAnimation()
	// StopAnimation halts playback; clear also blanks the drawn output.
	StopAnimation(clear bool)
	ClearDynamicObjects()

	CurrentFrame() int
	StartFrame() int
	EndFrame() int
	LeadingFrame() int
	TrailingFrame() int
	SetFrameRange(start, end int)

	Loops() int
	SetLoops(n int)
	LoopCount() int
	ResetLoopCount()
}

// Reverser is implemented by renderers that can play their range
// backwards, swapping the leading and trailing frames.
type Reverser interface {
	SetReversed(b bool)
	IsReversed() bool
}

// Surface is the visual container whose visibility the player manages.
type Surface interface {
	SetAlpha(alpha float64)
	// Fade animates to alpha over d and calls done, if non-nil, on the
	// player's control goroutine once finished.
	Fade(alpha float64, d time.Duration, done func())
}
