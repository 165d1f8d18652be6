package ui

import (
	"time"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
)

// surface is the player's view of the canvas. Alpha only decides how the
// canvas is drawn: hidden, faint or normal.
type surface struct {
	dispatch runloop.Dispatch
	alpha    float64
	fading   bool

	// gen drops completions of superseded fades.
	gen   int
	timer *time.Timer
}

func newSurface(d runloop.Dispatch) *surface {
	return &surface{dispatch: d, alpha: 1}
}

func (s *surface) SetAlpha(alpha float64) {
	s.cancel()
	s.alpha = alpha
}

func (s *surface) Fade(alpha float64, d time.Duration, done func()) {
	s.cancel()
	if d <= 0 {
		s.alpha = alpha
		if done != nil {
			done()
		}
		return
	}

	s.fading = true
	gen := s.gen
	s.timer = time.AfterFunc(d, func() {
		s.dispatch(func() {
			if gen != s.gen {
				return
			}
			s.fading = false
			s.alpha = alpha
			if done != nil {
				done()
			}
		})
	})
}

func (s *surface) hidden() bool { return s.alpha <= 0 && !s.fading }

func (s *surface) faint() bool { return s.fading || s.alpha < 1 }

func (s *surface) cancel() {
	s.gen++
	s.fading = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

var _ player.Surface = (*surface)(nil)
