package player

// hideIfNeeded hides the surface before running done. A fade is guarded by
// its own token, so a newer command issued mid-fade drops the completion.
func (p *Player) hideIfNeeded(done func()) {
	if p.surface == nil {
		done()
		return
	}

	if p.cfg.HidesWhenStopped && p.cfg.Animated {
		tok := p.guard.Issue()
		p.surface.Fade(0, p.cfg.FadeDuration, func() {
			if !p.guard.Valid(tok) {
				return
			}
			p.guard.Invalidate()
			done()
		})
		return
	}

	if p.cfg.HidesWhenStopped {
		p.surface.SetAlpha(0)
	}
	done()
}

func (p *Player) show() {
	if p.surface == nil {
		return
	}
	if p.cfg.Animated {
		p.surface.Fade(1, p.cfg.FadeDuration, nil)
		return
	}
	p.surface.SetAlpha(1)
}
