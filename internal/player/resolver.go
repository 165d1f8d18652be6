package player

import (
	"net/url"
	"strings"
)

// load resolves source into an entity and plays it with the given intent.
func (p *Player) load(source string, frame int, autoplay bool) {
	if source == "" {
		p.stop(true)
		p.fail(newLoadError(ErrUnknownSource, source, nil))
		return
	}

	if p.source == source && p.entity != nil {
		p.logger.Debug("entity already held, skipping resolution", "source", source)
		p.guard.Invalidate()
		p.seek(frame, autoplay, false)
		return
	}

	p.pending = intent{frame: frame, autoplay: autoplay}

	if p.status == Loading {
		p.logger.Debug("already loading", "source", source)
		return
	}
	p.setStatus(Loading)

	p.logger.Debug("loading", "source", source)
	p.renderer.StopAnimation(true)
	p.renderer.SetEntity(nil)
	p.renderer.ClearDynamicObjects()
	p.entity = nil

	tok := p.guard.Issue()
	p.resolve(source, tok)
}

func (p *Player) resolve(source string, tok Token) {
	if p.hooks.Resolver == nil {
		if isRemote(source) {
			p.download(source, source, tok)
		} else {
			p.decodeAsset(source, source, tok)
		}
		return
	}

	p.hooks.Resolver.Resolve(source, Continuation{
		succeed: p.onData(source, tok),
		fail:    p.onDownloadFailure(source, tok),
		forwardDownload: func(location string) {
			if p.guard.Valid(tok) {
				p.download(source, location, tok)
			}
		},
		forwardAsset: func(name string) {
			if p.guard.Valid(tok) {
				p.decodeAsset(source, name, tok)
			}
		},
	})
}

// download fetches location on behalf of source.
func (p *Player) download(source, location string, tok Token) {
	if p.hooks.Downloader == nil {
		p.decodeURL(source, location, tok)
		return
	}

	p.logger.Debug("downloading", "source", source, "location", location)
	p.hooks.Downloader.Download(location, Continuation{
		succeed: p.onData(source, tok),
		fail:    p.onDownloadFailure(source, tok),
	})
}

// onData hands fetched bytes to the byte decoder under a fresh token.
func (p *Player) onData(source string, tok Token) func([]byte) {
	return func(data []byte) {
		if !p.guard.Valid(tok) {
			return
		}
		if len(data) == 0 {
			p.logger.Debug("fetched empty data", "source", source)
			p.stop(true)
			p.fail(newLoadError(ErrDownloadFailed, source, ErrEmptyData))
			return
		}

		p.logger.Debug("fetched data", "source", source, "bytes", len(data))
		p.decodeData(source, data, p.guard.Issue())
	}
}

func (p *Player) onDownloadFailure(source string, tok Token) func(error) {
	return func(err error) {
		if !p.guard.Valid(tok) {
			return
		}
		p.guard.Invalidate()

		p.logger.Debug("fetch failed", "source", source, "err", err)
		p.stop(true)
		p.fail(newLoadError(ErrDownloadFailed, source, err))
	}
}

// decodeURL uses the decoder's own fetch when no downloader is installed.
func (p *Player) decodeURL(source, location string, tok Token) {
	u, err := url.Parse(location)
	if err != nil || !u.IsAbs() || u.Host == "" {
		p.stop(true)
		p.fail(newLoadError(ErrUnknownSource, source, err))
		return
	}

	opts := DecodeOptions{MemoryCache: p.cfg.MemoryCache}
	p.decoder.DecodeURL(u.String(), opts, func(e Entity, err error) {
		if !p.guard.Valid(tok) {
			return
		}
		p.guard.Invalidate()

		switch {
		case err != nil:
			p.stop(true)
			p.fail(newLoadError(ErrDownloadFailed, source, err))
		case isNil(e):
			p.stop(true)
			p.fail(newLoadError(ErrDownloadFailed, source, ErrEmptyData))
		default:
			p.parseDone(source, e)
		}
	})
}

func (p *Player) decodeData(source string, data []byte, tok Token) {
	opts := DecodeOptions{
		CacheKey:    p.hooks.cacheKey(source),
		MemoryCache: p.cfg.MemoryCache,
	}
	p.decoder.DecodeData(data, opts, func(e Entity, err error) {
		if !p.guard.Valid(tok) {
			return
		}
		p.guard.Invalidate()

		if err == nil && isNil(e) {
			err = ErrEmptyData
		}
		if err != nil {
			p.logger.Debug("decode failed", "source", source, "err", err)
			p.stop(true)
			p.fail(newLoadError(ErrDataParseFailed, source, err))
			return
		}
		p.parseDone(source, e)
	})
}

func (p *Player) decodeAsset(source, name string, tok Token) {
	opts := DecodeOptions{MemoryCache: p.cfg.MemoryCache}
	p.decoder.DecodeAsset(name, opts, func(e Entity, err error) {
		if !p.guard.Valid(tok) {
			return
		}
		p.guard.Invalidate()

		if err == nil && isNil(e) {
			err = ErrEmptyData
		}
		if err != nil {
			p.logger.Debug("asset decode failed", "source", source, "asset", name, "err", err)
			p.stop(true)
			p.fail(newLoadError(ErrAssetParseFailed, source, err))
			return
		}
		p.parseDone(source, e)
	})
}

// parseDone holds a freshly decoded entity and consumes the pending intent.
func (p *Player) parseDone(source string, e Entity) {
	if !p.validate(source, e) {
		return
	}
	if p.source != source {
		return
	}

	p.entity = e
	p.renderer.SetEntity(e)
	p.logger.Debug("parse done", "source", source, "frames", e.Frames(), "fps", e.FPS())
	if p.listener != nil {
		p.listener.ParseDone(source, e)
	}

	pending := p.pending
	p.pending = intent{}
	p.seek(pending.frame, pending.autoplay, true)
}

// validate stops and reports when e cannot be played.
func (p *Player) validate(source string, e Entity) bool {
	v := Validate(e)
	if v == Valid {
		return true
	}

	p.logger.Debug("entity invalid", "source", source, "reason", v)
	p.stop(true)
	p.fail(&LoadError{Kind: ErrEntityInvalid, Source: source, Reason: v, Entity: e})
	return false
}

// fail reports a terminal load failure through the matching event.
func (p *Player) fail(err *LoadError) {
	p.logger.Debug("load failed", "err", err)
	if p.listener == nil {
		return
	}

	switch err.Kind {
	case ErrUnknownSource:
		p.listener.UnknownSource(err.Source)
	case ErrDownloadFailed:
		p.listener.DownloadFailed(err.Source, err)
	case ErrDataParseFailed:
		p.listener.DataParseFailed(err.Source, err)
	case ErrAssetParseFailed:
		p.listener.AssetParseFailed(err.Source, err)
	case ErrEntityInvalid:
		p.listener.EntityInvalid(err.Source, err.Entity, err.Reason)
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
