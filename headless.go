package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/render"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
)

// playlist plays sources one after another without a terminal UI,
// reporting progress on its logger. It moves on when a source finishes all
// its loops or fails to load, and cancels the run after the last one.
type playlist struct {
	player.NopListener

	sources  []string
	next     int
	failures int

	player   *player.Player
	dispatch runloop.Dispatch
	logger   *log.Logger
	done     context.CancelFunc
}

func (q *playlist) advance() {
	if q.next >= len(q.sources) {
		q.done()
		return
	}
	source := q.sources[q.next]
	q.next++
	q.logger.Info("playing", "source", source, "position", fmt.Sprintf("%d/%d", q.next, len(q.sources)))
	q.player.Play(source)
}

// scheduleAdvance queues advance. Listener callbacks run on the control
// goroutine, so the post happens off it.
func (q *playlist) scheduleAdvance() {
	go q.dispatch(q.advance)
}

func (q *playlist) failed(source string, err error) {
	q.failures++
	q.logger.Error("load failed", "source", source, "error", err)
	q.scheduleAdvance()
}

func (q *playlist) StatusChanged(from, to player.Status) {
	q.logger.Debug("status", "from", from, "to", to)
}

func (q *playlist) UnknownSource(source string) { q.failed(source, player.ErrUnknownSource) }

func (q *playlist) DownloadFailed(source string, err error)   { q.failed(source, err) }
func (q *playlist) DataParseFailed(source string, err error)  { q.failed(source, err) }
func (q *playlist) AssetParseFailed(source string, err error) { q.failed(source, err) }

func (q *playlist) EntityInvalid(source string, _ player.Entity, reason player.Validity) {
	q.failed(source, fmt.Errorf("%w: %s", player.ErrEntityInvalid, reason))
}

func (q *playlist) ReadyForPlay(source string, _ bool) {
	e := q.player.Entity()
	if e == nil {
		return
	}
	w, h := e.Size()
	q.logger.Info("ready", "source", source, "frames", e.Frames(), "fps", e.FPS(),
		"size", fmt.Sprintf("%gx%g", w, h), "duration", player.Duration(e))
}

func (q *playlist) AnimatingToFrame(_ string, frame int) {
	q.logger.Debug("frame", "frame", frame)
}

func (q *playlist) FinishedOnce(source string, loopCount int) {
	q.logger.Info("loop finished", "source", source, "count", loopCount)
}

func (q *playlist) FinishedAll(source string, userInitiated bool) {
	q.logger.Info("finished", "source", source, "user", userInitiated)
	q.scheduleAdvance()
}

// runHeadless plays sources on a private run loop until they are all done
// or the process is interrupted.
func runHeadless(ctx context.Context, sources []string, cfg player.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	loop := runloop.New(256)
	s, err := newStack(ctx, afero.NewOsFs(), loop.Dispatch())
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "svgaplay",
		Level:           log.GetLevel(),
	})
	q := &playlist{
		sources:  sources,
		dispatch: loop.Dispatch(),
		logger:   logger,
		done:     cancel,
	}
	q.player = player.New(s.decoder, render.NewHeadless(loop.Dispatch()), cfg,
		player.WithHooks(s.hooks),
		player.WithListener(q),
		player.WithLogger(logger.WithPrefix("player")),
	)

	loop.Post(q.advance)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err //nolint:wrapcheck
	}
	if q.failures > 0 {
		return fmt.Errorf("%d of %d sources failed to load", q.failures, len(sources))
	}
	return nil
}
