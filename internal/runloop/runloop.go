// Package runloop serializes work onto a single control goroutine.
//
// Collaborators that finish work on their own goroutines hand completions
// to a Dispatch; the dispatch runs them on the goroutine that owns the
// player.
package runloop

import (
	"context"
	"errors"
)

// ErrStopped is returned by Do when the loop is no longer running.
var ErrStopped = errors.New("run loop stopped")

// Dispatch schedules fn to run on the control goroutine.
type Dispatch func(fn func())

// Inline runs fn immediately on the calling goroutine. It is only correct
// when the caller already is the control goroutine.
func Inline(fn func()) { fn() }

// Loop is a queue of functions drained by Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
}

// New creates a loop with room for buffer pending functions.
func New(buffer int) *Loop {
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and reports false once
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Dispatch returns a Dispatch bound to the loop. Work posted after the loop
// stops is dropped.
func (l *Loop) Dispatch() Dispatch {
	return func(fn func()) { l.Post(fn) }
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is cancelled. It must be called at most
// once; the calling goroutine becomes the control goroutine.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Next waits for the next queued function without running it. Hosts that
// own an event loop of their own call Next instead of Run and execute the
// function on their control goroutine.
func (l *Loop) Next(ctx context.Context) (func(), error) {
	select {
	case fn := <-l.queue:
		return fn, nil
	case <-l.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
