package fetch

import (
	"context"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
)

// Downloader adapts a Client to the player's download hook. Fetches run on
// their own goroutine; the outcome is dispatched back to the control
// goroutine.
type Downloader struct {
	ctx      context.Context
	client   *Client
	dispatch runloop.Dispatch
}

// NewDownloader creates a download hook. Cancelling ctx aborts in-flight
// fetches, which then report failure.
func NewDownloader(ctx context.Context, client *Client, dispatch runloop.Dispatch) *Downloader {
	if dispatch == nil {
		dispatch = runloop.Inline
	}
	return &Downloader{ctx: ctx, client: client, dispatch: dispatch}
}

// Download implements player.Downloader.
func (d *Downloader) Download(location string, c player.Continuation) {
	go func() {
		data, err := d.client.Fetch(d.ctx, location)
		d.dispatch(func() {
			if err != nil {
				c.Fail(err)
				return
			}
			c.Succeed(data)
		})
	}()
}

var _ player.Downloader = (*Downloader)(nil)
