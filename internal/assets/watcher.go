package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch reports changed animations in the bundle directory until ctx is
// done. Only the top-level directory is watched. The bundle must live on
// the OS filesystem.
func (b *Bundle) Watch(ctx context.Context, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating fsnotify watcher: %w", err)
	}
	if err := watcher.Add(b.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("error adding dir to fsnotify watcher: %w", err)
	}
	log.Info("fsnotify watching dir", "dir", b.dir)

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				log.Debug("fsnotify dir unwatched", "dir", b.dir)
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Ext(event.Name), Ext) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				name, ok := b.NameOf(event.Name)
				if !ok {
					continue
				}
				log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
				onChange(name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("fsnotify error", "dir", b.dir, "error", err)
			}
		}
	}()
	return nil
}
