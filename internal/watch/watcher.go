// Package watch 监听内容文件的变更，用于热更新助手配置和作品集文档。
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Event reports that a watched file was written or recreated.
type Event struct {
	Path string
}

// Watcher watches individual files through their parent directories, so
// editors that save by rename are still picked up.
type Watcher struct {
	watcher *fsnotify.Watcher
}

func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{watcher: w}, nil
}

// Watch starts monitoring paths and emits an Event per write or create.
// The channel closes when ctx is done or the watcher stops.
func (w *Watcher) Watch(ctx context.Context, paths ...string) (<-chan Event, error) {
	watched := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil {
					continue
				}
				if _, ok := watched[abs]; !ok {
					continue
				}

				select {
				case events <- Event{Path: abs}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[watch] watcher error: %v", err)
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Dispatch calls the reload function registered for each event's path until
// events closes. Failed reloads are logged and the previous content stays.
func Dispatch(events <-chan Event, reloads map[string]func(path string) error) {
	byPath := make(map[string]func(string) error, len(reloads))
	for p, fn := range reloads {
		if abs, err := filepath.Abs(p); err == nil {
			byPath[abs] = fn
		}
	}

	for event := range events {
		fn, ok := byPath[event.Path]
		if !ok {
			continue
		}
		if err := fn(event.Path); err != nil {
			log.Printf("[watch] reload %s failed, keeping previous content: %v", event.Path, err)
			continue
		}
		log.Printf("[watch] reloaded %s", event.Path)
	}
}
