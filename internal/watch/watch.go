/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package watch reports edits to a cassette's story, image and sound files so
// a running player can reload them.
package watch

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	applog "github.com/yuu-eguci/dialog-framework/internal/log"
)

// DefaultDebounce is how long a directory must stay quiet before a batch of
// changes is reported.
const DefaultDebounce = 300 * time.Millisecond

// Watcher collects file events from a set of directories. The game loop polls
// Changed once per tick, so nothing here blocks the caller.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	last    time.Time

	done chan struct{}
	wg   sync.WaitGroup
}

// New watches dirs (non-recursively). A zero debounce uses DefaultDebounce.
func New(debounce time.Duration, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fs:       fw,
		debounce: debounce,
		log:      applog.WithComponent("watch"),
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", d, err)
		}
		w.log.Debug("watching", slog.String("dir", d))
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.mu.Lock()
			w.pending[ev.Name] = struct{}{}
			w.last = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", slog.Any("err", err))
		case <-w.done:
			return
		}
	}
}

// Changed returns the paths touched since the previous report once no new
// event has arrived for the debounce interval. ok is false while nothing is
// pending or events are still arriving.
func (w *Watcher) Changed() (paths []string, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 || time.Since(w.last) < w.debounce {
		return nil, false
	}
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	slices.Sort(paths)
	return paths, true
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
		close(w.done)
	}
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
