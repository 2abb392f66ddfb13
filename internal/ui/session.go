/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ui runs a cassette in a window. The session wiring in this file is
// renderer independent; the ebiten frontend is compiled in with -tags ebiten.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/yuu-eguci/dialog-framework/internal/config"
	"github.com/yuu-eguci/dialog-framework/internal/input"
	applog "github.com/yuu-eguci/dialog-framework/internal/log"
	"github.com/yuu-eguci/dialog-framework/internal/play"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
	"github.com/yuu-eguci/dialog-framework/internal/save"
	"github.com/yuu-eguci/dialog-framework/internal/script"
	"github.com/yuu-eguci/dialog-framework/internal/textlayout"
	"github.com/yuu-eguci/dialog-framework/internal/watch"
)

// ErrNoWindow is returned by Run in builds without a window backend.
var ErrNoWindow = errors.New("player window not built in this binary")

// Options selects the cassette to play.
type Options struct {
	Root  string
	Story string // story to activate first; empty uses the first configured one
	Watch bool   // reload the active story when its file changes
}

// Session is an opened cassette: its config, assets, save store and engine.
type Session struct {
	Root      string
	Dirs      config.Dirs
	Config    config.Cassette
	Library   *script.Library
	Resources *resource.Set
	Slots     *save.Store // nil when saving is disabled
	Measurer  *textlayout.Measurer
	Engine    *play.Engine

	watcher *watch.Watcher
	log     *slog.Logger
}

// ImageSpecs lists the images a cassette declares.
func ImageSpecs(cfg config.Cassette) []resource.ImageSpec {
	out := make([]resource.ImageSpec, 0, len(cfg.Images))
	for _, im := range cfg.Images {
		out = append(out, resource.ImageSpec{Name: im.Name, ColorKey: im.Trans})
	}
	return out
}

// Open loads the cassette under opts.Root with ld turning asset files into
// renderer handles.
func Open(opts Options, ld resource.Loader, audio play.Audio) (*Session, error) {
	l := applog.WithOperation(applog.WithComponent("ui"), "open").With(slog.String("root", opts.Root))
	cfg, err := config.Load(opts.Root)
	if err != nil {
		return nil, err
	}
	s := &Session{Root: opts.Root, Dirs: config.Dirs{Root: opts.Root}, Config: cfg, log: applog.WithComponent("ui")}

	s.Library = script.NewLibrary(script.DirSource(filepath.Join(opts.Root, config.DirMainText)), cfg.Stories...)
	story := opts.Story
	if story == "" {
		story = cfg.Stories[0]
	}
	if err := s.Library.Swap(story); err != nil {
		return nil, err
	}
	if s.Resources, err = resource.Build(ld, s.Dirs, ImageSpecs(cfg), cfg.Sounds); err != nil {
		return nil, err
	}
	if s.Measurer, err = textlayout.NewMeasurer(filepath.Join(opts.Root, config.DirOther), cfg.Font.File, cfg.Font.Size); err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}

	po := play.Options{
		Config:    cfg,
		Library:   s.Library,
		Resources: s.Resources,
		Audio:     audio,
		Measurer:  s.Measurer,
	}
	if cfg.Save.Enabled {
		if s.Slots, err = save.Open(filepath.Join(opts.Root, cfg.Save.DB)); err != nil {
			return nil, err
		}
		po.Slots = s.Slots
	}
	if s.Engine, err = play.New(po); err != nil {
		_ = s.Close()
		return nil, err
	}
	if opts.Watch {
		if s.watcher, err = watch.New(0, filepath.Join(opts.Root, config.DirMainText)); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	l.Info("cassette opened", slog.String("story", s.Library.Active()), slog.Int("paragraphs", s.Library.Len()))
	return s, nil
}

// Step reloads the active story if it changed on disk and runs one tick.
func (s *Session) Step(ctx context.Context, keys []input.Key) (play.Frame, error) {
	if s.watcher != nil {
		if paths, ok := s.watcher.Changed(); ok && s.touchesActive(paths) {
			if err := s.Engine.Reload(); err != nil {
				// a half-saved file is common while editing; keep playing the old text
				s.log.Warn("reload failed", slog.Any("err", err))
			}
		}
	}
	return s.Engine.Tick(ctx, keys)
}

func (s *Session) touchesActive(paths []string) bool {
	active := s.Dirs.MainText(s.Library.Active())
	for _, p := range paths {
		if filepath.Clean(p) == active {
			return true
		}
	}
	return false
}

// Replay runs one tick per entry of presses, each with the keys named in it,
// then one idle tick, and returns the last frame. Names are bindable key
// names or up/down/left/right/return.
func (s *Session) Replay(ctx context.Context, presses []string) (play.Frame, error) {
	for _, p := range presses {
		var keys []input.Key
		for _, name := range strings.Split(p, "+") {
			k, err := parsePress(name)
			if err != nil {
				return play.Frame{}, err
			}
			keys = append(keys, k)
		}
		if _, err := s.Step(ctx, keys); err != nil {
			return play.Frame{}, err
		}
	}
	return s.Step(ctx, nil)
}

func parsePress(name string) (input.Key, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up":
		return input.KeyUp, nil
	case "down":
		return input.KeyDown, nil
	case "left":
		return input.KeyLeft, nil
	case "right":
		return input.KeyRight, nil
	case "return", "enter":
		return input.KeyReturn, nil
	}
	return input.ParseKey(name)
}

// Close releases the watcher and the save store.
func (s *Session) Close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
	}
	if s.Slots != nil {
		errs = append(errs, s.Slots.Close())
	}
	return errors.Join(errs...)
}
