/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package play is the playback state machine. One call to Engine.Tick polls
// the keys pressed since the previous frame, advances the state and returns
// the frame to draw. The engine never touches a window or audio device itself:
// it talks to the Audio, Measurer and SlotStore boundaries and emits a draw
// list, so every behavior can be driven headlessly.
package play

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/yuu-eguci/dialog-framework/internal/config"
	"github.com/yuu-eguci/dialog-framework/internal/input"
	applog "github.com/yuu-eguci/dialog-framework/internal/log"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
	"github.com/yuu-eguci/dialog-framework/internal/save"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

// frameWrap is the frame counter value after which it starts over at 0.
const frameWrap = 1800

// Audio plays sound effects and the background music track.
type Audio interface {
	PlaySound(clip resource.Clip, volume float64) error
	PlayMusic(track string, volume float64) error
	SetMusicVolume(volume float64)
	StopMusic()
}

// NopAudio discards every call.
type NopAudio struct{}

func (NopAudio) PlaySound(resource.Clip, float64) error { return nil }
func (NopAudio) PlayMusic(string, float64) error        { return nil }
func (NopAudio) SetMusicVolume(float64)                 {}
func (NopAudio) StopMusic()                             {}

// Measurer sizes rendered text.
type Measurer interface {
	Measure(font string, size int, text string) (w, h int)
	LineHeight(font string, size int) int
}

// SlotStore persists save slots. *save.Store implements it.
type SlotStore interface {
	Save(ctx context.Context, slot int, snap save.Snapshot) error
	Load(ctx context.Context, slot int) (save.Snapshot, error)
}

// Options configures an Engine.
type Options struct {
	Config    config.Cassette
	Library   *script.Library
	Resources *resource.Set
	Slots     SlotStore // nil disables saving and loading
	Audio     Audio
	Measurer  Measurer
	Rand      *rand.Rand
	Sleep     func(time.Duration) // blocks for skip pauses; defaults to time.Sleep
}

// Engine owns the playback state of one cassette.
type Engine struct {
	cfg     config.Cassette
	keys    input.Bindings
	pass    map[string]bool
	lib     *script.Library
	rsrc    *resource.Set
	slots   SlotStore
	audio   Audio
	measure Measurer
	rng     *rand.Rand
	sleep   func(time.Duration)
	log     *slog.Logger

	st       State
	defaults State
	opening  []script.Paragraph
	frame    *Frame
	hint     bool
	quit     bool
}

// New builds an engine positioned at the default state. The first configured
// story is activated when the library has none loaded.
func New(opts Options) (*Engine, error) {
	if opts.Library == nil || opts.Resources == nil {
		return nil, errors.New("play: library and resources are required")
	}
	if opts.Measurer == nil {
		return nil, errors.New("play: measurer is required")
	}
	keys, err := opts.Config.Bindings()
	if err != nil {
		return nil, err
	}
	lib := opts.Library
	if lib.Active() == "" {
		names := lib.Names()
		if len(names) == 0 {
			return nil, config.ErrNoStories
		}
		if err := lib.Swap(names[0]); err != nil {
			return nil, err
		}
	}
	e := &Engine{
		cfg:     opts.Config,
		keys:    keys,
		pass:    make(map[string]bool, len(opts.Config.BackReview.Pass)),
		lib:     lib,
		rsrc:    opts.Resources,
		slots:   opts.Slots,
		audio:   opts.Audio,
		measure: opts.Measurer,
		rng:     opts.Rand,
		sleep:   opts.Sleep,
		log:     applog.WithComponent("play"),
	}
	for _, name := range opts.Config.BackReview.Pass {
		e.pass[name] = true
	}
	if e.audio == nil {
		e.audio = NopAudio{}
	}
	if e.rng == nil {
		now := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(now, now>>32))
	}
	if e.sleep == nil {
		e.sleep = time.Sleep
	}
	base := BaseDialog
	if opts.Config.Opening.Enabled {
		e.opening = openingPages(opts.Config)
		base = BaseOpening
	}
	e.defaults = State{Mode: Mode{Base: base}, Story: lib.Active()}
	e.st = e.defaults.Clone()
	return e, nil
}

// State returns a copy of the current playback state.
func (e *Engine) State() State { return e.st.Clone() }

// Mode returns the current mode.
func (e *Engine) Mode() Mode { return e.st.Mode }

// Quit reports whether the player asked to exit.
func (e *Engine) Quit() bool { return e.quit }

// Resources returns the resource set the engine plays against.
func (e *Engine) Resources() *resource.Set { return e.rsrc }

// Tick runs one frame: it draws the visible images, runs the handler for the
// current mode with the keys pressed since the previous tick and returns the
// resulting draw list. A returned error is fatal; the state must not be used
// afterwards.
func (e *Engine) Tick(ctx context.Context, keys []input.Key) (Frame, error) {
	if slices.Contains(keys, input.KeyQuit) {
		e.quit = true
		return Frame{}, nil
	}
	ctx = applog.WithFrame(ctx, e.st.FrameNum)
	e.frame = &Frame{}
	e.hint = false
	defer func() { e.frame = nil }()

	if err := e.drawImages(); err != nil {
		return Frame{}, err
	}
	e.rsrc.ClearShake()

	if e.st.Mode.Overlay == OverlayAnnounce {
		e.announceMode(keys)
		keys = nil
	}
	if e.st.Mode.Overlay == OverlayBack {
		if err := e.backMode(ctx, keys); err != nil {
			return Frame{}, e.wrap(err)
		}
		keys = nil
	}
	if e.st.Mode.Is(BaseOpening) {
		if err := e.openingMode(ctx, keys); err != nil {
			return Frame{}, fmt.Errorf("opening page %d: %w", e.st.Page, err)
		}
		keys = nil
	}
	if e.st.Mode.Is(BaseDialog) {
		if err := e.dialogMode(ctx, keys); err != nil {
			return Frame{}, e.wrap(err)
		}
	}
	if e.hint {
		e.drawHelpHint()
	}

	if e.st.FrameNum < frameWrap {
		e.st.FrameNum++
	} else {
		e.st.FrameNum = 0
	}
	return *e.frame, nil
}

func (e *Engine) wrap(err error) error {
	return fmt.Errorf("story %q page %d: %w", e.lib.Active(), e.st.Page-e.st.PageBack, err)
}

func (e *Engine) drawImages() error {
	order := e.st.ImageOrder
	if e.st.Num2 == 1 && e.cfg.ImageOpen.Name != "" {
		order = append(slices.Clone(order), e.cfg.ImageOpen.Name)
	}
	for _, id := range order {
		a, err := e.rsrc.Image(id)
		if err != nil {
			return err
		}
		e.frame.image(a)
	}
	return nil
}

// resetStatus returns to the default state captured at start up, except for
// the active story: the library stays on it, so the state must too.
func (e *Engine) resetStatus() {
	story := e.st.Story
	e.st = e.defaults.Clone()
	e.st.Story = story
	e.log.Debug("state reset", slog.String("mode", e.st.Mode.String()))
}

func (e *Engine) announce(lines ...string) {
	e.st.Message = lines
	e.st.Mode = e.st.Mode.With(OverlayAnnounce)
}

// playSound plays a configured sound effect outside of its played flag.
func (e *Engine) playSound(id string, volume *float64) error {
	if id == "" {
		return nil
	}
	s, err := e.rsrc.Sound(id)
	if err != nil {
		return err
	}
	if volume != nil {
		s.Volume = *volume
	}
	if err := e.audio.PlaySound(s.Clip, s.Volume); err != nil {
		e.log.Warn("play sound failed", slog.String("sound", id), slog.Any("err", err))
	}
	return nil
}

// Reload re-reads the active story, keeping the position as far as the new
// text allows.
func (e *Engine) Reload() error {
	if err := e.lib.Reload(); err != nil {
		return err
	}
	if e.st.Mode.Base == BaseDialog {
		e.st.Page = min(e.st.Page, e.lib.MaxIndex())
		e.st.PageBack = min(e.st.PageBack, e.st.Page)
	}
	e.log.Info("story reloaded", slog.String("story", e.lib.Active()), slog.Int("paragraphs", e.lib.Len()))
	return nil
}
