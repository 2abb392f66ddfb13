/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import (
	"context"
	"errors"
	"io/fs"
	"math/rand/v2"
	"slices"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/yuu-eguci/dialog-framework/internal/config"
	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/input"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

type mapSource map[string]string

func (m mapSource) ReadStory(name string) ([]byte, error) {
	s, ok := m[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

// fixedMeasure treats every font as 7px per rune with 20px lines.
type fixedMeasure struct{}

func (fixedMeasure) Measure(_ string, _ int, s string) (int, int) {
	return 7 * utf8.RuneCountInString(s), 13
}
func (fixedMeasure) LineHeight(string, int) int { return 20 }

type recAudio struct {
	sounds  []resource.Clip
	volumes []float64
	music   []string
	stops   int
}

func (a *recAudio) PlaySound(c resource.Clip, v float64) error {
	a.sounds = append(a.sounds, c)
	a.volumes = append(a.volumes, v)
	return nil
}
func (a *recAudio) PlayMusic(track string, _ float64) error {
	a.music = append(a.music, track)
	return nil
}
func (a *recAudio) SetMusicVolume(float64) {}
func (a *recAudio) StopMusic()             { a.stops++ }

type harness struct {
	e     *Engine
	audio *recAudio
	slept []time.Duration
}

func testConfig() config.Cassette {
	cfg := config.Defaults()
	cfg.Stories = []string{"main.txt"}
	cfg.Images = []config.ImageConfig{{Name: "bg"}, {Name: "hero"}, {Name: "hero_talk"}, {Name: "hero_idle"}, {Name: "map"}}
	cfg.Sounds = []string{"page", "ding"}
	cfg.TurnPageSound = "page"
	cfg.Links = []config.Link{{Key: "Hero:", Main: "hero_talk", Back: "hero_idle"}}
	cfg.ImageOpen = config.ImageOpenConfig{Name: "map", XY: domain.Point{X: 10, Y: 10}}
	cfg.Dice = config.DiceConfig{Rolls: 1, Skills: map[string]int{"Spot": 50}}
	cfg.Help.Message = []string{"Z: next", "X: back"}
	cfg.BackReview.Pass = []string{"text"}
	return cfg
}

func newHarness(t *testing.T, cfg config.Cassette, stories map[string]string, slots SlotStore) *harness {
	t.Helper()
	rs := resource.NewSet()
	for _, im := range cfg.Images {
		rs.AddImage(im.Name, im.Name)
	}
	for _, s := range cfg.Sounds {
		rs.AddSound(s, s)
	}
	h := &harness{audio: &recAudio{}}
	e, err := New(Options{
		Config:    cfg,
		Library:   script.NewLibrary(mapSource(stories), cfg.Stories...),
		Resources: rs,
		Slots:     slots,
		Audio:     h.audio,
		Measurer:  fixedMeasure{},
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Sleep:     func(d time.Duration) { h.slept = append(h.slept, d) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.e = e
	return h
}

func newStory(t *testing.T, story string) *harness {
	t.Helper()
	return newHarness(t, testConfig(), map[string]string{"main.txt": story}, nil)
}

func (h *harness) tick(t *testing.T, keys ...input.Key) Frame {
	t.Helper()
	f, err := h.e.Tick(context.Background(), keys)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	return f
}

func TestTurnPageStaysInBoundsAndWrapsToDefault(t *testing.T) {
	h := newStory(t, "one\n\ntwo\n\nthree")
	last := h.e.lib.MaxIndex()
	for i := 0; i < 10; i++ {
		h.tick(t, input.KeyZ)
		if p := h.e.State().Page; p < 0 || p > last {
			t.Fatalf("page %d outside [0,%d]", p, last)
		}
	}
	h = newStory(t, "one\n\ntwo\n\nthree")
	h.tick(t, input.KeyZ)
	h.tick(t, input.KeyReturn)
	if got := h.e.State().Page; got != 2 {
		t.Fatalf("page after two turns = %d", got)
	}
	h.e.st.ImageOrder = []string{"bg"}
	h.tick(t, input.KeyZ)
	st := h.e.State()
	if st.Page != 0 || !st.Mode.Is(BaseDialog) || len(st.ImageOrder) != 0 {
		t.Fatalf("turning past the end should reset, got %+v", st)
	}
	if len(h.audio.sounds) != 3 || h.audio.sounds[0] != "page" {
		t.Fatalf("turn sound plays on each turn, got %v", h.audio.sounds)
	}
}

func TestDialogDrawsTextLinesBelowOrigin(t *testing.T) {
	h := newStory(t, "# a comment\nfirst\n<event name=sound file=ding play>\nsecond")
	f := h.tick(t)
	if got := f.Texts(); !slices.Equal(got[:2], []string{"first", "second"}) {
		t.Fatalf("texts = %q", got)
	}
	cfg := h.e.cfg
	if f.Ops[0].At != (domain.Point{X: cfg.Dialog.X, Y: cfg.Dialog.Y}) || f.Ops[1].At.Y != cfg.Dialog.Y+20 {
		t.Fatalf("dialog lines misplaced: %+v %+v", f.Ops[0].At, f.Ops[1].At)
	}
	// sound plays once per page even though the page is redrawn
	h.tick(t)
	h.tick(t)
	if len(h.audio.sounds) != 1 {
		t.Fatalf("sound played %d times", len(h.audio.sounds))
	}
}

func TestAnnounceDismissal(t *testing.T) {
	h := newStory(t, "first\n\nsecond")
	h.tick(t, input.KeyF1)
	st := h.e.State()
	if st.Mode != (Mode{Base: BaseDialog, Overlay: OverlayAnnounce}) {
		t.Fatalf("help should announce, mode %v", st.Mode)
	}
	f := h.tick(t, input.KeyX)
	if !slices.Contains(f.Texts(), "Z: next") || !slices.Contains(f.Texts(), "Z to close") {
		t.Fatalf("announce frame texts = %q", f.Texts())
	}
	if h.e.Mode().Overlay != OverlayAnnounce {
		t.Fatal("back key must not dismiss an announcement")
	}
	f = h.tick(t, input.KeyReturn)
	if !h.e.Mode().Is(BaseDialog) || h.e.State().Page != 0 {
		t.Fatalf("dismissal should only drop the overlay: %+v", h.e.State())
	}
	if !slices.Contains(f.Texts(), "first") || !slices.Contains(f.Texts(), "Help: F1") {
		t.Fatalf("dialog should be drawn in the dismissing frame: %q", f.Texts())
	}
}

func TestQuitStopsImmediately(t *testing.T) {
	h := newStory(t, "first\n\nsecond")
	f := h.tick(t, input.KeyZ, input.KeyQuit)
	if !h.e.Quit() || len(f.Ops) != 0 || h.e.State().Page != 0 {
		t.Fatalf("quit should end without touching state: quit=%v ops=%d page=%d", h.e.Quit(), len(f.Ops), h.e.State().Page)
	}
}

func TestImageOpenBlocksOtherKeys(t *testing.T) {
	h := newStory(t, "first\n\nsecond")
	h.tick(t, input.KeyC)
	if h.e.State().Num2 != 1 {
		t.Fatal("image open key should open the image")
	}
	f := h.tick(t, input.KeyZ)
	if at, ok := f.ImageAt("map"); !ok || at != (domain.Point{X: 10, Y: 10}) {
		t.Fatalf("open image drawn at %v %v", at, ok)
	}
	if h.e.State().Page != 0 {
		t.Fatal("turn key must be ignored while the image is open")
	}
	if slices.Contains(h.e.State().ImageOrder, "map") {
		t.Fatal("open image must not enter the image order")
	}
	h.tick(t, input.KeyC)
	if h.e.State().Num2 != 0 {
		t.Fatal("image open key should close the image")
	}
}

func TestGoToStartResets(t *testing.T) {
	h := newStory(t, "one\n\ntwo\n\nthree")
	h.tick(t, input.KeyZ)
	h.tick(t, input.KeyF12)
	if st := h.e.State(); st.Page != 0 || !st.Mode.Is(BaseDialog) {
		t.Fatalf("go to start: %+v", st)
	}
}

func TestFrameCounterWraps(t *testing.T) {
	h := newStory(t, "one")
	h.e.st.FrameNum = frameWrap - 1
	h.tick(t)
	if h.e.State().FrameNum != frameWrap {
		t.Fatalf("frame = %d", h.e.State().FrameNum)
	}
	h.tick(t)
	if h.e.State().FrameNum != 0 {
		t.Fatalf("frame should wrap to 0, got %d", h.e.State().FrameNum)
	}
}

func TestFatalErrors(t *testing.T) {
	h := newStory(t, "<event file=bg put>")
	_, err := h.e.Tick(context.Background(), nil)
	var mt *script.MalformedTagError
	if !errors.As(err, &mt) || mt.LineNo != 1 {
		t.Fatalf("expected MalformedTagError on line 1, got %v", err)
	}

	h = newStory(t, "<event name=image file=hreo put>")
	_, err = h.e.Tick(context.Background(), nil)
	var nf *resource.AssetNotFoundError
	if !errors.As(err, &nf) || nf.ID != "hreo" || nf.Suggestion != "hero" {
		t.Fatalf("expected AssetNotFoundError with suggestion, got %v", err)
	}

	h = newStory(t, "<event name=fireworks big>\nstill fine")
	if _, err := h.e.Tick(context.Background(), nil); err != nil {
		t.Fatalf("unknown tags are ignored, got %v", err)
	}
}

func TestModeString(t *testing.T) {
	if s := (Mode{Base: BaseDialog, Overlay: OverlayBack}).String(); s != "dialog+back" {
		t.Fatalf("mode string = %q", s)
	}
	if s := (Mode{Base: BaseOpening}).String(); s != "opening" {
		t.Fatalf("mode string = %q", s)
	}
}
