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
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/input"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

func linkIntact(t *testing.T, h *harness) {
	t.Helper()
	for _, l := range h.e.cfg.Links {
		st := h.e.State()
		if st.Showing(l.Main) && st.Showing(l.Back) {
			t.Fatalf("%s and %s both showing: %v", l.Main, l.Back, st.ImageOrder)
		}
	}
}

func TestLinkedImagesNeverShowTogether(t *testing.T) {
	h := newStory(t, strings.Join([]string{
		"<event name=image file=hero_idle x=5 y=6 put>\nThe door creaks.",
		"Hero: who is there?\n<event name=image file=hero_talk put>",
		"Silence again.",
	}, "\n\n"))

	h.tick(t)
	linkIntact(t, h)
	if got := h.e.State().ImageOrder; !slices.Equal(got, []string{"hero_idle"}) {
		t.Fatalf("order = %v", got)
	}
	h.tick(t, input.KeyZ)
	h.tick(t)
	linkIntact(t, h)
	if got := h.e.State().ImageOrder; !slices.Equal(got, []string{"hero_talk"}) {
		t.Fatalf("key in text should show main, order = %v", got)
	}
	talk, _ := h.e.rsrc.Image("hero_talk")
	if talk.Pos != (domain.Point{X: 5, Y: 6}) {
		t.Fatalf("main should take over the back position, got %v", talk.Pos)
	}
	h.tick(t, input.KeyZ)
	h.tick(t)
	linkIntact(t, h)
	if got := h.e.State().ImageOrder; !slices.Equal(got, []string{"hero_idle"}) {
		t.Fatalf("key absent should show back, order = %v", got)
	}
}

func TestRemoveAndChangeRespectLinks(t *testing.T) {
	h := newStory(t, "x")
	h.e.st.ImageOrder = []string{"bg", "hero_talk"}
	h.e.removeImage("hero_idle")
	if got := h.e.st.ImageOrder; !slices.Equal(got, []string{"bg"}) {
		t.Fatalf("removing the hidden half should drop the shown one, got %v", got)
	}

	h.e.st.ImageOrder = []string{"bg", "hero", "hero_idle"}
	h.e.changeImage("hero", "hero_talk")
	if got := h.e.st.ImageOrder; !slices.Equal(got, []string{"bg", "hero", "hero_idle"}) {
		t.Fatalf("change that breaks a link must be reverted, got %v", got)
	}
	h.e.changeImage("bg", "map")
	if got := h.e.st.ImageOrder; !slices.Equal(got, []string{"map", "hero", "hero_idle"}) {
		t.Fatalf("change keeps depth, got %v", got)
	}
	h.e.changeImage("hero", "map")
	if got := h.e.st.ImageOrder; !slices.Equal(got, []string{"map", "hero_idle"}) {
		t.Fatalf("change to a shown image drops the source, got %v", got)
	}
}

func TestImageTagRemoveAll(t *testing.T) {
	h := newStory(t, "<event name=image file=bg put>\n<event name=image file=hero x=1 y=2 put>\n<event name=image removeall>\nempty stage")
	h.tick(t)
	if got := h.e.State().ImageOrder; len(got) != 0 {
		t.Fatalf("removeall left %v", got)
	}
	hero, _ := h.e.rsrc.Image("hero")
	if hero.Pos != (domain.Point{X: 1, Y: 2}) {
		t.Fatalf("x/y apply even when the image is removed later, got %v", hero.Pos)
	}
}

func TestShakeCycle(t *testing.T) {
	if got := Shake(0, 5); got != (domain.Point{X: -5, Y: 5}) {
		t.Fatalf("frame 0 = %v", got)
	}
	if got := Shake(1, 5); got != (domain.Point{X: -5, Y: 5}) {
		t.Fatalf("frame 1 = %v", got)
	}
	seen := map[domain.Point]bool{}
	for f := 0; f < 16; f++ {
		if Shake(f, 5) != Shake(f+16, 5) || Shake(f, 5) != Shake(f+160, 5) {
			t.Fatalf("frame %d does not repeat every 16 frames", f)
		}
		if f%2 == 1 && Shake(f, 5) != Shake(f-1, 5) {
			t.Fatalf("frame %d should hold the previous offset", f)
		}
		seen[Shake(f, 5)] = true
	}
	if len(seen) != 8 {
		t.Fatalf("distinct offsets = %d", len(seen))
	}
}

func TestShakeIsRelativeToBasePosition(t *testing.T) {
	h := newStory(t, "<event name=image file=hero x=100 y=100 shake=5 put>")
	h.tick(t) // frame 0: put, shake from frame 0
	f := h.tick(t)
	if at, _ := f.ImageAt("hero"); at != (domain.Point{X: 95, Y: 105}) {
		t.Fatalf("frame 1 drew hero at %v", at)
	}
	f = h.tick(t)
	if at, _ := f.ImageAt("hero"); at != (domain.Point{X: 95, Y: 105}) {
		t.Fatalf("frame 2 drew hero at %v", at)
	}
	f = h.tick(t)
	if at, _ := f.ImageAt("hero"); at != (domain.Point{X: 105, Y: 95}) {
		t.Fatalf("frame 3 drew hero at %v", at)
	}
	hero, _ := h.e.rsrc.Image("hero")
	if hero.Pos != (domain.Point{X: 100, Y: 100}) {
		t.Fatalf("base position drifted to %v", hero.Pos)
	}
}

func TestJudge(t *testing.T) {
	cases := []struct {
		result int
		want   Outcome
	}{
		{51, Failure},
		{50, Success},
		{5, Critical},
		{96, Fumble},
		{95, Failure},
		{6, Success},
	}
	for _, c := range cases {
		if got := Judge(c.result, 50); got != c.want {
			t.Errorf("Judge(%d, 50) = %v, want %v", c.result, got, c.want)
		}
	}
}

func TestDiceRendersRollThenResult(t *testing.T) {
	for result, want := range map[string]string{"51": "failure", "50": "success", "5": "critical", "96": "fumble"} {
		h := newStory(t, "<event name=dice skill=Spot result="+result+" x=10 y=20>")
		f := h.tick(t)
		texts := f.Texts()
		if texts[0] != "Spot: 50" || strings.Contains(texts[1], "→") {
			t.Fatalf("first frame should show a bare roll, got %q", texts)
		}
		f = h.tick(t)
		if got := f.Texts()[1]; got != result+" → "+want {
			t.Fatalf("result %s rendered %q", result, got)
		}
		f = h.tick(t)
		if got := f.Texts()[1]; got != result+" → "+want {
			t.Fatalf("result %s not stable on redraw: %q", result, got)
		}
	}
}

func TestDiceUnknownSkillShowsNoVerdict(t *testing.T) {
	h := newStory(t, "<event name=dice skill=Luck result=3>")
	h.tick(t)
	f := h.tick(t)
	if got := f.Texts()[:2]; got[0] != "Luck: " || got[1] != "3" {
		t.Fatalf("unregistered skill rendered %q", got)
	}
}

func TestSkipClampsInDialogAndPauses(t *testing.T) {
	h := newStory(t, "one\n\n<event name=skip pause=250>\nlast")
	h.tick(t, input.KeyZ)
	h.tick(t)
	if h.e.State().Page != 1 {
		t.Fatalf("skip on the last page must clamp, page %d", h.e.State().Page)
	}
	if len(h.slept) != 1 || h.slept[0] != 250*time.Millisecond {
		t.Fatalf("pause = %v", h.slept)
	}

	h = newStory(t, "<event name=skip>\nnever read\n\nsecond")
	h.tick(t)
	if h.e.State().Page != 1 {
		t.Fatalf("skip should advance, page %d", h.e.State().Page)
	}
}

func TestBGMTag(t *testing.T) {
	h := newStory(t, "<event name=bgm file=theme.ogg volume=0.3 play>\n\n<event name=bgm file=other.ogg play>\n\n<event name=bgm stop>")
	h.tick(t)
	h.tick(t)
	if bgm := h.e.rsrc.BGM; bgm.Track != "theme.ogg" || !bgm.Playing || bgm.Volume != 0.3 {
		t.Fatalf("bgm = %+v", bgm)
	}
	if len(h.audio.music) != 1 {
		t.Fatalf("play only starts a stopped track, plays = %v", h.audio.music)
	}
	h.tick(t, input.KeyZ)
	h.tick(t)
	if bgm := h.e.rsrc.BGM; bgm.Track != "other.ogg" || !bgm.Playing {
		t.Fatalf("switching tracks = %+v", bgm)
	}
	if !slices.Equal(h.audio.music, []string{"theme.ogg", "other.ogg"}) || h.audio.stops == 0 {
		t.Fatalf("switch should stop then play: music=%v stops=%d", h.audio.music, h.audio.stops)
	}
	h.tick(t, input.KeyZ)
	h.tick(t)
	if h.e.rsrc.BGM.Playing {
		t.Fatal("stop should stop the track")
	}

	cfg := testConfig()
	cfg.Audio.BGMEnabled = false
	h = newHarness(t, cfg, map[string]string{"main.txt": "<event name=bgm file=theme.ogg play>"}, nil)
	h.tick(t)
	if !h.e.rsrc.BGM.Playing || len(h.audio.music) != 0 {
		t.Fatalf("disabled music is tracked but not played: %+v %v", h.e.rsrc.BGM, h.audio.music)
	}
}

func TestTextTag(t *testing.T) {
	h := newStory(t, `<event name=text string="Chapter 1" color="255,0,0" fontsize=24 x=5 y=6>`)
	f := h.tick(t)
	op := f.Ops[0]
	if op.Text != "Chapter 1" || op.Size != 24 || op.At != (domain.Point{X: 5, Y: 6}) || op.Color != domain.RGB(255, 0, 0) {
		t.Fatalf("text op = %+v", op)
	}
	h = newStory(t, `<event name=text>`)
	f = h.tick(t)
	if op := f.Ops[0]; op.Text != " " || op.Size != 18 || op.Color != domain.White {
		t.Fatalf("text defaults = %+v", op)
	}
}

// dings counts how often the "ding" clip reached the audio device.
func dings(a *recAudio) (n int, last float64) {
	for i, c := range a.sounds {
		if c == resource.Clip("ding") {
			n++
			last = a.volumes[i]
		}
	}
	return n, last
}

func runSoundTags(t *testing.T, h *harness, lines ...string) {
	t.Helper()
	for _, l := range lines {
		tag, err := script.ParseTag(l)
		if err != nil {
			t.Fatalf("ParseTag(%q): %v", l, err)
		}
		if err := h.e.soundTag(tag); err != nil {
			t.Fatalf("soundTag(%q): %v", l, err)
		}
	}
}

func TestSoundTag(t *testing.T) {
	h := newStory(t, "<event name=sound file=ding volume=0.4 play>\nfirst\n\nsecond")
	h.tick(t)
	h.tick(t)
	h.tick(t)
	if n, vol := dings(h.audio); n != 1 || vol != 0.4 {
		t.Fatalf("play once per page at the tag volume: n=%d vol=%v", n, vol)
	}

	h = newStory(t, "quiet")
	runSoundTags(t, h,
		`<event name=sound file=ding play>`,
		`<event name=sound file=ding play>`,
	)
	if n, _ := dings(h.audio); n != 1 {
		t.Fatalf("repeated play on one page fired %d times", n)
	}
	runSoundTags(t, h,
		`<event name=sound file=ding reset>`,
		`<event name=sound file=ding volume=0.8 play>`,
	)
	if n, vol := dings(h.audio); n != 2 || vol != 0.8 {
		t.Fatalf("reset should allow a replay: n=%d vol=%v", n, vol)
	}
	h.e.rsrc.ResetSounds()
	runSoundTags(t, h, `<event name=sound file=ding play>`)
	if n, _ := dings(h.audio); n != 3 {
		t.Fatalf("a new page should allow a replay, n=%d", n)
	}
}

func TestVolumeOutsideUnitRangeIsMalformed(t *testing.T) {
	for _, story := range []string{
		"<event name=sound file=ding volume=-0.5 play>",
		"<event name=bgm file=theme.ogg volume=1.5 play>",
	} {
		h := newStory(t, story)
		_, err := h.e.Tick(context.Background(), nil)
		var mt *script.MalformedTagError
		if !errors.As(err, &mt) {
			t.Fatalf("%s: expected MalformedTagError, got %v", story, err)
		}
	}
	h := newStory(t, "<event name=sound file=ding volume=-0.5 play>")
	if _, err := h.e.Tick(context.Background(), nil); err == nil {
		t.Fatal("expected an error")
	}
	if a, _ := h.e.rsrc.Sound("ding"); a.Volume != resource.DefaultSoundVolume {
		t.Fatalf("rejected volume was stored: %v", a.Volume)
	}
}
