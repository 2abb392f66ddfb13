/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package resource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
)

func sampleSet() *Set {
	s := NewSet()
	s.AddImage("bg.png", "bg")
	s.AddImage("girl.png", "girl")
	s.AddSound("bell.wav", "bell")
	return s
}

func TestExportImportRoundTripRestoresAttributes(t *testing.T) {
	s := sampleSet()
	im, _ := s.Image("girl.png")
	im.Pos = domain.Point{X: 120, Y: 40}
	im.Shake = domain.Point{X: 3, Y: 3}
	so, _ := s.Sound("bell.wav")
	so.Volume = 0.7
	so.Played = true
	s.BGM = BGM{Track: "theme.ogg", Volume: 0.4, Playing: true}

	b, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	fresh := sampleSet()
	skipped, err := fresh.ImportJSON(b)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped ids: %v", skipped)
	}
	got, _ := fresh.Image("girl.png")
	if got.Pos != (domain.Point{X: 120, Y: 40}) || got.Shake != (domain.Point{}) {
		t.Fatalf("image attributes: pos=%+v shake=%+v", got.Pos, got.Shake)
	}
	if got.Surface != "girl" {
		t.Fatalf("surface must not be replaced")
	}
	gs, _ := fresh.Sound("bell.wav")
	if gs.Volume != 0.7 || gs.Played {
		t.Fatalf("sound attributes: %+v", gs)
	}
	if fresh.BGM != (BGM{Track: "theme.ogg", Volume: 0.4, Playing: true}) {
		t.Fatalf("bgm: %+v", fresh.BGM)
	}
}

func TestImportSkipsUnknownAndRejectsGarbage(t *testing.T) {
	s := sampleSet()
	skipped, err := s.ImportJSON([]byte(`{"images":{"gone.png":{"xy":[1,2]},"bg.png":{"xy":[5,6]}},"sounds":{"x.wav":{"vol":1}},"bgm":{"name":"","vol":0.1,"playing":false}}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if strings.Join(skipped, ",") != "image:gone.png,sound:x.wav" {
		t.Fatalf("skipped = %v", skipped)
	}
	bg, _ := s.Image("bg.png")
	if bg.Pos != (domain.Point{X: 5, Y: 6}) {
		t.Fatalf("known id not restored: %+v", bg.Pos)
	}
	if _, err := s.ImportJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
	if bg.Pos != (domain.Point{X: 5, Y: 6}) {
		t.Fatalf("failed import changed state")
	}
}

func TestDefaultsAndResetSounds(t *testing.T) {
	s := sampleSet()
	so, _ := s.Sound("bell.wav")
	if so.Volume != DefaultSoundVolume || s.BGM.Volume != DefaultBGMVolume {
		t.Fatalf("defaults: sound=%v bgm=%v", so.Volume, s.BGM.Volume)
	}
	so.Played = true
	s.ResetSounds()
	if so.Played {
		t.Fatalf("played flag not reset")
	}
}

func TestAssetNotFoundSuggestion(t *testing.T) {
	s := sampleSet()
	_, err := s.Image("girl.jpg")
	var nf *AssetNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected AssetNotFoundError, got %v", err)
	}
	if nf.Suggestion != "girl.png" || !strings.Contains(err.Error(), `did you mean "girl.png"`) {
		t.Fatalf("suggestion: %q / %v", nf.Suggestion, err)
	}
	_, err = s.Sound("completely-different-name.ogg")
	if !errors.As(err, &nf) || nf.Suggestion != "" {
		t.Fatalf("unexpected suggestion: %v", err)
	}
}

type dirs string

func (d dirs) Image(n string) string { return filepath.Join(string(d), "image", n) }
func (d dirs) Sound(n string) string { return filepath.Join(string(d), "sound", n) }

func TestBuildWithStatLoader(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"image/a.png", "sound/s.wav"} {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := Build(StatLoader{}, dirs(root), []ImageSpec{{Name: "a.png"}}, []string{"s.wav"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !s.HasImage("a.png") || len(s.SoundIDs()) != 1 {
		t.Fatalf("assets missing")
	}
	_, err = Build(StatLoader{}, dirs(root), []ImageSpec{{Name: "a.png"}, {Name: "b.png"}, {Name: "a.png"}}, []string{"t.wav"})
	if err == nil {
		t.Fatalf("expected build errors")
	}
	for _, want := range []string{`"b.png"`, `"t.wav"`, "declared twice"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}
