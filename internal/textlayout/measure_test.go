/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestBasicFallbackMeasure(t *testing.T) {
	m, err := NewMeasurer(t.TempDir(), "", 18)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	w, h := m.Measure("", 0, "abcd")
	if w != 28 || h != 13 {
		t.Fatalf("Face7x13 measure = %dx%d, want 28x13", w, h)
	}
	if m.LineHeight("", 11) != 13 {
		t.Fatalf("line height = %d", m.LineHeight("", 11))
	}
}

func TestOpenTypeFaceScalesWithSize(t *testing.T) {
	m := newMeasurer(t.TempDir(), "go.ttf", 18)
	if err := m.lib.LoadBytes("go.ttf", goregular.TTF); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	small, _ := m.Measure("", 10, "Hello")
	large, _ := m.Measure("", 40, "Hello")
	if small <= 0 || large <= small*3 {
		t.Fatalf("unexpected widths small=%d large=%d", small, large)
	}
	if m.Face("", 0) != m.Face("go.ttf", 18) {
		t.Fatalf("default face not cached under default size")
	}
}

func TestMissingScriptFontFallsBackToDefault(t *testing.T) {
	m, err := NewMeasurer(t.TempDir(), "", 18)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	a, _ := m.Measure("missing.ttf", 24, "xyz")
	b, _ := m.Measure("", 24, "xyz")
	if a != b {
		t.Fatalf("fallback width %d != default width %d", a, b)
	}
	if !m.failed["missing.ttf"] {
		t.Fatalf("failure not remembered")
	}
}

func TestNewMeasurerMissingDefaultFont(t *testing.T) {
	if _, err := NewMeasurer(t.TempDir(), "nope.ttf", 18); err == nil {
		t.Fatalf("expected error for missing default font")
	}
}
