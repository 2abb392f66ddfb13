/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package input

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	cases := map[string]Key{"z": KeyZ, "X": KeyX, " f11 ": KeyF11, "8": Key8, "f1": KeyF1}
	for in, want := range cases {
		got, err := ParseKey(in)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseKey(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "f9", "up", "return", "q"} {
		if _, err := ParseKey(bad); !errors.Is(err, ErrUnknownKey) {
			t.Fatalf("ParseKey(%q) err = %v, want ErrUnknownKey", bad, err)
		}
	}
}

func TestKeyStringAndLabel(t *testing.T) {
	if KeyF12.String() != "f12" || KeyF12.Label() != "F12" {
		t.Fatalf("unexpected names %q %q", KeyF12.String(), KeyF12.Label())
	}
	if KeyReturn.String() != "return" {
		t.Fatalf("return name: %q", KeyReturn.String())
	}
}

func defaultBindings() Bindings {
	return Bindings{
		TurnPage: KeyZ, BackPage: KeyX, ImageOpen: KeyC, ShowHelp: KeyF1, GoToStart: KeyF12,
		Save: []Key{Key1, Key2, Key3, Key4},
		Load: []Key{Key5, Key6, Key7, Key8},
	}
}

func TestBindingsSlots(t *testing.T) {
	b := defaultBindings()
	if b.SaveSlot(Key2) != 2 || b.LoadSlot(Key8) != 4 {
		t.Fatalf("slot lookup failed")
	}
	if b.SaveSlot(Key5) != 0 || b.LoadSlot(KeyZ) != 0 || b.SaveSlot(KeyNone) != 0 {
		t.Fatalf("unexpected slot for non slot key")
	}
	if !b.IsConfirm(KeyZ) || !b.IsConfirm(KeyReturn) || b.IsConfirm(KeyX) {
		t.Fatalf("IsConfirm mismatch")
	}
}

func TestBindingsValidateRejectsDuplicates(t *testing.T) {
	b := defaultBindings()
	if err := b.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Load[0] = KeyZ
	if err := b.Validate(); err == nil {
		t.Fatalf("expected duplicate binding error")
	}
}

func TestMouseTranslation(t *testing.T) {
	b := defaultBindings()
	want := map[MouseButton]Key{
		MouseLeft: KeyZ, MouseMiddle: KeyC, MouseRight: KeyX, WheelUp: KeyF1, WheelDown: KeyDown,
	}
	for m, k := range want {
		if got := b.Mouse(m); got != k {
			t.Fatalf("Mouse(%d) = %v, want %v", m, got, k)
		}
	}
}
