//go:build ebiten

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/yuu-eguci/dialog-framework/internal/input"
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyZ: input.KeyZ, ebiten.KeyX: input.KeyX, ebiten.KeyC: input.KeyC,
	ebiten.KeyDigit1: input.Key1, ebiten.KeyDigit2: input.Key2, ebiten.KeyDigit3: input.Key3, ebiten.KeyDigit4: input.Key4,
	ebiten.KeyDigit5: input.Key5, ebiten.KeyDigit6: input.Key6, ebiten.KeyDigit7: input.Key7, ebiten.KeyDigit8: input.Key8,
	ebiten.KeyF1: input.KeyF1, ebiten.KeyF2: input.KeyF2, ebiten.KeyF3: input.KeyF3, ebiten.KeyF4: input.KeyF4,
	ebiten.KeyF5: input.KeyF5, ebiten.KeyF6: input.KeyF6, ebiten.KeyF7: input.KeyF7, ebiten.KeyF8: input.KeyF8,
	ebiten.KeyF11: input.KeyF11, ebiten.KeyF12: input.KeyF12,
	ebiten.KeyArrowUp: input.KeyUp, ebiten.KeyArrowDown: input.KeyDown,
	ebiten.KeyArrowLeft: input.KeyLeft, ebiten.KeyArrowRight: input.KeyRight,
	ebiten.KeyEnter: input.KeyReturn, ebiten.KeyNumpadEnter: input.KeyReturn,
}

var mouseMap = []struct {
	eb ebiten.MouseButton
	mb input.MouseButton
}{
	{ebiten.MouseButtonLeft, input.MouseLeft},
	{ebiten.MouseButtonMiddle, input.MouseMiddle},
	{ebiten.MouseButtonRight, input.MouseRight},
}

// pollKeys returns the logical keys pressed since the previous frame, with
// mouse actions translated through b. Closing the window or Alt+F4 yields
// KeyQuit.
func pollKeys(b input.Bindings, buf []ebiten.Key) ([]input.Key, []ebiten.Key) {
	var out []input.Key
	if ebiten.IsWindowBeingClosed() {
		return append(out, input.KeyQuit), buf
	}
	buf = inpututil.AppendJustPressedKeys(buf[:0])
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	for _, k := range buf {
		if k == ebiten.KeyF4 && alt {
			return append(out[:0], input.KeyQuit), buf
		}
		if lk, ok := keyMap[k]; ok {
			out = append(out, lk)
		}
	}
	for _, m := range mouseMap {
		if inpututil.IsMouseButtonJustPressed(m.eb) {
			if k := b.Mouse(m.mb); k != input.KeyNone {
				out = append(out, k)
			}
		}
	}
	wheel := input.KeyNone
	switch _, dy := ebiten.Wheel(); {
	case dy > 0:
		wheel = b.Mouse(input.WheelUp)
	case dy < 0:
		wheel = b.Mouse(input.WheelDown)
	}
	if wheel != input.KeyNone {
		out = append(out, wheel)
	}
	return out, buf
}
