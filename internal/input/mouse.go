/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package input

// MouseButton identifies a pointer action.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	WheelUp
	WheelDown
)

// Mouse translates pointer actions into the key the same action is bound
// to: left click turns the page, middle click toggles the always-visible
// image, right click goes back, wheel up opens help and wheel down acts as
// the down arrow.
func (b Bindings) Mouse(m MouseButton) Key {
	switch m {
	case MouseLeft:
		return b.TurnPage
	case MouseMiddle:
		return b.ImageOpen
	case MouseRight:
		return b.BackPage
	case WheelUp:
		return b.ShowHelp
	case WheelDown:
		return KeyDown
	}
	return KeyNone
}
