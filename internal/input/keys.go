/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package input defines the logical key space the player reacts to. Frontends
// translate keyboard and mouse events into Keys before each frame.
package input

import (
	"errors"
	"fmt"
	"strings"
)

// Key is a logical key.
type Key int

const (
	KeyNone Key = iota
	KeyZ
	KeyX
	KeyC
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF11
	KeyF12
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyReturn
	// KeyQuit is emitted for a window close request or Alt+F4.
	KeyQuit
)

// bindable lists the keys a cassette may assign to actions, by config name.
var bindable = map[string]Key{
	"z": KeyZ, "x": KeyX, "c": KeyC,
	"1": Key1, "2": Key2, "3": Key3, "4": Key4,
	"5": Key5, "6": Key6, "7": Key7, "8": Key8,
	"f1": KeyF1, "f2": KeyF2, "f3": KeyF3, "f4": KeyF4,
	"f5": KeyF5, "f6": KeyF6, "f7": KeyF7, "f8": KeyF8,
	"f11": KeyF11, "f12": KeyF12,
}

var names = map[Key]string{
	KeyUp: "up", KeyDown: "down", KeyLeft: "left", KeyRight: "right",
	KeyReturn: "return", KeyQuit: "quit", KeyNone: "none",
}

func init() {
	for n, k := range bindable {
		names[k] = n
	}
}

// ErrUnknownKey is returned for key names outside the bindable set.
var ErrUnknownKey = errors.New("unknown key")

// ParseKey resolves a bindable key name such as "z", "3" or "f11".
func ParseKey(name string) (Key, error) {
	k, ok := bindable[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KeyNone, fmt.Errorf("%w %q", ErrUnknownKey, name)
	}
	return k, nil
}

func (k Key) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Label is the key name as shown to the reader.
func (k Key) Label() string { return strings.ToUpper(k.String()) }

// Bindings maps player actions to keys.
type Bindings struct {
	TurnPage  Key
	BackPage  Key
	ImageOpen Key
	ShowHelp  Key
	GoToStart Key
	Save      []Key // Save[i] writes slot i+1
	Load      []Key // Load[i] reads slot i+1
}

// Validate rejects a key bound to two actions.
func (b Bindings) Validate() error {
	seen := map[Key]string{}
	check := func(action string, k Key) error {
		if k == KeyNone {
			return nil
		}
		if prev, ok := seen[k]; ok {
			return fmt.Errorf("key %q bound to both %s and %s", k, prev, action)
		}
		seen[k] = action
		return nil
	}
	if err := check("turn_page", b.TurnPage); err != nil {
		return err
	}
	if err := check("back_page", b.BackPage); err != nil {
		return err
	}
	if err := check("image_open", b.ImageOpen); err != nil {
		return err
	}
	if err := check("show_help", b.ShowHelp); err != nil {
		return err
	}
	if err := check("go_to_start", b.GoToStart); err != nil {
		return err
	}
	for i, k := range b.Save {
		if err := check(fmt.Sprintf("save[%d]", i), k); err != nil {
			return err
		}
	}
	for i, k := range b.Load {
		if err := check(fmt.Sprintf("load[%d]", i), k); err != nil {
			return err
		}
	}
	return nil
}

// IsConfirm reports whether k advances: the turn-page key or Return.
func (b Bindings) IsConfirm(k Key) bool { return k == b.TurnPage || k == KeyReturn }

// SaveSlot returns the slot number written by k, or 0.
func (b Bindings) SaveSlot(k Key) int { return slotOf(b.Save, k) }

// LoadSlot returns the slot number read by k, or 0.
func (b Bindings) LoadSlot(k Key) int { return slotOf(b.Load, k) }

func slotOf(keys []Key, k Key) int {
	if k == KeyNone {
		return 0
	}
	for i, s := range keys {
		if s == k {
			return i + 1
		}
	}
	return 0
}
