/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import "fmt"

// Base is the underlying screen: the opening menu or the story itself.
type Base int

const (
	BaseOpening Base = iota
	BaseDialog
)

var baseNames = [...]string{BaseOpening: "opening", BaseDialog: "dialog"}

func (b Base) String() string {
	if int(b) < len(baseNames) {
		return baseNames[b]
	}
	return fmt.Sprintf("base(%d)", int(b))
}

func (b Base) MarshalText() ([]byte, error) {
	if int(b) >= len(baseNames) || b < 0 {
		return nil, fmt.Errorf("unknown base %d", int(b))
	}
	return []byte(baseNames[b]), nil
}

func (b *Base) UnmarshalText(p []byte) error {
	for i, n := range baseNames {
		if n == string(p) {
			*b = Base(i)
			return nil
		}
	}
	return fmt.Errorf("unknown base %q", p)
}

// Overlay is a modal layer on top of a Base.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayAnnounce
	OverlayBack
)

var overlayNames = [...]string{OverlayNone: "", OverlayAnnounce: "announce", OverlayBack: "back"}

func (o Overlay) String() string {
	if o == OverlayNone {
		return "none"
	}
	if int(o) < len(overlayNames) && o > 0 {
		return overlayNames[o]
	}
	return fmt.Sprintf("overlay(%d)", int(o))
}

func (o Overlay) MarshalText() ([]byte, error) {
	if int(o) >= len(overlayNames) || o < 0 {
		return nil, fmt.Errorf("unknown overlay %d", int(o))
	}
	return []byte(overlayNames[o]), nil
}

func (o *Overlay) UnmarshalText(p []byte) error {
	for i, n := range overlayNames {
		if n == string(p) {
			*o = Overlay(i)
			return nil
		}
	}
	return fmt.Errorf("unknown overlay %q", p)
}

// Mode is the playback mode. Overlays compose with either base.
type Mode struct {
	Base    Base    `json:"base"`
	Overlay Overlay `json:"overlay"`
}

// Plain returns m without its overlay.
func (m Mode) Plain() Mode { return Mode{Base: m.Base} }

// With returns m carrying overlay o.
func (m Mode) With(o Overlay) Mode { return Mode{Base: m.Base, Overlay: o} }

// Is reports whether m is exactly base b with no overlay.
func (m Mode) Is(b Base) bool { return m == Mode{Base: b} }

func (m Mode) String() string {
	if m.Overlay == OverlayNone {
		return m.Base.String()
	}
	return m.Base.String() + "+" + m.Overlay.String()
}
