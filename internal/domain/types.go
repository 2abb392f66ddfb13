/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the small geometric and colour value types shared by the
// script player, its configuration and the renderer.

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Point is a pixel position on the 640x480 play surface. Origin is top-left.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// UnmarshalYAML accepts either a mapping {x, y} or a two element sequence [x, y].
func (p *Point) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		var xy []int
		if err := n.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: point needs 2 values, got %d", n.Line, len(xy))
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	}
	type plain Point
	var v plain
	if err := n.Decode(&v); err != nil {
		return err
	}
	*p = Point(v)
	return nil
}

// Rect is an axis aligned rectangle.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Color is an 8-bit RGBA colour. A zero alpha read from config means opaque.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGB builds an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

var (
	White = RGB(255, 255, 255)
	Black = RGB(0, 0, 0)
)

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = uint32(c.A)
	a |= a << 8
	// premultiply as image/color expects
	r = r * a / 0xffff
	g = g * a / 0xffff
	b = b * a / 0xffff
	return
}

// ParseColor reads "r,g,b", "r,g,b,a", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		h := s[1:]
		if len(h) != 6 && len(h) != 8 {
			return Color{}, fmt.Errorf("invalid hex colour %q", s)
		}
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
		}
		if len(h) == 6 {
			return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
		}
		return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}
	s = strings.Trim(s, "()[]")
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid colour %q: want 3 or 4 components", s)
	}
	var comp [4]uint8
	comp[3] = 255
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		comp[i] = uint8(v)
	}
	return Color{R: comp[0], G: comp[1], B: comp[2], A: comp[3]}, nil
}

// UnmarshalYAML accepts a sequence [r, g, b(, a)] or a string understood by ParseColor.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		var v []int
		if err := n.Decode(&v); err != nil {
			return err
		}
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = strconv.Itoa(x)
		}
		col, err := ParseColor(strings.Join(parts, ","))
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*c = col
		return nil
	case yaml.ScalarNode:
		col, err := ParseColor(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*c = col
		return nil
	}
	return fmt.Errorf("line %d: unsupported colour value", n.Line)
}

// Corner selects one of the four screen corners.
type Corner string

const (
	NorthWest Corner = "nw"
	NorthEast Corner = "ne"
	SouthWest Corner = "sw"
	SouthEast Corner = "se"
)

// Valid reports whether c names a known corner.
func (c Corner) Valid() bool {
	switch c {
	case NorthWest, NorthEast, SouthWest, SouthEast:
		return true
	}
	return false
}

// Place returns the top-left origin for a box of size w x h inset by margin
// in corner c of a screen of size sw x sh.
func (c Corner) Place(w, h, sw, sh, margin int) Point {
	switch c {
	case NorthEast:
		return Point{X: sw - margin - w, Y: margin}
	case SouthWest:
		return Point{X: margin, Y: sh - margin - h}
	case SouthEast:
		return Point{X: sw - margin - w, Y: sh - margin - h}
	default:
		return Point{X: margin, Y: margin}
	}
}
