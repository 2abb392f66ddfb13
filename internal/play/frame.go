/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import (
	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
)

// OpKind is the kind of a draw operation.
type OpKind int

const (
	OpImage OpKind = iota
	OpRect
	OpText
)

// Op is one draw call. Fields not used by Kind are zero.
type Op struct {
	Kind    OpKind
	At      domain.Point
	ImageID string
	Surface resource.Surface
	W, H    int // OpRect
	Color   domain.Color
	Text    string
	Font    string
	Size    int
}

// Frame is the ordered draw list produced by one tick. Renderers replay it
// onto the screen after clearing it to black.
type Frame struct {
	Ops []Op
}

func (f *Frame) image(a *resource.ImageAsset) {
	f.Ops = append(f.Ops, Op{Kind: OpImage, At: a.DrawPos(), ImageID: a.ID, Surface: a.Surface})
}

func (f *Frame) rect(at domain.Point, w, h int, c domain.Color) {
	f.Ops = append(f.Ops, Op{Kind: OpRect, At: at, W: w, H: h, Color: c})
}

func (f *Frame) text(at domain.Point, s string, c domain.Color, font string, size int) {
	f.Ops = append(f.Ops, Op{Kind: OpText, At: at, Text: s, Color: c, Font: font, Size: size})
}

// Texts returns the strings drawn in this frame, in draw order.
func (f Frame) Texts() []string {
	var out []string
	for _, op := range f.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Images returns the image ids drawn in this frame, in draw order.
func (f Frame) Images() []string {
	var out []string
	for _, op := range f.Ops {
		if op.Kind == OpImage {
			out = append(out, op.ImageID)
		}
	}
	return out
}

// ImageAt returns where id was drawn.
func (f Frame) ImageAt(id string) (domain.Point, bool) {
	for _, op := range f.Ops {
		if op.Kind == OpImage && op.ImageID == id {
			return op.At, true
		}
	}
	return domain.Point{}, false
}
