/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures and provides font faces for the dialog text,
// overlay boxes and text tags.
package textlayout

import (
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	applog "github.com/yuu-eguci/dialog-framework/internal/log"
)

type faceKey struct {
	name string
	size int
}

// Measurer resolves (font, size) pairs to faces and measures single lines.
// An empty font name selects the default font. Fonts named by scripts are
// loaded from Dir on first use; unreadable fonts fall back to the default.
type Measurer struct {
	Dir         string
	DefaultFont string
	DefaultSize int

	mu     sync.Mutex
	lib    *FontLibrary
	faces  map[faceKey]font.Face
	failed map[string]bool
}

// NewMeasurer loads the default font from dir. An empty defaultFont uses the
// built-in 7x13 bitmap face.
func NewMeasurer(dir, defaultFont string, defaultSize int) (*Measurer, error) {
	m := newMeasurer(dir, defaultFont, defaultSize)
	if defaultFont != "" {
		if err := m.lib.LoadFile(defaultFont, filepath.Join(dir, defaultFont)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func newMeasurer(dir, defaultFont string, defaultSize int) *Measurer {
	if defaultSize <= 0 {
		defaultSize = 18
	}
	return &Measurer{
		Dir:         dir,
		DefaultFont: defaultFont,
		DefaultSize: defaultSize,
		lib:         NewFontLibrary(),
		faces:       map[faceKey]font.Face{},
		failed:      map[string]bool{},
	}
}

// Face returns the face for name at size. Zero or negative size selects the default size.
func (m *Measurer) Face(name string, size int) font.Face {
	if name == "" {
		name = m.DefaultFont
	}
	if size <= 0 {
		size = m.DefaultSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := faceKey{name: name, size: size}
	if f, ok := m.faces[key]; ok {
		return f
	}
	f := m.resolve(name, size)
	m.faces[key] = f
	return f
}

func (m *Measurer) resolve(name string, size int) font.Face {
	if name == "" {
		return basicfont.Face7x13
	}
	if !m.lib.Has(name) && !m.failed[name] {
		if err := m.lib.LoadFile(name, filepath.Join(m.Dir, name)); err != nil {
			m.failed[name] = true
			applog.WithComponent("textlayout").Warn("font unavailable, using default", slog.String("font", name), slog.Any("err", err))
		}
	}
	if m.lib.Has(name) {
		if f, err := m.lib.NewFace(name, size); err == nil {
			return f
		}
	}
	if name != m.DefaultFont {
		return m.resolve(m.DefaultFont, size)
	}
	return basicfont.Face7x13
}

// Measure returns the pixel size of a single line of text.
func (m *Measurer) Measure(name string, size int, text string) (w, h int) {
	f := m.Face(name, size)
	return font.MeasureString(f, text).Ceil(), f.Metrics().Height.Ceil()
}

// LineHeight returns the distance between consecutive lines.
func (m *Measurer) LineHeight(name string, size int) int {
	return m.Face(name, size).Metrics().Height.Ceil()
}
