/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores parsed OpenType fonts by file name.
type FontLibrary struct {
	fonts map[string]*opentype.Font
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[string]*opentype.Font)} }

// LoadFile parses the TTF/OTF file at path and stores it under name.
func (fl *FontLibrary) LoadFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.LoadBytes(name, data)
}

// LoadBytes parses font data and stores it under name.
func (fl *FontLibrary) LoadBytes(name string, data []byte) error {
	if fl.fonts == nil {
		fl.fonts = make(map[string]*opentype.Font)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	fl.fonts[name] = f
	return nil
}

// Has reports whether name is loaded.
func (fl *FontLibrary) Has(name string) bool {
	_, ok := fl.fonts[name]
	return ok
}

// NewFace creates a face of the named font at size px (72 DPI, so points equal pixels).
func (fl *FontLibrary) NewFace(name string, size int) (font.Face, error) {
	f, ok := fl.fonts[name]
	if !ok {
		return nil, fmt.Errorf("font %q not loaded", name)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
}
