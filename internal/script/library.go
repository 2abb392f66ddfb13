/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Source reads raw story bytes by name.
type Source interface {
	ReadStory(name string) ([]byte, error)
}

// DirSource reads stories from a directory.
type DirSource string

func (d DirSource) ReadStory(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), name))
}

// Library holds the configured story names and the paragraphs of the active one.
type Library struct {
	src    Source
	names  []string
	active string
	paras  []Paragraph
}

// NewLibrary creates a library over names. No story is loaded until Swap.
func NewLibrary(src Source, names ...string) *Library {
	return &Library{src: src, names: slices.Clone(names)}
}

// Names returns the configured story names.
func (l *Library) Names() []string { return slices.Clone(l.names) }

// Active returns the name of the loaded story.
func (l *Library) Active() string { return l.active }

// Len returns the paragraph count of the active story.
func (l *Library) Len() int { return len(l.paras) }

// MaxIndex returns the last valid page index.
func (l *Library) MaxIndex() int { return len(l.paras) - 1 }

// Paragraph returns paragraph i of the active story.
func (l *Library) Paragraph(i int) (Paragraph, bool) {
	if i < 0 || i >= len(l.paras) {
		return Paragraph{}, false
	}
	return l.paras[i], true
}

// Paragraphs returns the active story.
func (l *Library) Paragraphs() []Paragraph { return l.paras }

// Swap loads the named story and makes it active. On error the previous story stays active.
func (l *Library) Swap(name string) error {
	if !slices.Contains(l.names, name) {
		return fmt.Errorf("story %q is not configured", name)
	}
	paras, err := Load(l.src, name)
	if err != nil {
		return err
	}
	l.active, l.paras = name, paras
	return nil
}

// SwapIndex activates the i-th configured story.
func (l *Library) SwapIndex(i int) error {
	if i < 0 || i >= len(l.names) {
		return fmt.Errorf("story index %d out of range (%d stories)", i, len(l.names))
	}
	return l.Swap(l.names[i])
}

// Reload re-reads the active story.
func (l *Library) Reload() error {
	if l.active == "" {
		return fmt.Errorf("no active story")
	}
	return l.Swap(l.active)
}

// Load reads, decodes and parses one story.
func Load(src Source, name string) ([]Paragraph, error) {
	b, err := src.ReadStory(name)
	if err != nil {
		return nil, fmt.Errorf("read story %q: %w", name, err)
	}
	text, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode story %q: %w", name, err)
	}
	paras := Parse(text)
	if len(paras) == 0 {
		return nil, fmt.Errorf("story %q is empty", name)
	}
	return paras, nil
}
