/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package resource

import (
	"errors"
	"fmt"
	"os"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
)

// Loader turns asset files into renderer handles.
type Loader interface {
	// LoadImage loads path. When key is set, every pixel with the colour found
	// at key becomes transparent.
	LoadImage(path string, key *domain.Point) (Surface, error)
	LoadSound(path string) (Clip, error)
}

// ImageSpec declares one image to load.
type ImageSpec struct {
	Name     string
	ColorKey *domain.Point
}

// Paths resolves asset names to files.
type Paths interface {
	Image(name string) string
	Sound(name string) string
}

// Build loads every declared asset. All failures are reported together.
func Build(ld Loader, paths Paths, images []ImageSpec, sounds []string) (*Set, error) {
	s := NewSet()
	var errs []error
	for _, im := range images {
		if s.HasImage(im.Name) {
			errs = append(errs, fmt.Errorf("image %q declared twice", im.Name))
			continue
		}
		surf, err := ld.LoadImage(paths.Image(im.Name), im.ColorKey)
		if err != nil {
			errs = append(errs, fmt.Errorf("load image %q: %w", im.Name, err))
			continue
		}
		s.AddImage(im.Name, surf)
	}
	for _, name := range sounds {
		if _, ok := s.sounds[name]; ok {
			errs = append(errs, fmt.Errorf("sound %q declared twice", name))
			continue
		}
		clip, err := ld.LoadSound(paths.Sound(name))
		if err != nil {
			errs = append(errs, fmt.Errorf("load sound %q: %w", name, err))
			continue
		}
		s.AddSound(name, clip)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// NopLoader returns the file path as the handle without touching the disk.
type NopLoader struct{}

func (NopLoader) LoadImage(path string, _ *domain.Point) (Surface, error) { return path, nil }
func (NopLoader) LoadSound(path string) (Clip, error)                    { return path, nil }

// StatLoader checks that every asset file exists and returns its path as the
// handle. Used for cassette checks without a renderer.
type StatLoader struct{}

func (StatLoader) LoadImage(path string, _ *domain.Point) (Surface, error) {
	return path, statFile(path)
}

func (StatLoader) LoadSound(path string) (Clip, error) { return path, statFile(path) }

func statFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
