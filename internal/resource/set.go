/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package resource holds the image, sound and background music assets of a
// cassette together with their mutable playback attributes.
package resource

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
)

// Default gains for newly loaded sounds and the background music slot.
const (
	DefaultSoundVolume = 0.1
	DefaultBGMVolume   = 0.1
)

// Surface is a renderer specific, immutable image handle.
type Surface any

// Clip is a renderer specific, replayable sound handle.
type Clip any

// ImageAsset is a loaded image and where it is drawn.
type ImageAsset struct {
	ID      string
	Surface Surface
	Pos     domain.Point
	// Shake is a transient displacement added when drawing. It is not saved.
	Shake domain.Point
}

// DrawPos returns the position the image is drawn at this frame.
func (a *ImageAsset) DrawPos() domain.Point { return a.Pos.Add(a.Shake) }

// SoundAsset is a loaded sound effect.
type SoundAsset struct {
	ID     string
	Clip   Clip
	Volume float64
	// Played is set once the sound has been started on the current page.
	Played bool
}

// BGM is the single background music slot.
type BGM struct {
	Track   string
	Volume  float64
	Playing bool
}

// Set is the resource set of one cassette.
type Set struct {
	images map[string]*ImageAsset
	sounds map[string]*SoundAsset
	BGM    BGM
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		images: map[string]*ImageAsset{},
		sounds: map[string]*SoundAsset{},
		BGM:    BGM{Volume: DefaultBGMVolume},
	}
}

// AddImage registers an image at the origin.
func (s *Set) AddImage(id string, surf Surface) *ImageAsset {
	a := &ImageAsset{ID: id, Surface: surf}
	s.images[id] = a
	return a
}

// AddSound registers a sound at the default volume.
func (s *Set) AddSound(id string, clip Clip) *SoundAsset {
	a := &SoundAsset{ID: id, Clip: clip, Volume: DefaultSoundVolume}
	s.sounds[id] = a
	return a
}

// Image looks up an image asset.
func (s *Set) Image(id string) (*ImageAsset, error) {
	if a, ok := s.images[id]; ok {
		return a, nil
	}
	return nil, &AssetNotFoundError{Kind: "image", ID: id, Suggestion: Suggest(id, s.ImageIDs())}
}

// Sound looks up a sound asset.
func (s *Set) Sound(id string) (*SoundAsset, error) {
	if a, ok := s.sounds[id]; ok {
		return a, nil
	}
	return nil, &AssetNotFoundError{Kind: "sound", ID: id, Suggestion: Suggest(id, s.SoundIDs())}
}

// HasImage reports whether id is a loaded image.
func (s *Set) HasImage(id string) bool {
	_, ok := s.images[id]
	return ok
}

// ImageIDs returns the sorted image ids.
func (s *Set) ImageIDs() []string { return sortedKeys(s.images) }

// SoundIDs returns the sorted sound ids.
func (s *Set) SoundIDs() []string { return sortedKeys(s.sounds) }

// ResetSounds clears the played flag of every sound. Called on each page change.
func (s *Set) ResetSounds() {
	for _, a := range s.sounds {
		a.Played = false
	}
}

// ClearShake removes the transient displacement of every image.
func (s *Set) ClearShake() {
	for _, a := range s.images {
		a.Shake = domain.Point{}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AssetNotFoundError reports a reference to an asset that is not loaded.
type AssetNotFoundError struct {
	Kind       string
	ID         string
	Suggestion string
}

func (e *AssetNotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s %q not found (did you mean %q?)", e.Kind, e.ID, e.Suggestion)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Suggest returns the candidate nearest to id by edit distance, or "" when
// nothing is reasonably close.
func Suggest(id string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(id, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, len(id)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
