/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package resource

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
)

// The snapshot keeps only what scripts can change: image positions, sound
// gains and the background music slot.

type imageSnap struct {
	XY [2]int `json:"xy"`
}

type soundSnap struct {
	Vol float64 `json:"vol"`
}

type bgmSnap struct {
	Name    string  `json:"name"`
	Vol     float64 `json:"vol"`
	Playing bool    `json:"playing"`
}

type setSnap struct {
	Images map[string]imageSnap `json:"images"`
	Sounds map[string]soundSnap `json:"sounds"`
	BGM    bgmSnap              `json:"bgm"`
}

// ExportJSON serializes the mutable attributes of every asset.
func (s *Set) ExportJSON() ([]byte, error) {
	snap := setSnap{
		Images: make(map[string]imageSnap, len(s.images)),
		Sounds: make(map[string]soundSnap, len(s.sounds)),
		BGM:    bgmSnap{Name: s.BGM.Track, Vol: s.BGM.Volume, Playing: s.BGM.Playing},
	}
	for id, a := range s.images {
		snap.Images[id] = imageSnap{XY: [2]int{a.Pos.X, a.Pos.Y}}
	}
	for id, a := range s.sounds {
		snap.Sounds[id] = soundSnap{Vol: a.Volume}
	}
	return json.Marshal(snap)
}

// ImportJSON restores attributes written by ExportJSON. Ids no longer loaded
// are skipped and returned. Nothing is changed if b cannot be decoded.
func (s *Set) ImportJSON(b []byte) (skipped []string, err error) {
	var snap setSnap
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("resource snapshot: %w", err)
	}
	for id, im := range snap.Images {
		a, ok := s.images[id]
		if !ok {
			skipped = append(skipped, "image:"+id)
			continue
		}
		a.Pos = domain.Point{X: im.XY[0], Y: im.XY[1]}
		a.Shake = domain.Point{}
	}
	for id, so := range snap.Sounds {
		a, ok := s.sounds[id]
		if !ok {
			skipped = append(skipped, "sound:"+id)
			continue
		}
		a.Volume = so.Vol
	}
	s.BGM = BGM{Track: snap.BGM.Name, Volume: snap.BGM.Vol, Playing: snap.BGM.Playing}
	sort.Strings(skipped)
	return skipped, nil
}
