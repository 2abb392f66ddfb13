/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import "slices"

// State is the playback state. It is serialized verbatim into save slots.
type State struct {
	Mode       Mode     `json:"mode"`
	Page       int      `json:"page"`
	PageBack   int      `json:"pageBack"`   // paragraphs behind Page while reviewing
	ImageOrder []string `json:"imageOrder"` // draw order, back to front
	Num        int      `json:"num"`        // dice frames rolled on this page
	Num2       int      `json:"num2"`       // 1 while the always-visible image is open
	Message    []string `json:"message"`    // announce overlay lines
	FrameNum   int      `json:"frameNum"`
	Story      string   `json:"story"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.ImageOrder = slices.Clone(s.ImageOrder)
	s.Message = slices.Clone(s.Message)
	return s
}

// Showing reports whether id is in the image order.
func (s State) Showing(id string) bool { return slices.Contains(s.ImageOrder, id) }

func (s *State) dropImage(id string) bool {
	i := slices.Index(s.ImageOrder, id)
	if i < 0 {
		return false
	}
	s.ImageOrder = slices.Delete(s.ImageOrder, i, i+1)
	return true
}
