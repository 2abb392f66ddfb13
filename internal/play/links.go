/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import (
	"slices"
	"strings"
)

// A link pairs two images of which at most one is ever in the image order.

// linkBroken reports whether some link has both images showing.
func (e *Engine) linkBroken() bool {
	for _, l := range e.cfg.Links {
		if e.st.Showing(l.Main) && e.st.Showing(l.Back) {
			return true
		}
	}
	return false
}

// putImage appends id unless it is already showing or its linked partner is.
func (e *Engine) putImage(id string) {
	if e.st.Showing(id) {
		return
	}
	e.st.ImageOrder = append(e.st.ImageOrder, id)
	if e.linkBroken() {
		e.st.dropImage(id)
	}
}

// removeImage takes id out of the order. Removing an image that is not
// showing removes its linked partner instead, since scripts name whichever
// of the pair they put.
func (e *Engine) removeImage(id string) {
	if e.st.dropImage(id) {
		return
	}
	for _, l := range e.cfg.Links {
		switch id {
		case l.Main:
			e.st.dropImage(l.Back)
		case l.Back:
			e.st.dropImage(l.Main)
		}
	}
}

// changeImage replaces from with to at the same depth.
func (e *Engine) changeImage(from, to string) {
	i := slices.Index(e.st.ImageOrder, from)
	if i < 0 {
		return
	}
	if e.st.Showing(to) {
		e.st.dropImage(from)
		return
	}
	e.st.ImageOrder[i] = to
	if e.linkBroken() {
		e.st.ImageOrder[i] = from
	}
}

// applyLinks shows the main image of every link whose key occurs in the
// page text and the back image otherwise. The swapped-in image takes over the
// position of the one it replaces.
func (e *Engine) applyLinks(texts []string) error {
	for _, l := range e.cfg.Links {
		present := slices.ContainsFunc(texts, func(s string) bool { return strings.Contains(s, l.Key) })
		from, to := l.Main, l.Back
		if present {
			from, to = l.Back, l.Main
		}
		i := slices.Index(e.st.ImageOrder, from)
		if i < 0 {
			continue
		}
		src, err := e.rsrc.Image(from)
		if err != nil {
			return err
		}
		dst, err := e.rsrc.Image(to)
		if err != nil {
			return err
		}
		dst.Pos = src.Pos
		e.st.ImageOrder[i] = to
	}
	return nil
}
