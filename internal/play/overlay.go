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
	"github.com/yuu-eguci/dialog-framework/internal/input"
)

// Overlay geometry.
const (
	boxOrigin   = 50
	boxPad      = 10
	hintPadding = 3
	hintSize    = 11
)

func (e *Engine) announceMode(keys []input.Key) {
	e.hint = true
	e.drawBox(e.st.Message, e.cfg.Announce.BoxColor, e.cfg.Announce.MesColor)
	for _, k := range keys {
		if e.keys.IsConfirm(k) {
			e.st.Mode = e.st.Mode.Plain()
			e.st.Message = nil
			return
		}
	}
}

// drawBox draws lines in a filled box at the overlay origin sized to the
// widest line.
func (e *Engine) drawBox(lines []string, box, fg domain.Color) {
	font, size := e.cfg.Font.File, e.cfg.Font.Size
	lh := e.measure.LineHeight(font, size)
	w := 0
	for _, l := range lines {
		lw, _ := e.measure.Measure(font, size, l)
		w = max(w, lw)
	}
	origin := domain.Point{X: boxOrigin, Y: boxOrigin}
	e.frame.rect(origin, w+2*boxPad, lh*len(lines)+2*boxPad, box)
	for i, l := range lines {
		at := domain.Point{X: boxOrigin + boxPad, Y: boxOrigin + boxPad + lh*i}
		e.frame.text(at, l, fg, font, size)
	}
}

// HintText returns the corner hint shown in the current mode.
func (e *Engine) HintText() string {
	if e.st.Mode.Overlay == OverlayAnnounce {
		return e.keys.TurnPage.Label() + " to close"
	}
	return "Help: " + e.keys.ShowHelp.Label()
}

func (e *Engine) drawHelpHint() {
	label := e.HintText()
	font := e.cfg.Font.File
	w, h := e.measure.Measure(font, hintSize, label)
	at := e.cfg.Help.Location.Place(w, h, e.cfg.Screen.Width, e.cfg.Screen.Height, hintPadding*2)
	e.frame.rect(domain.Point{X: at.X - hintPadding, Y: at.Y - hintPadding}, w+hintPadding*2, h+hintPadding*2, e.cfg.Help.BoxColor)
	e.frame.text(at, label, e.cfg.Help.MesColor, font, hintSize)
}
