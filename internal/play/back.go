/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import (
	"context"
	"fmt"

	"github.com/yuu-eguci/dialog-framework/internal/input"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

// backMode shows an earlier paragraph. Only text lines and tags named in the
// pass-through set are processed.
func (e *Engine) backMode(ctx context.Context, keys []input.Key) error {
	if e.st.PageBack == 0 {
		e.st.Mode = e.st.Mode.Plain()
		return nil
	}
	e.drawBox([]string{e.cfg.BackReview.Message}, e.cfg.BackReview.BoxColor, e.cfg.BackReview.MesColor)

	idx := e.st.Page - e.st.PageBack
	p, ok := e.lib.Paragraph(idx)
	if !ok {
		return fmt.Errorf("review page %d is outside the story (%d paragraphs)", idx, e.lib.Len())
	}
	n := 0
	for _, l := range p.Lines {
		switch l.Kind {
		case script.LineTag:
			tag, err := l.Tag()
			if err != nil {
				return err
			}
			if e.pass[tag.Name] {
				if err := e.dispatchTag(ctx, tag); err != nil {
					return err
				}
			}
		case script.LineText:
			e.drawDialogLine(n, l.Text)
			n++
		}
	}

	for _, k := range keys {
		switch {
		case e.keys.IsConfirm(k):
			if e.st.PageBack > 0 {
				e.st.PageBack--
				e.SkipTagLines(false)
			}
		case k == e.keys.BackPage:
			if e.st.PageBack < e.st.Page {
				e.st.PageBack++
				e.SkipTagLines(true)
			}
		}
	}
	return nil
}

// SkipTagLines moves PageBack past paragraphs that show nothing while
// reviewing. backward moves further into the past. At either end of
// [0, Page] the direction reverses. The current page (PageBack 0) always
// counts as shown, so the walk ends there at the latest; the step bound only
// guards against Page changing underneath it.
func (e *Engine) SkipTagLines(backward bool) {
	page := e.st.Page
	start := e.st.PageBack
	for range 2*(page+1) + 2 {
		if e.isShown(e.st.PageBack) {
			return
		}
		step := -1
		if backward {
			step = 1
		}
		next := e.st.PageBack + step
		if next < 0 || next > page {
			backward = !backward
			continue
		}
		e.st.PageBack = next
	}
	e.st.PageBack = start
}

// isShown reports whether the paragraph pageBack steps behind the current page
// has something to show during review.
func (e *Engine) isShown(pageBack int) bool {
	if pageBack == 0 {
		return true
	}
	p, ok := e.lib.Paragraph(e.st.Page - pageBack)
	if !ok {
		return false
	}
	shown := false
	for _, l := range p.Lines {
		switch l.Kind {
		case script.LineText:
			shown = true
		case script.LineTag:
			tag, err := l.Tag()
			if err != nil {
				continue
			}
			if tag.Name == script.TagSkip && tag.Has("back") {
				return false
			}
			if e.pass[tag.Name] {
				shown = true
			}
		}
	}
	return shown
}
