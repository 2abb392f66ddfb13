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
	"log/slog"
	"strings"

	"github.com/yuu-eguci/dialog-framework/internal/config"
	"github.com/yuu-eguci/dialog-framework/internal/input"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

// MsgLoadDisabled is announced when "continue" is chosen without saves.
const MsgLoadDisabled = "This dialog doesn't allow loading data."

// openingPages builds the opening screen as tag paragraphs. Page 0 lays out
// the background and idle buttons and skips to page 1; every further page
// highlights one button.
func openingPages(cfg config.Cassette) []script.Paragraph {
	o := cfg.Opening
	var base strings.Builder
	base.WriteString("<event name=image removeall>\n")
	fmt.Fprintf(&base, "<event name=image file=%q x=0 y=0 put>\n", o.Background)
	if o.BGM.Name != "" {
		fmt.Fprintf(&base, "<event name=bgm file=%q volume=%g play>\n", o.BGM.Name, o.BGM.Volume)
	}
	buttons := []config.Button{o.Start, o.Continue}
	if cfg.MultiStory() {
		buttons = o.Stories
	}
	for _, b := range buttons {
		fmt.Fprintf(&base, "<event name=image file=%q x=%d y=%d put>\n", b.Name1, b.X, b.Y)
	}
	base.WriteString("<event name=skip>")

	pages := []string{base.String()}
	for i, b := range buttons {
		var p strings.Builder
		for j, other := range buttons {
			if j != i {
				fmt.Fprintf(&p, "<event name=image file=%q remove>\n", other.Name2)
			}
		}
		fmt.Fprintf(&p, "<event name=image file=%q x=%d y=%d", b.Name2, b.X, b.Y)
		if b.Shake != 0 {
			fmt.Fprintf(&p, " shake=%d", b.Shake)
		}
		p.WriteString(" put>")
		pages = append(pages, p.String())
	}
	return script.Parse(strings.Join(pages, "\n\n"))
}

func (e *Engine) openingMode(ctx context.Context, keys []input.Key) error {
	if e.st.Page < 0 || e.st.Page >= len(e.opening) {
		return fmt.Errorf("opening has no page %d", e.st.Page)
	}
	for _, l := range e.opening[e.st.Page].Lines {
		if l.Kind != script.LineTag {
			continue
		}
		if err := e.dispatch(ctx, l); err != nil {
			return err
		}
	}

	choices := len(e.opening) - 1
	for _, k := range keys {
		page := e.st.Page
		switch {
		case k == input.KeyUp || k == input.KeyLeft:
			if page <= 1 {
				e.st.Page = choices
			} else {
				e.st.Page = page - 1
			}
		case k == input.KeyDown || k == input.KeyRight:
			if page >= choices {
				e.st.Page = 1
			} else {
				e.st.Page = page + 1
			}
		case e.keys.IsConfirm(k):
			if page < 1 {
				continue
			}
			if err := e.confirmOpening(ctx, page); err != nil {
				return err
			}
		}
		if !e.st.Mode.Is(BaseOpening) {
			return nil
		}
	}
	return nil
}

func (e *Engine) confirmOpening(ctx context.Context, page int) error {
	if e.cfg.MultiStory() {
		if err := e.lib.SwapIndex(page - 1); err != nil {
			return err
		}
		e.st.Story = e.lib.Active()
		return e.startDialog(ctx)
	}
	if page == 1 {
		return e.startDialog(ctx)
	}
	if !e.cfg.Save.Enabled || e.slots == nil {
		e.announce(MsgLoadDisabled)
		return nil
	}
	e.loadSlot(ctx, 1)
	return nil
}

// startDialog leaves the opening for the first page of the active story.
func (e *Engine) startDialog(ctx context.Context) error {
	e.st.Mode = Mode{Base: BaseDialog}
	e.st.Page = 0
	e.st.Num = 0
	snd := e.cfg.Opening.Sound
	if err := e.playSound(snd.Name, &snd.Volume); err != nil {
		return err
	}
	e.rsrc.ResetSounds()
	e.log.InfoContext(ctx, "story started", slog.String("story", e.lib.Active()))
	return nil
}
