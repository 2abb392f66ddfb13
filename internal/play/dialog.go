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

	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/input"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

func (e *Engine) dialogMode(ctx context.Context, keys []input.Key) error {
	e.hint = true
	p, ok := e.lib.Paragraph(e.st.Page)
	if !ok {
		return fmt.Errorf("page %d is outside the story (%d paragraphs)", e.st.Page, e.lib.Len())
	}
	var texts []string
	for _, l := range p.Lines {
		switch l.Kind {
		case script.LineTag:
			if err := e.dispatch(ctx, l); err != nil {
				return err
			}
		case script.LineText:
			e.drawDialogLine(len(texts), l.Text)
			texts = append(texts, l.Text)
		}
	}
	if err := e.applyLinks(texts); err != nil {
		return err
	}
	return e.dialogKeys(ctx, keys)
}

func (e *Engine) drawDialogLine(n int, s string) {
	lh := e.measure.LineHeight(e.cfg.Font.File, e.cfg.Font.Size)
	at := domain.Point{X: e.cfg.Dialog.X, Y: e.cfg.Dialog.Y + lh*n}
	e.frame.text(at, s, e.cfg.Dialog.Color, e.cfg.Font.File, e.cfg.Font.Size)
}

func (e *Engine) dialogKeys(ctx context.Context, keys []input.Key) error {
	openName := e.cfg.ImageOpen.Name
	for _, k := range keys {
		// While the always-visible image is open only its toggle works.
		if e.st.Num2 == 1 {
			if k == e.keys.ImageOpen && openName != "" {
				e.st.Num2 = 0
			}
			return nil
		}
		switch {
		case k == e.keys.ImageOpen && openName != "":
			a, err := e.rsrc.Image(openName)
			if err != nil {
				return err
			}
			a.Pos = e.cfg.ImageOpen.XY
			e.st.Num2 = 1
		case e.keys.IsConfirm(k):
			if err := e.turnPage(ctx); err != nil {
				return err
			}
		case k == e.keys.BackPage:
			if e.st.Page > 0 {
				e.st.PageBack = 1
				e.st.Num = 0
				e.st.Mode = e.st.Mode.With(OverlayBack)
				e.SkipTagLines(true)
				e.log.DebugContext(ctx, "back review", slog.Int("page", e.st.Page), slog.Int("pageBack", e.st.PageBack))
			}
		case k == e.keys.ShowHelp:
			e.announce(e.cfg.Help.Message...)
		case k == e.keys.GoToStart:
			e.resetStatus()
		default:
			if slot := e.keys.SaveSlot(k); slot > 0 {
				e.saveSlot(ctx, slot)
			} else if slot := e.keys.LoadSlot(k); slot > 0 {
				e.loadSlot(ctx, slot)
			}
		}
		if !e.st.Mode.Is(BaseDialog) {
			return nil
		}
	}
	return nil
}

// turnPage advances one paragraph, or resets to the start after the last one.
func (e *Engine) turnPage(ctx context.Context) error {
	if e.st.Page >= e.lib.MaxIndex() {
		e.resetStatus()
	} else {
		e.st.Page++
	}
	e.st.Num = 0
	if err := e.playSound(e.cfg.TurnPageSound, nil); err != nil {
		return err
	}
	e.rsrc.ResetSounds()
	e.log.DebugContext(ctx, "page turned", slog.Int("page", e.st.Page), slog.String("mode", e.st.Mode.String()))
	return nil
}
