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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/yuu-eguci/dialog-framework/internal/save"
)

// Announcements for save and load.
const (
	MsgSaved        = "Saved to slot %d!"
	MsgSaveFailed   = "Could not save to slot %d."
	MsgSaveDisabled = "This dialog doesn't allow saving data."
	MsgLoaded       = "Loaded slot %d!"
	MsgNoSaveData   = "No save data in slot %d!"
	MsgLoadFailed   = "Could not load slot %d."
	MsgStale        = "The story has changed since this save."
)

// Snapshot captures the resource set and playback state for a save slot.
func (e *Engine) Snapshot() (save.Snapshot, error) {
	rsrc, err := e.rsrc.ExportJSON()
	if err != nil {
		return save.Snapshot{}, err
	}
	st := e.st.Clone()
	st.Message = nil
	st.Story = e.lib.Active()
	playback, err := json.Marshal(st)
	if err != nil {
		return save.Snapshot{}, err
	}
	return save.Snapshot{
		Resources:  rsrc,
		Playback:   playback,
		Paragraphs: e.lib.Len(),
		Story:      e.lib.Active(),
	}, nil
}

// saveSlot writes the current position. Failures are reported to the player
// and logged; playback continues either way.
func (e *Engine) saveSlot(ctx context.Context, slot int) {
	l := e.log.With(slog.String("op", "save"), slog.Int("slot", slot))
	if e.slots == nil || !e.cfg.Save.Enabled {
		e.announce(MsgSaveDisabled)
		return
	}
	snap, err := e.Snapshot()
	if err == nil {
		err = e.slots.Save(ctx, slot, snap)
	}
	if err != nil {
		l.ErrorContext(ctx, "save failed", slog.Any("err", err))
		e.announce(fmt.Sprintf(MsgSaveFailed, slot))
		return
	}
	l.InfoContext(ctx, "saved", slog.Int("page", e.st.Page))
	e.announce(fmt.Sprintf(MsgSaved, slot))
}

// loadSlot replaces the playback state and resource attributes with those of
// slot. An empty or unreadable slot leaves everything as it was and only
// announces why.
func (e *Engine) loadSlot(ctx context.Context, slot int) {
	l := e.log.With(slog.String("op", "load"), slog.Int("slot", slot))
	if e.slots == nil || !e.cfg.Save.Enabled {
		e.announce(MsgLoadDisabled)
		return
	}
	snap, err := e.slots.Load(ctx, slot)
	if errors.Is(err, save.ErrSlotNotFound) {
		l.InfoContext(ctx, "slot empty")
		e.announce(fmt.Sprintf(MsgNoSaveData, slot))
		return
	}
	if err == nil {
		err = save.Validate(snap)
	}
	var st State
	if err == nil {
		err = json.Unmarshal(snap.Playback, &st)
	}
	if err == nil {
		err = e.restore(ctx, snap, &st)
	}
	if err != nil {
		l.ErrorContext(ctx, "load failed", slog.Any("err", err))
		e.announce(fmt.Sprintf(MsgLoadFailed, slot))
		return
	}

	lines := []string{fmt.Sprintf(MsgLoaded, slot)}
	if snap.Paragraphs != e.lib.Len() {
		l.WarnContext(ctx, "stale save", slog.Int("saved_paragraphs", snap.Paragraphs), slog.Int("paragraphs", e.lib.Len()))
		lines = append(lines, MsgStale)
	}
	e.st = st
	e.syncMusic()
	l.InfoContext(ctx, "loaded", slog.String("story", e.lib.Active()), slog.Int("page", e.st.Page))
	e.announce(lines...)
}

// restore activates the saved story, imports the resource attributes and
// normalizes st against what is loaded now. On error nothing has changed.
func (e *Engine) restore(ctx context.Context, snap save.Snapshot, st *State) error {
	prev := e.lib.Active()
	story := st.Story
	if story == "" {
		story = snap.Story
	}
	if story != "" && story != prev {
		if err := e.lib.Swap(story); err != nil {
			return err
		}
	}
	skipped, err := e.rsrc.ImportJSON(snap.Resources)
	if err != nil {
		if e.lib.Active() != prev {
			_ = e.lib.Swap(prev)
		}
		return err
	}
	if len(skipped) > 0 {
		e.log.WarnContext(ctx, "saved assets no longer loaded", slog.Any("ids", skipped))
	}

	st.ImageOrder = slices.DeleteFunc(st.ImageOrder, func(id string) bool { return !e.rsrc.HasImage(id) })
	st.Story = e.lib.Active()
	st.Mode = st.Mode.Plain()
	st.PageBack = 0
	st.Message = nil
	if e.cfg.ImageOpen.Name == "" {
		st.Num2 = 0
	}
	if st.Mode.Base == BaseOpening && len(e.opening) == 0 {
		st.Mode.Base = BaseDialog
	}
	last := e.lib.MaxIndex()
	if st.Mode.Base == BaseOpening {
		last = len(e.opening) - 1
	}
	st.Page = max(0, min(st.Page, last))
	return nil
}
