/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// language=SQL
// dialect=SQLite
const ensureSlotSQL = `INSERT OR IGNORE INTO saves(savenum) VALUES (?)`

// language=SQL
// dialect=SQLite
const updateSlotSQL = `UPDATE saves SET rsrc = ?, status = ?, paragraph = ?, story = ?, updated_at = ? WHERE savenum = ?`

// language=SQL
// dialect=SQLite
const selectSlotSQL = `SELECT rsrc, status, paragraph, story, updated_at FROM saves WHERE savenum = ?`

// language=SQL
// dialect=SQLite
const listSlotsSQL = `SELECT savenum, paragraph, story, updated_at FROM saves WHERE status IS NOT NULL ORDER BY savenum`

// language=SQL
// dialect=SQLite
const deleteSlotSQL = `DELETE FROM saves WHERE savenum = ?`

// Save writes snap into slot, replacing what was there.
func (s *Store) Save(ctx context.Context, slot int, snap Snapshot) error {
	if slot < 1 {
		return ErrInvalidSlot
	}
	ts := snap.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save slot %d: begin: %w", slot, err)
	}
	if _, err := tx.ExecContext(ctx, ensureSlotSQL, slot); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	if _, err := tx.ExecContext(ctx, updateSlotSQL, string(snap.Resources), string(snap.Playback), snap.Paragraphs, snap.Story, ts.UTC().Format(time.RFC3339Nano), slot); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save slot %d: commit: %w", slot, err)
	}
	s.log.Info("slot saved", slog.Int("slot", slot), slog.Int("paragraphs", snap.Paragraphs))
	return nil
}

// Load reads slot. It returns ErrSlotNotFound when the slot was never written.
func (s *Store) Load(ctx context.Context, slot int) (Snapshot, error) {
	if slot < 1 {
		return Snapshot{}, ErrInvalidSlot
	}
	var (
		rsrc, status sql.NullString
		paragraph    sql.NullInt64
		story, tsStr string
	)
	err := s.db.QueryRowContext(ctx, selectSlotSQL, slot).Scan(&rsrc, &status, &paragraph, &story, &tsStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("slot %d: %w", slot, ErrSlotNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load slot %d: %w", slot, err)
	}
	if !rsrc.Valid || !status.Valid {
		return Snapshot{}, fmt.Errorf("slot %d: %w", slot, ErrSlotNotFound)
	}
	snap := Snapshot{
		Resources:  []byte(rsrc.String),
		Playback:   []byte(status.String),
		Paragraphs: int(paragraph.Int64),
		Story:      story,
	}
	if ts, err := time.Parse(time.RFC3339Nano, tsStr); err == nil {
		snap.UpdatedAt = ts
	}
	return snap, nil
}

// List returns every written slot in slot order.
func (s *Store) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, listSlotsSQL)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []SlotInfo
	for rows.Next() {
		var (
			info      SlotInfo
			paragraph sql.NullInt64
			tsStr     string
		)
		if err := rows.Scan(&info.Slot, &paragraph, &info.Story, &tsStr); err != nil {
			return nil, fmt.Errorf("list slots: %w", err)
		}
		info.Paragraphs = int(paragraph.Int64)
		if ts, err := time.Parse(time.RFC3339Nano, tsStr); err == nil {
			info.UpdatedAt = ts
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete clears slot. Deleting an empty slot is not an error.
func (s *Store) Delete(ctx context.Context, slot int) error {
	if slot < 1 {
		return ErrInvalidSlot
	}
	if _, err := s.db.ExecContext(ctx, deleteSlotSQL, slot); err != nil {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	s.log.Info("slot deleted", slog.Int("slot", slot))
	return nil
}
