/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package save persists numbered save slots in a SQLite database inside the
// cassette. Snapshot blobs are opaque to this package.
package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "github.com/yuu-eguci/dialog-framework/internal/log"
	"github.com/yuu-eguci/dialog-framework/internal/version"

	_ "modernc.org/sqlite"
)

var (
	// ErrSlotNotFound is returned by Load for a slot that was never written.
	ErrSlotNotFound = errors.New("save slot is empty")
	// ErrInvalidSlot is returned for slot numbers below 1.
	ErrInvalidSlot = errors.New("save slot must be 1 or greater")
)

// Snapshot is one saved slot.
type Snapshot struct {
	Resources  []byte // resource set attributes
	Playback   []byte // playback state
	Paragraphs int    // paragraph count of the story at save time
	Story      string // active story name
	UpdatedAt  time.Time
}

// SlotInfo summarizes a written slot.
type SlotInfo struct {
	Slot       int
	Paragraphs int
	Story      string
	UpdatedAt  time.Time
}

// Store is an open save database.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// migration moves the database from To-1 to To.
type migration struct {
	To    int
	Stmts []string
}

// The saves table as first shipped. Databases written by early players have
// exactly this table and nothing else, so it is the implicit schema 1.
//
// language=SQL
// dialect=SQLite
const createSavesSQL = `CREATE TABLE IF NOT EXISTS saves (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	savenum   INTEGER NOT NULL UNIQUE,
	rsrc      TEXT,
	status    TEXT,
	paragraph INTEGER
)`

// language=SQL
// dialect=SQLite
const createVersionSQL = `CREATE TABLE IF NOT EXISTS version (
	id         INTEGER PRIMARY KEY CHECK(id = 1),
	schema     INTEGER NOT NULL,
	player     TEXT NOT NULL DEFAULT '',
	touched_at TEXT NOT NULL
)`

var migrations = []migration{
	{To: 2, Stmts: []string{
		`ALTER TABLE saves ADD COLUMN story TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE saves ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`,
	}},
}

// schemaVersion is the newest schema this player writes.
var schemaVersion = migrations[len(migrations)-1].To

// Open creates or opens the save database at path, enables WAL mode and
// brings the schema up to date.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("save database path is required")
	}
	l := applog.WithComponent("save").With(slog.String("path", path))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}
	// one writer; the player never saves concurrently
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := prepare(ctx, db, l); err != nil {
		_ = db.Close()
		l.Error("save database unusable", slog.Any("err", err))
		return nil, err
	}
	return &Store{db: db, path: path, log: l}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func prepare(ctx context.Context, db *sql.DB, l *slog.Logger) error {
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		return fmt.Errorf("journal mode: %w", err)
	}
	for _, q := range []string{createSavesSQL, createVersionSQL} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	stamp := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO version (id, schema, player, touched_at) VALUES (1, 1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET player = excluded.player, touched_at = excluded.touched_at`,
		version.String(), stamp); err != nil {
		return fmt.Errorf("stamp version: %w", err)
	}

	var have int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id = 1`).Scan(&have); err != nil {
		return fmt.Errorf("schema version: %w", err)
	}
	if have > schemaVersion {
		l.Warn("save database was written by a newer player", slog.Int("schema", have))
		return nil
	}
	for _, m := range migrations {
		if m.To <= have {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return err
		}
		l.Info("save database migrated", slog.Int("schema", m.To))
	}
	return nil
}

// apply runs one migration and bumps the schema number in the same transaction.
func apply(ctx context.Context, db *sql.DB, m migration) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("schema %d: %w", m.To, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, q := range m.Stmts {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("schema %d: %w", m.To, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `UPDATE version SET schema = ? WHERE id = 1`, m.To); err != nil {
		return fmt.Errorf("schema %d: %w", m.To, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("schema %d: commit: %w", m.To, err)
	}
	return nil
}
