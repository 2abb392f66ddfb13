/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/yuu-eguci/dialog-framework/internal/play"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
)

func writeCassette(t *testing.T, yaml, story string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "maintext"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "dialogframe.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "maintext", "main.txt"), []byte(story), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestOpenAndReplay(t *testing.T) {
	root := writeCassette(t, "stories: [main.txt]\nimages: [bg.png]\n", "<event name=image file=bg.png put>\nfirst page\n\nsecond page\n")
	s, err := Open(Options{Root: root}, resource.NopLoader{}, play.NopAudio{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if s.Slots == nil {
		t.Fatal("saving is on by default; expected a slot store")
	}
	if _, err := os.Stat(filepath.Join(root, "other", "save.sqlite3")); err != nil {
		t.Fatalf("save db not created: %v", err)
	}

	f, err := s.Replay(context.Background(), nil)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !slices.Contains(f.Texts(), "first page") {
		t.Fatalf("texts = %v", f.Texts())
	}

	f, err = s.Replay(context.Background(), []string{"z"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !slices.Contains(f.Texts(), "second page") {
		t.Fatalf("after turn texts = %v", f.Texts())
	}
	// images put on a page are drawn from the following tick on
	if !slices.Contains(f.Images(), "bg.png") {
		t.Fatalf("images = %v", f.Images())
	}
}

func TestReplayUnknownKey(t *testing.T) {
	root := writeCassette(t, "stories: [main.txt]\nsave: {enabled: false}\n", "hello\n")
	s, err := Open(Options{Root: root}, resource.NopLoader{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if s.Slots != nil {
		t.Fatal("saving disabled; store should be nil")
	}
	if _, err := s.Replay(context.Background(), []string{"q"}); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestOpenMissingStory(t *testing.T) {
	root := writeCassette(t, "stories: [main.txt]\nsave: {enabled: false}\n", "hello\n")
	if _, err := Open(Options{Root: root, Story: "other.txt"}, resource.NopLoader{}, nil); err == nil {
		t.Fatal("expected error for unknown story")
	}
}

func TestWatchReloadsActiveStory(t *testing.T) {
	root := writeCassette(t, "stories: [main.txt]\nsave: {enabled: false}\n", "old text\n")
	s, err := Open(Options{Root: root, Watch: true}, resource.NopLoader{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if f, _ := s.Step(ctx, nil); !slices.Contains(f.Texts(), "old text") {
		t.Fatalf("texts = %v", f.Texts())
	}
	if err := os.WriteFile(filepath.Join(root, "maintext", "main.txt"), []byte("new text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		f, err := s.Step(ctx, nil)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if slices.Contains(f.Texts(), "new text") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("story was not reloaded")
}
