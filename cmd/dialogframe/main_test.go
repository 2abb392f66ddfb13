/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func cassette(t *testing.T, yaml, story string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"maintext", "image", "sound", "other"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	write := func(rel string, b []byte) {
		if err := os.WriteFile(filepath.Join(root, rel), b, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("dialogframe.yaml", []byte(yaml))
	write(filepath.Join("maintext", "main.txt"), []byte(story))

	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.NRGBA{R: 200, A: 255})
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	write(filepath.Join("image", "bg.png"), buf.Bytes())
	return root
}

const cassetteYAML = "stories: [main.txt]\nimages: [bg.png]\n"

func runCLI(args ...string) (code int, stdout, stderr string) {
	var o, e bytes.Buffer
	code = run(args, &o, &e)
	return code, o.String(), e.String()
}

func TestVersionAndUsage(t *testing.T) {
	code, out, _ := runCLI("version")
	if code != 0 || !strings.Contains(out, "Dialog Frame") {
		t.Fatalf("version: code=%d out=%q", code, out)
	}
	if code, _, errOut := runCLI("nope"); code != 2 || !strings.Contains(errOut, "unknown command") {
		t.Fatalf("unknown command: code=%d err=%q", code, errOut)
	}
	if code, _, errOut := runCLI("check"); code != 2 || !strings.Contains(errOut, "requires <cassette>") {
		t.Fatalf("missing arg: code=%d err=%q", code, errOut)
	}
}

func TestCheck(t *testing.T) {
	root := cassette(t, cassetteYAML, "<event name=image file=bg.png put>\nhello\n")
	code, out, _ := runCLI("check", root)
	if code != 0 || !strings.HasPrefix(out, "OK:") {
		t.Fatalf("check good cassette: code=%d out=%q", code, out)
	}

	bad := cassette(t, cassetteYAML, "hello\n\n<event name=image file=bgg.png put>\n")
	code, out, _ = runCLI("check", bad)
	if code != 1 {
		t.Fatalf("check bad cassette: code=%d out=%q", code, out)
	}
	if !strings.Contains(out, "main.txt:3") || !strings.Contains(out, "bg.png") {
		t.Fatalf("expected located problem with suggestion, got %q", out)
	}
}

func TestCheckMissingAsset(t *testing.T) {
	root := cassette(t, "stories: [main.txt]\nimages: [bg.png, gone.png]\n", "hello\n")
	code, out, _ := runCLI("check", root)
	if code != 1 || !strings.Contains(out, "gone.png") {
		t.Fatalf("code=%d out=%q", code, out)
	}
}

func TestSlots(t *testing.T) {
	root := cassette(t, cassetteYAML, "hello\n")
	code, out, _ := runCLI("slots", root)
	if code != 0 || !strings.Contains(out, "No saved slots.") {
		t.Fatalf("code=%d out=%q", code, out)
	}
	code, out, _ = runCLI("slots", "-delete", "3", root)
	if code != 0 || !strings.Contains(out, "Cleared slot 3.") {
		t.Fatalf("delete: code=%d out=%q", code, out)
	}

	off := cassette(t, cassetteYAML+"save: {enabled: false}\n", "hello\n")
	if code, out, _ := runCLI("slots", off); code != 0 || !strings.Contains(out, "disabled") {
		t.Fatalf("disabled: code=%d out=%q", code, out)
	}
}

func TestExportTranscript(t *testing.T) {
	root := cassette(t, cassetteYAML, "hello\n\nworld\n")
	code, out, errOut := runCLI("export", "-tags", root)
	if code != 0 {
		t.Fatalf("code=%d err=%q", code, errOut)
	}
	pdf := filepath.Join(root, "exports", "main.pdf")
	if !strings.Contains(out, pdf) {
		t.Fatalf("out=%q", out)
	}
	if _, err := os.Stat(pdf); err != nil {
		t.Fatalf("pdf missing: %v", err)
	}
}

func TestExportFrame(t *testing.T) {
	root := cassette(t, cassetteYAML+"save: {enabled: false}\n", "<event name=image file=bg.png put>\nhello\n\nworld\n")
	shot := filepath.Join(t.TempDir(), "frame.png")
	code, out, errOut := runCLI("export", "-png", shot, "-press", "z", root)
	if code != 0 {
		t.Fatalf("code=%d err=%q", code, errOut)
	}
	if !strings.Contains(out, "page 1") {
		t.Fatalf("out=%q", out)
	}
	fh, err := os.Open(shot)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	img, err := png.Decode(fh)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Fatalf("size = %v", b)
	}
	if r, _, _, _ := img.At(1, 1).RGBA(); r>>8 != 200 {
		t.Fatalf("background image pixel not drawn: r=%d", r>>8)
	}
}
