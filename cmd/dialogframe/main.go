/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuu-eguci/dialog-framework/internal/config"
	"github.com/yuu-eguci/dialog-framework/internal/crash"
	"github.com/yuu-eguci/dialog-framework/internal/export"
	applog "github.com/yuu-eguci/dialog-framework/internal/log"
	"github.com/yuu-eguci/dialog-framework/internal/play"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
	"github.com/yuu-eguci/dialog-framework/internal/save"
	"github.com/yuu-eguci/dialog-framework/internal/script"
	"github.com/yuu-eguci/dialog-framework/internal/ui"
	"github.com/yuu-eguci/dialog-framework/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Dialog Frame, a player for dialog cassettes")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dialogframe version|-v|--version                 Show version")
	fmt.Fprintln(w, "  dialogframe play [-story f] [-watch] <cassette>   Play a cassette (build with -tags ebiten)")
	fmt.Fprintln(w, "  dialogframe check <cassette>                      Validate config, assets and every tag line")
	fmt.Fprintln(w, "  dialogframe slots [-delete n] <cassette>          List or clear save slots")
	fmt.Fprintln(w, "  dialogframe export [-story f] [-o out.pdf] [-tags] [-font f] <cassette>")
	fmt.Fprintln(w, "                                                    Write a PDF transcript of a story")
	fmt.Fprintln(w, "  dialogframe export -png out.png [-press z,z,c] <cassette>")
	fmt.Fprintln(w, "                                                    Render the frame reached after the key presses")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code: 0 success,
// 1 command failure, 2 usage error.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	l := applog.WithComponent("cli")
	l.Debug("start", slog.String("cmd", args[0]), slog.Int("args", len(args)))

	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "Dialog Frame")
		fmt.Fprintln(stdout, version.String())
		return 0
	case "play":
		err = cmdPlay(args[1:])
	case "check":
		err = cmdCheck(args[1:], stdout)
	case "slots":
		err = cmdSlots(args[1:], stdout)
	case "export":
		err = cmdExport(args[1:], stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}
	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		fmt.Fprintln(stderr, "Error:", err)
		usage(stderr)
		return 2
	default:
		l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

// parse reads flags and the single cassette argument, then configures
// logging from the cassette's config with environment values taking
// precedence.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return "", usageError(fmt.Sprintf("%s: %v", fs.Name(), err))
	}
	if fs.NArg() != 1 {
		return "", usageError(fs.Name() + " requires <cassette>")
	}
	root, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return "", err
	}
	initLogging(root)
	return root, nil
}

func initLogging(root string) {
	// a broken config is reported by the command itself; log with defaults meanwhile
	cfg, _ := config.Load(root)
	def := applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		Cassette:  root,
	}
	if cfg.Logging.File != "" {
		def.File = filepath.Join(root, cfg.Logging.File)
	}
	applog.Init(applog.EnvOptions().Merge(def))
}

func cmdPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	story := fs.String("story", "", "story file under maintext/ to start with")
	watch := fs.Bool("watch", false, "reload the story when its file changes")
	root, err := parse(fs, args)
	if err != nil {
		return err
	}
	defer crash.Recover(root)
	err = ui.Run(ui.Options{Root: root, Story: *story, Watch: *watch})
	if errors.Is(err, ui.ErrNoWindow) {
		return err
	}
	crash.Fatal(root, err)
	return nil
}

func cmdCheck(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	root, err := parse(fs, args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	dirs := config.Dirs{Root: root}
	failed := 0

	rsrc, err := resource.Build(resource.StatLoader{}, dirs, ui.ImageSpecs(cfg), cfg.Sounds)
	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintln(out, "asset:", line)
			failed++
		}
		// check tag references against the declared ids even if files are missing
		if rsrc, err = resource.Build(resource.NopLoader{}, dirs, ui.ImageSpecs(cfg), cfg.Sounds); err != nil {
			return fmt.Errorf("%d problem(s) found", failed)
		}
	}
	if cfg.Font.File != "" {
		if _, err := os.Stat(dirs.Other(cfg.Font.File)); err != nil {
			fmt.Fprintln(out, "font:", err)
			failed++
		}
	}
	music := func(name string) error {
		_, err := os.Stat(dirs.Sound(name))
		return err
	}
	src := script.DirSource(filepath.Join(root, config.DirMainText))
	for _, p := range play.Check(cfg, src, rsrc, music) {
		fmt.Fprintln(out, p.String())
		failed++
	}
	if failed > 0 {
		return fmt.Errorf("%d problem(s) found", failed)
	}
	fmt.Fprintf(out, "OK: %d story file(s), %d image(s), %d sound(s)\n", len(cfg.Stories), len(cfg.Images), len(cfg.Sounds))
	return nil
}

func cmdSlots(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("slots", flag.ContinueOnError)
	del := fs.Int("delete", 0, "slot number to clear")
	root, err := parse(fs, args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	if !cfg.Save.Enabled {
		fmt.Fprintln(out, "Saving is disabled for this cassette.")
		return nil
	}
	st, err := save.Open(filepath.Join(root, cfg.Save.DB))
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if *del != 0 {
		if err := st.Delete(ctx, *del); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared slot %d.\n", *del)
		return nil
	}
	slots, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintln(out, "No saved slots.")
		return nil
	}
	for _, s := range slots {
		fmt.Fprintf(out, "%d\t%s\t%d paragraphs\t%s\n", s.Slot, s.Story, s.Paragraphs, s.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func cmdExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	story := fs.String("story", "", "story file under maintext/; default is the first configured")
	outPath := fs.String("o", "", "PDF output path; default exports/<story>.pdf in the cassette")
	tags := fs.Bool("tags", false, "include tag lines in the transcript")
	fontFile := fs.String("font", "", "TrueType font to embed; default is the cassette font, if any")
	pngPath := fs.String("png", "", "render a frame to this PNG instead of writing a transcript")
	press := fs.String("press", "", "comma separated key presses before the rendered frame; join keys of one tick with +")
	root, err := parse(fs, args)
	if err != nil {
		return err
	}
	if *pngPath != "" {
		return exportFrame(root, *story, *pngPath, *press, out)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	name := *story
	if name == "" {
		name = cfg.Stories[0]
	}
	paras, err := script.Load(script.DirSource(filepath.Join(root, config.DirMainText)), name)
	if err != nil {
		return err
	}
	if *outPath == "" {
		*outPath = filepath.Join(root, "exports", strings.TrimSuffix(name, filepath.Ext(name))+".pdf")
	}
	font := *fontFile
	if font == "" && cfg.Font.File != "" {
		font = config.Dirs{Root: root}.Other(cfg.Font.File)
	}
	opt := export.PDFOptions{Title: cfg.Dialog.Title + ": " + name, FontFile: font, IncludeTags: *tags}
	if err := export.ExportTranscriptPDF(name, paras, *outPath, opt); err != nil {
		return err
	}
	fmt.Fprintln(out, "Wrote", *outPath)
	return nil
}

func exportFrame(root, story, path, press string, out io.Writer) error {
	s, err := ui.Open(ui.Options{Root: root, Story: story}, resource.DecodeLoader{}, play.NopAudio{})
	if err != nil {
		return err
	}
	defer s.Close()
	var presses []string
	if strings.TrimSpace(press) != "" {
		presses = strings.Split(press, ",")
	}
	f, err := s.Replay(context.Background(), presses)
	if err != nil {
		return err
	}
	img := export.RenderFrame(f, s.Config.Screen.Width, s.Config.Screen.Height, s.Measurer)
	if err := export.WritePNG(path, img); err != nil {
		return err
	}
	st := s.Engine.State()
	fmt.Fprintf(out, "Wrote %s (mode %s, page %d)\n", path, st.Mode, st.Page)
	return nil
}
