//go:build ebiten

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
	"errors"
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/yuu-eguci/dialog-framework/internal/config"
	"github.com/yuu-eguci/dialog-framework/internal/input"
	applog "github.com/yuu-eguci/dialog-framework/internal/log"
	"github.com/yuu-eguci/dialog-framework/internal/play"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
)

type faceKey struct {
	name string
	size int
}

// game adapts a Session to ebiten's Update/Draw loop.
type game struct {
	s     *Session
	keys  input.Bindings
	buf   []ebiten.Key
	frame play.Frame
	faces map[faceKey]*text.GoXFace
	log   *slog.Logger
}

func (g *game) Update() error {
	var pressed []input.Key
	pressed, g.buf = pollKeys(g.keys, g.buf)
	f, err := g.s.Step(context.Background(), pressed)
	if err != nil {
		g.log.Error("playback stopped", slog.Any("err", err))
		return err
	}
	if g.s.Engine.Quit() {
		return ebiten.Termination
	}
	g.frame = f
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	for _, op := range g.frame.Ops {
		switch op.Kind {
		case play.OpImage:
			img, ok := op.Surface.(*ebiten.Image)
			if !ok {
				continue
			}
			var o ebiten.DrawImageOptions
			o.GeoM.Translate(float64(op.At.X), float64(op.At.Y))
			screen.DrawImage(img, &o)
		case play.OpRect:
			vector.DrawFilledRect(screen, float32(op.At.X), float32(op.At.Y), float32(op.W), float32(op.H), op.Color, false)
		case play.OpText:
			var o text.DrawOptions
			o.GeoM.Translate(float64(op.At.X), float64(op.At.Y))
			o.ColorScale.ScaleWithColor(op.Color)
			text.Draw(screen, op.Text, g.face(op.Font, op.Size), &o)
		}
	}
}

func (g *game) face(name string, size int) *text.GoXFace {
	k := faceKey{name, size}
	if f, ok := g.faces[k]; ok {
		return f
	}
	f := text.NewGoXFace(g.s.Measurer.Face(name, size))
	g.faces[k] = f
	return f
}

func (g *game) Layout(int, int) (int, int) {
	return g.s.Config.Screen.Width, g.s.Config.Screen.Height
}

// Run opens the cassette and plays it until the window is closed. A fatal
// playback error is returned unchanged for the caller to record.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	actx := audio.NewContext(sampleRate)
	au := newEbitenAudio(actx, config.Dirs{Root: opts.Root}.Sound)

	s, err := Open(opts, ebitenLoader{}, au)
	if err != nil {
		return err
	}
	defer func() {
		au.StopMusic()
		if err := s.Close(); err != nil {
			l.Warn("close session", slog.Any("err", err))
		}
	}()

	cfg := s.Config
	keys, err := cfg.Bindings()
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Dialog.Title)
	ebiten.SetTPS(cfg.Framerate)
	ebiten.SetWindowClosingHandled(true)
	if cfg.Dialog.Icon != "" {
		if icon, err := resource.DecodeImage(s.Dirs.Other(cfg.Dialog.Icon), nil); err != nil {
			l.Warn("window icon", slog.String("icon", cfg.Dialog.Icon), slog.Any("err", err))
		} else {
			ebiten.SetWindowIcon([]image.Image{icon})
		}
	}

	g := &game{s: s, keys: keys, faces: map[faceKey]*text.GoXFace{}, log: l}
	l.Info("window opened", slog.Int("w", cfg.Screen.Width), slog.Int("h", cfg.Screen.Height), slog.Int("tps", cfg.Framerate))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	l.Info("window closed")
	return nil
}
