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
	"log/slog"
	"time"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

// Defaults for the text tag.
const (
	textDefaultString = " "
	textDefaultSize   = 18
)

func (e *Engine) dispatch(ctx context.Context, l script.Line) error {
	tag, err := l.Tag()
	if err != nil {
		return err
	}
	return e.dispatchTag(ctx, tag)
}

// dispatchTag runs one tag. Unknown tag names are ignored.
func (e *Engine) dispatchTag(ctx context.Context, tag script.Tag) error {
	switch tag.Name {
	case script.TagImage:
		return e.imageTag(tag)
	case script.TagSound:
		return e.soundTag(tag)
	case script.TagBGM:
		return e.bgmTag(tag)
	case script.TagText:
		return e.textTag(tag)
	case script.TagSkip:
		return e.skipTag(ctx, tag)
	case script.TagDice:
		return e.diceTag(tag)
	}
	return nil
}

func (e *Engine) imageTag(tag script.Tag) error {
	var img *resource.ImageAsset
	if tag.Has("x") || tag.Has("y") || tag.Has("put") || tag.Has("remove") || tag.Has("shake") {
		id, err := tag.Require("file")
		if err != nil {
			return err
		}
		if img, err = e.rsrc.Image(id); err != nil {
			return err
		}
	}
	if tag.Has("x") {
		x, err := tag.Int("x")
		if err != nil {
			return err
		}
		img.Pos.X = x
	}
	if tag.Has("y") {
		y, err := tag.Int("y")
		if err != nil {
			return err
		}
		img.Pos.Y = y
	}
	if tag.Has("put") {
		e.putImage(img.ID)
	}
	if tag.Has("remove") {
		e.removeImage(img.ID)
	}
	if tag.Has("removeall") {
		e.st.ImageOrder = nil
	}
	if tag.Has("changefrom") && tag.Has("changeto") {
		from, err := tag.Require("changefrom")
		if err != nil {
			return err
		}
		to, err := tag.Require("changeto")
		if err != nil {
			return err
		}
		if e.st.Showing(from) {
			if _, err := e.rsrc.Image(to); err != nil {
				return err
			}
			e.changeImage(from, to)
		}
	}
	if tag.Has("shake") {
		amp, err := tag.Int("shake")
		if err != nil {
			return err
		}
		img.Shake = Shake(e.st.FrameNum, amp)
	}
	return nil
}

func (e *Engine) soundTag(tag script.Tag) error {
	id, err := tag.Require("file")
	if err != nil {
		return err
	}
	s, err := e.rsrc.Sound(id)
	if err != nil {
		return err
	}
	if tag.Has("volume") {
		v, err := tag.Volume("volume")
		if err != nil {
			return err
		}
		s.Volume = v
	}
	if tag.Has("play") && !s.Played {
		if err := e.audio.PlaySound(s.Clip, s.Volume); err != nil {
			e.log.Warn("play sound failed", slog.String("sound", id), slog.Any("err", err))
		}
		s.Played = true
	}
	if tag.Has("reset") {
		s.Played = false
	}
	return nil
}

// bgmTag drives the single music slot. The slot is tracked even when music
// is disabled so that saves stay portable.
func (e *Engine) bgmTag(tag script.Tag) error {
	bgm := &e.rsrc.BGM
	if f := tag.Value("file"); f != "" && f != bgm.Track {
		e.stopMusic()
		bgm.Track = f
	}
	if tag.Has("volume") {
		v, err := tag.Volume("volume")
		if err != nil {
			return err
		}
		bgm.Volume = v
		if e.cfg.Audio.BGMEnabled {
			e.audio.SetMusicVolume(v)
		}
	}
	if !bgm.Playing {
		if tag.Has("play") {
			if bgm.Track == "" {
				return tag.Errorf("bgm play needs a file")
			}
			bgm.Playing = true
			if e.cfg.Audio.BGMEnabled {
				if err := e.audio.PlayMusic(bgm.Track, bgm.Volume); err != nil {
					e.log.Warn("play music failed", slog.String("track", bgm.Track), slog.Any("err", err))
				}
			}
		}
	} else if tag.Has("stop") {
		e.stopMusic()
	}
	return nil
}

func (e *Engine) stopMusic() {
	e.rsrc.BGM.Playing = false
	if e.cfg.Audio.BGMEnabled {
		e.audio.StopMusic()
	}
}

// syncMusic makes the audio backend match the music slot after a load.
func (e *Engine) syncMusic() {
	if !e.cfg.Audio.BGMEnabled {
		return
	}
	e.audio.StopMusic()
	bgm := e.rsrc.BGM
	if bgm.Playing && bgm.Track != "" {
		if err := e.audio.PlayMusic(bgm.Track, bgm.Volume); err != nil {
			e.log.Warn("play music failed", slog.String("track", bgm.Track), slog.Any("err", err))
		}
	}
}

func (e *Engine) textTag(tag script.Tag) error {
	s := textDefaultString
	if tag.Has("string") {
		s = tag.Value("string")
	}
	col := domain.White
	if tag.Has("color") {
		c, err := domain.ParseColor(tag.Value("color"))
		if err != nil {
			return tag.Errorf("color: %v", err)
		}
		col = c
	}
	font := e.cfg.Font.File
	if f := tag.Value("font"); f != "" {
		font = f
	}
	size, err := tag.IntOr("fontsize", textDefaultSize)
	if err != nil {
		return err
	}
	x, err := tag.IntOr("x", 0)
	if err != nil {
		return err
	}
	y, err := tag.IntOr("y", 0)
	if err != nil {
		return err
	}
	e.frame.text(domain.Point{X: x, Y: y}, s, col, font, size)
	return nil
}

// skipTag advances one page. Only the story is bounded by its length; the
// opening pages are synthetic and always advance.
func (e *Engine) skipTag(ctx context.Context, tag script.Tag) error {
	if e.st.Mode.Base == BaseDialog {
		if e.st.Page < e.lib.MaxIndex() {
			e.st.Page++
		}
	} else {
		e.st.Page++
	}
	e.rsrc.ResetSounds()
	if tag.Has("pause") {
		ms, err := tag.Int("pause")
		if err != nil {
			return err
		}
		e.log.DebugContext(ctx, "skip pause", slog.Int("ms", ms))
		e.sleep(time.Duration(ms) * time.Millisecond)
	}
	return nil
}
