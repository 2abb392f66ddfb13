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
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
)

const sampleRate = 44100

// ebitenLoader decodes images into GPU images and sounds into PCM bytes that
// can be replayed any number of times.
type ebitenLoader struct{}

func (l ebitenLoader) LoadImage(path string, key *domain.Point) (resource.Surface, error) {
	img, err := resource.DecodeImage(path, key)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

func (l ebitenLoader) LoadSound(path string) (resource.Clip, error) {
	s, err := openStream(path)
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return pcm, nil
}

// stream is a decoded PCM stream at sampleRate.
type stream interface {
	io.ReadSeeker
	Length() int64
}

func openStream(path string) (stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(data)
	var s stream
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		s, err = wav.DecodeWithSampleRate(sampleRate, r)
	case ".ogg":
		s, err = vorbis.DecodeWithSampleRate(sampleRate, r)
	case ".mp3":
		s, err = mp3.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, fmt.Errorf("unsupported audio format %q (supported: .wav, .ogg, .mp3)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// ebitenAudio plays effects from decoded PCM and streams the looping music
// track from the sound directory.
type ebitenAudio struct {
	ctx     *audio.Context
	dir     func(name string) string
	music   *audio.Player
	playing []*audio.Player
}

func newEbitenAudio(ctx *audio.Context, dir func(string) string) *ebitenAudio {
	return &ebitenAudio{ctx: ctx, dir: dir}
}

func (a *ebitenAudio) PlaySound(clip resource.Clip, volume float64) error {
	pcm, ok := clip.([]byte)
	if !ok {
		return fmt.Errorf("sound clip has unexpected type %T", clip)
	}
	// drop finished players so the slice does not grow for the whole session
	live := a.playing[:0]
	for _, p := range a.playing {
		if p.IsPlaying() {
			live = append(live, p)
		}
	}
	a.playing = live

	p := a.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(volume)
	p.Play()
	a.playing = append(a.playing, p)
	return nil
}

func (a *ebitenAudio) PlayMusic(track string, volume float64) error {
	a.StopMusic()
	s, err := openStream(a.dir(track))
	if err != nil {
		return err
	}
	p, err := a.ctx.NewPlayer(audio.NewInfiniteLoop(s, s.Length()))
	if err != nil {
		return fmt.Errorf("music player: %w", err)
	}
	p.SetVolume(volume)
	p.Play()
	a.music = p
	return nil
}

func (a *ebitenAudio) SetMusicVolume(volume float64) {
	if a.music != nil {
		a.music.SetVolume(volume)
	}
}

func (a *ebitenAudio) StopMusic() {
	if a.music != nil {
		_ = a.music.Close()
		a.music = nil
	}
}
