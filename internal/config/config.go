/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the per-cassette configuration: window and font
// settings, the story list, opening screen, images and sounds, linked image
// pairs, dice skills, overlays, key bindings and the save database.
//
// The file lives at <cassette>/dialogframe.yaml. Environment variables are
// treated as read-only overrides at runtime.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/input"
)

// FileName is the cassette configuration file name.
const FileName = "dialogframe.yaml"

// Cassette sub directories.
const (
	DirImage    = "image"
	DirSound    = "sound"
	DirMainText = "maintext"
	DirOther    = "other"
	DirLog      = "log"
)

type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type FontConfig struct {
	File string `yaml:"file"` // under other/; empty selects the built-in bitmap face
	Size int    `yaml:"size"`
}

type DialogConfig struct {
	Title string       `yaml:"title"`
	Icon  string       `yaml:"icon"` // under other/
	X     int          `yaml:"x"`
	Y     int          `yaml:"y"`
	Color domain.Color `yaml:"color"`
}

// Volumed names a sound file together with the gain it is played at.
type Volumed struct {
	Name   string  `yaml:"name"`
	Volume float64 `yaml:"volume"`
}

// Button is an opening menu entry: Name1 is drawn idle, Name2 while selected.
type Button struct {
	Name1 string `yaml:"name1"`
	Name2 string `yaml:"name2"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Shake int    `yaml:"shake"`
}

type OpeningConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Background string   `yaml:"background"`
	BGM        Volumed  `yaml:"bgm"`
	Sound      Volumed  `yaml:"sound"`
	Start      Button   `yaml:"start"`
	Continue   Button   `yaml:"continue"`
	Stories    []Button `yaml:"stories"` // one per story when several are configured
}

// ImageConfig declares an image asset. Trans, when set, names the pixel whose
// colour becomes transparent.
type ImageConfig struct {
	Name  string        `yaml:"name"`
	Trans *domain.Point `yaml:"trans,omitempty"`
}

// UnmarshalYAML also accepts a bare file name.
func (ic *ImageConfig) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		ic.Name = n.Value
		ic.Trans = nil
		return nil
	}
	type plain ImageConfig
	var v plain
	if err := n.Decode(&v); err != nil {
		return err
	}
	*ic = ImageConfig(v)
	return nil
}

// Link pairs two images: Main is shown while Key occurs in the paragraph text,
// Back otherwise.
type Link struct {
	Key  string `yaml:"key"`
	Main string `yaml:"main"`
	Back string `yaml:"back"`
}

type ImageOpenConfig struct {
	Name string       `yaml:"name"`
	XY   domain.Point `yaml:"xy"`
}

type DiceConfig struct {
	Rolls  int            `yaml:"rolls"` // frames the random value keeps changing
	Skills map[string]int `yaml:"skills"`
}

type BoxStyle struct {
	BoxColor domain.Color `yaml:"box_color"`
	MesColor domain.Color `yaml:"mes_color"`
}

type HelpConfig struct {
	BoxStyle `yaml:",inline"`
	Location domain.Corner `yaml:"location"`
	Message  []string      `yaml:"message"`
}

type BackReviewConfig struct {
	BoxStyle `yaml:",inline"`
	Message  string   `yaml:"message"`
	Pass     []string `yaml:"pass"` // tag names still dispatched during review
}

type KeyConfig struct {
	TurnPage  string   `yaml:"turn_page"`
	BackPage  string   `yaml:"back_page"`
	ImageOpen string   `yaml:"image_open"`
	ShowHelp  string   `yaml:"show_help"`
	GoToStart string   `yaml:"go_to_start"`
	Save      []string `yaml:"save"`
	Load      []string `yaml:"load"`
}

type AudioConfig struct {
	BGMEnabled bool `yaml:"bgm_enabled"`
}

type SaveConfig struct {
	Enabled bool   `yaml:"enabled"`
	DB      string `yaml:"db"` // relative to the cassette root
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"` // relative to the cassette root
}

type Cassette struct {
	ConfigVersion int              `yaml:"config_version"`
	Screen        ScreenConfig     `yaml:"screen"`
	Framerate     int              `yaml:"framerate"`
	Font          FontConfig       `yaml:"font"`
	Dialog        DialogConfig     `yaml:"dialog"`
	Stories       []string         `yaml:"stories"` // files under maintext/
	Opening       OpeningConfig    `yaml:"opening"`
	Images        []ImageConfig    `yaml:"images"`
	Sounds        []string         `yaml:"sounds"`
	TurnPageSound string           `yaml:"turn_page_sound"`
	Links         []Link           `yaml:"links"`
	ImageOpen     ImageOpenConfig  `yaml:"image_open"`
	Dice          DiceConfig       `yaml:"dice"`
	Help          HelpConfig       `yaml:"help"`
	Announce      BoxStyle         `yaml:"announce"`
	BackReview    BackReviewConfig `yaml:"back_review"`
	Keys          KeyConfig        `yaml:"keys"`
	Save          SaveConfig       `yaml:"save"`
	Audio         AudioConfig      `yaml:"audio"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the cassette defaults.
func Defaults() Cassette {
	return Cassette{
		ConfigVersion: 1,
		Screen:        ScreenConfig{Width: 640, Height: 480},
		Framerate:     30,
		Font:          FontConfig{Size: 18},
		Dialog:        DialogConfig{Title: "Dialog Frame", X: 20, Y: 300, Color: domain.White},
		Opening:       OpeningConfig{Enabled: false},
		Dice:          DiceConfig{Rolls: 30, Skills: map[string]int{}},
		Help: HelpConfig{
			BoxStyle: BoxStyle{BoxColor: domain.RGB(0, 0, 0), MesColor: domain.White},
			Location: domain.NorthEast,
		},
		Announce: BoxStyle{BoxColor: domain.RGB(0, 0, 0), MesColor: domain.White},
		BackReview: BackReviewConfig{
			BoxStyle: BoxStyle{BoxColor: domain.RGB(0, 0, 64), MesColor: domain.White},
			Message:  "Reviewing earlier pages",
		},
		Keys: KeyConfig{
			TurnPage:  "z",
			BackPage:  "x",
			ImageOpen: "c",
			ShowHelp:  "f1",
			GoToStart: "f12",
			Save:      []string{"1", "2", "3", "4"},
			Load:      []string{"5", "6", "7", "8"},
		},
		Save:    SaveConfig{Enabled: true, DB: filepath.Join(DirOther, "save.sqlite3")},
		Audio:   AudioConfig{BGMEnabled: true},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvFramerate  = "DF_FRAMERATE"
	EnvUseSave    = "DF_USE_SAVE"
	EnvBGMEnabled = "DF_BGM_ENABLED"
	EnvSaveDB     = "DF_SAVE_DB"
)

// ErrNoStories is returned when a cassette names no main text.
var ErrNoStories = errors.New("config: at least one story is required")

// Load reads <root>/dialogframe.yaml over the defaults, applies environment
// overrides and validates the result.
func Load(root string) (Cassette, error) {
	cfg := Defaults()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes YAML over cfg; keys absent from data keep their current value.
func Parse(data []byte, cfg *Cassette) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	normalize(cfg)
	return nil
}

func normalize(cfg *Cassette) {
	cfg.Help.Location = domain.Corner(strings.ToLower(strings.TrimSpace(string(cfg.Help.Location))))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	lower := func(s *string) { *s = strings.ToLower(strings.TrimSpace(*s)) }
	lower(&cfg.Keys.TurnPage)
	lower(&cfg.Keys.BackPage)
	lower(&cfg.Keys.ImageOpen)
	lower(&cfg.Keys.ShowHelp)
	lower(&cfg.Keys.GoToStart)
	for i := range cfg.Keys.Save {
		lower(&cfg.Keys.Save[i])
	}
	for i := range cfg.Keys.Load {
		lower(&cfg.Keys.Load[i])
	}
	if cfg.Dice.Skills == nil {
		cfg.Dice.Skills = map[string]int{}
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *Cassette) {
	if v := strings.TrimSpace(os.Getenv(EnvFramerate)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Framerate = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvUseSave)); v != "" {
		cfg.Save.Enabled = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBGMEnabled)); v != "" {
		cfg.Audio.BGMEnabled = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSaveDB)); v != "" {
		cfg.Save.DB = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "framerate":
		env = EnvFramerate
	case "save.enabled":
		env = EnvUseSave
	case "save.db":
		env = EnvSaveDB
	case "audio.bgm_enabled":
		env = EnvBGMEnabled
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// MultiStory reports whether the opening offers a story choice.
func (c Cassette) MultiStory() bool { return len(c.Stories) > 1 }

// HasImage reports whether name is a declared image.
func (c Cassette) HasImage(name string) bool {
	for _, im := range c.Images {
		if im.Name == name {
			return true
		}
	}
	return false
}

// HasSound reports whether name is a declared sound effect.
func (c Cassette) HasSound(name string) bool {
	for _, s := range c.Sounds {
		if s == name {
			return true
		}
	}
	return false
}

// Bindings resolves the configured key names.
func (c Cassette) Bindings() (input.Bindings, error) {
	var b input.Bindings
	var err error
	parse := func(field, name string, dst *input.Key) {
		if err != nil {
			return
		}
		k, perr := input.ParseKey(name)
		if perr != nil {
			err = fmt.Errorf("config: keys.%s: %w", field, perr)
			return
		}
		*dst = k
	}
	parse("turn_page", c.Keys.TurnPage, &b.TurnPage)
	parse("back_page", c.Keys.BackPage, &b.BackPage)
	parse("image_open", c.Keys.ImageOpen, &b.ImageOpen)
	parse("show_help", c.Keys.ShowHelp, &b.ShowHelp)
	parse("go_to_start", c.Keys.GoToStart, &b.GoToStart)
	b.Save = make([]input.Key, len(c.Keys.Save))
	for i, n := range c.Keys.Save {
		parse(fmt.Sprintf("save[%d]", i), n, &b.Save[i])
	}
	b.Load = make([]input.Key, len(c.Keys.Load))
	for i, n := range c.Keys.Load {
		parse(fmt.Sprintf("load[%d]", i), n, &b.Load[i])
	}
	if err != nil {
		return input.Bindings{}, err
	}
	if err := b.Validate(); err != nil {
		return input.Bindings{}, fmt.Errorf("config: keys: %w", err)
	}
	return b, nil
}

// Validate checks cross references between sections.
func (c Cassette) Validate() error {
	var errs []error
	if len(c.Stories) == 0 {
		errs = append(errs, ErrNoStories)
	}
	if c.Framerate <= 0 {
		errs = append(errs, fmt.Errorf("config: framerate must be positive, got %d", c.Framerate))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: invalid screen size %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Dice.Rolls < 1 {
		errs = append(errs, fmt.Errorf("config: dice.rolls must be at least 1, got %d", c.Dice.Rolls))
	}
	if !c.Help.Location.Valid() {
		errs = append(errs, fmt.Errorf("config: help.location %q is not one of nw, ne, sw, se", c.Help.Location))
	}
	for i, l := range c.Links {
		if l.Key == "" {
			errs = append(errs, fmt.Errorf("config: links[%d]: empty key", i))
		}
		for _, n := range []string{l.Main, l.Back} {
			if !c.HasImage(n) {
				errs = append(errs, fmt.Errorf("config: links[%d]: image %q is not declared", i, n))
			}
		}
		if l.Main == l.Back {
			errs = append(errs, fmt.Errorf("config: links[%d]: main and back are both %q", i, l.Main))
		}
	}
	if c.ImageOpen.Name != "" && !c.HasImage(c.ImageOpen.Name) {
		errs = append(errs, fmt.Errorf("config: image_open: image %q is not declared", c.ImageOpen.Name))
	}
	if c.TurnPageSound != "" && !c.HasSound(c.TurnPageSound) {
		errs = append(errs, fmt.Errorf("config: turn_page_sound %q is not declared", c.TurnPageSound))
	}
	if c.Opening.Enabled {
		errs = append(errs, c.validateOpening()...)
	}
	if _, err := c.Bindings(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Cassette) validateOpening() []error {
	var errs []error
	o := c.Opening
	need := func(what, name string) {
		if name == "" {
			errs = append(errs, fmt.Errorf("config: opening.%s is required", what))
		} else if !c.HasImage(name) {
			errs = append(errs, fmt.Errorf("config: opening.%s: image %q is not declared", what, name))
		}
	}
	need("background", o.Background)
	if o.Sound.Name != "" && !c.HasSound(o.Sound.Name) {
		errs = append(errs, fmt.Errorf("config: opening.sound %q is not declared", o.Sound.Name))
	}
	if c.MultiStory() {
		if len(o.Stories) != len(c.Stories) {
			errs = append(errs, fmt.Errorf("config: opening.stories has %d buttons for %d stories", len(o.Stories), len(c.Stories)))
		}
		for i, b := range o.Stories {
			need(fmt.Sprintf("stories[%d].name1", i), b.Name1)
			need(fmt.Sprintf("stories[%d].name2", i), b.Name2)
		}
		return errs
	}
	need("start.name1", o.Start.Name1)
	need("start.name2", o.Start.Name2)
	need("continue.name1", o.Continue.Name1)
	need("continue.name2", o.Continue.Name2)
	return errs
}

// Dirs resolves paths inside a cassette.
type Dirs struct{ Root string }

func (d Dirs) Image(name string) string    { return filepath.Join(d.Root, DirImage, name) }
func (d Dirs) Sound(name string) string    { return filepath.Join(d.Root, DirSound, name) }
func (d Dirs) MainText(name string) string { return filepath.Join(d.Root, DirMainText, name) }
func (d Dirs) Other(name string) string    { return filepath.Join(d.Root, DirOther, name) }
func (d Dirs) Log() string                 { return filepath.Join(d.Root, DirLog) }

// Rel resolves p against the cassette root unless it is absolute.
func (d Dirs) Rel(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.Root, p)
}
