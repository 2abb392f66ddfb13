/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import (
	"fmt"

	"github.com/yuu-eguci/dialog-framework/internal/config"
	"github.com/yuu-eguci/dialog-framework/internal/resource"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

// Problem is one defect found by Check.
type Problem struct {
	Story  string
	LineNo int // 0 when the whole story is affected
	Err    error
}

func (p Problem) String() string {
	if p.LineNo == 0 {
		return fmt.Sprintf("%s: %v", p.Story, p.Err)
	}
	return fmt.Sprintf("%s:%d: %v", p.Story, p.LineNo, p.Err)
}

// Check reads every configured story and reports tag lines that would stop
// playback: malformed tags, bad numeric attributes and references to assets
// that are not loaded. music reports whether a background music file can be
// opened; nil skips that check.
func Check(cfg config.Cassette, src script.Source, rsrc *resource.Set, music func(name string) error) []Problem {
	var out []Problem
	for _, name := range cfg.Stories {
		paras, err := script.Load(src, name)
		if err != nil {
			out = append(out, Problem{Story: name, Err: err})
			continue
		}
		for _, p := range paras {
			for _, l := range p.Lines {
				if l.Kind != script.LineTag {
					continue
				}
				if err := checkTag(cfg, rsrc, music, l); err != nil {
					out = append(out, Problem{Story: name, LineNo: l.LineNo, Err: err})
				}
			}
		}
	}
	return out
}

func checkTag(cfg config.Cassette, rsrc *resource.Set, music func(string) error, l script.Line) error {
	tag, err := l.Tag()
	if err != nil {
		return err
	}
	ints := func(keys ...string) error {
		for _, k := range keys {
			if tag.Has(k) {
				if _, err := tag.Int(k); err != nil {
					return err
				}
			}
		}
		return nil
	}
	switch tag.Name {
	case script.TagImage:
		if err := ints("x", "y", "shake"); err != nil {
			return err
		}
		if f := tag.Value("file"); f != "" {
			if _, err := rsrc.Image(f); err != nil {
				return err
			}
		} else if tag.Has("x") || tag.Has("y") || tag.Has("put") || tag.Has("remove") || tag.Has("shake") {
			return tag.Errorf("image tag needs file")
		}
		if to := tag.Value("changeto"); to != "" {
			if _, err := rsrc.Image(to); err != nil {
				return err
			}
		}
	case script.TagSound:
		f, err := tag.Require("file")
		if err != nil {
			return err
		}
		if _, err := rsrc.Sound(f); err != nil {
			return err
		}
		if tag.Has("volume") {
			if _, err := tag.Volume("volume"); err != nil {
				return err
			}
		}
	case script.TagBGM:
		if tag.Has("volume") {
			if _, err := tag.Volume("volume"); err != nil {
				return err
			}
		}
		if f := tag.Value("file"); f != "" && music != nil {
			if err := music(f); err != nil {
				return fmt.Errorf("bgm %q: %w", f, err)
			}
		}
	case script.TagText:
		if err := ints("fontsize", "x", "y"); err != nil {
			return err
		}
	case script.TagSkip:
		return ints("pause")
	case script.TagDice:
		if err := ints("x", "y"); err != nil {
			return err
		}
		if _, err := tag.Int("result"); err != nil {
			return err
		}
		if _, ok := cfg.Dice.Skills[tag.Value("skill")]; !ok {
			return tag.Errorf("dice skill %q has no passing value", tag.Value("skill"))
		}
	}
	return nil
}
