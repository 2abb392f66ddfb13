/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import (
	"strconv"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

// Outcome is the verdict of a percentile roll against a skill value.
type Outcome int

const (
	Failure Outcome = iota
	Fumble
	Success
	Critical
)

func (o Outcome) String() string {
	switch o {
	case Fumble:
		return "fumble"
	case Success:
		return "success"
	case Critical:
		return "critical"
	default:
		return "failure"
	}
}

// Judge rates result against mark. Results above the mark fail, 96 and above
// badly; results at or below it succeed, 5 and below critically.
func Judge(result, mark int) Outcome {
	if result > mark {
		if result >= 96 {
			return Fumble
		}
		return Failure
	}
	if result <= 5 {
		return Critical
	}
	return Success
}

// diceTag draws a percentile roll. For the first dice.rolls frames on a page
// a fresh random number is shown; after that the tag's own result is shown
// with its verdict, so the page reads the same on every redraw.
func (e *Engine) diceTag(tag script.Tag) error {
	skill := tag.Value("skill")
	x, err := tag.IntOr("x", 0)
	if err != nil {
		return err
	}
	y, err := tag.IntOr("y", 0)
	if err != nil {
		return err
	}
	mark, known := e.cfg.Dice.Skills[skill]
	markText := ""
	if known {
		markText = strconv.Itoa(mark)
	}

	var second string
	if e.st.Num != e.cfg.Dice.Rolls {
		second = strconv.Itoa(e.rng.IntN(100) + 1)
		e.st.Num++
	} else {
		result, err := tag.Int("result")
		if err != nil {
			return err
		}
		second = strconv.Itoa(result)
		if known {
			second += " → " + Judge(result, mark).String()
		}
	}

	font, size := e.cfg.Font.File, e.cfg.Font.Size
	lh := e.measure.LineHeight(font, size)
	e.frame.text(domain.Point{X: x, Y: y}, skill+": "+markText, e.cfg.Dialog.Color, font, size)
	e.frame.text(domain.Point{X: x, Y: y + lh}, second, e.cfg.Dialog.Color, font, size)
	return nil
}
