/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

// A story is a plain text file split into paragraphs by blank lines. Each
// paragraph is one page of the dialog play. Lines inside a paragraph are
// either tag lines that drive images and sounds, comment lines, or text
// shown to the reader.

// LineKind indicates the kind of a script line.
// Tag:     starts with "<event " and ends with ">"
// Comment: starts with "#", never rendered
// Text:    anything else, rendered top to bottom

type LineKind int

const (
	LineText LineKind = iota
	LineComment
	LineTag
)

func (k LineKind) String() string {
	switch k {
	case LineTag:
		return "tag"
	case LineComment:
		return "comment"
	default:
		return "text"
	}
}

// Line is a single classified line of a paragraph.
type Line struct {
	Kind   LineKind
	Text   string
	LineNo int // 1-based line number in the source
}

// Paragraph is one page.
type Paragraph struct {
	Index int
	Lines []Line
}

// TextLines returns the lines shown to the reader.
func (p Paragraph) TextLines() []string {
	var out []string
	for _, l := range p.Lines {
		if l.Kind == LineText {
			out = append(out, l.Text)
		}
	}
	return out
}

// Tags returns the tag lines in order.
func (p Paragraph) Tags() []Line {
	var out []Line
	for _, l := range p.Lines {
		if l.Kind == LineTag {
			out = append(out, l)
		}
	}
	return out
}
