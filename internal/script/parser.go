/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "strings"

const tagPrefix = "<event "

// Classify returns the kind of a single line.
func Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, tagPrefix) && strings.HasSuffix(line, ">"):
		return LineTag
	case strings.HasPrefix(line, "#"):
		return LineComment
	default:
		return LineText
	}
}

// Parse splits a story into paragraphs. Paragraphs are separated by a single
// blank line; any further blank line becomes an empty text line of the
// following paragraph. Trailing line breaks at the end of the text are ignored.
func Parse(input string) []Paragraph {
	input = strings.TrimPrefix(input, "\uFEFF")
	input = strings.TrimRight(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	if input == "" {
		return nil
	}

	var paras []Paragraph
	var cur []Line
	flush := func() {
		paras = append(paras, Paragraph{Index: len(paras), Lines: cur})
		cur = nil
	}

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" && len(cur) > 0 {
			flush()
			continue
		}
		cur = append(cur, Line{Kind: Classify(line), Text: line, LineNo: i + 1})
	}
	if len(cur) > 0 {
		flush()
	}
	return paras
}
