/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Tag names understood by the player.
const (
	TagImage = "image"
	TagSound = "sound"
	TagBGM   = "bgm"
	TagText  = "text"
	TagSkip  = "skip"
	TagDice  = "dice"
)

// Tag is a parsed tag line: <event name=NAME key=value key="quoted value" flag>.
// Attribute keys are case-insensitive and stored lower-case. A repeated key
// keeps its last value.
type Tag struct {
	Name   string
	Attrs  map[string]string
	Flags  map[string]bool
	LineNo int
	Raw    string
}

// MalformedTagError reports a tag line that cannot be used.
type MalformedTagError struct {
	LineNo int
	Raw    string
	Reason string
}

func (e *MalformedTagError) Error() string {
	if e.LineNo > 0 {
		return fmt.Sprintf("malformed tag at line %d: %s: %s", e.LineNo, e.Reason, e.Raw)
	}
	return fmt.Sprintf("malformed tag: %s: %s", e.Reason, e.Raw)
}

// ParseTag parses a tag line. The name attribute is required.
func ParseTag(line string) (Tag, error) {
	return parseTag(line, 0)
}

// Tag parses l as a tag line, carrying its source line number into errors.
func (l Line) Tag() (Tag, error) {
	return parseTag(l.Text, l.LineNo)
}

func parseTag(line string, lineNo int) (Tag, error) {
	t := Tag{Attrs: map[string]string{}, Flags: map[string]bool{}, LineNo: lineNo, Raw: line}
	fail := func(reason string) (Tag, error) {
		return Tag{}, &MalformedTagError{LineNo: lineNo, Raw: line, Reason: reason}
	}
	if Classify(line) != LineTag {
		return fail("not a tag line")
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, tagPrefix), ">")

	i := 0
	for i < len(body) {
		for i < len(body) && isSpace(body[i]) {
			i++
		}
		if i >= len(body) {
			break
		}
		start := i
		for i < len(body) && !isSpace(body[i]) && body[i] != '=' {
			i++
		}
		key := strings.ToLower(body[start:i])
		if key == "" {
			return fail("attribute without a name")
		}
		if i < len(body) && body[i] == '=' {
			i++
			var val string
			if i < len(body) && (body[i] == '"' || body[i] == '\'') {
				q := body[i]
				end := strings.IndexByte(body[i+1:], q)
				if end < 0 {
					return fail("unterminated quote in " + key)
				}
				val = body[i+1 : i+1+end]
				i += end + 2
			} else {
				vs := i
				for i < len(body) && !isSpace(body[i]) {
					i++
				}
				val = body[vs:i]
			}
			t.Attrs[key] = html.UnescapeString(val)
			delete(t.Flags, key)
			continue
		}
		t.Flags[key] = true
		delete(t.Attrs, key)
	}

	name, ok := t.Attrs["name"]
	if !ok || strings.TrimSpace(name) == "" {
		return fail("missing name")
	}
	t.Name = strings.ToLower(strings.TrimSpace(name))
	return t, nil
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

// Has reports whether key is present, with or without a value.
func (t Tag) Has(key string) bool {
	if _, ok := t.Attrs[key]; ok {
		return true
	}
	return t.Flags[key]
}

// Value returns the value of key, or "" when absent or a bare flag.
func (t Tag) Value(key string) string { return t.Attrs[key] }

// Require returns the value of key or a MalformedTagError.
func (t Tag) Require(key string) (string, error) {
	v, ok := t.Attrs[key]
	if !ok || v == "" {
		return "", t.Errorf("%s tag needs %s", t.Name, key)
	}
	return v, nil
}

// Int parses key as an integer.
func (t Tag) Int(key string) (int, error) {
	v, err := t.Require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, t.Errorf("%s=%q is not an integer", key, v)
	}
	return n, nil
}

// IntOr parses key as an integer, returning def when absent.
func (t Tag) IntOr(key string, def int) (int, error) {
	if _, ok := t.Attrs[key]; !ok {
		return def, nil
	}
	return t.Int(key)
}

// Float parses key as a float.
func (t Tag) Float(key string) (float64, error) {
	v, err := t.Require(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, t.Errorf("%s=%q is not a number", key, v)
	}
	return f, nil
}

// Volume parses key as a gain in [0, 1].
func (t Tag) Volume(key string) (float64, error) {
	v, err := t.Float(key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, t.Errorf("%s=%v is outside 0..1", key, v)
	}
	return v, nil
}

// Errorf builds a MalformedTagError positioned at this tag.
func (t Tag) Errorf(format string, args ...any) error {
	return &MalformedTagError{LineNo: t.LineNo, Raw: t.Raw, Reason: fmt.Sprintf(format, args...)}
}
