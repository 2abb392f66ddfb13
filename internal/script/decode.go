/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// ErrUndecodable is returned when story bytes match none of the supported encodings.
var ErrUndecodable = errors.New("text is not UTF-8, Shift_JIS or EUC-JP")

var legacyEncodings = []encoding.Encoding{japanese.ShiftJIS, japanese.EUCJP}

// Decode converts story bytes to a string. UTF-8 (with or without BOM) is
// tried first, then Shift_JIS and EUC-JP.
func Decode(b []byte) (string, error) {
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(b) {
		return string(b), nil
	}
	for _, enc := range legacyEncodings {
		out, err := enc.NewDecoder().Bytes(b)
		if err != nil {
			continue
		}
		if !bytes.ContainsRune(out, utf8.RuneError) {
			return string(out), nil
		}
	}
	return "", ErrUndecodable
}
