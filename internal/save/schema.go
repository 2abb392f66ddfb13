/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package save

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSnapshot is returned by Validate when a stored blob does not
// match its schema.
var ErrInvalidSnapshot = errors.New("save snapshot does not match schema")

//go:embed schema/resources.schema.json
var resourcesSchema []byte

//go:embed schema/playback.schema.json
var playbackSchema []byte

var (
	resourcesLoader = gojsonschema.NewBytesLoader(resourcesSchema)
	playbackLoader  = gojsonschema.NewBytesLoader(playbackSchema)
)

// Validate checks both blobs of snap against the embedded schemas. Schema
// violations are reported as ErrInvalidSnapshot with every failing field.
func Validate(snap Snapshot) error {
	if err := validateBlob("resources", resourcesLoader, snap.Resources); err != nil {
		return err
	}
	return validateBlob("playback", playbackLoader, snap.Playback)
}

func validateBlob(kind string, schema gojsonschema.JSONLoader, doc []byte) error {
	if len(doc) == 0 {
		return fmt.Errorf("%s: empty blob: %w", kind, ErrInvalidSnapshot)
	}
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		// Malformed JSON surfaces here rather than as a result error.
		return fmt.Errorf("%s: %v: %w", kind, err, ErrInvalidSnapshot)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s: %s: %w", kind, strings.Join(msgs, "; "), ErrInvalidSnapshot)
}
