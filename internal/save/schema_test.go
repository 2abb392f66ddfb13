/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package save

import (
	"errors"
	"testing"
)

func TestValidateAcceptsWellFormedBlobs(t *testing.T) {
	snap := Snapshot{
		Resources: []byte(`{"images":{"bg":{"xy":[0,0]}},"sounds":{"ding":{"vol":0.1}},"bgm":{"name":"","vol":0.1,"playing":false}}`),
		Playback:  []byte(`{"mode":{"base":"dialog","overlay":""},"page":3,"pageBack":0,"imageOrder":["bg"],"num":0,"num2":0,"message":[],"frameNum":12,"story":"main.txt"}`),
	}
	if err := Validate(snap); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsBadPlayback(t *testing.T) {
	snap := Snapshot{
		Resources: []byte(`{"images":{},"sounds":{},"bgm":{"name":"","vol":0,"playing":false}}`),
		Playback:  []byte(`{"mode":{"base":"title"},"page":-1,"pageBack":0,"imageOrder":[]}`),
	}
	err := Validate(snap)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	snap := Snapshot{Resources: []byte("not json"), Playback: []byte("{}")}
	if err := Validate(snap); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
	if err := Validate(Snapshot{}); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot for empty blobs, got %v", err)
	}
}

func TestValidateRejectsVolumeAboveOne(t *testing.T) {
	snap := Snapshot{
		Resources: []byte(`{"images":{},"sounds":{"ding":{"vol":1.5}},"bgm":{"name":"","vol":0.1,"playing":false}}`),
		Playback:  []byte(`{"mode":{"base":"dialog","overlay":""},"page":0,"pageBack":0,"imageOrder":[]}`),
	}
	if err := Validate(snap); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}
