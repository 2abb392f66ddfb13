/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package play

import "github.com/yuu-eguci/dialog-framework/internal/domain"

// shakeCycle holds the displacement directions of a shake, each held for two
// frames: down-left, up-right, down, up-left, right, left, down-right, up.
var shakeCycle = [8]domain.Point{
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: -1},
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: -1},
}

// Shake returns the displacement of a shaking image at frame for the given
// amplitude. The pattern repeats every 16 frames.
func Shake(frame, amplitude int) domain.Point {
	i := frame % 16
	if i < 0 {
		i += 16
	}
	d := shakeCycle[i/2]
	return domain.Point{X: d.X * amplitude, Y: d.Y * amplitude}
}
