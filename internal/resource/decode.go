/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package resource

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
)

// DecodeLoader decodes images into memory as image.Image and reads sounds as
// raw bytes. Renderers build their own handles from these; headless export
// draws them directly.
type DecodeLoader struct{}

func (DecodeLoader) LoadImage(path string, key *domain.Point) (Surface, error) {
	return DecodeImage(path, key)
}

func (DecodeLoader) LoadSound(path string) (Clip, error) {
	return os.ReadFile(path)
}

// DecodeImage reads a PNG, JPEG, GIF, BMP or WebP file. When key is set the
// colour of that pixel is made fully transparent across the whole image.
func DecodeImage(path string, key *domain.Point) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if key == nil {
		return img, nil
	}
	return ApplyColorKey(img, *key)
}

// ApplyColorKey returns a copy of img in which every pixel equal to the one at
// key is transparent.
func ApplyColorKey(img image.Image, key domain.Point) (*image.NRGBA, error) {
	b := img.Bounds()
	pt := image.Pt(b.Min.X+key.X, b.Min.Y+key.Y)
	if !pt.In(b) {
		return nil, fmt.Errorf("colour key %d,%d outside image %dx%d", key.X, key.Y, b.Dx(), b.Dy())
	}
	out := image.NewNRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	want := out.NRGBAAt(pt.X, pt.Y)
	transparent := color.NRGBA{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if out.NRGBAAt(x, y) == want {
				out.SetNRGBA(x, y, transparent)
			}
		}
	}
	return out, nil
}
