/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/play"
)

// FaceSource resolves the face a text op is drawn with.
type FaceSource interface {
	Face(name string, size int) font.Face
}

// RenderFrame replays f onto a black w x h canvas. Image ops whose surface is
// not an image.Image (for example GPU handles) are skipped.
func RenderFrame(f play.Frame, w, h int, faces FaceSource) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(domain.Black)), image.Point{}, draw.Src)
	for _, op := range f.Ops {
		switch op.Kind {
		case play.OpImage:
			src, ok := op.Surface.(image.Image)
			if !ok {
				continue
			}
			b := src.Bounds()
			dst := image.Rect(op.At.X, op.At.Y, op.At.X+b.Dx(), op.At.Y+b.Dy())
			draw.Draw(img, dst, src, b.Min, draw.Over)
		case play.OpRect:
			fillRect(img, op.At.X, op.At.Y, op.At.X+op.W-1, op.At.Y+op.H-1, toRGBA(op.Color))
		case play.OpText:
			if faces == nil || op.Text == "" {
				continue
			}
			face := faces.Face(op.Font, op.Size)
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(toRGBA(op.Color)),
				Face: face,
				Dot:  fixed.P(op.At.X, op.At.Y+face.Metrics().Ascent.Ceil()),
			}
			d.DrawString(op.Text)
		}
	}
	return img
}

// WritePNG encodes img to path, creating the parent directory.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// fillRect blends col over the inclusive rectangle, clipped to img.
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Over)
}
