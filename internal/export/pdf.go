/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes a story outside of the player: a PDF transcript for
// proofreading and PNG stills of individual frames.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/yuu-eguci/dialog-framework/internal/domain"
	"github.com/yuu-eguci/dialog-framework/internal/script"
)

// PDFOptions controls transcript export. Units are points (pt).
type PDFOptions struct {
	Title       string
	FontFile    string  // TrueType font to embed; empty uses Helvetica, which covers Latin-1 only
	FontSize    float64 // default 11
	Margin      float64 // default 48
	IncludeTags bool    // print tag lines in grey after the text of each page
	Pages       []int   // paragraph indexes; empty exports all
}

const (
	a4W = 595.28
	a4H = 841.89

	embeddedFamily = "story"
)

var (
	headingColor = domain.RGB(120, 120, 120)
	tagColor     = domain.RGB(150, 150, 150)
	textColor    = domain.RGB(0, 0, 0)
)

// ExportTranscriptPDF writes the text of paras, one block per paragraph, to
// a multi-page A4 PDF at outPath.
func ExportTranscriptPDF(story string, paras []script.Paragraph, outPath string, opt PDFOptions) error {
	if len(paras) == 0 {
		return fmt.Errorf("story %q has no paragraphs", story)
	}
	size := opt.FontSize
	if size <= 0 {
		size = 11
	}
	margin := opt.Margin
	if margin <= 0 {
		margin = 48
	}
	title := opt.Title
	if title == "" {
		title = story
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: a4W, Ht: a4H},
	})
	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if opt.FontFile != "" {
		if _, err := os.Stat(opt.FontFile); err != nil {
			return fmt.Errorf("pdf font: %w", err)
		}
		pdf.AddUTF8Font(embeddedFamily, "", opt.FontFile)
		family = embeddedFamily
		tr = func(s string) string { return s }
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor("Dialog Frame", false)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin / 2)
		pdf.SetFont(family, "", size*0.8)
		setTextColor(pdf, headingColor)
		pdf.CellFormat(0, size, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	lineH := size * 1.4
	pdf.AddPage()
	pdf.SetFont(family, "", size*1.6)
	setTextColor(pdf, textColor)
	pdf.MultiCell(0, size*2, tr(title), "", "L", false)
	pdf.Ln(lineH)

	for _, idx := range pageIndexes(len(paras), opt.Pages) {
		if idx < 0 || idx >= len(paras) {
			continue
		}
		p := paras[idx]
		pdf.SetFont(family, "", size*0.8)
		setTextColor(pdf, headingColor)
		pdf.CellFormat(0, lineH, fmt.Sprintf("Page %d", p.Index), "", 1, "L", false, 0, "")

		pdf.SetFont(family, "", size)
		setTextColor(pdf, textColor)
		if text := p.TextLines(); len(text) > 0 {
			pdf.MultiCell(0, lineH, tr(strings.Join(text, "\n")), "", "L", false)
		}
		if opt.IncludeTags {
			var tags []string
			for _, l := range p.Tags() {
				tags = append(tags, l.Text)
			}
			if len(tags) > 0 {
				pdf.SetFont(family, "", size*0.8)
				setTextColor(pdf, tagColor)
				pdf.MultiCell(0, size, tr(strings.Join(tags, "\n")), "", "L", false)
			}
		}
		pdf.Ln(lineH / 2)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pageIndexes(total int, specific []int) []int {
	if len(specific) == 0 {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return specific
}

func setTextColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
