// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package doc2md

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PdfConverter extracts the text content of PDF files.
type PdfConverter struct{}

// NewPdfConverter creates a new PdfConverter.
func NewPdfConverter() *PdfConverter {
	return &PdfConverter{}
}

func (c *PdfConverter) Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var md strings.Builder

	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text := strings.TrimSpace(c.extractPageText(page))
		if text == "" {
			continue
		}

		md.WriteString(text)
		md.WriteString("\n\n")
	}

	result := md.String()
	if strings.TrimSpace(result) == "" {
		return &Result{
			Markdown: "[No readable text content found in PDF]",
		}, nil
	}

	return &Result{
		Markdown: result,
	}, nil
}

// pdfTextElement represents a positioned text element on a PDF page.
type pdfTextElement struct {
	x    float64
	y    float64
	text string
	size float64
}

// pdfLine represents a line of text on a PDF page.
type pdfLine struct {
	y        float64
	elements []pdfTextElement
}

// extractPageText extracts text from a single PDF page using GetTextByRow,
// falling back to position-based extraction from Content().Text.
func (c *PdfConverter) extractPageText(page pdf.Page) string {
	if text := extractTextByRow(page); text != "" {
		return text
	}
	return extractTextByPosition(page)
}

// extractTextByRow uses the library's row grouping, inserting word
// boundaries where the content stream marks them with empty strings.
func extractTextByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		return ""
	}

	var result strings.Builder
	for _, row := range rows {
		var lineText strings.Builder
		prevWasEmpty := false
		for _, word := range row.Content {
			s := word.S
			if s == "" {
				prevWasEmpty = true
				continue
			}
			if lineText.Len() > 0 && prevWasEmpty {
				last := lineText.String()
				if len(last) > 0 && last[len(last)-1] != ' ' {
					lineText.WriteString(" ")
				}
			}
			lineText.WriteString(s)
			prevWasEmpty = false
		}
		if text := strings.TrimSpace(lineText.String()); text != "" {
			result.WriteString(text)
			result.WriteString("\n")
		}
	}

	if strings.TrimSpace(result.String()) == "" {
		return ""
	}
	return result.String()
}

// extractTextByPosition groups character-level content into lines by Y
// proximity and orders them top to bottom, left to right.
func extractTextByPosition(page pdf.Page) string {
	content := page.Content()
	if len(content.Text) == 0 {
		return ""
	}

	var elements []pdfTextElement
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		elements = append(elements, pdfTextElement{
			x:    t.X,
			y:    t.Y,
			text: t.S,
			size: t.FontSize,
		})
	}

	if len(elements) == 0 {
		return ""
	}

	yTolerance := 3.0
	if elements[0].size > 0 {
		yTolerance = elements[0].size * 0.3
	}

	var lines []pdfLine
	for _, elem := range elements {
		found := false
		for i := range lines {
			if pdfAbs(lines[i].y-elem.y) < yTolerance {
				lines[i].elements = append(lines[i].elements, elem)
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, pdfLine{y: elem.y, elements: []pdfTextElement{elem}})
		}
	}

	// PDF coordinates grow upward, so higher Y comes first
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].y > lines[j].y
	})

	var result strings.Builder
	for _, ln := range lines {
		sort.Slice(ln.elements, func(i, j int) bool {
			return ln.elements[i].x < ln.elements[j].x
		})

		var lineText strings.Builder
		var lastX, lastWidth float64
		first := true

		for _, elem := range ln.elements {
			if !first {
				gap := elem.x - (lastX + lastWidth)
				// Font-size-relative threshold for word spacing
				threshold := elem.size * 0.2
				if threshold < 1.0 {
					threshold = 1.0
				}
				if gap > threshold {
					lineText.WriteString(" ")
				}
			}
			lineText.WriteString(elem.text)
			lastX = elem.x
			lastWidth = float64(len([]rune(elem.text))) * elem.size * 0.55
			first = false
		}

		if text := lineText.String(); strings.TrimSpace(text) != "" {
			result.WriteString(text)
			result.WriteString("\n")
		}
	}

	return result.String()
}

func pdfAbs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
