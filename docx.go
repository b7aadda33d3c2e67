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
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nicholasgasior/doc2md/internal/ooxml"
)

// DocxConverter handles DOCX files. The document body is rewritten as HTML
// and then handed to the HTML converter.
type DocxConverter struct {
	html *HTMLConverter
}

// NewDocxConverter creates a new DocxConverter.
func NewDocxConverter(html *HTMLConverter) *DocxConverter {
	return &DocxConverter{html: html}
}

func (c *DocxConverter) Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read DOCX: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open DOCX ZIP: %w", err)
	}

	// Relationships resolve hyperlinks and embedded images
	rels, _ := ooxml.ParseRelationships(zr, "word/_rels/document.xml.rels")

	comments := c.parseComments(zr)
	styles := c.parseStyles(zr)

	docData, err := ooxml.ReadPart(zr, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("read document.xml: %w", err)
	}

	htmlStr := c.bodyToHTML(docData, rels, comments, styles, zr)

	result, err := c.html.ConvertString(htmlStr)
	if err != nil {
		return nil, fmt.Errorf("convert DOCX HTML to markdown: %w", err)
	}

	return result, nil
}

// styleInfo holds style information for a document style.
type styleInfo struct {
	name    string
	styleID string
}

func (c *DocxConverter) parseStyles(zr *zip.Reader) map[string]styleInfo {
	styles := make(map[string]styleInfo)
	data, err := ooxml.ReadPart(zr, "word/styles.xml")
	if err != nil {
		return styles
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var currentStyleID string
	var inStyle bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "style":
				inStyle = true
				for _, attr := range t.Attr {
					if attr.Name.Local == "styleId" {
						currentStyleID = attr.Value
					}
				}
			case inStyle && t.Name.Local == "name":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						styles[currentStyleID] = styleInfo{
							name:    attr.Value,
							styleID: currentStyleID,
						}
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "style" {
				inStyle = false
				currentStyleID = ""
			}
		}
	}
	return styles
}

type docxComment struct {
	id     string
	author string
	text   string
}

func (c *DocxConverter) parseComments(zr *zip.Reader) map[string]docxComment {
	comments := make(map[string]docxComment)
	data, err := ooxml.ReadPart(zr, "word/comments.xml")
	if err != nil {
		return comments
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var current docxComment
	var inComment bool
	var textBuf strings.Builder

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "comment" {
				inComment = true
				textBuf.Reset()
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "id":
						current.id = attr.Value
					case "author":
						current.author = attr.Value
					}
				}
			}
		case xml.CharData:
			if inComment {
				textBuf.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "comment" && inComment {
				current.text = strings.TrimSpace(textBuf.String())
				comments[current.id] = current
				inComment = false
				current = docxComment{}
			}
		}
	}
	return comments
}

// bodyToHTML rewrites document.xml as HTML for the Markdown pass.
func (c *DocxConverter) bodyToHTML(docData []byte, rels map[string]ooxml.Relationship, comments map[string]docxComment, styles map[string]styleInfo, zr *zip.Reader) string {
	var html strings.Builder
	html.WriteString("<html><body>")

	decoder := xml.NewDecoder(bytes.NewReader(docData))

	type state struct {
		inRun       bool
		inText      bool
		inTableCell bool
		bold        bool
		italic      bool
		underline   bool
		strike      bool
		styleID     string
		hyperRef    string
		inHyper     bool
		listNumID   string
		inList      bool
	}

	var s state
	var textBuf strings.Builder
	var paragraphs []string
	var currentPara strings.Builder
	var tableRows [][]string
	var currentRow []string
	var cellContent strings.Builder
	var commentRefs []string

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				currentPara.Reset()
				s.bold = false
				s.italic = false
				s.underline = false
				s.strike = false
				s.styleID = ""
				s.listNumID = ""
				s.inList = false
				commentRefs = nil

			case "pStyle":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						s.styleID = attr.Value
					}
				}

			case "numPr":
				s.inList = true

			case "numId":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						s.listNumID = attr.Value
					}
				}

			case "r":
				s.inRun = true
				s.bold = false
				s.italic = false
				s.underline = false
				s.strike = false

			case "b":
				if s.inRun {
					s.bold = true
					// val="0" means explicitly NOT bold
					for _, attr := range t.Attr {
						if attr.Name.Local == "val" && attr.Value == "0" {
							s.bold = false
						}
					}
				}

			case "i":
				if s.inRun {
					s.italic = true
					for _, attr := range t.Attr {
						if attr.Name.Local == "val" && attr.Value == "0" {
							s.italic = false
						}
					}
				}

			case "u":
				if s.inRun {
					s.underline = true
				}

			case "strike":
				if s.inRun {
					s.strike = true
				}

			case "t":
				s.inText = true
				textBuf.Reset()

			case "tab":
				if s.inRun {
					currentPara.WriteString("\t")
				}

			case "br":
				if s.inRun {
					currentPara.WriteString("<br/>")
				}

			case "hyperlink":
				s.inHyper = true
				for _, attr := range t.Attr {
					if attr.Name.Space == ooxml.NSRelDoc && attr.Name.Local == "id" {
						if rel, ok := rels[attr.Value]; ok {
							s.hyperRef = rel.Target
						}
					}
				}

			case "tbl":
				tableRows = nil

			case "tr":
				currentRow = nil

			case "tc":
				s.inTableCell = true
				cellContent.Reset()

			case "commentReference":
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						commentRefs = append(commentRefs, attr.Value)
					}
				}

			case "drawing", "pict":
				img := c.extractImage(decoder, rels, zr)
				if img != "" {
					if s.inTableCell {
						cellContent.WriteString(img)
					} else {
						currentPara.WriteString(img)
					}
				}
			}

		case xml.CharData:
			if s.inText {
				textBuf.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				if s.inText {
					text := escapeHTMLText(textBuf.String())

					if s.bold {
						text = "<b>" + text + "</b>"
					}
					if s.italic {
						text = "<i>" + text + "</i>"
					}
					if s.strike {
						text = "<s>" + text + "</s>"
					}

					if s.inHyper && s.hyperRef != "" {
						text = `<a href="` + escapeHTMLAttr(s.hyperRef) + `">` + text + "</a>"
					}

					if s.inTableCell {
						cellContent.WriteString(text)
					} else {
						currentPara.WriteString(text)
					}
					s.inText = false
				}

			case "r":
				s.inRun = false
				s.bold = false
				s.italic = false

			case "hyperlink":
				s.inHyper = false
				s.hyperRef = ""

			case "p":
				paraText := currentPara.String()

				for _, commentID := range commentRefs {
					if comment, ok := comments[commentID]; ok {
						paraText += fmt.Sprintf(" [comment by %s: %s]", comment.author, comment.text)
					}
				}

				if s.inTableCell {
					cellContent.WriteString(paraText)
				} else {
					headingLevel := headingLevelFor(s.styleID, styles)

					if headingLevel > 0 {
						tag := fmt.Sprintf("h%d", headingLevel)
						paraText = "<" + tag + ">" + paraText + "</" + tag + ">"
					} else if s.inList && s.listNumID != "0" {
						paraText = "<li>" + paraText + "</li>"
					} else if paraText != "" {
						paraText = "<p>" + paraText + "</p>"
					}

					if paraText != "" {
						paragraphs = append(paragraphs, paraText)
					}
				}
				s.styleID = ""

			case "tc":
				currentRow = append(currentRow, cellContent.String())
				s.inTableCell = false

			case "tr":
				tableRows = append(tableRows, currentRow)

			case "tbl":
				if len(tableRows) > 0 {
					var tableBuf strings.Builder
					tableBuf.WriteString("<table>")
					for i, row := range tableRows {
						tableBuf.WriteString("<tr>")
						tag := "td"
						if i == 0 {
							tag = "th"
						}
						for _, cell := range row {
							tableBuf.WriteString("<" + tag + ">" + cell + "</" + tag + ">")
						}
						tableBuf.WriteString("</tr>")
					}
					tableBuf.WriteString("</table>")
					paragraphs = append(paragraphs, tableBuf.String())
				}
			}
		}
	}

	for _, p := range paragraphs {
		html.WriteString(p)
		html.WriteString("\n")
	}

	html.WriteString("</body></html>")
	return html.String()
}

// headingLevelFor returns the heading level (1-6) for a style, or 0.
func headingLevelFor(styleID string, styles map[string]styleInfo) int {
	if styleID == "" {
		return 0
	}

	lower := strings.ToLower(styleID)
	for i := 1; i <= 6; i++ {
		if lower == fmt.Sprintf("heading%d", i) || lower == fmt.Sprintf("heading %d", i) {
			return i
		}
	}

	// Fall back to the style name from styles.xml
	if si, ok := styles[styleID]; ok {
		nameLower := strings.ToLower(si.name)
		for i := 1; i <= 6; i++ {
			if nameLower == fmt.Sprintf("heading %d", i) {
				return i
			}
		}
	}

	return 0
}

// extractImage consumes a drawing/pict element and returns an <img> tag
// with the embedded image as a data URI, or "" if none is found.
func (c *DocxConverter) extractImage(decoder *xml.Decoder, rels map[string]ooxml.Relationship, zr *zip.Reader) string {
	depth := 1
	var embedID string
	var altText string

	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			// blip carries the embedded image relationship
			if t.Name.Local == "blip" {
				for _, attr := range t.Attr {
					if attr.Name.Local == "embed" {
						embedID = attr.Value
					}
				}
			}
			// docPr carries the alt text
			if t.Name.Local == "docPr" {
				for _, attr := range t.Attr {
					if attr.Name.Local == "descr" {
						altText = attr.Value
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	if embedID == "" {
		return ""
	}

	rel, ok := rels[embedID]
	if !ok {
		return ""
	}

	imgData, err := ooxml.ReadPart(zr, "word/"+rel.Target)
	if err != nil {
		imgData, err = ooxml.ReadPart(zr, rel.Target)
		if err != nil {
			return ""
		}
	}

	ext := strings.ToLower(path.Ext(rel.Target))
	contentType := "image/png"
	switch ext {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".gif":
		contentType = "image/gif"
	case ".bmp":
		contentType = "image/bmp"
	case ".svg":
		contentType = "image/svg+xml"
	}

	b64 := base64.StdEncoding.EncodeToString(imgData)
	src := fmt.Sprintf("data:%s;base64,%s", contentType, b64)

	if altText == "" {
		altText = path.Base(rel.Target)
	}

	return fmt.Sprintf(`<img src="%s" alt="%s"/>`, src, escapeHTMLAttr(altText))
}

func escapeHTMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeHTMLAttr(s string) string {
	s = escapeHTMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
