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
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/nicholasgasior/doc2md/internal/ooxml"
)

// PptxConverter handles PPTX files: one section per slide in presentation
// order, shapes sorted top-to-bottom then left-to-right, speaker notes
// appended.
type PptxConverter struct{}

// NewPptxConverter creates a new PptxConverter.
func NewPptxConverter() *PptxConverter {
	return &PptxConverter{}
}

func (c *PptxConverter) Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read PPTX: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PPTX ZIP: %w", err)
	}

	slideOrder, err := c.slideOrder(zr)
	if err != nil {
		return nil, fmt.Errorf("get slide order: %w", err)
	}

	var md strings.Builder

	for slideNum, slidePath := range slideOrder {
		md.WriteString(fmt.Sprintf("\n\n<!-- Slide number: %d -->\n", slideNum+1))

		slideData, err := ooxml.ReadPart(zr, slidePath)
		if err != nil {
			continue
		}

		md.WriteString(c.renderSlide(slideData))

		if notesPath := c.notesPath(slidePath, zr); notesPath != "" {
			notesData, err := ooxml.ReadPart(zr, notesPath)
			if err == nil {
				notes := c.extractNotesText(notesData)
				if strings.TrimSpace(notes) != "" {
					md.WriteString("\n\n### Notes:\n")
					md.WriteString(notes)
				}
			}
		}
	}

	return &Result{
		Markdown: strings.TrimSpace(md.String()),
	}, nil
}

// slideOrder returns slide part paths in presentation order, falling back
// to lexical order of ppt/slides/slide*.xml when the spine is unreadable.
func (c *PptxConverter) slideOrder(zr *zip.Reader) ([]string, error) {
	presData, err := ooxml.ReadPart(zr, "ppt/presentation.xml")
	if err != nil {
		return nil, err
	}

	rels, _ := ooxml.ParseRelationships(zr, "ppt/_rels/presentation.xml.rels")

	decoder := xml.NewDecoder(bytes.NewReader(presData))
	var slideRIDs []string

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local == "sldId" {
				for _, attr := range se.Attr {
					if attr.Name.Local == "id" && strings.Contains(attr.Name.Space, "relationships") {
						slideRIDs = append(slideRIDs, attr.Value)
					}
				}
			}
		}
	}

	var slidePaths []string
	for _, rid := range slideRIDs {
		if rel, ok := rels[rid]; ok {
			slidePaths = append(slidePaths, ooxml.ResolveTarget("ppt/presentation.xml", rel.Target))
		}
	}

	if len(slidePaths) == 0 {
		for _, f := range zr.File {
			if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
				slidePaths = append(slidePaths, f.Name)
			}
		}
		sort.Strings(slidePaths)
	}

	return slidePaths, nil
}

type pptxShape struct {
	top     int64
	left    int64
	text    string
	isTitle bool
	isTable bool
	table   [][]string
	isPic   bool
	altText string
}

// renderSlide extracts a slide's shapes and formats them as Markdown.
func (c *PptxConverter) renderSlide(slideData []byte) string {
	shapes := c.extractShapes(slideData)

	sort.SliceStable(shapes, func(i, j int) bool {
		if shapes[i].top != shapes[j].top {
			return shapes[i].top < shapes[j].top
		}
		return shapes[i].left < shapes[j].left
	})

	var md strings.Builder
	for _, shape := range shapes {
		switch {
		case shape.isPic && shape.altText != "":
			md.WriteString(fmt.Sprintf("\n![%s](image)\n", sanitizeAltText(shape.altText)))
		case shape.isTable && len(shape.table) > 0:
			md.WriteString(c.tableToMarkdown(shape.table))
		case shape.isTitle:
			if text := strings.TrimSpace(shape.text); text != "" {
				md.WriteString("# " + text + "\n")
			}
		case shape.text != "":
			md.WriteString(shape.text + "\n")
		}
	}

	return md.String()
}

// sanitizeAltText cleans alt text for Markdown image syntax.
func sanitizeAltText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "[", " ")
	s = strings.ReplaceAll(s, "]", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// extractShapes parses the slide XML into a generic tree and collects
// shapes.
func (c *PptxConverter) extractShapes(slideData []byte) []pptxShape {
	var root xmlNode
	if err := xml.Unmarshal(slideData, &root); err != nil {
		return nil
	}

	var shapes []pptxShape
	c.walkTree(&root, &shapes)
	return shapes
}

// xmlNode is a generic XML tree node.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Content  string     `xml:",chardata"`
}

func (n *xmlNode) getAttr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *xmlNode) findChild(local string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

func (n *xmlNode) findAll(local string) []*xmlNode {
	var result []*xmlNode
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			result = append(result, &n.Children[i])
		}
	}
	return result
}

// findDeep finds the first descendant with the given local name.
func (n *xmlNode) findDeep(local string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
		if found := n.Children[i].findDeep(local); found != nil {
			return found
		}
	}
	return nil
}

// findAllDeep finds all descendants with the given local name.
func (n *xmlNode) findAllDeep(local string) []*xmlNode {
	var result []*xmlNode
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			result = append(result, &n.Children[i])
		}
		result = append(result, n.Children[i].findAllDeep(local)...)
	}
	return result
}

// allText extracts all text content recursively.
func (n *xmlNode) allText() string {
	if n.Content != "" {
		return n.Content
	}
	var parts []string
	for i := range n.Children {
		if t := n.Children[i].allText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "")
}

// walkTree walks the XML tree and extracts shapes.
func (c *PptxConverter) walkTree(node *xmlNode, shapes *[]pptxShape) {
	switch node.XMLName.Local {
	case "sp":
		if shape := c.extractSP(node); shape != nil {
			*shapes = append(*shapes, *shape)
		}
	case "pic":
		if shape := c.extractPic(node); shape != nil {
			*shapes = append(*shapes, *shape)
		}
	case "graphicFrame":
		if shape := c.extractGraphicFrame(node); shape != nil {
			*shapes = append(*shapes, *shape)
		}
	default:
		// grpSp and everything else: recurse
		for i := range node.Children {
			c.walkTree(&node.Children[i], shapes)
		}
	}
}

// extractSP extracts a text shape.
func (c *PptxConverter) extractSP(node *xmlNode) *pptxShape {
	shape := &pptxShape{
		top:  math.MaxInt64,
		left: math.MaxInt64,
	}

	// Title placeholders become slide headings
	if nvSpPr := node.findChild("nvSpPr"); nvSpPr != nil {
		if nvPr := nvSpPr.findChild("nvPr"); nvPr != nil {
			if ph := nvPr.findChild("ph"); ph != nil {
				phType := ph.getAttr("type")
				if phType == "title" || phType == "ctrTitle" {
					shape.isTitle = true
				}
			}
		}
	}

	c.extractPosition(node, shape)

	if txBody := node.findChild("txBody"); txBody != nil {
		shape.text = c.extractTextFromTxBody(txBody)
	}

	if strings.TrimSpace(shape.text) == "" {
		return nil
	}

	return shape
}

// extractPic extracts a picture shape.
func (c *PptxConverter) extractPic(node *xmlNode) *pptxShape {
	shape := &pptxShape{
		top:   math.MaxInt64,
		left:  math.MaxInt64,
		isPic: true,
	}

	if nvPicPr := node.findChild("nvPicPr"); nvPicPr != nil {
		if cNvPr := nvPicPr.findChild("cNvPr"); cNvPr != nil {
			shape.altText = cNvPr.getAttr("descr")
		}
	}

	c.extractPosition(node, shape)

	if shape.altText == "" {
		return nil
	}

	return shape
}

// extractGraphicFrame extracts a graphic frame (tables, charts).
func (c *PptxConverter) extractGraphicFrame(node *xmlNode) *pptxShape {
	shape := &pptxShape{
		top:  math.MaxInt64,
		left: math.MaxInt64,
	}

	c.extractPosition(node, shape)

	if tbl := node.findDeep("tbl"); tbl != nil {
		shape.isTable = true
		shape.table = c.extractTable(tbl)
		if len(shape.table) > 0 {
			return shape
		}
	}

	return nil
}

// extractPosition extracts position from spPr/xfrm/off.
func (c *PptxConverter) extractPosition(node *xmlNode, shape *pptxShape) {
	spPr := node.findChild("spPr")
	if spPr == nil {
		return
	}
	xfrm := spPr.findChild("xfrm")
	if xfrm == nil {
		return
	}
	off := xfrm.findChild("off")
	if off == nil {
		return
	}
	if x := off.getAttr("x"); x != "" {
		var v int64
		fmt.Sscanf(x, "%d", &v)
		shape.left = v
	}
	if y := off.getAttr("y"); y != "" {
		var v int64
		fmt.Sscanf(y, "%d", &v)
		shape.top = v
	}
}

// extractTextFromTxBody extracts text from a txBody element, one line per
// paragraph.
func (c *PptxConverter) extractTextFromTxBody(txBody *xmlNode) string {
	var parts []string
	for _, p := range txBody.findAll("p") {
		var lineText []string
		for _, r := range p.findAllDeep("t") {
			if t := r.allText(); t != "" {
				lineText = append(lineText, t)
			}
		}
		if len(lineText) > 0 {
			parts = append(parts, strings.Join(lineText, ""))
		}
	}
	return strings.Join(parts, "\n")
}

// extractTable extracts a table from a tbl element.
func (c *PptxConverter) extractTable(tbl *xmlNode) [][]string {
	var rows [][]string
	for _, tr := range tbl.findAll("tr") {
		var row []string
		for _, tc := range tr.findAll("tc") {
			if txBody := tc.findChild("txBody"); txBody != nil {
				row = append(row, strings.TrimSpace(c.extractTextFromTxBody(txBody)))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// tableToMarkdown renders a slide table as Markdown.
func (c *PptxConverter) tableToMarkdown(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	return renderTable(rows) + "\n"
}

// notesPath returns the notes slide path for a given slide, or "".
func (c *PptxConverter) notesPath(slidePath string, zr *zip.Reader) string {
	rels, err := ooxml.ParseRelationships(zr, ooxml.RelsPathFor(slidePath))
	if err != nil {
		return ""
	}

	for _, rel := range rels {
		if strings.Contains(rel.Type, "notesSlide") {
			return ooxml.ResolveTarget(slidePath, rel.Target)
		}
	}
	return ""
}

// extractNotesText extracts text content from a notes slide.
func (c *PptxConverter) extractNotesText(data []byte) string {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return ""
	}

	var parts []string
	for _, txBody := range root.findAllDeep("txBody") {
		if text := strings.TrimSpace(c.extractTextFromTxBody(txBody)); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n")
}
