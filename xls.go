package doc2md

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/extrame/xls"
)

// XlsConverter renders legacy XLS workbooks as one Markdown table per sheet.
type XlsConverter struct{}

// NewXlsConverter creates a new XlsConverter.
func NewXlsConverter() *XlsConverter {
	return &XlsConverter{}
}

func (c *XlsConverter) Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error) {
	// extrame/xls only opens file paths, so stage the stream in a temp file
	tmpFile, err := os.CreateTemp("", "doc2md-*.xls")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, reader); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmpFile.Close()

	wb, err := xls.Open(tmpPath, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open XLS: %w", err)
	}

	var md strings.Builder

	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}

		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		rows := collectXlsRows(sheet)
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(&md, "## %s\n", name)
		md.WriteString(renderTable(rows))
		md.WriteString("\n")
	}

	return &Result{
		Markdown: md.String(),
	}, nil
}

// collectXlsRows reads all populated rows of a worksheet.
func collectXlsRows(sheet *xls.WorkSheet) [][]string {
	var rows [][]string
	maxRow := int(sheet.MaxRow)
	for rowIdx := 0; rowIdx <= maxRow; rowIdx++ {
		row := sheet.Row(rowIdx)
		if row == nil {
			continue
		}

		var cells []string
		for colIdx := 0; colIdx < row.LastCol(); colIdx++ {
			cells = append(cells, row.Col(colIdx))
		}
		rows = append(rows, cells)
	}
	return rows
}
