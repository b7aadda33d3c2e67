package doc2md

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CsvConverter renders CSV files as Markdown tables.
type CsvConverter struct{}

// NewCsvConverter creates a new CsvConverter.
func NewCsvConverter() *CsvConverter {
	return &CsvConverter{}
}

func (c *CsvConverter) Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	text := decodeText(data, info.Charset)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // allow variable fields
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}

	if len(records) == 0 {
		return &Result{Markdown: ""}, nil
	}

	return &Result{
		Markdown: renderTable(records),
	}, nil
}
