package doc2md

import (
	"fmt"
	"io"
)

// PlainTextConverter handles plain text, Markdown, JSON, and JSONL files.
// The content passes through unchanged apart from charset decoding.
type PlainTextConverter struct{}

// NewPlainTextConverter creates a new PlainTextConverter.
func NewPlainTextConverter() *PlainTextConverter {
	return &PlainTextConverter{}
}

func (c *PlainTextConverter) Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return &Result{
		Markdown: decodeText(data, info.Charset),
	}, nil
}
