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

// Package doc2md converts office documents, PDFs, text files, and feeds to
// Markdown. An Engine owns an immutable Registry of per-format converters
// and dispatches by file extension.
package doc2md

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Engine is the document-to-Markdown conversion engine.
type Engine struct {
	registry     *Registry
	keepDataURIs bool
}

// New creates an Engine with all built-in converters registered.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.registry = e.buildRegistry()
	return e
}

// Option configures an Engine.
type Option func(*Engine)

// WithKeepDataURIs configures whether to keep full data URIs in output
// (default: false, which truncates them to data:mime/type;base64...).
func WithKeepDataURIs(keep bool) Option {
	return func(e *Engine) {
		e.keepDataURIs = keep
	}
}

// buildRegistry constructs the extension mapping for the built-in
// converters. Called once from New; the registry never changes afterwards.
func (e *Engine) buildRegistry() *Registry {
	reg := NewRegistry()

	html := NewHTMLConverter(e.keepDataURIs)

	reg.Register(NewXlsxConverter(), ".xlsx")
	reg.Register(NewXlsConverter(), ".xls")
	reg.Register(NewCsvConverter(), ".csv")
	reg.Register(NewDocxConverter(html), ".docx")
	reg.Register(NewPptxConverter(), ".pptx")
	reg.Register(NewPdfConverter(), ".pdf")
	reg.Register(NewFeedConverter(), ".rss", ".atom", ".xml")
	reg.Register(html, ".html", ".htm")
	reg.Register(NewPlainTextConverter(), ".txt", ".text", ".md", ".markdown", ".json", ".jsonl")

	return reg
}

// Supported reports whether files with the given extension can be converted.
func (e *Engine) Supported(ext string) bool {
	return e.registry.Supported(ext)
}

// Extensions returns all convertible extensions in sorted order.
func (e *Engine) Extensions() []string {
	return e.registry.Extensions()
}

// ConvertFile converts a local file to Markdown. An extension outside the
// registry fails with *UnsupportedFormatError before the file is opened; a
// converter failure is wrapped in *ConversionError.
func (e *Engine) ConvertFile(path string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	conv, ok := e.registry.Lookup(ext)
	if !ok {
		return nil, &UnsupportedFormatError{Extension: ext}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info := SourceInfo{
		Extension: ext,
		Filename:  filepath.Base(path),
		LocalPath: path,
	}
	info.MIMEType = detectMIMEType(f, ext)

	// Reset after MIME detection
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	return e.run(conv, f, info)
}

// ConvertReader converts a stream to Markdown using the provided SourceInfo.
// Dispatch uses info.Extension.
func (e *Engine) ConvertReader(r io.ReadSeeker, info SourceInfo) (*Result, error) {
	info.Extension = strings.ToLower(info.Extension)
	conv, ok := e.registry.Lookup(info.Extension)
	if !ok {
		return nil, &UnsupportedFormatError{Extension: info.Extension}
	}
	return e.run(conv, r, info)
}

func (e *Engine) run(conv Converter, r io.ReadSeeker, info SourceInfo) (*Result, error) {
	result, err := conv.Convert(r, info)
	if err != nil {
		return nil, &ConversionError{Source: info.Filename, Format: info.Extension, Err: err}
	}
	result.Markdown = normalizeMarkdown(result.Markdown)
	return result, nil
}

// detectMIMEType detects the MIME type from content, falling back to the
// extension.
func detectMIMEType(r io.Reader, ext string) string {
	mtype, err := mimetype.DetectReader(r)
	if err == nil && mtype.String() != "application/octet-stream" {
		return mtype.String()
	}
	return mimeFromExtension(ext)
}

// mimeFromExtension returns a MIME type for the registry's extensions.
func mimeFromExtension(ext string) string {
	extMap := map[string]string{
		".pdf":      "application/pdf",
		".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".pptx":     "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		".xlsx":     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".xls":      "application/vnd.ms-excel",
		".html":     "text/html",
		".htm":      "text/html",
		".csv":      "text/csv",
		".txt":      "text/plain",
		".text":     "text/plain",
		".md":       "text/markdown",
		".markdown": "text/markdown",
		".json":     "application/json",
		".jsonl":    "application/jsonl",
		".xml":      "text/xml",
		".rss":      "application/rss+xml",
		".atom":     "application/atom+xml",
	}
	if m, ok := extMap[ext]; ok {
		return m
	}
	return "application/octet-stream"
}
