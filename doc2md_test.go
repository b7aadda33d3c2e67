package doc2md

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestConvertReader(t *testing.T) {
	e := New()

	tests := []struct {
		name           string
		ext            string
		input          string
		mustInclude    []string
		mustNotInclude []string
	}{
		{
			name:  "csv",
			ext:   ".csv",
			input: "name,age\nalice,30\nbob,41\n",
			mustInclude: []string{
				"| name | age |",
				"| --- | --- |",
				"| alice | 30 |",
				"| bob | 41 |",
			},
		},
		{
			name:  "plaintext",
			ext:   ".txt",
			input: "plain body text\n",
			mustInclude: []string{
				"plain body text",
			},
		},
		{
			name:  "html",
			ext:   ".html",
			input: `<html><head><title>Quarterly Report</title><script>alert(1)</script></head><body><h1>Results</h1><p>Revenue <b>grew</b>.</p></body></html>`,
			mustInclude: []string{
				"# Results",
				"Revenue **grew**",
			},
			mustNotInclude: []string{
				"alert(1)",
				"<p>",
			},
		},
		{
			name: "rss",
			ext:  ".xml",
			input: `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Release Notes</title>
<description>Project updates</description>
<item>
<title>v1.2.0</title>
<pubDate>Mon, 06 Sep 2021 10:00:00 +0000</pubDate>
<description><![CDATA[<p>Adds <b>tables</b></p>]]></description>
</item>
</channel></rss>`,
			mustInclude: []string{
				"# Release Notes",
				"Project updates",
				"## v1.2.0",
				"Published:",
				"**tables**",
			},
			mustNotInclude: []string{
				"<rss",
				"CDATA",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.ConvertReader(strings.NewReader(tt.input), SourceInfo{Extension: tt.ext})
			if err != nil {
				t.Fatalf("ConvertReader error: %v", err)
			}

			for _, s := range tt.mustInclude {
				if !strings.Contains(result.Markdown, s) {
					t.Errorf("expected output to contain %q\nGot:\n%s", s, result.Markdown)
				}
			}
			for _, s := range tt.mustNotInclude {
				if strings.Contains(result.Markdown, s) {
					t.Errorf("expected output NOT to contain %q", s)
				}
			}
		})
	}
}

func TestConvertFile(t *testing.T) {
	e := New()

	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("hello from disk\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := e.ConvertFile(path)
	if err != nil {
		t.Fatalf("ConvertFile error: %v", err)
	}
	if !strings.Contains(result.Markdown, "hello from disk") {
		t.Errorf("unexpected output: %q", result.Markdown)
	}
}

// trackingConverter records whether Convert was ever called.
type trackingConverter struct {
	called bool
}

func (c *trackingConverter) Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error) {
	c.called = true
	return &Result{Markdown: "tracked"}, nil
}

func TestUnsupportedExtension(t *testing.T) {
	e := New()

	_, err := e.ConvertFile("report.xyz")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !IsUnsupportedFormat(err) {
		t.Errorf("expected UnsupportedFormatError, got %v", err)
	}

	// The file must not even be opened for an unknown extension: a
	// nonexistent path with a registered extension fails on open instead.
	_, err = e.ConvertFile(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil || IsUnsupportedFormat(err) {
		t.Errorf("expected open error for missing .txt file, got %v", err)
	}
}

func TestRegistryDispatch(t *testing.T) {
	tracked := &trackingConverter{}
	reg := NewRegistry()
	reg.Register(tracked, ".abc")

	if _, ok := reg.Lookup(".xyz"); ok {
		t.Error("Lookup(.xyz) should miss")
	}
	if tracked.called {
		t.Error("converter must not run for an unregistered extension")
	}

	conv, ok := reg.Lookup(".ABC")
	if !ok {
		t.Fatal("Lookup should be case-insensitive")
	}
	if _, err := conv.Convert(strings.NewReader(""), SourceInfo{}); err != nil {
		t.Fatal(err)
	}
	if !tracked.called {
		t.Error("registered converter should have run")
	}
}

func TestEngineExtensions(t *testing.T) {
	e := New()

	for _, ext := range []string{".xlsx", ".xls", ".csv", ".docx", ".pptx", ".pdf", ".html", ".txt", ".md", ".xml"} {
		if !e.Supported(ext) {
			t.Errorf("Supported(%s) = false", ext)
		}
	}
	if e.Supported(".exe") {
		t.Error("Supported(.exe) = true")
	}

	exts := e.Extensions()
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Errorf("Extensions() not sorted: %v", exts)
			break
		}
	}
}

func TestConversionErrorWrapping(t *testing.T) {
	e := New()

	// Unbalanced quote makes the CSV parser fail.
	_, err := e.ConvertReader(strings.NewReader("a,\"b\nc,d\n"), SourceInfo{Extension: ".csv", Filename: "bad.csv"})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !IsConversionError(err) {
		t.Errorf("expected ConversionError, got %v", err)
	}
	if IsUnsupportedFormat(err) {
		t.Error("parse failure must not read as unsupported format")
	}
}

func TestNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trailing whitespace",
			input: "hello   \nworld   \n",
			want:  "hello\nworld",
		},
		{
			name:  "multiple newlines",
			input: "hello\n\n\n\n\nworld",
			want:  "hello\n\nworld",
		},
		{
			name:  "crlf",
			input: "hello\r\nworld\r\n",
			want:  "hello\nworld",
		},
		{
			name:  "control characters",
			input: "hello\x00world\x01test",
			want:  "helloworldtest",
		},
		{
			name:  "surrounding blank lines",
			input: "\n\n  body  \n\n",
			want:  "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeMarkdown(tt.input)
			if got != tt.want {
				t.Errorf("normalizeMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{
			name: "simple",
			rows: [][]string{{"a", "b"}, {"1", "2"}},
			want: "| a | b |\n| --- | --- |\n| 1 | 2 |\n",
		},
		{
			name: "ragged rows padded",
			rows: [][]string{{"a"}, {"1", "2"}},
			want: "| a |  |\n| --- | --- |\n| 1 | 2 |\n",
		},
		{
			name: "pipes and newlines escaped",
			rows: [][]string{{"h"}, {"x|y\nz"}},
			want: "| h |\n| --- |\n| x\\|y z |\n",
		},
		{
			name: "empty",
			rows: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderTable(tt.rows)
			if got != tt.want {
				t.Errorf("renderTable() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		charset string
		want    string
	}{
		{
			name: "ascii passthrough",
			data: []byte("hello"),
			want: "hello",
		},
		{
			name: "utf8 passthrough",
			data: []byte("héllo wörld"),
			want: "héllo wörld",
		},
		{
			name:    "shift-jis with hint",
			data:    []byte{0x96, 0xBC, 0x91, 0x4F}, // 名前
			charset: "cp932",
			want:    "名前",
		},
		{
			name:    "latin1 with hint",
			data:    []byte{0x63, 0x61, 0x66, 0xE9}, // café
			charset: "iso-8859-1",
			want:    "café",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeText(tt.data, tt.charset)
			if got != tt.want {
				t.Errorf("decodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestXlsxConvert(t *testing.T) {
	f := excelize.NewFile()
	cells := map[string]string{
		"A1": "Name", "B1": "Total",
		"A2": "alpha", "B2": "12",
		"A3": "beta", "B3": "7",
	}
	for cell, v := range cells {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	e := New()
	result, err := e.ConvertReader(bytes.NewReader(buf.Bytes()), SourceInfo{Extension: ".xlsx"})
	if err != nil {
		t.Fatalf("ConvertReader error: %v", err)
	}

	for _, s := range []string{"## Sheet1", "| Name | Total |", "| alpha | 12 |", "| beta | 7 |"} {
		if !strings.Contains(result.Markdown, s) {
			t.Errorf("expected output to contain %q\nGot:\n%s", s, result.Markdown)
		}
	}
}

func TestHTMLDataURIs(t *testing.T) {
	long := strings.Repeat("QUJD", 32) // > 64 base64 chars
	input := `<img src="data:image/png;base64,` + long + `">`

	t.Run("truncated by default", func(t *testing.T) {
		result, err := NewHTMLConverter(false).ConvertString(input)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(result.Markdown, long) {
			t.Error("data URI payload should be truncated")
		}
		if !strings.Contains(result.Markdown, "data:image/png;base64,...") {
			t.Errorf("expected truncated marker, got %q", result.Markdown)
		}
	})

	t.Run("kept when configured", func(t *testing.T) {
		result, err := NewHTMLConverter(true).ConvertString(input)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(result.Markdown, long) {
			t.Error("data URI payload should be kept")
		}
	})
}

func TestHTMLTitle(t *testing.T) {
	result, err := NewHTMLConverter(false).ConvertString(`<html><head><title>  Doc Title </title></head><body>x</body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	if result.Title != "Doc Title" {
		t.Errorf("Title = %q, want %q", result.Title, "Doc Title")
	}
}
