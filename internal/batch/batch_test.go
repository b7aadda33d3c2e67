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

package batch

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine converts any file with an extension in exts, failing the
// paths listed in failures. It records the paths it was asked to convert.
type fakeEngine struct {
	exts     map[string]bool
	failures map[string]error
	calls    []string
}

func newFakeEngine(exts ...string) *fakeEngine {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return &fakeEngine{exts: m, failures: map[string]error{}}
}

func (f *fakeEngine) ConvertFile(path string) (Result, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.failures[filepath.Base(path)]; ok {
		return Result{}, err
	}
	return Result{Markdown: "# " + filepath.Base(path)}, nil
}

func (f *fakeEngine) Supported(ext string) bool {
	return f.exts[strings.ToLower(ext)]
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertOneWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "report.txt", "hello")
	out := filepath.Join(dir, "report.md")

	r := NewRunner(newFakeEngine(".txt"))
	res := r.ConvertOne(src, out)

	require.Equal(t, StatusConverted, res.Status)
	require.NoError(t, res.Err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# report.txt\n", string(data))
}

func TestConvertOneWritesStdoutWhenNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "report.txt", "hello")

	var buf bytes.Buffer
	r := NewRunner(newFakeEngine(".txt"), WithStdout(&buf))
	res := r.ConvertOne(src, "")

	require.Equal(t, StatusConverted, res.Status)
	assert.Equal(t, "# report.txt\n", buf.String())
}

func TestConvertOneMissingSource(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(newFakeEngine(".txt"))

	res := r.ConvertOne(filepath.Join(dir, "absent.txt"), "")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Error(t, res.Err)
}

func TestConvertOneRejectsOutputEqualToSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "report.txt", "hello")

	eng := newFakeEngine(".txt")
	r := NewRunner(eng)
	res := r.ConvertOne(src, src)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Empty(t, eng.calls, "conversion must not run when output equals source")

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data), "source must be untouched")
}

func TestConvertOneFailureLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "broken.txt", "hello")
	out := filepath.Join(dir, "out", "broken.md")

	eng := newFakeEngine(".txt")
	eng.failures["broken.txt"] = errors.New("boom")

	r := NewRunner(eng)
	res := r.ConvertOne(src, out)

	require.Equal(t, StatusFailed, res.Status)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no output file may exist after a failed conversion")
}

func TestConvertDirectoryIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.txt", "a")
	writeFixture(t, dir, "b.txt", "b")
	writeFixture(t, dir, "c.txt", "c")
	outDir := filepath.Join(dir, "out")

	eng := newFakeEngine(".txt")
	eng.failures["b.txt"] = errors.New("corrupt document")

	r := NewRunner(eng)
	report, err := r.ConvertDirectory(dir, outDir)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total())
	assert.Equal(t, 2, report.Converted())
	assert.Equal(t, 1, report.Failed())
	assert.True(t, report.HasFailures())

	for _, name := range []string{"a.md", "c.md"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(outDir, "b.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertDirectorySkipsIneligibleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "notes.txt", "n")
	writeFixture(t, dir, "photo.png", "p")
	writeFixture(t, dir, "archive.bin", "b")

	eng := newFakeEngine(".txt")
	r := NewRunner(eng)
	report, err := r.ConvertDirectory(dir, filepath.Join(dir, "out"))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total())
	assert.Equal(t, 2, report.Ineligible)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, eng.calls)
}

func TestConvertDirectoryRecursion(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "top.txt", "t")
	writeFixture(t, dir, filepath.Join("sub", "nested.txt"), "n")

	t.Run("recursive", func(t *testing.T) {
		eng := newFakeEngine(".txt")
		r := NewRunner(eng, WithRecursive(true))
		report, err := r.ConvertDirectory(dir, filepath.Join(dir, "out-r"))
		require.NoError(t, err)
		assert.Equal(t, 2, report.Total())
	})

	t.Run("flat", func(t *testing.T) {
		eng := newFakeEngine(".txt")
		r := NewRunner(eng, WithRecursive(false))
		report, err := r.ConvertDirectory(dir, filepath.Join(dir, "out-f"))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Total())
		assert.Equal(t, []string{filepath.Join(dir, "top.txt")}, eng.calls)
	})
}

func TestConvertDirectoryMissingIsFatal(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(newFakeEngine(".txt"))

	_, err := r.ConvertDirectory(filepath.Join(dir, "absent"), "")
	assert.Error(t, err)

	file := writeFixture(t, dir, "plain.txt", "x")
	_, err = r.ConvertDirectory(file, "")
	assert.Error(t, err, "a regular file is not a directory input")
}

func TestConvertDirectoryIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.txt", "a")
	outDir := filepath.Join(dir, "out")

	r := NewRunner(newFakeEngine(".txt"))
	for i := 0; i < 2; i++ {
		report, err := r.ConvertDirectory(dir, outDir)
		require.NoError(t, err)
		require.Equal(t, 1, report.Converted())
	}

	data, err := os.ReadFile(filepath.Join(outDir, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "# a.txt\n", string(data))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "reruns must not leave temp files behind")
}
