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

// Package batch drives document-to-Markdown conversion over single files
// and directories. Conversions run one at a time; a file's failure is
// recorded and never aborts the rest of the batch.
package batch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nicholasgasior/doc2md/internal/logging"
)

// Result is the conversion output the runner consumes.
type Result struct {
	Markdown string
}

// Engine is the conversion capability the runner drives. *doc2md.Engine
// satisfies it through the engine adapter in cmd; tests substitute fakes.
type Engine interface {
	// ConvertFile converts one file and returns its Markdown.
	ConvertFile(path string) (Result, error)
	// Supported reports whether the extension is convertible.
	Supported(ext string) bool
}

// Task is one unit of work: a source document and an optional output
// path. An empty Output routes the Markdown to the runner's stdout writer.
type Task struct {
	Source string
	Output string
}

// Status is the outcome of a task.
type Status int

const (
	StatusConverted Status = iota
	StatusFailed
)

// TaskResult records the outcome of one task.
type TaskResult struct {
	Task   Task
	Status Status
	Err    error
}

// Runner executes conversion tasks sequentially.
type Runner struct {
	engine    Engine
	out       io.Writer
	log       *log.Logger
	recursive bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecursive controls whether ConvertDirectory descends into
// subdirectories (default true).
func WithRecursive(recursive bool) Option {
	return func(r *Runner) {
		r.recursive = recursive
	}
}

// WithLogger sets the runner's logger (default: discard).
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// WithStdout sets the writer that receives Markdown for tasks without an
// output path (default os.Stdout).
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// NewRunner creates a Runner on top of the given engine.
func NewRunner(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:    engine,
		out:       os.Stdout,
		log:       logging.Discard(),
		recursive: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ConvertOne converts a single file. With an output path the Markdown is
// written there atomically (temp file, then rename), so a failure never
// leaves a partial file behind; without one it goes to the stdout writer.
func (r *Runner) ConvertOne(source, output string) TaskResult {
	task := Task{Source: source, Output: output}
	fail := func(err error) TaskResult {
		return TaskResult{Task: task, Status: StatusFailed, Err: err}
	}

	fi, err := os.Stat(source)
	if err != nil {
		return fail(fmt.Errorf("stat source: %w", err))
	}
	if !fi.Mode().IsRegular() {
		return fail(fmt.Errorf("%s is not a regular file", source))
	}
	if output != "" && filepath.Clean(output) == filepath.Clean(source) {
		return fail(errors.New("output path equals source path"))
	}

	result, err := r.engine.ConvertFile(source)
	if err != nil {
		return fail(err)
	}

	md := result.Markdown + "\n"
	if output == "" {
		if _, err := io.WriteString(r.out, md); err != nil {
			return fail(fmt.Errorf("write stdout: %w", err))
		}
	} else {
		if err := writeAtomic(output, []byte(md)); err != nil {
			return fail(err)
		}
	}

	return TaskResult{Task: task, Status: StatusConverted}
}

// ConvertDirectory converts every eligible file under dir. Ineligible
// files are skipped (counted, logged at debug). A missing or
// non-directory input is fatal and aborts before any task runs. With a
// non-empty outDir each file lands at outDir/stem.md; otherwise results
// stream to stdout in order.
func (r *Runner) ConvertDirectory(dir, outDir string) (*Report, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	sources, ineligible, err := r.enumerate(dir)
	if err != nil {
		return nil, err
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	report := &Report{Ineligible: ineligible}
	for _, src := range sources {
		output := ""
		if outDir != "" {
			stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			output = filepath.Join(outDir, stem+".md")
		}

		res := r.ConvertOne(src, output)
		if res.Status == StatusConverted {
			r.log.Info("converted", "source", src, "output", output)
		} else {
			r.log.Error("conversion failed", "source", src, "error", res.Err)
		}
		report.Results = append(report.Results, res)
	}

	return report, nil
}

// enumerate collects eligible source files under dir in sorted order and
// counts the ineligible ones it passed over.
func (r *Runner) enumerate(dir string) ([]string, int, error) {
	var sources []string
	ineligible := 0

	consider := func(path string) {
		if r.engine.Supported(filepath.Ext(path)) {
			sources = append(sources, path)
			return
		}
		ineligible++
		r.log.Debug("skipped", "source", path, "reason", "unsupported extension")
	}

	if r.recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			consider(path)
			return nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("walk directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, 0, fmt.Errorf("read directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			consider(filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(sources)
	return sources, ineligible, nil
}

// writeAtomic writes data to path via a temp file in the same directory
// and a rename, creating parent directories as needed.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
