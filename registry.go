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
	"sort"
	"strings"
)

// Registry is a closed mapping from file extension to Converter. It is
// populated once when the engine is constructed and read-only afterwards;
// the engine dispatches by extension instead of probing converters.
type Registry struct {
	byExt map[string]Converter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Converter)}
}

// Register maps one or more extensions (with leading dot, lowercase) to c.
// A later registration for the same extension wins.
func (r *Registry) Register(c Converter, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = c
	}
}

// Lookup returns the converter for ext, if any. The match is
// case-insensitive.
func (r *Registry) Lookup(ext string) (Converter, bool) {
	c, ok := r.byExt[strings.ToLower(ext)]
	return c, ok
}

// Supported reports whether ext has a registered converter.
func (r *Registry) Supported(ext string) bool {
	_, ok := r.Lookup(ext)
	return ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
