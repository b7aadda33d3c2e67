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

// Report summarizes a directory batch. Results holds one entry per
// attempted task in processing order; Ineligible counts the files the
// scan skipped for unsupported extensions.
type Report struct {
	Results    []TaskResult
	Ineligible int
}

// Converted returns the number of successful tasks.
func (r *Report) Converted() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusConverted {
			n++
		}
	}
	return n
}

// Failed returns the number of failed tasks.
func (r *Report) Failed() int {
	return len(r.Results) - r.Converted()
}

// Total returns the number of attempted tasks.
func (r *Report) Total() int {
	return len(r.Results)
}

// HasFailures reports whether any task failed.
func (r *Report) HasFailures() bool {
	return r.Failed() > 0
}
