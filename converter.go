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

import "io"

// SourceInfo holds metadata about the document being converted.
type SourceInfo struct {
	MIMEType  string
	Extension string
	Charset   string
	Filename  string
	LocalPath string
}

// Result holds the output of a conversion.
type Result struct {
	Markdown string
	Title    string
}

// Converter turns one document format into Markdown. Converters are
// registered in a Registry under the extensions they handle; dispatch is
// by extension, so Convert may assume the input matches its format.
type Converter interface {
	Convert(reader io.ReadSeeker, info SourceInfo) (*Result, error)
}
