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
	"errors"
	"fmt"
)

// UnsupportedFormatError is returned when the input extension has no
// registered converter. No converter is invoked in that case.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported format: file has no extension"
	}
	return fmt.Sprintf("unsupported format %q", e.Extension)
}

// ConversionError is returned when a registered converter failed on input
// it should have been able to handle (corrupt file, unparseable content).
type ConversionError struct {
	Source string
	Format string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("convert %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("convert %s input: %v", e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// IsUnsupportedFormat reports whether the error is an UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}

// IsConversionError reports whether the error is a ConversionError.
func IsConversionError(err error) bool {
	var target *ConversionError
	return errors.As(err, &target)
}
