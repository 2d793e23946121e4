// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reporter

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec is a sentinel error that is returned when a lexer
// definition has errors, but the configured ErrorReporter always returns
// nil.
var ErrInvalidSpec = errors.New("compile failed: invalid lexer definition")

// Pos is a location in a lexer definition. Line and Col count from 1; a
// zero Line means the position is unknown.
type Pos struct {
	Filename  string
	Line, Col int
	Offset    int
}

func (p Pos) String() string {
	switch {
	case p.Line == 0 && p.Filename == "":
		return "<input>"
	case p.Line == 0:
		return p.Filename
	case p.Filename == "":
		return fmt.Sprintf("<input>:%d:%d", p.Line, p.Col)
	default:
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
	}
}

// ErrorWithPos is an error about a lexer definition that includes
// information about the location in the file that caused the error.
//
// The value of Error() will contain both the Pos and Underlying error.
// The value of Unwrap() will only be the Underlying error.
type ErrorWithPos interface {
	error
	GetPosition() Pos
	Unwrap() error
}

// Error returns an error with the given position.
func Error(pos Pos, err error) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: err}
}

// Errorf returns an error with the given position and formatted message.
func Errorf(pos Pos, format string, args ...any) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	underlying error
	pos        Pos
}

func (e errorWithPos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

// GetPosition implements the ErrorWithPos interface, supplying the location
// that caused the error.
func (e errorWithPos) GetPosition() Pos {
	return e.pos
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithPos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithPos{}
