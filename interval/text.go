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

package interval

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSyntax is wrapped by every error returned by [Parse].
var ErrInvalidSyntax = errors.New("invalid interval syntax")

// SyntaxError is returned by [Parse] for malformed interval text.
type SyntaxError struct {
	Text string // The text that failed to parse.
	Msg  string
	Err  error // The value parser's error, if it was the one that failed.
}

// Error implements [error].
func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interval: %q: %s: %v", e.Text, e.Msg, e.Err)
	}
	return fmt.Sprintf("interval: %q: %s", e.Text, e.Msg)
}

// Unwrap returns [ErrInvalidSyntax] and, if present, the value parser's
// error.
func (e *SyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidSyntax, e.Err}
	}
	return []error{ErrInvalidSyntax}
}

// String implements [fmt.Stringer].
//
// The output uses ( and ) for exclusive bounds, [ and ] for inclusive
// bounds, and ∞ for unbounded ones, e.g. "[-12; +∞)".
func (i Interval[T]) String() string {
	return i.Lower.String() + "; " + i.Upper.String()
}

// Parse parses the text form of an interval, using parseValue for the
// endpoint values.
//
// In addition to the output of [Interval.String], this accepts ] as an
// exclusive lower bracket and [ as an exclusive upper bracket. Infinite
// endpoints may be spelled oo, ∞, infty, infinity or left out entirely, with
// an optional sign; any bracket is accepted next to an infinite endpoint.
//
// On failure, the returned error is a *[SyntaxError].
func Parse[T cmp.Ordered](text string, parseValue func(string) (T, error)) (Interval[T], error) {
	fail := func(err error, format string, args ...any) (Interval[T], error) {
		return Interval[T]{}, &SyntaxError{Text: text, Msg: fmt.Sprintf(format, args...), Err: err}
	}

	s := strings.TrimSpace(text)
	if len(s) < 2 {
		return fail(nil, "missing brackets")
	}

	var lowerKind, upperKind Kind
	switch s[0] {
	case '[':
		lowerKind = Inclusive
	case '(', ']':
		lowerKind = Exclusive
	default:
		return fail(nil, "unexpected opening bracket %q", s[0])
	}
	switch s[len(s)-1] {
	case ']':
		upperKind = Inclusive
	case ')', '[':
		upperKind = Exclusive
	default:
		return fail(nil, "unexpected closing bracket %q", s[len(s)-1])
	}

	lo, hi, ok := strings.Cut(s[1:len(s)-1], ";")
	if !ok || strings.Contains(hi, ";") {
		return fail(nil, "expected exactly one ';'")
	}

	var out Interval[T]
	if !isInfinity(lo, '-') {
		v, err := parseValue(strings.TrimSpace(lo))
		if err != nil {
			return fail(err, "invalid lower bound")
		}
		out.Lower = Lower[T]{Kind: lowerKind, Value: v}
	}
	if !isInfinity(hi, '+') {
		v, err := parseValue(strings.TrimSpace(hi))
		if err != nil {
			return fail(err, "invalid upper bound")
		}
		out.Upper = Upper[T]{Kind: upperKind, Value: v}
	}
	return out, nil
}

// TryParse is like [Parse], but only reports whether parsing succeeded.
func TryParse[T cmp.Ordered](text string, parseValue func(string) (T, error)) (Interval[T], bool) {
	iv, err := Parse(text, parseValue)
	return iv, err == nil
}

// ParseInt parses an interval of decimal integers.
func ParseInt(text string) (Interval[int], error) {
	return Parse(text, strconv.Atoi)
}

// isInfinity returns whether s spells an infinite endpoint, optionally
// preceded by sign.
func isInfinity(s string, sign byte) bool {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(s, string(sign))
	switch s {
	case "", "oo", "∞", "infty", "infinity":
		return true
	default:
		return false
	}
}
