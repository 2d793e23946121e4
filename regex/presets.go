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

package regex

// Commonly used patterns.
const (
	// Identifier matches C identifiers.
	Identifier = `[A-Za-z_][A-Za-z0-9_]*`
	// Whitespace matches a single whitespace character.
	Whitespace = `[ \t\r\n]`
	// IntLiteral matches decimal integers.
	IntLiteral = `[0-9]+`
	// HexLiteral matches C-style hexadecimal integers.
	HexLiteral = `0x[0-9a-fA-F]+`
	// RealLiteral matches real numbers with an optional fractional part, an
	// optional exponent and _ as a digit separator. The whole part may be
	// omitted, as in .5, but a separator cannot come first. There is no sign.
	RealLiteral = `(([0-9]*\.)|([0-9]+[0-9_]*\.))?[0-9]+[0-9_]*([eE][+\-]?[0-9]+)?`
	// StringLiteral matches single-line, double-quoted strings with
	// backslash escapes.
	StringLiteral = `"(\\[^\n\r]|[^\r\n\\"])*"`
	// LineComment matches C-style line comments.
	LineComment = `//[^\r\n]*`
	// MultilineComment matches C-style block comments.
	MultilineComment = `/\*+([^*]|\*+[^*/])*\*+/`
)

// Presets maps names to commonly used patterns, for use in lexer
// definitions. "float" is [IEEEFloatLiteral] spelled with inf and nan.
var Presets = map[string]string{
	"identifier":        Identifier,
	"whitespace":        Whitespace,
	"int":               IntLiteral,
	"hex":               HexLiteral,
	"real":              RealLiteral,
	"string":            StringLiteral,
	"line_comment":      LineComment,
	"multiline_comment": MultilineComment,
	"float":             IEEEFloatLiteral("inf", "nan"),
}

// IEEEFloatLiteral returns a pattern matching [RealLiteral] with an optional
// sign when the whole part is present, as well as the given spellings of
// infinity (optionally signed) and NaN.
func IEEEFloatLiteral(infinity, nan string) string {
	return `((([0-9]*\.)|([+\-]?[0-9]+[0-9_]*\.))?[0-9]+[0-9_]*([eE][+\-]?[0-9]+)?)|([+\-]?` +
		Escape(infinity) + `)|(` + Escape(nan) + `)`
}
