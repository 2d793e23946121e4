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

package lexspec_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lexcompile/lexspec"
	"github.com/bufbuild/lexcompile/reporter"
	"github.com/bufbuild/lexcompile/table"
)

const calc = `name: calc
tokens:
  - name: eof
    end: true
  - name: unknown
    error: true
  - name: number
    preset: int
  - name: op
    text: ["+", "-"]
  - name: ws
    regex: '[ \t]+'
    ignore: true
`

func TestParse(t *testing.T) {
	t.Parallel()

	spec, err := lexspec.Parse("calc.yaml", strings.NewReader(calc), reporter.NewHandler(nil))
	require.NoError(t, err)
	assert.Equal(t, "calc", spec.Name)
	assert.Equal(t, "eof", spec.End)
	assert.Equal(t, "unknown", spec.Error)

	type rule struct {
		token, pattern string
		ignore         bool
		line, col      int
	}
	var rules []rule
	for _, r := range spec.Rules {
		assert.Equal(t, "calc.yaml", r.Pos.Filename)
		rules = append(rules, rule{r.Token, r.Pattern, r.Ignore, r.Pos.Line, r.Pos.Col})
	}
	assert.Equal(t, []rule{
		{"number", "[0-9]+", false, 8, 13},
		{"op", `\+`, false, 10, 12},
		{"op", "-", false, 10, 17},
		{"ws", `[ \t]+`, true, 12, 12},
	}, rules)
	assert.Equal(t, strings.Index(calc, "int"), spec.Rules[0].Pos.Offset)
	assert.Equal(t, strings.Index(calc, `"-"`), spec.Rules[2].Pos.Offset)

	tbl, err := table.Build(context.Background(), spec.Tokens(), spec.Options())
	require.NoError(t, err)
	var tokens []string
	for lex := range tbl.Scan("1 + 23-x") {
		tokens = append(tokens, lex.Token+":"+lex.Text)
	}
	assert.Equal(t, []string{"number:1", "op:+", "number:23", "op:-", "unknown:x", "eof:"}, tokens)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	const header = "tokens:\n  - {name: e, end: true}\n  - {name: x, error: true}\n"
	tests := []struct {
		name, src, err string
	}{
		{
			name: "empty",
			err:  "test.yaml: lexer definition is empty",
		},
		{
			name: "regex",
			src:  header + "  - name: bad\n    regex: 'a(b'\n",
			err:  `test.yaml:5:14: invalid regex "a(b": missing ')'`,
		},
		{
			name: "regex plain",
			src:  header + "  - name: bad\n    regex: ab)\n",
			err:  `test.yaml:5:14: invalid regex "ab)": unmatched ')'`,
		},
		{
			name: "duplicate end",
			src:  "tokens:\n  - name: a\n    end: true\n  - name: b\n    end: true\n",
			err:  `test.yaml:5:10: end token already defined as "a" at test.yaml:3:10`,
		},
		{
			name: "no error token",
			src:  "tokens:\n  - {name: e, end: true}\n",
			err:  "test.yaml: no error token defined",
		},
		{
			name: "both",
			src:  "tokens:\n  - {name: e, end: true, error: true}\n",
			err:  `test.yaml:2:33: token "e" cannot be both the end and the error token`,
		},
		{
			name: "end with pattern",
			src:  header + "  - {name: e, text: x}\n",
			err:  `test.yaml:4:21: end token "e" may not have patterns`,
		},
		{
			name: "unknown preset",
			src:  header + "  - {name: y, preset: nope}\n",
			err:  `unknown preset "nope"`,
		},
		{
			name: "no name",
			src:  header + "  - {regex: a}\n",
			err:  "test.yaml:4:13: token has no name",
		},
		{
			name: "not a bool",
			src:  header + "  - {name: y, text: a, ignore: maybe}\n",
			err:  "test.yaml:4:32: expected true or false",
		},
		{
			name: "unknown field",
			src:  header + "  - {name: y, bogus: a}\n",
			err:  "field bogus not found",
		},
		{
			name: "empty text",
			src:  header + "  - {name: y, text: ''}\n",
			err:  "test.yaml:4:21: text must not be empty",
		},
		{
			name: "nested list",
			src:  header + "  - {name: y, regex: [[a]]}\n",
			err:  "test.yaml:4:23: expected a string",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			spec, err := lexspec.Parse("test.yaml", strings.NewReader(test.src), reporter.NewHandler(nil))
			require.Error(t, err)
			assert.Nil(t, spec)
			assert.Contains(t, err.Error(), test.err)
		})
	}
}

func TestParseCollectsDiagnostics(t *testing.T) {
	t.Parallel()

	src := `tokens:
  - name: e
    end: true
  - name: x
    error: true
  - name: unused
  - name: a
    regex: "(("
  - name: b
    regex: "[z-a]"
`
	var errs, warnings []string
	h := reporter.NewHandler(reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			errs = append(errs, err.Error())
			return nil
		},
		func(err reporter.ErrorWithPos) {
			warnings = append(warnings, err.Error())
		},
	))
	_, err := lexspec.Parse("t.yaml", strings.NewReader(src), h)
	require.ErrorIs(t, err, reporter.ErrInvalidSpec)
	assert.Equal(t, []string{
		`t.yaml:8:14: invalid regex "((": missing ')'`,
		`t.yaml:10:14: invalid regex "[z-a]": invalid range z-a`,
	}, errs)
	assert.Equal(t, []string{`t.yaml:6:11: token "unused" has no patterns and will never be produced`}, warnings)
}

func TestSpecString(t *testing.T) {
	t.Parallel()

	spec, err := lexspec.Parse("calc.yaml", strings.NewReader(calc), reporter.NewHandler(nil))
	require.NoError(t, err)
	lines := strings.Split(spec.String(), "\n")
	assert.Equal(t, `lexer "calc" (end "eof", error "unknown")`, lines[0])
	assert.True(t, slices.Contains(lines, `  ws: [ \t]+ (ignored)`))
}
