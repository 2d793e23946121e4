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

package table_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lexcompile/regex"
	"github.com/bufbuild/lexcompile/table"
)

func lex(tok, text string, offset, line, col int) table.Lexeme {
	return table.Lexeme{Token: tok, Text: text, Pos: table.Pos{Offset: offset, Line: line, Column: col}}
}

func TestScan(t *testing.T) {
	t.Parallel()

	tbl := small(t)
	tests := []struct {
		input string
		want  []table.Lexeme
	}{
		{
			input: "",
			want:  []table.Lexeme{lex("end", "", 0, 1, 1)},
		},
		{
			input: "ab aaa  a\nc",
			want: []table.Lexeme{
				lex("kw", "ab", 0, 1, 1),
				lex("as", "aaa", 3, 1, 4),
				lex("as", "a", 8, 1, 9),
				lex("error", "\n", 9, 1, 10),
				lex("error", "c", 10, 2, 1),
				lex("end", "", 11, 2, 2),
			},
		},
		{
			input: "aab",
			want: []table.Lexeme{
				lex("as", "aa", 0, 1, 1),
				lex("error", "b", 2, 1, 3),
				lex("end", "", 3, 1, 4),
			},
		},
		{
			input: "\xffa é",
			want: []table.Lexeme{
				lex("error", "\xff", 0, 1, 1),
				lex("as", "a", 1, 1, 2),
				lex("error", "é", 3, 1, 4),
				lex("end", "", 5, 1, 5),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, slices.Collect(tbl.Scan(test.input)))
		})
	}
}

func TestScanner(t *testing.T) {
	t.Parallel()

	tbl, err := table.Build(context.Background(), []table.Token{
		{Name: "if", Regex: regex.Literal("if")},
		{Name: "ident", Regex: regex.MustParse(regex.Identifier)},
		{Name: "ws", Regex: regex.MustParse(regex.Whitespace), Ignore: true},
		{Name: "opt", Regex: regex.MustParse("x?")},
	}, table.Options{End: "eof"})
	require.NoError(t, err)

	s := table.NewScanner(tbl, "if iff\n  i")
	var got []string
	for {
		lex, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, lex.Token+":"+lex.Text)
	}
	assert.Equal(t, []string{"if:if", "ident:iff", "ident:i", "eof:"}, got)

	_, ok := s.Next()
	assert.False(t, ok)

	// Stopping early.
	var n int
	for lex := range tbl.Scan("a b c") {
		assert.Equal(t, "ident", lex.Token)
		if n++; n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
