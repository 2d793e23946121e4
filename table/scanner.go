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

package table

import (
	"iter"
	"unicode/utf8"
)

// Pos is a position in the input of a [Scanner]. Line and Column count from
// 1; Column counts runes.
type Pos struct {
	Offset       int
	Line, Column int
}

// Lexeme is a token produced by a [Scanner].
type Lexeme struct {
	Token string
	Text  string
	Pos   Pos
}

// Scanner splits text into tokens using a [Table].
//
// At each position it takes the longest prefix that leaves the table in an
// accepting state, and produces that state's token. A prefix no token
// matches produces the table's error token, for a single rune (or a single
// byte, if the input is not valid UTF-8). Tokens marked Ignore are skipped.
// Empty matches are not tokens.
type Scanner struct {
	table *Table
	src   string
	pos   Pos
	done  bool
}

// NewScanner returns a scanner of src. t must be valid; see [Table.Next].
func NewScanner(t *Table, src string) *Scanner {
	return &Scanner{table: t, src: src, pos: Pos{Line: 1, Column: 1}}
}

// Next returns the next token. The last token is the table's end token,
// after which Next returns false.
func (s *Scanner) Next() (Lexeme, bool) {
	for !s.done {
		start := s.pos
		if start.Offset == len(s.src) {
			s.done = true
			return Lexeme{Token: s.table.End, Pos: start}, true
		}

		state, token, n := s.match()
		if n == 0 {
			_, n = utf8.DecodeRuneInString(s.src[start.Offset:])
			s.advance(n)
			return Lexeme{Token: s.table.Error, Text: s.src[start.Offset : start.Offset+n], Pos: start}, true
		}
		s.advance(n)
		if s.table.States[state].Ignore {
			continue
		}
		return Lexeme{Token: token, Text: s.src[start.Offset : start.Offset+n], Pos: start}, true
	}
	return Lexeme{}, false
}

// match runs the table from the current position, and returns the last
// accepting state it passed through and the number of bytes consumed to
// reach it.
func (s *Scanner) match() (last int, token string, n int) {
	state := s.table.Initial
	rest := s.src[s.pos.Offset:]
	for i := 0; i < len(rest); {
		r, size := utf8.DecodeRuneInString(rest[i:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		next, ok := s.table.Next(state, r)
		if !ok {
			break
		}
		state, i = next, i+size
		if st := &s.table.States[state]; st.Accepting {
			last, token, n = state, st.Token, i
		}
	}
	return last, token, n
}

func (s *Scanner) advance(n int) {
	for _, r := range s.src[s.pos.Offset : s.pos.Offset+n] {
		if r == '\n' {
			s.pos.Line++
			s.pos.Column = 1
		} else {
			s.pos.Column++
		}
	}
	s.pos.Offset += n
}

// Scan returns the tokens of src, ending with the end token. See [Scanner].
func (t *Table) Scan(src string) iter.Seq[Lexeme] {
	return func(yield func(Lexeme) bool) {
		s := NewScanner(t, src)
		for {
			lex, ok := s.Next()
			if !ok || !yield(lex) {
				return
			}
		}
	}
}
