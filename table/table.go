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

// Package table turns a list of tokens into the transition table of a
// lexer, and runs lexers from such tables.
//
// A table is built by compiling the regular expressions of every token into
// one minimal DFA, whose states are then numbered in breadth-first order
// from the initial state, and whose transitions are flattened into sorted,
// inclusive rune ranges.
package table

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bufbuild/lexcompile/internal/rangeindex"
	"github.com/bufbuild/lexcompile/regex"
)

// ErrInvalidTable is wrapped by errors from [Table.Validate] and
// [Table.UnmarshalBinary].
var ErrInvalidTable = errors.New("invalid lexer table")

// Default names for the end and error tokens.
const (
	DefaultEnd   = "end"
	DefaultError = "error"
)

// Token describes one token of a lexer.
//
// Several Tokens may share a Name, in which case the token matches any of
// their patterns. Among tokens matching input of the same length, the one
// listed first wins.
type Token struct {
	Name  string
	Regex regex.Node
	// Ignore marks tokens, such as whitespace, which the lexer skips.
	Ignore bool
}

// Options configures [Build].
type Options struct {
	// End and Error name the tokens produced at the end of input and for
	// input no token matches. They default to [DefaultEnd] and
	// [DefaultError], and must not be the name of any Token.
	End, Error string

	Logger *slog.Logger
}

// Table is the transition table of a lexer.
type Table struct {
	// Initial is the index of the initial state in States. [Build] always
	// produces 0.
	Initial int
	States  []State

	// Tokens lists every token name, in order of first appearance.
	Tokens     []string
	End, Error string

	index []rangeindex.Index[rune, int]
}

// State is a state of a lexer [Table].
type State struct {
	// Token is the token accepted in this state, if Accepting.
	Token     string
	Ignore    bool
	Accepting bool

	// Transitions are sorted by Start and pairwise disjoint.
	Transitions []Transition
}

// Transition is a transition of a lexer [Table] on every rune from Start to
// End, inclusive. It also records what its destination state accepts.
type Transition struct {
	Start, End rune
	Dest       int

	Token     string
	Ignore    bool
	Accepting bool
}

// Build compiles tokens into a lexer table.
func Build(ctx context.Context, tokens []Token, opts Options) (*Table, error) {
	t := &Table{End: opts.End, Error: opts.Error}
	if t.End == "" {
		t.End = DefaultEnd
	}
	if t.Error == "" {
		t.Error = DefaultError
	}
	if t.End == t.Error {
		return nil, fmt.Errorf("table: end and error tokens are both named %q", t.End)
	}

	tags := make(map[string]int)
	var ignore []bool
	rules := make([]regex.Rule[int], 0, len(tokens))
	for _, tok := range tokens {
		if tok.Name == t.End || tok.Name == t.Error {
			return nil, fmt.Errorf("table: token %q may not have a pattern", tok.Name)
		}
		tag, ok := tags[tok.Name]
		if !ok {
			tag = len(t.Tokens)
			tags[tok.Name] = tag
			t.Tokens = append(t.Tokens, tok.Name)
			ignore = append(ignore, false)
		}
		ignore[tag] = ignore[tag] || tok.Ignore
		rules = append(rules, regex.Rule[int]{Tag: tag, Node: tok.Regex})
	}

	dfa, err := regex.Compile(ctx, rules, regex.Options{Logger: opts.Logger})
	if err != nil {
		return nil, err
	}

	// Number states breadth-first, following transitions in rune order.
	initial, _ := dfa.DFA.Initial()
	order := []int{initial}
	number := map[int]int{initial: 0}
	for i := 0; i < len(order); i++ {
		for tr := range dfa.DFA.TransitionsFrom(order[i]) {
			if _, ok := number[tr.To]; !ok {
				number[tr.To] = len(order)
				order = append(order, tr.To)
			}
		}
	}

	t.States = make([]State, len(order))
	for i, s := range order {
		state := &t.States[i]
		if tag, ok := dfa.Tag(s); ok {
			state.Token, state.Ignore, state.Accepting = t.Tokens[tag], ignore[tag], true
		}
		for tr := range dfa.DFA.TransitionsFrom(s) {
			lo, hi, ok := regex.RuneRange(tr.On)
			if !ok {
				continue
			}
			dest := number[tr.To]

			// Merge with the previous range if it is adjacent and goes to
			// the same place.
			if n := len(state.Transitions); n > 0 {
				prev := &state.Transitions[n-1]
				if prev.Dest == dest && prev.End+1 == lo {
					prev.End = hi
					continue
				}
			}
			state.Transitions = append(state.Transitions, Transition{Start: lo, End: hi, Dest: dest})
		}
	}
	t.fill()

	if err := t.Validate(); err != nil {
		// Indicates a bug in this package.
		return nil, err
	}
	return t, nil
}

// fill copies what each state accepts into the transitions leading to it.
func (t *Table) fill() {
	for i := range t.States {
		for j := range t.States[i].Transitions {
			tr := &t.States[i].Transitions[j]
			if tr.Dest < 0 || tr.Dest >= len(t.States) {
				continue
			}
			dest := &t.States[tr.Dest]
			tr.Token, tr.Ignore, tr.Accepting = dest.Token, dest.Ignore, dest.Accepting
		}
	}
}
