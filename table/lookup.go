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
	"encoding/binary"
	"fmt"
	"slices"
	"unicode"

	"github.com/bufbuild/lexcompile/internal/rangeindex"
)

// Next returns the state that state transitions to on r, if any.
//
// The table must be valid; see [Table.Validate]. Tables built by hand are
// validated on first use, which panics if they are not valid, and is not
// safe to race with other calls.
func (t *Table) Next(state int, r rune) (int, bool) {
	if t.index == nil {
		if err := t.Validate(); err != nil {
			panic(err)
		}
	}
	if state < 0 || state >= len(t.index) {
		return 0, false
	}
	tr, ok := t.index[state].Get(r)
	return tr.Value, ok
}

// Validate checks that this table is well-formed: that every state index is
// in range, that every transition covers a non-empty range of valid runes,
// and that no two transitions out of a state overlap.
//
// The table must not be modified after it has been validated.
func (t *Table) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidTable, fmt.Sprintf(format, args...))
	}

	if t.Initial < 0 || t.Initial >= len(t.States) {
		return invalid("initial state %d out of range", t.Initial)
	}
	names := make(map[string]struct{}, len(t.Tokens))
	for _, name := range t.Tokens {
		if name == t.End || name == t.Error {
			return invalid("token %q is also the end or error token", name)
		}
		names[name] = struct{}{}
	}

	index := make([]rangeindex.Index[rune, int], len(t.States))
	for i, state := range t.States {
		if state.Accepting {
			if _, ok := names[state.Token]; !ok {
				return invalid("state %d accepts unknown token %q", i, state.Token)
			}
		}
		for _, tr := range state.Transitions {
			switch {
			case tr.Start > tr.End || tr.Start < 0 || tr.End > unicode.MaxRune:
				return invalid("state %d: invalid range %U-%U", i, tr.Start, tr.End)
			case tr.Dest < 0 || tr.Dest >= len(t.States):
				return invalid("state %d: destination %d out of range", i, tr.Dest)
			}
			if prev, ok := index[i].Insert(tr.Start, tr.End, tr.Dest); !ok {
				return invalid("state %d: range %U-%U overlaps %U-%U", i, tr.Start, tr.End, prev.Lo, prev.Hi)
			}
		}
	}
	t.index = index
	return nil
}

// Class is a range of runes in an alphabet equivalence class.
type Class struct {
	Start, End rune
	ID         int
}

// Classes partitions the runes into classes which every state treats alike:
// two runes are in the same class if each state transitions to the same
// state on both, or on neither.
//
// Runes no state has a transition on make up class 0, and are not listed.
// The other classes are numbered from 1 in order of their least rune.
func (t *Table) Classes() []Class {
	type edge struct{ from, to int }
	var pieces rangeindex.Intersect[rune, edge]
	for i, state := range t.States {
		for _, tr := range state.Transitions {
			pieces.Insert(tr.Start, tr.End, edge{i, tr.Dest})
		}
	}

	// Pieces list their edges in insertion order, so two pieces with the
	// same edges have the same signature.
	ids := make(map[string]int)
	var classes []Class
	var buf []byte
	for piece := range pieces.Pieces() {
		buf = buf[:0]
		for _, e := range piece.Value {
			buf = binary.AppendUvarint(buf, uint64(e.from))
			buf = binary.AppendUvarint(buf, uint64(e.to))
		}
		id, ok := ids[string(buf)]
		if !ok {
			id = len(ids) + 1
			ids[string(buf)] = id
		}

		if n := len(classes); n > 0 && classes[n-1].ID == id && classes[n-1].End+1 == piece.Lo {
			classes[n-1].End = piece.Hi
			continue
		}
		classes = append(classes, Class{Start: piece.Lo, End: piece.Hi, ID: id})
	}
	return slices.Clip(classes)
}
