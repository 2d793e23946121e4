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

package automata

import (
	"encoding/binary"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// StateSet is an immutable set of states.
//
// StateSets are the states of automata produced by [Determinize] and
// [Minimize]. Within the output of a single call to either, each distinct set
// of states is represented by exactly one *StateSet, so pointer equality and
// set equality coincide. Across calls, use [StateSet.Equal].
type StateSet[S comparable] struct {
	members []S
	index   map[S]struct{}
}

// NewStateSet returns a new set of the given states. Duplicates are
// discarded, and the remaining states keep the order they were given in.
func NewStateSet[S comparable](states ...S) *StateSet[S] {
	set := &StateSet[S]{index: make(map[S]struct{}, len(states))}
	for _, s := range states {
		if _, ok := set.index[s]; ok {
			continue
		}
		set.index[s] = struct{}{}
		set.members = append(set.members, s)
	}
	return set
}

// Len returns the number of states in this set.
func (s *StateSet[S]) Len() int { return len(s.members) }

// Contains returns whether state is in this set.
func (s *StateSet[S]) Contains(state S) bool {
	_, ok := s.index[state]
	return ok
}

// All returns an iterator over the states in this set.
func (s *StateSet[S]) All() iter.Seq[S] {
	return slices.Values(s.members)
}

// Members returns a copy of the states in this set.
func (s *StateSet[S]) Members() []S {
	return slices.Clone(s.members)
}

// Equal returns whether two sets contain the same states, regardless of
// order.
func (s *StateSet[S]) Equal(that *StateSet[S]) bool {
	if s == that {
		return true
	}
	if s == nil || that == nil || len(s.members) != len(that.members) {
		return false
	}
	for _, m := range s.members {
		if !that.Contains(m) {
			return false
		}
	}
	return true
}

// String implements [fmt.Stringer].
func (s *StateSet[S]) String() string {
	var out strings.Builder
	out.WriteString("{")
	for i, m := range s.members {
		if i > 0 {
			out.WriteString(", ")
		}
		fmt.Fprint(&out, m)
	}
	out.WriteString("}")
	return out.String()
}

// interner deduplicates the sets of states built during a single algorithm
// run. Members of interned sets are ordered by the position of each state in
// the source automaton.
type interner[S comparable] struct {
	position map[S]int
	sets     map[string]*StateSet[S]
	buf      []byte
}

func newInterner[S comparable](states []S) *interner[S] {
	in := &interner[S]{
		position: make(map[S]int, len(states)),
		sets:     make(map[string]*StateSet[S]),
	}
	for i, s := range states {
		in.position[s] = i
	}
	return in
}

// intern returns the unique set containing states, and whether it was newly
// created. states must not contain duplicates, and is sorted in place.
func (in *interner[S]) intern(states []S) (*StateSet[S], bool) {
	slices.SortFunc(states, func(a, b S) int {
		return in.position[a] - in.position[b]
	})

	in.buf = in.buf[:0]
	for _, s := range states {
		in.buf = binary.AppendUvarint(in.buf, uint64(in.position[s]))
	}
	if set, ok := in.sets[string(in.buf)]; ok {
		return set, false
	}

	set := NewStateSet(states...)
	in.sets[string(in.buf)] = set
	return set, true
}
