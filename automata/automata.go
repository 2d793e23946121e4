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

// Package automata provides finite automata, along with determinization and
// minimization.
//
// Automata come in two flavors. Sparse automata ([DFA] and [NFA]) have
// transitions on individual symbols of a comparable alphabet. Dense automata
// ([DenseDFA] and [DenseNFA]) have transitions on intervals of an ordered
// alphabet, such as ranges of runes, and look up transitions by binary
// search.
//
// States are arbitrary comparable values chosen by the caller. The zero value
// of every automaton type is empty and ready to use. Automata are not safe
// for concurrent mutation.
//
// [Determinize] and [Minimize] never modify their input: they build a new
// automaton whose states are [StateSet]s of input states.
package automata

import (
	"fmt"
	"slices"
)

// Transition is a single edge of an automaton.
type Transition[S, L any] struct {
	From S
	On   L
	To   S
}

// String implements [fmt.Stringer].
func (t Transition[S, L]) String() string {
	return fmt.Sprintf("%v --%v--> %v", t.From, t.On, t.To)
}

// closure returns seed along with every state reachable from it through
// epsilon, in breadth-first order without duplicates.
func closure[S comparable](seed []S, epsilon func(S) []S) []S {
	seen := make(map[S]struct{}, len(seed))
	out := make([]S, 0, len(seed))
	for _, s := range seed {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for i := 0; i < len(out); i++ {
		for _, t := range epsilon(out[i]) {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				out = append(out, t)
			}
		}
	}
	return out
}

// appendUnique appends the elements of src missing from dst.
func appendUnique[S comparable](dst []S, src ...S) []S {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}
