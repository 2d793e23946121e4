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
	"cmp"
	"context"
	"slices"

	"github.com/bufbuild/lexcompile/interval"
)

// Determinize converts an NFA into an equivalent DFA using the subset
// construction.
//
// Each state of the result is the set of NFA states, closed under epsilon
// transitions, that the NFA could be in at once. A state of the result is
// accepting if any of its members is.
//
// ctx is checked once per discovered state; if it is cancelled, this returns
// context.Cause(ctx) and no automaton.
func Determinize[S, A comparable](ctx context.Context, nfa *NFA[S, A]) (*DFA[*StateSet[S], A], error) {
	dfa := new(DFA[*StateSet[S], A])
	in := newInterner(nfa.states)

	start, _ := in.intern(nfa.EpsilonClosure(nfa.initial...))
	dfa.SetInitial(start)

	queue := []*StateSet[S]{start}
	for len(queue) > 0 {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		from := queue[0]
		queue = queue[1:]

		var symbols []A
		dests := make(map[A][]S)
		for s := range from.All() {
			info := &nfa.info[nfa.index[s]]
			if info.accepting {
				dfa.AddAccepting(from)
			}
			for _, a := range info.symbols {
				if _, ok := dests[a]; !ok {
					symbols = append(symbols, a)
				}
				dests[a] = appendUnique(dests[a], info.next[a]...)
			}
		}

		for _, a := range symbols {
			to, isNew := in.intern(nfa.EpsilonClosure(dests[a]...))
			if isNew {
				queue = append(queue, to)
			}
			// Each symbol is visited once per state, so this cannot conflict.
			_ = dfa.AddTransition(from, a, to)
		}
	}

	return dfa, nil
}

// DeterminizeDense is like [Determinize], but for dense automata.
//
// Transitions out of the members of each state are split at every point where
// the set of possible destinations changes, so the result has one transition
// per maximal range with the same destination set rather than one per value.
func DeterminizeDense[S comparable, T cmp.Ordered](ctx context.Context, nfa *DenseNFA[S, T]) (*DenseDFA[*StateSet[S], T], error) {
	dfa := new(DenseDFA[*StateSet[S], T])
	in := newInterner(nfa.states)

	start, _ := in.intern(nfa.EpsilonClosure(nfa.initial...))
	dfa.SetInitial(start)

	queue := []*StateSet[S]{start}
	for len(queue) > 0 {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		from := queue[0]
		queue = queue[1:]

		var grouped interval.Map[T, []S]
		for s := range from.All() {
			info := &nfa.info[nfa.index[s]]
			if info.accepting {
				dfa.AddAccepting(from)
			}
			for e := range info.next.Entries() {
				grouped.Add(e.Interval, slices.Clone(e.Value), unionStates[S]())
			}
		}

		for e := range grouped.Entries() {
			to, isNew := in.intern(nfa.EpsilonClosure(e.Value...))
			if isNew {
				queue = append(queue, to)
			}
			// The entries of grouped are disjoint, so this cannot conflict.
			_ = dfa.AddTransition(from, e.Interval, to)
		}
	}

	return dfa, nil
}
