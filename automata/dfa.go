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
	"fmt"
	"iter"
	"slices"
)

// DFA is a deterministic finite automaton with transitions on individual
// symbols of type A.
type DFA[S, A comparable] struct {
	initial    S
	hasInitial bool

	states []S
	index  map[S]int
	info   []dfaState[S, A]
}

type dfaState[S, A comparable] struct {
	accepting bool
	symbols   []A // Symbols with a transition, in insertion order.
	next      map[A]S
}

// add adds a state if it is not present, and returns its index.
func (d *DFA[S, A]) add(s S) int {
	if i, ok := d.index[s]; ok {
		return i
	}
	if d.index == nil {
		d.index = make(map[S]int)
	}
	i := len(d.states)
	d.index[s] = i
	d.states = append(d.states, s)
	d.info = append(d.info, dfaState[S, A]{})
	return i
}

// SetInitial sets the initial state, adding it if necessary.
func (d *DFA[S, A]) SetInitial(s S) {
	d.add(s)
	d.initial, d.hasInitial = s, true
}

// Initial returns the initial state, if one has been set.
func (d *DFA[S, A]) Initial() (S, bool) {
	return d.initial, d.hasInitial
}

// AddState adds a state with no transitions, if it is not already present.
func (d *DFA[S, A]) AddState(s S) {
	d.add(s)
}

// AddAccepting marks a state as accepting, adding it if necessary.
func (d *DFA[S, A]) AddAccepting(s S) {
	d.info[d.add(s)].accepting = true
}

// AddTransition adds a transition from one state to another on a symbol,
// adding both states if necessary.
//
// Returns an error wrapping [ErrConflictingTransition] if from already
// transitions to a different state on the same symbol. Adding a transition
// that is already present is a no-op.
func (d *DFA[S, A]) AddTransition(from S, on A, to S) error {
	i := d.add(from)
	d.add(to)
	state := &d.info[i]

	if existing, ok := state.next[on]; ok {
		if existing != to {
			return &ConflictError[S, A]{From: from, On: on, Existing: existing, Added: to}
		}
		return nil
	}

	if state.next == nil {
		state.next = make(map[A]S)
	}
	state.next[on] = to
	state.symbols = append(state.symbols, on)
	return nil
}

// Transition returns the state that from transitions to on the given
// symbol, if there is one.
func (d *DFA[S, A]) Transition(from S, on A) (S, bool) {
	i, ok := d.index[from]
	if !ok {
		var zero S
		return zero, false
	}
	to, ok := d.info[i].next[on]
	return to, ok
}

// Len returns the number of states in this automaton.
func (d *DFA[S, A]) Len() int { return len(d.states) }

// States returns an iterator over the states of this automaton, in the
// order they were added.
func (d *DFA[S, A]) States() iter.Seq[S] {
	return slices.Values(d.states)
}

// AcceptingStates returns an iterator over the accepting states of this
// automaton.
func (d *DFA[S, A]) AcceptingStates() iter.Seq[S] {
	return func(yield func(S) bool) {
		for i, s := range d.states {
			if d.info[i].accepting && !yield(s) {
				return
			}
		}
	}
}

// IsAccepting returns whether s is an accepting state.
func (d *DFA[S, A]) IsAccepting(s S) bool {
	i, ok := d.index[s]
	return ok && d.info[i].accepting
}

// Transitions returns an iterator over every transition of this automaton.
func (d *DFA[S, A]) Transitions() iter.Seq[Transition[S, A]] {
	return func(yield func(Transition[S, A]) bool) {
		for i, from := range d.states {
			for _, on := range d.info[i].symbols {
				if !yield(Transition[S, A]{from, on, d.info[i].next[on]}) {
					return
				}
			}
		}
	}
}

// NumTransitions returns the number of transitions in this automaton.
func (d *DFA[S, A]) NumTransitions() int {
	var n int
	for i := range d.info {
		n += len(d.info[i].symbols)
	}
	return n
}

// Accepts runs this automaton on input, and returns whether it ends in an
// accepting state. Input with no transition is rejected.
func (d *DFA[S, A]) Accepts(input []A) bool {
	if !d.hasInitial {
		return false
	}
	state := d.initial
	for _, a := range input {
		next, ok := d.Transition(state, a)
		if !ok {
			return false
		}
		state = next
	}
	return d.IsAccepting(state)
}

// Complete adds transitions to trap wherever a state lacks a transition on
// some symbol of alphabet, so that every state has a transition on every
// symbol. If any were added, trap becomes a state which transitions to
// itself on the whole alphabet.
//
// trap must not already be a state of this automaton; Complete panics if it
// is. Returns whether anything was added.
func (d *DFA[S, A]) Complete(alphabet []A, trap S) bool {
	if _, ok := d.index[trap]; ok {
		panic(fmt.Sprintf("automata: trap state %v already exists", trap))
	}
	var added bool
	for i, from := range slices.Clone(d.states) {
		for _, a := range alphabet {
			if _, ok := d.info[i].next[a]; !ok {
				// Cannot conflict: there is no transition here.
				_ = d.AddTransition(from, a, trap)
				added = true
			}
		}
	}
	if !added {
		return false
	}

	for _, a := range alphabet {
		_ = d.AddTransition(trap, a, trap)
	}
	return true
}
