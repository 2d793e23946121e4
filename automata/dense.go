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
	"fmt"
	"iter"
	"slices"

	"github.com/bufbuild/lexcompile/interval"
)

// DenseDFA is a deterministic finite automaton with transitions on intervals
// of an ordered alphabet.
type DenseDFA[S comparable, T cmp.Ordered] struct {
	initial    S
	hasInitial bool

	states []S
	index  map[S]int
	info   []denseDFAState[S, T]
}

type denseDFAState[S comparable, T cmp.Ordered] struct {
	accepting bool
	next      interval.Map[T, S]
}

// keepExisting is a combiner for maps whose overlapping values are known to
// be equal.
func keepExisting[V any]() interval.Combiner[V] {
	return interval.CombinerFunc[V](func(existing, _ V) V { return existing })
}

func (d *DenseDFA[S, T]) add(s S) int {
	if i, ok := d.index[s]; ok {
		return i
	}
	if d.index == nil {
		d.index = make(map[S]int)
	}
	i := len(d.states)
	d.index[s] = i
	d.states = append(d.states, s)
	d.info = append(d.info, denseDFAState[S, T]{})
	return i
}

// SetInitial sets the initial state, adding it if necessary.
func (d *DenseDFA[S, T]) SetInitial(s S) {
	d.add(s)
	d.initial, d.hasInitial = s, true
}

// Initial returns the initial state, if one has been set.
func (d *DenseDFA[S, T]) Initial() (S, bool) {
	return d.initial, d.hasInitial
}

// AddState adds a state with no transitions, if it is not already present.
func (d *DenseDFA[S, T]) AddState(s S) {
	d.add(s)
}

// AddAccepting marks a state as accepting, adding it if necessary.
func (d *DenseDFA[S, T]) AddAccepting(s S) {
	d.info[d.add(s)].accepting = true
}

// AddTransition adds a transition from one state to another on every value
// in on, adding both states if necessary.
//
// Returns an error wrapping [ErrConflictingTransition] if from already
// transitions to a different state on any value in on; in that case, nothing
// is added. Values from already transitions to to on are left as they are.
func (d *DenseDFA[S, T]) AddTransition(from S, on interval.Interval[T], to S) error {
	i := d.add(from)
	d.add(to)
	next := &d.info[i].next
	if on.IsEmpty() {
		return nil
	}

	missing := interval.NewSet(on)
	for e := range next.Overlapping(on) {
		if e.Value != to {
			return &ConflictError[S, interval.Interval[T]]{
				From: from, On: on, Existing: e.Value, Added: to,
			}
		}
		missing.Remove(e.Interval)
	}
	for iv := range missing.All() {
		next.Add(iv, to, keepExisting[S]())
	}
	return nil
}

// Transition returns the state that from transitions to on v, if there is
// one.
func (d *DenseDFA[S, T]) Transition(from S, v T) (S, bool) {
	i, ok := d.index[from]
	if !ok {
		var zero S
		return zero, false
	}
	return d.info[i].next.Get(v)
}

// Len returns the number of states in this automaton.
func (d *DenseDFA[S, T]) Len() int { return len(d.states) }

// States returns an iterator over the states of this automaton, in the
// order they were added.
func (d *DenseDFA[S, T]) States() iter.Seq[S] {
	return slices.Values(d.states)
}

// AcceptingStates returns an iterator over the accepting states of this
// automaton.
func (d *DenseDFA[S, T]) AcceptingStates() iter.Seq[S] {
	return func(yield func(S) bool) {
		for i, s := range d.states {
			if d.info[i].accepting && !yield(s) {
				return
			}
		}
	}
}

// IsAccepting returns whether s is an accepting state.
func (d *DenseDFA[S, T]) IsAccepting(s S) bool {
	i, ok := d.index[s]
	return ok && d.info[i].accepting
}

// Transitions returns an iterator over every transition of this automaton.
// The transitions out of each state are in order of their intervals.
func (d *DenseDFA[S, T]) Transitions() iter.Seq[Transition[S, interval.Interval[T]]] {
	return func(yield func(Transition[S, interval.Interval[T]]) bool) {
		for i, from := range d.states {
			for e := range d.info[i].next.Entries() {
				if !yield(Transition[S, interval.Interval[T]]{from, e.Interval, e.Value}) {
					return
				}
			}
		}
	}
}

// TransitionsFrom returns an iterator over the transitions out of a single
// state, in order of their intervals.
func (d *DenseDFA[S, T]) TransitionsFrom(from S) iter.Seq[Transition[S, interval.Interval[T]]] {
	return func(yield func(Transition[S, interval.Interval[T]]) bool) {
		i, ok := d.index[from]
		if !ok {
			return
		}
		for e := range d.info[i].next.Entries() {
			if !yield(Transition[S, interval.Interval[T]]{from, e.Interval, e.Value}) {
				return
			}
		}
	}
}

// NumTransitions returns the number of transitions in this automaton.
func (d *DenseDFA[S, T]) NumTransitions() int {
	var n int
	for i := range d.info {
		n += d.info[i].next.Len()
	}
	return n
}

// Accepts runs this automaton on input, and returns whether it ends in an
// accepting state. Input with no transition is rejected.
func (d *DenseDFA[S, T]) Accepts(input []T) bool {
	if !d.hasInitial {
		return false
	}
	state := d.initial
	for _, v := range input {
		next, ok := d.Transition(state, v)
		if !ok {
			return false
		}
		state = next
	}
	return d.IsAccepting(state)
}

// Complete adds transitions to trap wherever a state lacks a transition on
// some part of alphabet. If any were added, trap becomes a state which
// transitions to itself on the whole alphabet.
//
// trap must not already be a state of this automaton; Complete panics if it
// is. Returns whether anything was added.
func (d *DenseDFA[S, T]) Complete(alphabet *interval.Set[T], trap S) bool {
	if _, ok := d.index[trap]; ok {
		panic(fmt.Sprintf("automata: trap state %v already exists", trap))
	}
	var added bool
	for i, from := range slices.Clone(d.states) {
		missing := alphabet.Clone()
		for e := range d.info[i].next.Entries() {
			missing.Remove(e.Interval)
		}
		for iv := range missing.All() {
			_ = d.AddTransition(from, iv, trap)
			added = true
		}
	}
	if !added {
		return false
	}

	for iv := range alphabet.All() {
		_ = d.AddTransition(trap, iv, trap)
	}
	return true
}

// DenseNFA is a nondeterministic finite automaton with transitions on
// intervals of an ordered alphabet, as well as epsilon transitions, which
// consume no input.
type DenseNFA[S comparable, T cmp.Ordered] struct {
	initial []S

	states []S
	index  map[S]int
	info   []denseNFAState[S, T]
}

type denseNFAState[S comparable, T cmp.Ordered] struct {
	accepting bool
	next      interval.Map[T, []S]
	epsilon   []S
}

// unionStates combines two lists of destination states.
func unionStates[S comparable]() interval.Combiner[[]S] {
	return interval.CombinerFunc[[]S](func(existing, added []S) []S {
		// Clone, since the split halves of an entry share their slice.
		return appendUnique(slices.Clone(existing), added...)
	})
}

func (n *DenseNFA[S, T]) add(s S) int {
	if i, ok := n.index[s]; ok {
		return i
	}
	if n.index == nil {
		n.index = make(map[S]int)
	}
	i := len(n.states)
	n.index[s] = i
	n.states = append(n.states, s)
	n.info = append(n.info, denseNFAState[S, T]{})
	return i
}

// AddState adds a state with no transitions, if it is not already present.
func (n *DenseNFA[S, T]) AddState(s S) {
	n.add(s)
}

// AddInitial marks a state as initial, adding it if necessary.
func (n *DenseNFA[S, T]) AddInitial(s S) {
	n.add(s)
	n.initial = appendUnique(n.initial, s)
}

// AddAccepting marks a state as accepting, adding it if necessary.
func (n *DenseNFA[S, T]) AddAccepting(s S) {
	n.info[n.add(s)].accepting = true
}

// AddTransition adds a transition from one state to another on every value
// in on, adding both states if necessary.
func (n *DenseNFA[S, T]) AddTransition(from S, on interval.Interval[T], to S) {
	i := n.add(from)
	n.add(to)
	n.info[i].next.Add(on, []S{to}, unionStates[S]())
}

// AddEpsilonTransition adds a transition from one state to another that
// consumes no input, adding both states if necessary.
func (n *DenseNFA[S, T]) AddEpsilonTransition(from, to S) {
	i := n.add(from)
	n.add(to)
	n.info[i].epsilon = appendUnique(n.info[i].epsilon, to)
}

// Len returns the number of states in this automaton.
func (n *DenseNFA[S, T]) Len() int { return len(n.states) }

// States returns an iterator over the states of this automaton, in the
// order they were added.
func (n *DenseNFA[S, T]) States() iter.Seq[S] {
	return slices.Values(n.states)
}

// InitialStates returns an iterator over the initial states of this
// automaton.
func (n *DenseNFA[S, T]) InitialStates() iter.Seq[S] {
	return slices.Values(n.initial)
}

// AcceptingStates returns an iterator over the accepting states of this
// automaton.
func (n *DenseNFA[S, T]) AcceptingStates() iter.Seq[S] {
	return func(yield func(S) bool) {
		for i, s := range n.states {
			if n.info[i].accepting && !yield(s) {
				return
			}
		}
	}
}

// IsAccepting returns whether s is an accepting state.
func (n *DenseNFA[S, T]) IsAccepting(s S) bool {
	i, ok := n.index[s]
	return ok && n.info[i].accepting
}

// Transitions returns an iterator over every non-epsilon transition of this
// automaton.
func (n *DenseNFA[S, T]) Transitions() iter.Seq[Transition[S, interval.Interval[T]]] {
	return func(yield func(Transition[S, interval.Interval[T]]) bool) {
		for i, from := range n.states {
			for e := range n.info[i].next.Entries() {
				for _, to := range e.Value {
					if !yield(Transition[S, interval.Interval[T]]{from, e.Interval, to}) {
						return
					}
				}
			}
		}
	}
}

// EpsilonTransitions returns an iterator over every epsilon transition of
// this automaton, as pairs of source and destination.
func (n *DenseNFA[S, T]) EpsilonTransitions() iter.Seq2[S, S] {
	return func(yield func(S, S) bool) {
		for i, from := range n.states {
			for _, to := range n.info[i].epsilon {
				if !yield(from, to) {
					return
				}
			}
		}
	}
}

// EpsilonClosure returns the given states along with every state reachable
// from them through epsilon transitions alone.
func (n *DenseNFA[S, T]) EpsilonClosure(states ...S) []S {
	return closure(states, n.epsilonFrom)
}

func (n *DenseNFA[S, T]) epsilonFrom(s S) []S {
	if i, ok := n.index[s]; ok {
		return n.info[i].epsilon
	}
	return nil
}

// Accepts simulates this automaton on input, and returns whether any of the
// states it can end up in is accepting.
func (n *DenseNFA[S, T]) Accepts(input []T) bool {
	current := n.EpsilonClosure(n.initial...)
	for _, v := range input {
		var next []S
		for _, s := range current {
			dests, _ := n.info[n.index[s]].next.Get(v)
			next = appendUnique(next, dests...)
		}
		if len(next) == 0 {
			return false
		}
		current = n.EpsilonClosure(next...)
	}
	return slices.ContainsFunc(current, n.IsAccepting)
}
