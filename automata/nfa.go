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
	"iter"
	"slices"
)

// NFA is a nondeterministic finite automaton with transitions on individual
// symbols of type A, as well as epsilon transitions, which consume no input.
type NFA[S, A comparable] struct {
	initial []S

	states []S
	index  map[S]int
	info   []nfaState[S, A]
}

type nfaState[S, A comparable] struct {
	accepting bool
	symbols   []A
	next      map[A][]S
	epsilon   []S
}

func (n *NFA[S, A]) add(s S) int {
	if i, ok := n.index[s]; ok {
		return i
	}
	if n.index == nil {
		n.index = make(map[S]int)
	}
	i := len(n.states)
	n.index[s] = i
	n.states = append(n.states, s)
	n.info = append(n.info, nfaState[S, A]{})
	return i
}

// AddState adds a state with no transitions, if it is not already present.
func (n *NFA[S, A]) AddState(s S) {
	n.add(s)
}

// AddInitial marks a state as initial, adding it if necessary.
func (n *NFA[S, A]) AddInitial(s S) {
	n.add(s)
	n.initial = appendUnique(n.initial, s)
}

// AddAccepting marks a state as accepting, adding it if necessary.
func (n *NFA[S, A]) AddAccepting(s S) {
	n.info[n.add(s)].accepting = true
}

// AddTransition adds a transition from one state to another on a symbol,
// adding both states if necessary.
func (n *NFA[S, A]) AddTransition(from S, on A, to S) {
	i := n.add(from)
	n.add(to)
	state := &n.info[i]
	if state.next == nil {
		state.next = make(map[A][]S)
	}
	dests, ok := state.next[on]
	if !ok {
		state.symbols = append(state.symbols, on)
	}
	state.next[on] = appendUnique(dests, to)
}

// AddEpsilonTransition adds a transition from one state to another that
// consumes no input, adding both states if necessary.
func (n *NFA[S, A]) AddEpsilonTransition(from, to S) {
	i := n.add(from)
	n.add(to)
	n.info[i].epsilon = appendUnique(n.info[i].epsilon, to)
}

// Len returns the number of states in this automaton.
func (n *NFA[S, A]) Len() int { return len(n.states) }

// States returns an iterator over the states of this automaton, in the
// order they were added.
func (n *NFA[S, A]) States() iter.Seq[S] {
	return slices.Values(n.states)
}

// InitialStates returns an iterator over the initial states of this
// automaton.
func (n *NFA[S, A]) InitialStates() iter.Seq[S] {
	return slices.Values(n.initial)
}

// AcceptingStates returns an iterator over the accepting states of this
// automaton.
func (n *NFA[S, A]) AcceptingStates() iter.Seq[S] {
	return func(yield func(S) bool) {
		for i, s := range n.states {
			if n.info[i].accepting && !yield(s) {
				return
			}
		}
	}
}

// IsAccepting returns whether s is an accepting state.
func (n *NFA[S, A]) IsAccepting(s S) bool {
	i, ok := n.index[s]
	return ok && n.info[i].accepting
}

// Transitions returns an iterator over every non-epsilon transition of this
// automaton.
func (n *NFA[S, A]) Transitions() iter.Seq[Transition[S, A]] {
	return func(yield func(Transition[S, A]) bool) {
		for i, from := range n.states {
			for _, on := range n.info[i].symbols {
				for _, to := range n.info[i].next[on] {
					if !yield(Transition[S, A]{from, on, to}) {
						return
					}
				}
			}
		}
	}
}

// EpsilonTransitions returns an iterator over every epsilon transition of
// this automaton, as pairs of source and destination.
func (n *NFA[S, A]) EpsilonTransitions() iter.Seq2[S, S] {
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
func (n *NFA[S, A]) EpsilonClosure(states ...S) []S {
	return closure(states, n.epsilonFrom)
}

func (n *NFA[S, A]) epsilonFrom(s S) []S {
	if i, ok := n.index[s]; ok {
		return n.info[i].epsilon
	}
	return nil
}

// Accepts simulates this automaton on input, and returns whether any of the
// states it can end up in is accepting.
func (n *NFA[S, A]) Accepts(input []A) bool {
	current := n.EpsilonClosure(n.initial...)
	for _, a := range input {
		var next []S
		for _, s := range current {
			next = appendUnique(next, n.info[n.index[s]].next[a]...)
		}
		if len(next) == 0 {
			return false
		}
		current = n.EpsilonClosure(next...)
	}
	return slices.ContainsFunc(current, n.IsAccepting)
}
