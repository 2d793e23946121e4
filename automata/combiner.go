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

// StateCombiner builds the state of a minimized automaton out of the block of
// equivalent states it replaces.
//
// Combine is called once per block, and must return distinct states for
// distinct blocks.
type StateCombiner[S, R comparable] interface {
	Combine(block *StateSet[S]) R
}

// StateCombinerFunc adapts a function into a [StateCombiner].
type StateCombinerFunc[S, R comparable] func(block *StateSet[S]) R

// Combine implements [StateCombiner].
func (f StateCombinerFunc[S, R]) Combine(block *StateSet[S]) R {
	return f(block)
}

// SetCombiner returns a combiner which uses each block as the new state.
func SetCombiner[S comparable]() StateCombiner[S, *StateSet[S]] {
	return StateCombinerFunc[S, *StateSet[S]](func(block *StateSet[S]) *StateSet[S] {
		return block
	})
}

// UnionCombiner returns a combiner for automata whose states are themselves
// sets, such as the output of [Determinize]. It flattens each block into the
// union of its members.
//
// Every call returns a new *StateSet, even if two blocks happen to have the
// same union, so the states of the result stay distinct.
func UnionCombiner[S comparable]() StateCombiner[*StateSet[S], *StateSet[S]] {
	return StateCombinerFunc[*StateSet[S], *StateSet[S]](func(block *StateSet[*StateSet[S]]) *StateSet[S] {
		var union []S
		for set := range block.All() {
			union = append(union, set.members...)
		}
		return NewStateSet(union...)
	})
}

// Partition assigns states to classes that minimization must never merge
// across, in addition to the split between accepting and non-accepting
// states. For example, the accepting states of a lexer are partitioned by the
// token they accept.
type Partition[S any] func(state S) int
