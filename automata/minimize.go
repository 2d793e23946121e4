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
	"encoding/binary"

	"github.com/bufbuild/lexcompile/interval"
)

// Minimize returns the minimal DFA equivalent to dfa.
//
// States unreachable from the initial state are dropped. The remaining states
// are grouped into blocks of states that accept exactly the same inputs, and
// each block is turned into a single state by combiner. If partition is not
// nil, states it assigns to different classes are never grouped together.
//
// ctx is checked once per refinement pass; if it is cancelled, this returns
// context.Cause(ctx) and no automaton.
func Minimize[S, A, R comparable](
	ctx context.Context,
	dfa *DFA[S, A],
	combiner StateCombiner[S, R],
	partition Partition[S],
) (*DFA[R, A], error) {
	out := new(DFA[R, A])
	if !dfa.hasInitial {
		return out, nil
	}

	// Collect the reachable states and the symbols they use, breadth-first.
	reachable := []S{dfa.initial}
	position := map[S]int{dfa.initial: 0}
	var alphabet []A
	seen := make(map[A]struct{})
	for i := 0; i < len(reachable); i++ {
		info := &dfa.info[dfa.index[reachable[i]]]
		for _, a := range info.symbols {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				alphabet = append(alphabet, a)
			}
			to := info.next[a]
			if _, ok := position[to]; !ok {
				position[to] = len(reachable)
				reachable = append(reachable, to)
			}
		}
	}

	r := refiner[S]{
		states:    reachable,
		position:  position,
		accepting: dfa.IsAccepting,
		partition: partition,
		pieces:    len(alphabet),
		next: func(s S, piece int) (S, bool) {
			return dfa.Transition(s, alphabet[piece])
		},
	}
	blocks, err := r.run(ctx)
	if err != nil {
		return nil, err
	}

	states := combine(blocks, combiner)
	out.SetInitial(states[0])
	for b, block := range blocks {
		if dfa.IsAccepting(block[0]) {
			out.AddAccepting(states[b])
		}
	}
	for b, block := range blocks {
		// Every member of a block has the same transitions, up to blocks.
		info := &dfa.info[dfa.index[block[0]]]
		for _, a := range info.symbols {
			to := states[r.blockOf[position[info.next[a]]]]
			if err := out.AddTransition(states[b], a, to); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// MinimizeDense is like [Minimize], but for dense automata.
func MinimizeDense[S, R comparable, T cmp.Ordered](
	ctx context.Context,
	dfa *DenseDFA[S, T],
	combiner StateCombiner[S, R],
	partition Partition[S],
) (*DenseDFA[R, T], error) {
	out := new(DenseDFA[R, T])
	if !dfa.hasInitial {
		return out, nil
	}

	// Collect the reachable states, and split their transitions' intervals
	// into pieces that each lie entirely within or entirely outside of every
	// transition.
	reachable := []S{dfa.initial}
	position := map[S]int{dfa.initial: 0}
	var alphabet interval.Map[T, struct{}]
	for i := 0; i < len(reachable); i++ {
		for e := range dfa.info[dfa.index[reachable[i]]].next.Entries() {
			alphabet.Add(e.Interval, struct{}{}, keepExisting[struct{}]())
			if _, ok := position[e.Value]; !ok {
				position[e.Value] = len(reachable)
				reachable = append(reachable, e.Value)
			}
		}
	}
	var pieces []interval.Interval[T]
	for e := range alphabet.Entries() {
		pieces = append(pieces, e.Interval)
	}

	r := refiner[S]{
		states:    reachable,
		position:  position,
		accepting: dfa.IsAccepting,
		partition: partition,
		pieces:    len(pieces),
		next: func(s S, piece int) (S, bool) {
			e, ok := dfa.info[dfa.index[s]].next.Lookup(pieces[piece])
			return e.Value, ok
		},
	}
	blocks, err := r.run(ctx)
	if err != nil {
		return nil, err
	}

	states := combine(blocks, combiner)
	out.SetInitial(states[0])
	for b, block := range blocks {
		if dfa.IsAccepting(block[0]) {
			out.AddAccepting(states[b])
		}
	}
	for b, block := range blocks {
		for e := range dfa.info[dfa.index[block[0]]].next.Entries() {
			to := states[r.blockOf[position[e.Value]]]
			if err := out.AddTransition(states[b], e.Interval, to); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// combine builds the output states for each block.
func combine[S, R comparable](blocks [][]S, combiner StateCombiner[S, R]) []R {
	states := make([]R, len(blocks))
	for b, block := range blocks {
		states[b] = combiner.Combine(NewStateSet(block...))
	}
	return states
}

// refiner implements Moore's partition refinement over states numbered
// 0..len(states)-1, with state 0 initial.
type refiner[S comparable] struct {
	states    []S
	position  map[S]int
	accepting func(S) bool
	partition Partition[S]

	// The alphabet, as pieces numbered 0..pieces-1.
	pieces int
	next   func(s S, piece int) (S, bool)

	blockOf []int
}

// run refines the partition until it stops changing, and returns the members
// of each block. Blocks are numbered in order of their first member, so the
// block of the initial state is always block 0.
func (r *refiner[S]) run(ctx context.Context) ([][]S, error) {
	type class struct {
		accepting bool
		key       int
	}
	classes := make(map[class]int)
	r.blockOf = make([]int, len(r.states))
	for i, s := range r.states {
		c := class{accepting: r.accepting(s)}
		if r.partition != nil {
			c.key = r.partition(s)
		}
		b, ok := classes[c]
		if !ok {
			b = len(classes)
			classes[c] = b
		}
		r.blockOf[i] = b
	}
	count := len(classes)

	var buf []byte
	for {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}

		// Two states stay in the same block if they were in the same block and
		// go to the same block on every piece of the alphabet. The signature
		// includes the old block, so blocks only ever split.
		signatures := make(map[string]int, count)
		next := make([]int, len(r.states))
		for i, s := range r.states {
			buf = binary.AppendVarint(buf[:0], int64(r.blockOf[i]))
			for piece := range r.pieces {
				to, ok := r.next(s, piece)
				dest := -1
				if ok {
					dest = r.blockOf[r.position[to]]
				}
				buf = binary.AppendVarint(buf, int64(dest))
			}

			b, ok := signatures[string(buf)]
			if !ok {
				b = len(signatures)
				signatures[string(buf)] = b
			}
			next[i] = b
		}

		stable := len(signatures) == count
		r.blockOf, count = next, len(signatures)
		if stable {
			break
		}
	}

	blocks := make([][]S, count)
	for i, s := range r.states {
		blocks[r.blockOf[i]] = append(blocks[r.blockOf[i]], s)
	}
	return blocks, nil
}
