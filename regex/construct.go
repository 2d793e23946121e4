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

package regex

import (
	"fmt"

	"github.com/bufbuild/lexcompile/automata"
)

// Construct adds states and transitions to nfa which match n, using
// Thompson's construction, and returns the fragment's start and end states.
//
// New states are obtained from alloc, which must return a state not yet in
// nfa on every call. Neither returned state is marked initial or accepting;
// that is left to the caller.
func Construct[S comparable](nfa *automata.DenseNFA[S, rune], n Node, alloc func() S) (start, end S) {
	b := builder[S]{nfa: nfa, alloc: alloc}
	return b.construct(Desugar(n))
}

type builder[S comparable] struct {
	nfa   *automata.DenseNFA[S, rune]
	alloc func() S
}

func (b *builder[S]) fragment() (start, end S) {
	start, end = b.alloc(), b.alloc()
	b.nfa.AddState(start)
	b.nfa.AddState(end)
	return start, end
}

func (b *builder[S]) construct(n Node) (start, end S) {
	switch n := n.(type) {
	case Empty:
		start, end = b.fragment()
		b.nfa.AddEpsilonTransition(start, end)

	case Chars:
		start, end = b.fragment()
		if n.Set != nil {
			for iv := range n.Set.All() {
				b.nfa.AddTransition(start, iv, end)
			}
		}

	case Seq:
		if len(n) == 0 {
			return b.construct(Empty{})
		}
		start, end = b.construct(n[0])
		for _, m := range n[1:] {
			s, e := b.construct(m)
			b.nfa.AddEpsilonTransition(end, s)
			end = e
		}

	case Alt:
		start, end = b.fragment()
		for _, m := range n {
			s, e := b.construct(m)
			b.nfa.AddEpsilonTransition(start, s)
			b.nfa.AddEpsilonTransition(e, end)
		}

	case Star:
		start, end = b.fragment()
		s, e := b.construct(n.Node)
		b.nfa.AddEpsilonTransition(start, s)
		b.nfa.AddEpsilonTransition(start, end)
		b.nfa.AddEpsilonTransition(e, s)
		b.nfa.AddEpsilonTransition(e, end)

	default:
		panic(fmt.Sprintf("regex: unexpected node type %T", n))
	}
	return start, end
}
