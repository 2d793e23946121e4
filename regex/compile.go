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
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/bufbuild/lexcompile/automata"
)

// Rule associates a pattern with the tag to report when it matches.
type Rule[Tag comparable] struct {
	Tag  Tag
	Node Node
}

// Options configures [Compile].
type Options struct {
	// Logger receives debug records about the size of each intermediate
	// automaton. If nil, nothing is logged.
	Logger *slog.Logger
}

// Automaton is a minimal DFA recognizing a list of rules, along with the tag
// each of its accepting states reports.
type Automaton[Tag comparable] struct {
	// DFA has states numbered from zero, with 0 the initial state.
	DFA *automata.DenseDFA[int, rune]

	tags map[int]Tag
}

// Tag returns the tag reported by state, or false if it is not accepting.
func (a *Automaton[Tag]) Tag(state int) (Tag, bool) {
	tag, ok := a.tags[state]
	return tag, ok
}

// Match returns the tag reported after running all of input, if any.
func (a *Automaton[Tag]) Match(input string) (Tag, bool) {
	state, ok := a.DFA.Initial()
	for _, r := range input {
		if !ok {
			break
		}
		state, ok = a.DFA.Transition(state, r)
	}
	if !ok {
		var zero Tag
		return zero, false
	}
	return a.Tag(state)
}

// Longest returns the tag of the longest prefix of input that some rule
// matches, along with that prefix's length in bytes. Returns false if no
// prefix matches, not even the empty one.
func (a *Automaton[Tag]) Longest(input string) (tag Tag, n int, ok bool) {
	state, more := a.DFA.Initial()
	tag, ok = a.Tag(state)
	for i := 0; more && i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		if state, more = a.DFA.Transition(state, r); !more {
			break
		}
		i += size
		if t, accepting := a.Tag(state); accepting {
			tag, n, ok = t, i, true
		}
	}
	return tag, n, ok
}

// Compile builds the minimal DFA which recognizes every rule at once.
//
// Each rule becomes a fragment of one shared NFA, reachable from its initial
// state by an epsilon transition. After determinization, an accepting state
// reports the tag of the earliest rule it accepts, so earlier rules take
// precedence over later ones on the same input. Minimization never merges
// accepting states with different tags.
func Compile[Tag comparable](ctx context.Context, rules []Rule[Tag], opts Options) (*Automaton[Tag], error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var ids automata.Counter
	nfa := new(automata.DenseNFA[int, rune])
	initial := ids.Next()
	nfa.AddInitial(initial)
	ruleOf := make(map[int]int) // NFA accepting state to index of its rule.
	for i, rule := range rules {
		if rule.Node == nil {
			return nil, fmt.Errorf("regex: rule %d (%v) has no pattern", i, rule.Tag)
		}
		start, end := Construct(nfa, rule.Node, ids.Next)
		nfa.AddEpsilonTransition(initial, start)
		nfa.AddAccepting(end)
		ruleOf[end] = i
	}
	logger.DebugContext(ctx, "built nfa", slog.Int("rules", len(rules)), slog.Int("states", nfa.Len()))

	dfa, err := automata.DeterminizeDense(ctx, nfa)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "determinized", slog.Int("states", dfa.Len()), slog.Int("transitions", dfa.NumTransitions()))

	winner := func(set *automata.StateSet[int]) (int, bool) {
		best := -1
		for s := range set.All() {
			if i, ok := ruleOf[s]; ok && (best < 0 || i < best) {
				best = i
			}
		}
		return best, best >= 0
	}

	// Class 0 is non-accepting; each distinct tag gets its own class after.
	classOf := make(map[Tag]int)
	for _, rule := range rules {
		if _, ok := classOf[rule.Tag]; !ok {
			classOf[rule.Tag] = len(classOf) + 1
		}
	}
	var partition automata.Partition[*automata.StateSet[int]] = func(set *automata.StateSet[int]) int {
		if i, ok := winner(set); ok {
			return classOf[rules[i].Tag]
		}
		return 0
	}

	out := &Automaton[Tag]{tags: make(map[int]Tag)}
	var stateIDs automata.Counter
	combiner := automata.StateCombinerFunc[*automata.StateSet[int], int](
		func(block *automata.StateSet[*automata.StateSet[int]]) int {
			id := stateIDs.Next()
			// The partition guarantees every member reports the same tag.
			for set := range block.All() {
				if i, ok := winner(set); ok {
					out.tags[id] = rules[i].Tag
				}
				break
			}
			return id
		})

	out.DFA, err = automata.MinimizeDense(ctx, dfa, combiner, partition)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "minimized", slog.Int("states", out.DFA.Len()), slog.Int("transitions", out.DFA.NumTransitions()))
	return out, nil
}
