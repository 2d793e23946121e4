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
	"strconv"
	"strings"
	"unicode"

	"github.com/bufbuild/lexcompile/interval"
)

// Node is a node of a regular expression's syntax tree.
//
// The core nodes are [Empty], [Chars], [Seq], [Alt] and [Star]. [Plus],
// [Option] and [Repeat] are shorthands for combinations of core nodes; see
// [Desugar].
type Node interface {
	fmt.Stringer

	isNode()
}

// Empty matches the empty string.
type Empty struct{}

// Chars matches a single rune from a set.
//
// A nil or empty set matches nothing.
type Chars struct {
	Set *interval.Set[rune]
}

// Seq matches each of its nodes in turn. An empty Seq matches the empty
// string.
type Seq []Node

// Alt matches any one of its nodes. An empty Alt matches nothing.
type Alt []Node

// Star matches zero or more repetitions of a node.
type Star struct {
	Node Node
}

// Plus matches one or more repetitions of a node.
type Plus struct {
	Node Node
}

// Option matches a node or the empty string.
type Option struct {
	Node Node
}

// Repeat matches between Min and Max repetitions of a node, inclusive. A
// negative Max means there is no upper limit.
type Repeat struct {
	Node     Node
	Min, Max int
}

func (Empty) isNode()  {}
func (Chars) isNode()  {}
func (Seq) isNode()    {}
func (Alt) isNode()    {}
func (Star) isNode()   {}
func (Plus) isNode()   {}
func (Option) isNode() {}
func (Repeat) isNode() {}

// Char returns a node matching exactly r.
func Char(r rune) Chars {
	return Chars{interval.NewSet(interval.Singleton(r))}
}

// Range returns a node matching any rune from lo to hi, inclusive.
func Range(lo, hi rune) Chars {
	return Chars{interval.NewSet(interval.Closed(lo, hi))}
}

// Literal returns a node matching exactly text.
func Literal(text string) Node {
	var seq Seq
	for _, r := range text {
		seq = append(seq, Char(r))
	}
	if len(seq) == 1 {
		return seq[0]
	}
	return seq
}

// AnyRune returns a set containing every valid rune.
func AnyRune() *interval.Set[rune] {
	return interval.NewSet(interval.Closed(0, unicode.MaxRune))
}

// RuneRange converts an interval of runes into an inclusive range clamped to
// valid runes. Returns false if no valid rune is in iv.
func RuneRange(iv interval.Interval[rune]) (lo, hi rune, ok bool) {
	iv = iv.Intersect(interval.Closed(0, unicode.MaxRune))
	if iv.IsEmpty() {
		return 0, 0, false
	}
	lo, hi = iv.Lower.Value, iv.Upper.Value
	if iv.Lower.Kind == interval.Exclusive {
		lo++
	}
	if iv.Upper.Kind == interval.Exclusive {
		hi--
	}
	return lo, hi, lo <= hi
}

// Precedence levels, from loosest to tightest binding.
const (
	precAlt = iota
	precSeq
	precPostfix
)

func precedence(n Node) int {
	switch n := n.(type) {
	case Alt:
		if len(n) > 1 {
			return precAlt
		}
	case Seq:
		if len(n) > 1 {
			return precSeq
		}
	}
	return precPostfix
}

func writeNode(out *strings.Builder, n Node, prec int) {
	if precedence(n) < prec {
		out.WriteByte('(')
		out.WriteString(n.String())
		out.WriteByte(')')
		return
	}
	out.WriteString(n.String())
}

// String implements [fmt.Stringer].
func (Empty) String() string { return "()" }

// String implements [fmt.Stringer].
func (c Chars) String() string {
	if c.Set == nil || c.Set.IsEmpty() {
		return "[]"
	}

	var ranges [][2]rune
	for iv := range c.Set.All() {
		if lo, hi, ok := RuneRange(iv); ok {
			ranges = append(ranges, [2]rune{lo, hi})
		}
	}
	if len(ranges) == 1 && ranges[0][0] == ranges[0][1] {
		return escapeRune(ranges[0][0], false)
	}

	var out strings.Builder
	out.WriteByte('[')
	for _, r := range ranges {
		out.WriteString(escapeRune(r[0], true))
		if r[1] > r[0] {
			if r[1] > r[0]+1 {
				out.WriteByte('-')
			}
			out.WriteString(escapeRune(r[1], true))
		}
	}
	out.WriteByte(']')
	return out.String()
}

// String implements [fmt.Stringer].
func (s Seq) String() string {
	switch len(s) {
	case 0:
		return "()"
	case 1:
		return s[0].String()
	}
	var out strings.Builder
	for _, n := range s {
		writeNode(&out, n, precSeq)
	}
	return out.String()
}

// String implements [fmt.Stringer].
func (a Alt) String() string {
	switch len(a) {
	case 0:
		return "[]"
	case 1:
		return a[0].String()
	}
	var out strings.Builder
	for i, n := range a {
		if i > 0 {
			out.WriteByte('|')
		}
		writeNode(&out, n, precSeq)
	}
	return out.String()
}

func postfix(n Node, op string) string {
	for {
		// Single-element sequences and alternations print as their element.
		if seq, ok := n.(Seq); ok && len(seq) == 1 {
			n = seq[0]
		} else if alt, ok := n.(Alt); ok && len(alt) == 1 {
			n = alt[0]
		} else {
			break
		}
	}

	var out strings.Builder
	switch n.(type) {
	case Star, Plus, Option, Repeat:
		// Nested postfix operators need grouping, e.g. (a*)+.
		out.WriteByte('(')
		out.WriteString(n.String())
		out.WriteByte(')')
	default:
		writeNode(&out, n, precPostfix)
	}
	out.WriteString(op)
	return out.String()
}

// String implements [fmt.Stringer].
func (s Star) String() string { return postfix(s.Node, "*") }

// String implements [fmt.Stringer].
func (p Plus) String() string { return postfix(p.Node, "+") }

// String implements [fmt.Stringer].
func (o Option) String() string { return postfix(o.Node, "?") }

// String implements [fmt.Stringer].
func (r Repeat) String() string {
	switch {
	case r.Max < 0:
		return postfix(r.Node, "{"+strconv.Itoa(r.Min)+",}")
	case r.Min == r.Max:
		return postfix(r.Node, "{"+strconv.Itoa(r.Min)+"}")
	default:
		return postfix(r.Node, "{"+strconv.Itoa(r.Min)+","+strconv.Itoa(r.Max)+"}")
	}
}

// Desugar rewrites every [Plus], [Option] and [Repeat] in n into core nodes.
func Desugar(n Node) Node {
	switch n := n.(type) {
	case Seq:
		out := make(Seq, len(n))
		for i, m := range n {
			out[i] = Desugar(m)
		}
		return out
	case Alt:
		out := make(Alt, len(n))
		for i, m := range n {
			out[i] = Desugar(m)
		}
		return out
	case Star:
		return Star{Desugar(n.Node)}
	case Plus:
		inner := Desugar(n.Node)
		return Seq{inner, Star{inner}}
	case Option:
		return Alt{Desugar(n.Node), Empty{}}
	case Repeat:
		return desugarRepeat(Desugar(n.Node), n.Min, n.Max)
	default:
		return n
	}
}

// desugarRepeat expands x{min,max} into min copies of x, followed by either
// x* or nested options of the form (x(x(x)?)?)?.
func desugarRepeat(x Node, lo, hi int) Node {
	lo = max(lo, 0)
	seq := make(Seq, 0, lo+1)
	for range lo {
		seq = append(seq, x)
	}
	switch {
	case hi < 0:
		seq = append(seq, Star{x})
	case hi > lo:
		var tail Node = Alt{x, Empty{}}
		for range hi - lo - 1 {
			tail = Alt{Seq{x, tail}, Empty{}}
		}
		seq = append(seq, tail)
	}
	if len(seq) == 1 {
		return seq[0]
	}
	return seq
}
