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

package interval

import (
	"cmp"
	"fmt"
)

// Kind is the kind of an interval endpoint.
type Kind int8

const (
	// Unbounded endpoints extend to infinity in their direction. The zero
	// value of [Lower] and [Upper] is unbounded.
	Unbounded Kind = iota
	// Inclusive endpoints contain their value.
	Inclusive
	// Exclusive endpoints do not contain their value.
	Exclusive
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Unbounded:
		return "Unbounded"
	case Inclusive:
		return "Inclusive"
	case Exclusive:
		return "Exclusive"
	default:
		return fmt.Sprintf("Kind(%d)", int8(k))
	}
}

// Bound is either a [Lower] or an [Upper] bound.
//
// Lower and upper bounds live on a single total order: every bound is a cut
// between two adjacent points of T, and two bounds at the same cut compare
// with the upper one first. This makes "touching" and "overlapping" fall out
// of a single comparison.
type Bound[T cmp.Ordered] interface {
	fmt.Stringer

	// BoundKind returns the kind of this bound.
	BoundKind() Kind

	cut() cut[T]
}

// Lower is the lower endpoint of an interval.
type Lower[T cmp.Ordered] struct {
	Kind  Kind
	Value T // Meaningless if Kind == Unbounded.
}

// Upper is the upper endpoint of an interval.
type Upper[T cmp.Ordered] struct {
	Kind  Kind
	Value T // Meaningless if Kind == Unbounded.
}

var (
	_ Bound[int] = Lower[int]{}
	_ Bound[int] = Upper[int]{}
)

// LowerUnbounded returns the lower bound at negative infinity.
func LowerUnbounded[T cmp.Ordered]() Lower[T] { return Lower[T]{} }

// LowerInclusive returns a lower bound containing v.
func LowerInclusive[T cmp.Ordered](v T) Lower[T] { return Lower[T]{Kind: Inclusive, Value: v} }

// LowerExclusive returns a lower bound just above v.
func LowerExclusive[T cmp.Ordered](v T) Lower[T] { return Lower[T]{Kind: Exclusive, Value: v} }

// UpperUnbounded returns the upper bound at positive infinity.
func UpperUnbounded[T cmp.Ordered]() Upper[T] { return Upper[T]{} }

// UpperInclusive returns an upper bound containing v.
func UpperInclusive[T cmp.Ordered](v T) Upper[T] { return Upper[T]{Kind: Inclusive, Value: v} }

// UpperExclusive returns an upper bound just below v.
func UpperExclusive[T cmp.Ordered](v T) Upper[T] { return Upper[T]{Kind: Exclusive, Value: v} }

// BoundKind implements [Bound].
func (l Lower[T]) BoundKind() Kind { return l.Kind }

// BoundKind implements [Bound].
func (u Upper[T]) BoundKind() Kind { return u.Kind }

// Touching returns the upper bound that touches l, i.e. the bound of an
// interval ending right where l begins.
//
// Returns false if l is unbounded.
func (l Lower[T]) Touching() (Upper[T], bool) {
	switch l.Kind {
	case Inclusive:
		return UpperExclusive(l.Value), true
	case Exclusive:
		return UpperInclusive(l.Value), true
	default:
		return Upper[T]{}, false
	}
}

// Touching returns the lower bound that touches u, i.e. the bound of an
// interval beginning right where u ends.
//
// Returns false if u is unbounded.
func (u Upper[T]) Touching() (Lower[T], bool) {
	switch u.Kind {
	case Inclusive:
		return LowerExclusive(u.Value), true
	case Exclusive:
		return LowerInclusive(u.Value), true
	default:
		return Lower[T]{}, false
	}
}

// IsTouching returns whether l and u denote adjacent points with nothing
// between them.
func (l Lower[T]) IsTouching(u Upper[T]) bool {
	t, ok := l.Touching()
	return ok && t.Equal(u)
}

// IsTouching returns whether u and l denote adjacent points with nothing
// between them.
func (u Upper[T]) IsTouching(l Lower[T]) bool {
	return l.IsTouching(u)
}

// Equal returns whether two lower bounds are the same.
func (l Lower[T]) Equal(that Lower[T]) bool { return l.Compare(that) == 0 }

// Equal returns whether two upper bounds are the same.
func (u Upper[T]) Equal(that Upper[T]) bool { return u.Compare(that) == 0 }

// Compare compares two lower bounds.
func (l Lower[T]) Compare(that Lower[T]) int { return l.cut().compare(that.cut()) }

// Compare compares two upper bounds.
func (u Upper[T]) Compare(that Upper[T]) int { return u.cut().compare(that.cut()) }

// String implements [fmt.Stringer].
func (l Lower[T]) String() string {
	switch l.Kind {
	case Inclusive:
		return fmt.Sprintf("[%v", l.Value)
	case Exclusive:
		return fmt.Sprintf("(%v", l.Value)
	default:
		return "(-∞"
	}
}

// String implements [fmt.Stringer].
func (u Upper[T]) String() string {
	switch u.Kind {
	case Inclusive:
		return fmt.Sprintf("%v]", u.Value)
	case Exclusive:
		return fmt.Sprintf("%v)", u.Value)
	default:
		return "+∞)"
	}
}

// Compare compares any two bounds on the total order described in [Bound].
func Compare[T cmp.Ordered](a, b Bound[T]) int {
	return a.cut().compare(b.cut())
}

// mustTouch is Touching for bounds which the caller has proven are finite.
func (l Lower[T]) mustTouch() Upper[T] {
	t, ok := l.Touching()
	if !ok {
		panic("interval: touching bound of an unbounded lower endpoint")
	}
	return t
}

func (u Upper[T]) mustTouch() Lower[T] {
	t, ok := u.Touching()
	if !ok {
		panic("interval: touching bound of an unbounded upper endpoint")
	}
	return t
}

func (l Lower[T]) cut() cut[T] {
	switch l.Kind {
	case Inclusive:
		return cut[T]{value: l.Value, offset: lowerInclusive}
	case Exclusive:
		return cut[T]{value: l.Value, offset: lowerExclusive}
	default:
		return cut[T]{inf: -1}
	}
}

func (u Upper[T]) cut() cut[T] {
	switch u.Kind {
	case Inclusive:
		return cut[T]{value: u.Value, offset: upperInclusive}
	case Exclusive:
		return cut[T]{value: u.Value, offset: upperExclusive}
	default:
		return cut[T]{inf: 1}
	}
}

// Offsets of a bound relative to its value. Exclusive-upper and
// inclusive-lower of v both sit just below v; inclusive-upper and
// exclusive-lower both sit just above it. Within each pair the upper bound
// sorts first, so that a touching pair never compares as overlapping.
const (
	upperExclusive int8 = iota
	lowerInclusive
	upperInclusive
	lowerExclusive
)

type cut[T cmp.Ordered] struct {
	inf    int8 // -1 for -∞, +1 for +∞.
	value  T
	offset int8
}

func (c cut[T]) compare(d cut[T]) int {
	if c.inf != 0 || d.inf != 0 {
		return cmp.Compare(c.inf, d.inf)
	}
	if n := cmp.Compare(c.value, d.value); n != 0 {
		return n
	}
	return cmp.Compare(c.offset, d.offset)
}

func minLower[T cmp.Ordered](a, b Lower[T]) Lower[T] {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

func maxLower[T cmp.Ordered](a, b Lower[T]) Lower[T] {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

func minUpper[T cmp.Ordered](a, b Upper[T]) Upper[T] {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

func maxUpper[T cmp.Ordered](a, b Upper[T]) Upper[T] {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}
