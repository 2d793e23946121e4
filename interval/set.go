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
	"iter"
	"slices"
	"strings"
)

// Set is a set of values of T, stored as a sorted list of disjoint intervals.
//
// Intervals in a Set never overlap or touch: adding an interval that touches
// or overlaps existing ones merges them into a single interval.
//
// A zero Set is empty and ready to use. A Set must not be mutated
// concurrently.
type Set[T cmp.Ordered] struct {
	ivs []Interval[T]
}

// NewSet returns a new set containing the given intervals.
func NewSet[T cmp.Ordered](ivs ...Interval[T]) *Set[T] {
	s := new(Set[T])
	for _, iv := range ivs {
		s.Add(iv)
	}
	return s
}

// collect builds a new set out of a sequence of intervals.
func collect[T cmp.Ordered](seq iter.Seq[Interval[T]]) *Set[T] {
	s := new(Set[T])
	s.UnionWith(seq)
	return s
}

// Len returns the number of disjoint intervals in this set.
func (s *Set[T]) Len() int { return len(s.ivs) }

// IsEmpty returns whether this set contains no values.
func (s *Set[T]) IsEmpty() bool { return len(s.ivs) == 0 }

// All returns an iterator over the intervals of this set, in order.
func (s *Set[T]) All() iter.Seq[Interval[T]] {
	return slices.Values(s.ivs)
}

// Intervals returns a copy of the intervals of this set, in order. It
// returns nil if the set is empty.
func (s *Set[T]) Intervals() []Interval[T] {
	if len(s.ivs) == 0 {
		return nil
	}
	return slices.Clone(s.ivs)
}

// Clone returns a copy of this set.
func (s *Set[T]) Clone() *Set[T] {
	return &Set[T]{ivs: slices.Clone(s.ivs)}
}

// Clear removes every value from this set.
func (s *Set[T]) Clear() {
	s.ivs = s.ivs[:0]
}

// AddValue adds a single value to this set.
func (s *Set[T]) AddValue(v T) bool {
	return s.Add(Singleton(v))
}

// Add adds every value in iv to this set.
//
// Returns whether the set changed.
func (s *Set[T]) Add(iv Interval[T]) bool {
	if iv.IsEmpty() {
		return false
	}
	iv = iv.normalize()

	from, to := touching[T, Interval[T]](s.ivs, iv)
	if from == to {
		s.ivs = slices.Insert(s.ivs, from, iv)
		return true
	}

	merged := New(
		minLower(s.ivs[from].Lower, iv.Lower),
		maxUpper(s.ivs[to-1].Upper, iv.Upper),
	)
	if to-from == 1 && s.ivs[from].Equal(merged) {
		return false
	}

	s.ivs[from] = merged
	s.ivs = slices.Delete(s.ivs, from+1, to)
	return true
}

// RemoveValue removes a single value from this set.
func (s *Set[T]) RemoveValue(v T) bool {
	return s.Remove(Singleton(v))
}

// Remove removes every value in iv from this set.
//
// Returns whether the set changed.
func (s *Set[T]) Remove(iv Interval[T]) bool {
	var changed bool
	s.ivs, changed = remove[T, Interval[T]](s.ivs, iv)
	return changed
}

// Complement replaces this set with every value of T it does not contain.
func (s *Set[T]) Complement() {
	n := len(s.ivs)
	if n == 0 {
		s.ivs = append(s.ivs, Full[T]())
		return
	}

	// Each gap between two neighbors becomes an interval. Unbounded ends
	// contribute no gap, so N intervals become N-1, N or N+1 depending on
	// how many ends are unbounded.
	openBelow := s.ivs[0].Lower.Kind == Unbounded
	openAbove := s.ivs[n-1].Upper.Kind == Unbounded

	var next Lower[T] // Lower bound of the gap being built.
	out := 0
	for i := range n {
		iv := s.ivs[i]
		if i > 0 || !openBelow {
			s.ivs[out] = New(next, iv.Lower.mustTouch())
			out++
		}
		if iv.Upper.Kind != Unbounded {
			next = iv.Upper.mustTouch()
		}
	}

	s.ivs = s.ivs[:out]
	if !openAbove {
		s.ivs = append(s.ivs, New(next, UpperUnbounded[T]()))
	}
}

// ContainsValue returns whether v is in this set.
func (s *Set[T]) ContainsValue(v T) bool {
	return s.Contains(Singleton(v))
}

// Contains returns whether every value in iv is in this set.
func (s *Set[T]) Contains(iv Interval[T]) bool {
	if iv.IsEmpty() {
		return true
	}
	from, to := intersecting[T, Interval[T]](s.ivs, iv)
	return to-from == 1 && s.ivs[from].Covers(iv)
}

// Overlaps returns whether any value in iv is in this set.
func (s *Set[T]) Overlaps(iv Interval[T]) bool {
	if iv.IsEmpty() {
		return false
	}
	from, to := intersecting[T, Interval[T]](s.ivs, iv)
	return from < to
}

// OverlapsAny returns whether any value in any of the given intervals is in
// this set.
func (s *Set[T]) OverlapsAny(other iter.Seq[Interval[T]]) bool {
	for iv := range other {
		if s.Overlaps(iv) {
			return true
		}
	}
	return false
}

// UnionWith adds every value in other to this set.
func (s *Set[T]) UnionWith(other iter.Seq[Interval[T]]) {
	// Collect first, in case other is iterating over s.
	for _, iv := range slices.Collect(other) {
		s.Add(iv)
	}
}

// ExceptWith removes every value in other from this set.
func (s *Set[T]) ExceptWith(other iter.Seq[Interval[T]]) {
	for _, iv := range slices.Collect(other) {
		s.Remove(iv)
	}
}

// IntersectWith removes every value not in other from this set.
func (s *Set[T]) IntersectWith(other iter.Seq[Interval[T]]) {
	outside := collect(other)
	outside.Complement()
	s.ExceptWith(outside.All())
}

// SymmetricExceptWith replaces this set with the values that are in exactly
// one of this set and other.
func (s *Set[T]) SymmetricExceptWith(other iter.Seq[Interval[T]]) {
	that := collect(other)
	both := s.Clone()
	both.IntersectWith(that.All())
	s.UnionWith(that.All())
	s.ExceptWith(both.All())
}

// IsSupersetOf returns whether every value in other is in this set.
func (s *Set[T]) IsSupersetOf(other iter.Seq[Interval[T]]) bool {
	for iv := range other {
		if !s.Contains(iv) {
			return false
		}
	}
	return true
}

// IsProperSupersetOf is like [Set.IsSupersetOf], but also requires this set
// to have a value that is not in other.
//
// This builds a temporary set out of other, and is quadratic in the worst
// case.
func (s *Set[T]) IsProperSupersetOf(other iter.Seq[Interval[T]]) bool {
	that := collect(other)
	return s.IsSupersetOf(that.All()) && !that.IsSupersetOf(s.All())
}

// IsSubsetOf returns whether every value in this set is in other.
//
// This builds a temporary set out of other, and is quadratic in the worst
// case.
func (s *Set[T]) IsSubsetOf(other iter.Seq[Interval[T]]) bool {
	return collect(other).IsSupersetOf(s.All())
}

// IsProperSubsetOf is like [Set.IsSubsetOf], but also requires other to have
// a value that is not in this set.
//
// This builds a temporary set out of other, and is quadratic in the worst
// case.
func (s *Set[T]) IsProperSubsetOf(other iter.Seq[Interval[T]]) bool {
	that := collect(other)
	return that.IsSupersetOf(s.All()) && !s.IsSupersetOf(that.All())
}

// SetEquals returns whether this set and other contain the same values.
func (s *Set[T]) SetEquals(other iter.Seq[Interval[T]]) bool {
	return slices.EqualFunc(s.ivs, collect(other).ivs, Interval[T].Equal)
}

// String implements [fmt.Stringer].
func (s *Set[T]) String() string {
	var out strings.Builder
	out.WriteString("{")
	for i, iv := range s.ivs {
		if i > 0 {
			out.WriteString(" U ")
		}
		out.WriteString(iv.String())
	}
	out.WriteString("}")
	return out.String()
}
