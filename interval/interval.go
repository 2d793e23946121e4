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

// Package interval provides intervals over arbitrary ordered types, along
// with sorted collections of them.
//
// Unlike a half-open [start, end) pair of integers, an [Interval] may have
// inclusive, exclusive or unbounded endpoints on either side, so it can
// describe ranges over continuous domains as well as discrete ones. The
// collections in this package, [Set] and [Map], keep their entries sorted and
// non-overlapping, and use binary search to locate the entries affected by
// an operation.
package interval

import "cmp"

// Interval is a range of values of T between a lower and an upper bound.
//
// An interval may be empty: this is a property of the bounds rather than a
// distinct representation. The zero value is the full interval.
type Interval[T cmp.Ordered] struct {
	Lower Lower[T]
	Upper Upper[T]
}

// New returns a new interval with the given bounds.
func New[T cmp.Ordered](lower Lower[T], upper Upper[T]) Interval[T] {
	return Interval[T]{Lower: lower, Upper: upper}
}

// Full returns the interval containing every value of T.
func Full[T cmp.Ordered]() Interval[T] { return Interval[T]{} }

// Empty returns the canonical empty interval, (0; 0).
func Empty[T cmp.Ordered]() Interval[T] {
	var zero T
	return Interval[T]{LowerExclusive(zero), UpperExclusive(zero)}
}

// Singleton returns the interval [v; v].
func Singleton[T cmp.Ordered](v T) Interval[T] {
	return Interval[T]{LowerInclusive(v), UpperInclusive(v)}
}

// Closed returns the interval [lo; hi].
func Closed[T cmp.Ordered](lo, hi T) Interval[T] {
	return Interval[T]{LowerInclusive(lo), UpperInclusive(hi)}
}

// Open returns the interval (lo; hi).
func Open[T cmp.Ordered](lo, hi T) Interval[T] {
	return Interval[T]{LowerExclusive(lo), UpperExclusive(hi)}
}

// HalfOpen returns the interval [lo; hi).
func HalfOpen[T cmp.Ordered](lo, hi T) Interval[T] {
	return Interval[T]{LowerInclusive(lo), UpperExclusive(hi)}
}

// IsEmpty returns whether this interval contains no values.
func (i Interval[T]) IsEmpty() bool {
	return Compare[T](i.Lower, i.Upper) > 0
}

// Contains returns whether v is within this interval.
func (i Interval[T]) Contains(v T) bool {
	return Compare[T](i.Lower, LowerInclusive(v)) <= 0 &&
		Compare[T](UpperInclusive(v), i.Upper) <= 0
}

// Overlaps returns whether this interval shares at least one value with
// that.
func (i Interval[T]) Overlaps(that Interval[T]) bool {
	if i.IsEmpty() || that.IsEmpty() {
		return false
	}
	return Compare[T](i.Lower, that.Upper) < 0 && Compare[T](that.Lower, i.Upper) < 0
}

// Covers returns whether every value of that is within this interval.
//
// Every interval covers the empty interval.
func (i Interval[T]) Covers(that Interval[T]) bool {
	if that.IsEmpty() {
		return true
	}
	return i.Lower.Compare(that.Lower) <= 0 && that.Upper.Compare(i.Upper) <= 0
}

// Intersect returns the values shared by both intervals.
//
// If they share no values, returns the canonical empty interval.
func (i Interval[T]) Intersect(that Interval[T]) Interval[T] {
	out := Interval[T]{maxLower(i.Lower, that.Lower), minUpper(i.Upper, that.Upper)}
	if out.IsEmpty() {
		return Empty[T]()
	}
	return out
}

// Equal returns whether two intervals contain the same values.
//
// All empty intervals are equal to each other, regardless of their bounds.
func (i Interval[T]) Equal(that Interval[T]) bool {
	ie, te := i.IsEmpty(), that.IsEmpty()
	if ie || te {
		return ie && te
	}
	return i.Lower.Equal(that.Lower) && i.Upper.Equal(that.Upper)
}

// normalize replaces an empty interval with the canonical one, and unbounded
// endpoints with their zero values.
func (i Interval[T]) normalize() Interval[T] {
	if i.IsEmpty() {
		return Empty[T]()
	}
	if i.Lower.Kind == Unbounded {
		i.Lower = Lower[T]{}
	}
	if i.Upper.Kind == Unbounded {
		i.Upper = Upper[T]{}
	}
	return i
}

// between builds the interval between two bounds, normalized.
func between[T cmp.Ordered](lower Lower[T], upper Upper[T]) Interval[T] {
	return Interval[T]{lower, upper}.normalize()
}
