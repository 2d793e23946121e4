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
	"iter"
	"slices"
	"strings"
)

// Combiner resolves the value of a range covered by two values.
type Combiner[V any] interface {
	// Combine returns the value for the overlap of an existing entry and a
	// newly added one.
	Combine(existing, added V) V
}

// CombinerFunc adapts a function into a [Combiner].
type CombinerFunc[V any] func(existing, added V) V

// Combine implements [Combiner].
func (f CombinerFunc[V]) Combine(existing, added V) V {
	return f(existing, added)
}

// Entry is an interval of a [Map] along with its value.
type Entry[T cmp.Ordered, V any] struct {
	Interval Interval[T]
	Value    V
}

func (e Entry[T, V]) span() Interval[T] { return e.Interval }
func (e Entry[T, V]) withSpan(iv Interval[T]) Entry[T, V] {
	e.Interval = iv
	return e
}

// String implements [fmt.Stringer].
func (e Entry[T, V]) String() string {
	return fmt.Sprintf("%v => %v", e.Interval, e.Value)
}

// Map is a mapping from disjoint intervals of T to values.
//
// Unlike a [Set], a Map never merges entries: two touching entries stay
// separate even if their values are equal, since V need not be comparable.
//
// A zero Map is empty and ready to use. A Map must not be mutated
// concurrently.
type Map[T cmp.Ordered, V any] struct {
	entries []Entry[T, V]
}

// Len returns the number of entries in this map.
func (m *Map[T, V]) Len() int { return len(m.entries) }

// Entries returns an iterator over the entries of this map, in order.
func (m *Map[T, V]) Entries() iter.Seq[Entry[T, V]] {
	return slices.Values(m.entries)
}

// Clone returns a shallow copy of this map.
func (m *Map[T, V]) Clone() *Map[T, V] {
	return &Map[T, V]{entries: slices.Clone(m.entries)}
}

// Keys returns the set of values of T that have an entry in this map.
func (m *Map[T, V]) Keys() *Set[T] {
	keys := new(Set[T])
	for _, e := range m.entries {
		keys.Add(e.Interval)
	}
	return keys
}

// Add associates every value in iv with v.
//
// Where iv overlaps an existing entry, the overlap gets the value
// c.Combine(existing, v), and the rest of the existing entry keeps its old
// value. Parts of iv which overlap nothing get v.
func (m *Map[T, V]) Add(iv Interval[T], v V, c Combiner[V]) {
	if iv.IsEmpty() {
		return
	}
	iv = iv.normalize()

	from, to := intersecting[T, Entry[T, V]](m.entries, iv)
	if from == to {
		m.entries = slices.Insert(m.entries, from, Entry[T, V]{iv, v})
		return
	}

	// Every existing entry splits into at most three, and every gap between
	// them becomes one more.
	out := make([]Entry[T, V], 0, 3*(to-from)+1)
	next := iv.Lower // Least bound of iv not yet emitted.
	done := false
	for _, e := range m.entries[from:to] {
		span := e.Interval
		if next.Compare(span.Lower) < 0 {
			out = append(out, Entry[T, V]{New(next, span.Lower.mustTouch()), v})
		}
		if span.Lower.Compare(iv.Lower) < 0 {
			out = append(out, Entry[T, V]{New(span.Lower, iv.Lower.mustTouch()), e.Value})
		}

		out = append(out, Entry[T, V]{
			New(maxLower(span.Lower, iv.Lower), minUpper(span.Upper, iv.Upper)),
			c.Combine(e.Value, v),
		})

		switch span.Upper.Compare(iv.Upper) {
		case 1:
			out = append(out, Entry[T, V]{New(iv.Upper.mustTouch(), span.Upper), e.Value})
			done = true
		case 0:
			done = true
		default:
			next = span.Upper.mustTouch()
		}
	}
	if !done {
		out = append(out, Entry[T, V]{New(next, iv.Upper), v})
	}

	m.entries = slices.Replace(m.entries, from, to, out...)
}

// Remove removes every value in iv from this map. Entries partially covered
// by iv are shrunk or split, keeping their values.
//
// Returns whether the map changed.
func (m *Map[T, V]) Remove(iv Interval[T]) bool {
	var changed bool
	m.entries, changed = remove[T, Entry[T, V]](m.entries, iv)
	return changed
}

// Get returns the value associated with v, if there is one.
func (m *Map[T, V]) Get(v T) (V, bool) {
	from, to := intersecting[T, Entry[T, V]](m.entries, Singleton(v))
	if from == to {
		var zero V
		return zero, false
	}
	return m.entries[from].Value, true
}

// Lookup returns the single entry whose interval covers all of iv.
//
// Returns false if iv is empty, or if no one entry covers it.
func (m *Map[T, V]) Lookup(iv Interval[T]) (Entry[T, V], bool) {
	if iv.IsEmpty() {
		return Entry[T, V]{}, false
	}
	from, to := intersecting[T, Entry[T, V]](m.entries, iv)
	if to-from != 1 || !m.entries[from].Interval.Covers(iv) {
		return Entry[T, V]{}, false
	}
	return m.entries[from], true
}

// Overlapping returns an iterator over the entries which share at least one
// value with iv, in order.
func (m *Map[T, V]) Overlapping(iv Interval[T]) iter.Seq[Entry[T, V]] {
	if iv.IsEmpty() {
		return func(func(Entry[T, V]) bool) {}
	}
	from, to := intersecting[T, Entry[T, V]](m.entries, iv)
	return slices.Values(m.entries[from:to])
}

// ContainsKeys returns whether every value in iv has an entry in this map.
func (m *Map[T, V]) ContainsKeys(iv Interval[T]) bool {
	if iv.IsEmpty() {
		return true
	}

	from, to := intersecting[T, Entry[T, V]](m.entries, iv)
	if from == to {
		return false
	}
	if m.entries[from].Interval.Lower.Compare(iv.Lower) > 0 ||
		m.entries[to-1].Interval.Upper.Compare(iv.Upper) < 0 {
		return false
	}
	for i := from + 1; i < to; i++ {
		if !m.entries[i-1].Interval.Upper.IsTouching(m.entries[i].Interval.Lower) {
			return false
		}
	}
	return true
}

// String implements [fmt.Stringer].
func (m *Map[T, V]) String() string {
	var out strings.Builder
	out.WriteString("{")
	for i, e := range m.entries {
		if i > 0 {
			out.WriteString(" U ")
		}
		out.WriteString(e.String())
	}
	out.WriteString("}")
	return out.String()
}
