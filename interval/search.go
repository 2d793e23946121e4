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
	"slices"
)

// spanned is an element of a sorted interval list: either a bare interval,
// or an interval with a value attached.
type spanned[T cmp.Ordered, E any] interface {
	span() Interval[T]
	// withSpan returns a copy of this element moved to a new interval.
	withSpan(Interval[T]) E
}

func (i Interval[T]) span() Interval[T] { return i }
func (i Interval[T]) withSpan(iv Interval[T]) Interval[T] { return iv }

func lowerOf[T cmp.Ordered](iv Interval[T]) Bound[T] { return iv.Lower }
func upperOf[T cmp.Ordered](iv Interval[T]) Bound[T] { return iv.Upper }

// search returns the least index i >= start such that target <= key(items[i]),
// or len(items) if there is none.
//
// The keys must be sorted. This does not use [slices.BinarySearchFunc],
// because the key is a different polarity of bound than target.
func search[T cmp.Ordered, E spanned[T, E]](
	items []E,
	start int,
	target Bound[T],
	key func(Interval[T]) Bound[T],
) int {
	size := len(items) - start
	if size <= 0 {
		return start
	}

	for size > 1 {
		half := size / 2
		mid := start + half
		if Compare(target, key(items[mid].span())) > 0 {
			start = mid
		}
		size -= half
	}

	if Compare(target, key(items[start].span())) > 0 {
		start++
	}
	return start
}

// intersecting returns the range of items which share at least one value
// with iv.
func intersecting[T cmp.Ordered, E spanned[T, E]](items []E, iv Interval[T]) (from, to int) {
	from = search[T, E](items, 0, iv.Lower, upperOf[T])
	to = search[T, E](items, from, iv.Upper, lowerOf[T])
	return from, to
}

// touching is like intersecting, but also includes the items immediately
// adjacent to iv.
func touching[T cmp.Ordered, E spanned[T, E]](items []E, iv Interval[T]) (from, to int) {
	from, to = intersecting[T, E](items, iv)
	if from > 0 && items[from-1].span().Upper.IsTouching(iv.Lower) {
		from--
	}
	if to < len(items) && items[to].span().Lower.IsTouching(iv.Upper) {
		to++
	}
	return from, to
}

// remove deletes every value in iv from items, shrinking or splitting the
// items at the edges of iv.
//
// Returns the updated slice, and whether anything was removed.
func remove[T cmp.Ordered, E spanned[T, E]](items []E, iv Interval[T]) ([]E, bool) {
	if len(items) == 0 || iv.IsEmpty() {
		return items, false
	}

	from, to := intersecting[T, E](items, iv)
	switch to - from {
	case 0:
		return items, false

	case 1:
		item := items[from]
		span := item.span()
		lowers := span.Lower.Compare(iv.Lower)
		uppers := span.Upper.Compare(iv.Upper)

		switch {
		case lowers >= 0 && uppers <= 0:
			items = slices.Delete(items, from, from+1)
		case lowers >= 0:
			items[from] = item.withSpan(New(iv.Upper.mustTouch(), span.Upper))
		case uppers <= 0:
			items[from] = item.withSpan(New(span.Lower, iv.Lower.mustTouch()))
		default:
			items[from] = item.withSpan(New(span.Lower, iv.Lower.mustTouch()))
			items = slices.Insert(items, from+1, item.withSpan(New(iv.Upper.mustTouch(), span.Upper)))
		}

	default:
		first, last := items[from], items[to-1]
		deleteFrom, deleteTo := from, to
		if first.span().Lower.Compare(iv.Lower) < 0 {
			items[from] = first.withSpan(New(first.span().Lower, iv.Lower.mustTouch()))
			deleteFrom++
		}
		if last.span().Upper.Compare(iv.Upper) > 0 {
			items[to-1] = last.withSpan(New(iv.Upper.mustTouch(), last.span().Upper))
			deleteTo--
		}
		items = slices.Delete(items, deleteFrom, deleteTo)
	}

	return items, true
}
