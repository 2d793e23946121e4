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

package rangeindex

import (
	"fmt"
	"iter"
	"slices"

	"github.com/tidwall/btree"
)

// Intersect is a collection of possibly overlapping ranges, split into
// disjoint pieces such that every point of a piece lies in exactly the same
// ranges. Each piece records the values of all of those ranges, in insertion
// order.
//
// A zero Intersect is empty and ready to use.
type Intersect[K Endpoint, V any] struct {
	// Keyed by the Hi of each piece.
	tree    btree.Map[K, *Range[K, []V]]
	scratch []*Range[K, []V]
}

// Pieces returns an iterator over the pieces, in order.
func (m *Intersect[K, V]) Pieces() iter.Seq[Range[K, []V]] {
	return func(yield func(Range[K, []V]) bool) {
		m.tree.Scan(func(_ K, r *Range[K, []V]) bool {
			return yield(*r)
		})
	}
}

// Insert adds the range [lo, hi] with the given value.
func (m *Intersect[K, V]) Insert(lo, hi K, value V) {
	if lo > hi {
		panic(fmt.Sprintf("rangeindex: lo (%#v) > hi (%#v)", lo, hi))
	}

	// The tree cannot be modified while iterating over it, so gather the
	// overlapping pieces first.
	overlaps := m.scratch[:0]
	iter := m.tree.Iter()
	for more := iter.Seek(lo); more && iter.Value().Lo <= hi; more = iter.Next() {
		overlaps = append(overlaps, iter.Value())
	}
	m.scratch = overlaps[:0]

	if len(overlaps) == 0 {
		m.tree.Set(hi, &Range[K, []V]{Lo: lo, Hi: hi, Value: []V{value}})
		return
	}

	// Pieces are keyed by Hi, so shrinking a piece by raising its Lo keeps
	// its key valid. Every new piece added below gets its own key.
	//
	// Values are clipped before appending, since a split piece shares its
	// backing array with the piece it came from.
	var added []*Range[K, []V]
	next := lo // The least point of [lo, hi] not yet accounted for.
	covered := false
	for _, piece := range overlaps {
		if next < piece.Lo {
			added = append(added, &Range[K, []V]{Lo: next, Hi: piece.Lo - 1, Value: []V{value}})
		}
		if piece.Lo < lo {
			added = append(added, &Range[K, []V]{Lo: piece.Lo, Hi: lo - 1, Value: piece.Value})
			piece.Lo = lo
		}

		if hi < piece.Hi {
			added = append(added, &Range[K, []V]{Lo: piece.Lo, Hi: hi, Value: append(slices.Clip(piece.Value), value)})
			piece.Lo = hi + 1
			covered = true
			break
		}

		piece.Value = append(slices.Clip(piece.Value), value)
		if piece.Hi == hi {
			covered = true
			break
		}
		next = piece.Hi + 1
	}
	if !covered {
		added = append(added, &Range[K, []V]{Lo: next, Hi: hi, Value: []V{value}})
	}

	for _, piece := range added {
		m.tree.Set(piece.Hi, piece)
	}
}
