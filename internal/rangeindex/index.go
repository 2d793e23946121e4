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

// Package rangeindex provides b-tree indices over closed ranges of integers,
// such as the rune ranges of a lexer table's transitions.
package rangeindex

import (
	"fmt"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints" //nolint:exptostd // Tries to replace w/ cmp.
)

// Endpoint is a type that may be used as the endpoint of a range.
type Endpoint = constraints.Integer

// Range is a closed range of K along with a value.
type Range[K Endpoint, V any] struct {
	Lo, Hi K // Both inclusive.
	Value  V
}

// Index maps pairwise disjoint ranges to values.
//
// A zero Index is empty and ready to use.
type Index[K Endpoint, V any] struct {
	// Keyed by the Hi of each range.
	tree btree.Map[K, *Range[K, V]]
}

// Get returns the range containing k, if there is one.
func (x *Index[K, V]) Get(k K) (Range[K, V], bool) {
	iter := x.tree.Iter()
	// Seek finds the least range with k <= Hi; it contains k unless it
	// starts after it.
	if !iter.Seek(k) || k < iter.Value().Lo {
		return Range[K, V]{}, false
	}
	return *iter.Value(), true
}

// Insert adds [lo, hi] with the given value.
//
// If [lo, hi] overlaps a range already in the index, nothing is added, and
// this returns the overlapping range with the least Lo and false.
func (x *Index[K, V]) Insert(lo, hi K, value V) (Range[K, V], bool) {
	if lo > hi {
		panic(fmt.Sprintf("rangeindex: lo (%#v) > hi (%#v)", lo, hi))
	}

	// Ranges are disjoint, so the least range ending at or after lo is the
	// only candidate for the first overlap.
	iter := x.tree.Iter()
	if iter.Seek(lo) && iter.Value().Lo <= hi {
		return *iter.Value(), false
	}

	x.tree.Set(hi, &Range[K, V]{Lo: lo, Hi: hi, Value: value})
	return Range[K, V]{}, true
}
