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

// RelationKind classifies how two intervals are positioned relative to each
// other.
type RelationKind int8

const (
	// Disjunct intervals share no values and have a gap between them.
	Disjunct RelationKind = iota
	// Touching intervals share no values, and have no gap between them.
	Touching
	// Overlapping intervals share some values; each has values the other
	// lacks on opposite sides.
	Overlapping
	// Containing intervals are where one interval contains the other
	// entirely, with values left over on both sides.
	Containing
	// Starting intervals have the same lower bound but different upper
	// bounds.
	Starting
	// Finishing intervals have the same upper bound but different lower
	// bounds.
	Finishing
	// Equal intervals contain the same values.
	Equal
)

// String implements [fmt.Stringer].
func (k RelationKind) String() string {
	switch k {
	case Disjunct:
		return "Disjunct"
	case Touching:
		return "Touching"
	case Overlapping:
		return "Overlapping"
	case Containing:
		return "Containing"
	case Starting:
		return "Starting"
	case Finishing:
		return "Finishing"
	case Equal:
		return "Equal"
	default:
		return fmt.Sprintf("RelationKind(%d)", int8(k))
	}
}

// Relation is the result of [Interval.RelationTo].
//
// The union of two intervals is split into three disjoint parts, in order:
// values only in the lower of the two, values in both, and values only in
// the upper of the two. Parts which do not exist for the relation's kind are
// the canonical empty interval. For Disjunct and Touching, the intervals are
// the LowerDisjunct and UpperDisjunct parts themselves.
type Relation[T cmp.Ordered] struct {
	Kind RelationKind

	LowerDisjunct Interval[T]
	Intersecting  Interval[T]
	UpperDisjunct Interval[T]
}

// String implements [fmt.Stringer].
func (r Relation[T]) String() string {
	return fmt.Sprintf("%v{%v, %v, %v}", r.Kind, r.LowerDisjunct, r.Intersecting, r.UpperDisjunct)
}

// RelationTo classifies the relation between i and that.
//
// The result is symmetric: i.RelationTo(that) and that.RelationTo(i) are the
// same relation.
//
// Two empty intervals are Equal. If only one of them is empty, they are
// Disjunct, and the non-empty one is the LowerDisjunct part.
func (i Interval[T]) RelationTo(that Interval[T]) Relation[T] {
	empty := Empty[T]()
	rel := Relation[T]{LowerDisjunct: empty, Intersecting: empty, UpperDisjunct: empty}

	ie, te := i.IsEmpty(), that.IsEmpty()
	switch {
	case ie && te:
		rel.Kind = Equal
		return rel
	case ie:
		rel.Kind = Disjunct
		rel.LowerDisjunct = that.normalize()
		return rel
	case te:
		rel.Kind = Disjunct
		rel.LowerDisjunct = i.normalize()
		return rel
	}

	lowers := i.Lower.Compare(that.Lower)
	uppers := i.Upper.Compare(that.Upper)

	switch {
	case lowers == 0 && uppers == 0:
		rel.Kind = Equal
		rel.Intersecting = i.normalize()

	case lowers == 0:
		short := minUpper(i.Upper, that.Upper)
		rel.Kind = Starting
		rel.Intersecting = between(i.Lower, short)
		rel.UpperDisjunct = between(short.mustTouch(), maxUpper(i.Upper, that.Upper))

	case uppers == 0:
		late := maxLower(i.Lower, that.Lower)
		rel.Kind = Finishing
		rel.LowerDisjunct = between(minLower(i.Lower, that.Lower), late.mustTouch())
		rel.Intersecting = between(late, i.Upper)

	default:
		first, second := i, that
		if lowers > 0 {
			first, second = that, i
		}

		switch {
		case Compare[T](first.Upper, second.Lower) < 0:
			rel.Kind = Disjunct
			if first.Upper.IsTouching(second.Lower) {
				rel.Kind = Touching
			}
			rel.LowerDisjunct = first.normalize()
			rel.UpperDisjunct = second.normalize()

		case first.Upper.Compare(second.Upper) > 0:
			rel.Kind = Containing
			rel.LowerDisjunct = between(first.Lower, second.Lower.mustTouch())
			rel.Intersecting = second.normalize()
			rel.UpperDisjunct = between(second.Upper.mustTouch(), first.Upper)

		default:
			rel.Kind = Overlapping
			rel.LowerDisjunct = between(first.Lower, second.Lower.mustTouch())
			rel.Intersecting = between(second.Lower, first.Upper)
			rel.UpperDisjunct = between(first.Upper.mustTouch(), second.Upper)
		}
	}

	return rel
}
