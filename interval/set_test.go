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

package interval_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lexcompile/interval"
)

// parseSet parses a set written as intervals joined by U.
func parseSet(t *testing.T, text string) *interval.Set[int] {
	t.Helper()
	set := new(interval.Set[int])
	if strings.TrimSpace(text) == "" {
		return set
	}
	for _, part := range strings.Split(text, "U") {
		iv := parse(t, part)
		require.True(t, set.Add(iv), "adding %v to %v", iv, set)
	}
	return set
}

func TestSetAdd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		set, add, want string
		changed        bool
	}{
		{"", "[2; 3)", "[2; 3)", true},
		{"", "(0; 0)", "", false},
		{"[5; 7) U [12; 15)", "[2; 3)", "[2; 3) U [5; 7) U [12; 15)", true},
		{"[5; 7) U [12; 15)", "[2; 5)", "[2; 7) U [12; 15)", true},
		{"[5; 7) U [12; 15)", "[9; 11)", "[5; 7) U [9; 11) U [12; 15)", true},
		{"[5; 7) U [12; 15)", "[7; 12)", "[5; 15)", true},
		{"[5; 7) U [12; 15)", "[17; 19)", "[5; 7) U [12; 15) U [17; 19)", true},
		{"[5; 7) U [12; 15)", "[15; 19)", "[5; 7) U [12; 19)", true},
		{"[5; 7) U [12; 15)", "(7; 12)", "[5; 7) U (7; 15)", true},
		{"[5; 7) U [12; 15)", "[5; 7)", "[5; 7) U [12; 15)", false},
		{"[5; 7) U [12; 15)", "[6; 7)", "[5; 7) U [12; 15)", false},
		{"[5; 7) U [12; 15)", "[6; 13)", "[5; 15)", true},
		{"[5; 7) U [12; 15)", "(-oo; 0]", "(-oo; 0] U [5; 7) U [12; 15)", true},
		{"[5; 7) U [12; 15)", "(-oo; +oo)", "(-oo; +oo)", true},
		{"[1; 3) U [5; 7) U [9; 12) U [14; 15)", "[3; 14)", "[1; 15)", true},
	}

	for _, test := range tests {
		t.Run(test.set+" + "+test.add, func(t *testing.T) {
			t.Parallel()

			set := parseSet(t, test.set)
			before := set.Intervals()
			changed := set.Add(parse(t, test.add))

			assert.Equal(t, test.changed, changed)
			assert.Equal(t, parseSet(t, test.want).Intervals(), set.Intervals())
			if !changed {
				assert.Equal(t, before, set.Intervals())
			}
		})
	}
}

func TestSetRemove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		set, remove, want string
		changed           bool
	}{
		{"", "[2; 3)", "", false},
		{"[5; 7)", "[5; 7)", "", true},
		{"[5; 7)", "(0; 0)", "[5; 7)", false},
		{"[1; 3) U [5; 7) U [9; 12) U [14; 15)", "[5; 10)", "[1; 3) U [10; 12) U [14; 15)", true},
		{"[1; 3) U [5; 7) U [9; 12) U [14; 15)", "[6; 12)", "[1; 3) U [5; 6) U [14; 15)", true},
		{"[1; 3) U [5; 7) U [9; 12) U [14; 15)", "[6; 10)", "[1; 3) U [5; 6) U [10; 12) U [14; 15)", true},
		{"[2; 5) U [7; 9)", "[4; 8)", "[2; 4) U [8; 9)", true},
		{"[2; 5) U [7; 9)", "[5; 7)", "[2; 5) U [7; 9)", false},
		{"[3; 9)", "[5; 7)", "[3; 5) U [7; 9)", true},
		{"[5; 9)", "[2; 7)", "[7; 9)", true},
		{"[5; 9)", "[7; 12)", "[5; 7)", true},
		{"(-oo; +oo)", "[0; 0]", "(-oo; 0) U (0; +oo)", true},
	}

	for _, test := range tests {
		t.Run(test.set+" - "+test.remove, func(t *testing.T) {
			t.Parallel()

			set := parseSet(t, test.set)
			assert.Equal(t, test.changed, set.Remove(parse(t, test.remove)))
			assert.Equal(t, parseSet(t, test.want).Intervals(), set.Intervals())
		})
	}
}

func TestSetComplement(t *testing.T) {
	t.Parallel()

	full := parseSet(t, "(-oo; +oo)")
	full.Complement()
	assert.True(t, full.IsEmpty())
	assert.Nil(t, full.Intervals())

	tests := []struct {
		set, want string
	}{
		{"", "(-oo; +oo)"},
		{"(-oo; +oo)", ""},
		{"[1; 3)", "(-oo; 1) U [3; +oo)"},
		{"(-oo; 1) U [3; +oo)", "[1; 3)"},
		{"(-oo; 1) U [3; 5) U [7; +oo)", "[1; 3) U [5; 7)"},
		{"(-oo; 1] U (3; 5]", "(1; 3] U (5; +oo)"},
		{"[1; 3) U (5; +oo)", "(-oo; 1) U [3; 5]"},
		{"[1; 3) U [5; 7]", "(-oo; 1) U [3; 5) U (7; +oo)"},
		{"(-oo; 0]", "(0; +oo)"},
		{"[0; +oo)", "(-oo; 0)"},
	}

	for _, test := range tests {
		t.Run(test.set, func(t *testing.T) {
			t.Parallel()

			set := parseSet(t, test.set)
			set.Complement()
			assert.Equal(t, parseSet(t, test.want).Intervals(), set.Intervals())

			set.Complement()
			assert.Equal(t, parseSet(t, test.set).Intervals(), set.Intervals())
		})
	}
}

func TestSetRelations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b                     string
		subset, proper, superset bool
		overlaps, equal          bool
	}{
		{a: "", b: "", subset: true, superset: true, equal: true},
		{a: "[1; 3)", b: "[0; 5)", subset: true, proper: true, overlaps: true},
		{a: "[0; 5)", b: "[1; 3)", superset: true, overlaps: true},
		{a: "[0; 5)", b: "[0; 2) U [2; 5)", subset: true, superset: true, overlaps: true, equal: true},
		{a: "[0; 2) U [3; 5)", b: "[0; 5)", subset: true, proper: true, overlaps: true},
		{a: "[0; 2)", b: "[2; 4)"},
		{a: "[0; 3)", b: "[2; 4)", overlaps: true},
	}

	for _, test := range tests {
		t.Run(test.a+" ? "+test.b, func(t *testing.T) {
			t.Parallel()

			a, b := parseSet(t, test.a), parseSet(t, test.b)
			assert.Equal(t, test.subset, a.IsSubsetOf(b.All()))
			assert.Equal(t, test.proper, a.IsProperSubsetOf(b.All()))
			assert.Equal(t, test.superset, a.IsSupersetOf(b.All()))
			assert.Equal(t, test.proper, b.IsProperSupersetOf(a.All()))
			assert.Equal(t, test.overlaps, a.OverlapsAny(b.All()))
			assert.Equal(t, test.equal, a.SetEquals(b.All()))
		})
	}
}

func TestSetOperations(t *testing.T) {
	t.Parallel()

	a := parseSet(t, "[0; 10)")
	b := parseSet(t, "[2; 4) U [6; 12)")

	union := a.Clone()
	union.UnionWith(b.All())
	assert.Equal(t, "{[0; 12)}", union.String())

	except := a.Clone()
	except.ExceptWith(b.All())
	assert.Equal(t, "{[0; 2) U [4; 6)}", except.String())

	intersect := a.Clone()
	intersect.IntersectWith(b.All())
	assert.Equal(t, "{[2; 4) U [6; 10)}", intersect.String())

	symmetric := a.Clone()
	symmetric.SymmetricExceptWith(b.All())
	assert.Equal(t, "{[0; 2) U [4; 6) U [10; 12)}", symmetric.String())

	// Operating on a set with itself.
	self := a.Clone()
	self.UnionWith(self.All())
	assert.Equal(t, a.Intervals(), self.Intervals())
	self.SymmetricExceptWith(self.All())
	assert.True(t, self.IsEmpty())
}

func TestSetContains(t *testing.T) {
	t.Parallel()

	set := parseSet(t, "[0; 5) U (7; 9]")
	assert.True(t, set.Contains(parse(t, "[1; 3)")))
	assert.True(t, set.Contains(parse(t, "[0; 5)")))
	assert.True(t, set.Contains(parse(t, "(0; 0)")))
	assert.False(t, set.Contains(parse(t, "[4; 8)")))
	assert.False(t, set.Contains(parse(t, "[7; 9]")))
	assert.True(t, set.ContainsValue(0))
	assert.False(t, set.ContainsValue(5))
	assert.False(t, set.ContainsValue(7))
	assert.True(t, set.ContainsValue(9))
	assert.True(t, set.Overlaps(parse(t, "[4; 8)")))
	assert.False(t, set.Overlaps(parse(t, "[5; 7]")))
}

// TestSetRandom checks a set against a boolean array model, and checks that
// its intervals stay sorted and separated.
func TestSetRandom(t *testing.T) {
	t.Parallel()

	const lo, hi = -2, 12
	r := rand.New(rand.NewPCG(5, 6))
	for range 50 {
		set := new(interval.Set[int])
		var model [hi - lo]bool

		for range 30 {
			iv := randomInterval(r)
			add := r.IntN(3) > 0
			if add {
				set.Add(iv)
			} else {
				set.Remove(iv)
			}
			for v := lo; v < hi; v++ {
				if iv.Contains(v) {
					model[v-lo] = add
				}
			}

			for v := lo; v < hi; v++ {
				require.Equal(t, model[v-lo], set.ContainsValue(v), "%v at %d", set, v)
			}

			ivs := set.Intervals()
			for i := 1; i < len(ivs); i++ {
				require.Negative(t, interval.Compare[int](ivs[i-1].Upper, ivs[i].Lower), "%v", set)
				require.False(t, ivs[i-1].Upper.IsTouching(ivs[i].Lower), "%v", set)
			}
		}
	}
}
