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
	"errors"
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lexcompile/interval"
)

func parse(t *testing.T, text string) interval.Interval[int] {
	t.Helper()
	iv, err := interval.ParseInt(text)
	require.NoError(t, err, "parsing %q", text)
	return iv
}

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		iv   interval.Interval[int]
		want string
	}{
		{interval.Full[int](), "(-∞; +∞)"},
		{interval.Open(-12, 56), "(-12; 56)"},
		{interval.HalfOpen(-12, 56), "[-12; 56)"},
		{interval.New(interval.LowerExclusive(-12), interval.UpperInclusive(56)), "(-12; 56]"},
		{interval.Closed(-12, 56), "[-12; 56]"},
		{interval.New(interval.LowerUnbounded[int](), interval.UpperInclusive(56)), "(-∞; 56]"},
		{interval.New(interval.LowerInclusive(-12), interval.UpperUnbounded[int]()), "[-12; +∞)"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, test.iv.String())
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want interval.Interval[int]
	}{
		{"(-oo; +oo)", interval.Full[int]()},
		{"(-infty;∞)", interval.Full[int]()},
		{"(-infty; + infinity)", interval.Full[int]()},
		{"(-;)", interval.Full[int]()},
		{"]-infty;∞[", interval.Full[int]()},
		{"[-∞; +∞]", interval.Full[int]()},
		{"(-12; 56)", interval.Open(-12, 56)},
		{"[-12; 56)", interval.HalfOpen(-12, 56)},
		{"(-12; 56]", interval.New(interval.LowerExclusive(-12), interval.UpperInclusive(56))},
		{"[-12; 56]", interval.Closed(-12, 56)},
		{"[-12; oo)", interval.New(interval.LowerInclusive(-12), interval.UpperUnbounded[int]())},
		{"(-oo; 56]", interval.New(interval.LowerUnbounded[int](), interval.UpperInclusive(56))},
		{"]-12; 56[", interval.Open(-12, 56)},
		{"[-12; 56[", interval.HalfOpen(-12, 56)},
		{"]-12; 56]", interval.New(interval.LowerExclusive(-12), interval.UpperInclusive(56))},
		{"  [ 1 ; 2 ]  ", interval.Closed(1, 2)},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()

			got, err := interval.ParseInt(test.text)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)

			got, ok := interval.TryParse(test.text, strconv.Atoi)
			assert.True(t, ok)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"",
		"[",
		"1; 2",
		"{1; 2}",
		"[1, 2]",
		"[1; 2; 3]",
		"[x; 2]",
		"[1; y]",
		"(+oo; 5)",
		"(5; -oo)",
	} {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			got, err := interval.ParseInt(text)
			require.Error(t, err)
			assert.ErrorIs(t, err, interval.ErrInvalidSyntax)
			assert.Equal(t, interval.Interval[int]{}, got)

			var syntax *interval.SyntaxError
			require.True(t, errors.As(err, &syntax))
			assert.Equal(t, text, syntax.Text)

			_, ok := interval.TryParse(text, strconv.Atoi)
			assert.False(t, ok)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		a := randomInterval(r)
		b, err := interval.ParseInt(a.String())
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "%v != %v", a, b)
		if !a.IsEmpty() {
			assert.Equal(t, a.String(), b.String())
		}
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text  string
		value int
		want  bool
	}{
		{"(-oo; +oo)", 0, true},
		{"(-oo; 0)", 0, false},
		{"(-oo; 0]", 0, true},
		{"[0; 0]", 0, true},
		{"(0; 0]", 0, false},
		{"[0; 0)", 0, false},
		{"(0; 0)", 0, false},
		{"[-1; 0)", 0, false},
		{"[-1; 0]", 0, true},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, parse(t, test.text).Contains(test.value))
		})
	}
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"(-oo; +oo)", false},
		{"(-oo; 0)", false},
		{"(-oo; 0]", false},
		{"[0; 0]", false},
		{"(0; 0]", true},
		{"[0; 0)", true},
		{"(0; 0)", true},
		{"[-1; 0)", false},
		{"[-1; 0]", false},
		{"(0; -1)", true},
		{"[0; -1)", true},
		{"(0; -1]", true},
		{"[0; -1]", true},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, parse(t, test.text).IsEmpty())
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"(0; 0)", "(0; 0)", true},
		{"(0; 0)", "(1; 1)", true},
		{"[0; 0)", "(0; 0)", true},
		{"[0; -1]", "(0; 0)", true},
		{"(-oo; +oo)", "(-oo; +oo)", true},
		{"(0; 1)", "(0; 1)", true},
		{"[2; 4)", "[2; 4)", true},
		{"(0; 2)", "(0; 1)", false},
		{"[0; 1)", "[0; 1]", false},
		{"[0; 2]", "(0; 2)", false},
	}

	for _, test := range tests {
		t.Run(test.a+"="+test.b, func(t *testing.T) {
			t.Parallel()
			a, b := parse(t, test.a), parse(t, test.b)
			assert.Equal(t, test.want, a.Equal(b))
			assert.Equal(t, test.want, b.Equal(a))
		})
	}
}

func TestRelation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b                string
		kind                interval.RelationKind
		lower, inter, upper string
	}{
		// Empty intervals.
		{"(0; 0)", "(1; 1)", interval.Equal, "(0; 0)", "(0; 0)", "(0; 0)"},
		{"[0; 0)", "(0; 0)", interval.Equal, "(0; 0)", "(0; 0)", "(0; 0)"},
		{"[0; -1]", "(0; 0)", interval.Equal, "(0; 0)", "(0; 0)", "(0; 0)"},
		{"[1; 4)", "(0; 0)", interval.Disjunct, "[1; 4)", "(0; 0)", "(0; 0)"},

		{"(1; 2)", "[3; 4)", interval.Disjunct, "(1; 2)", "(0; 0)", "[3; 4)"},
		{"(1; 2)", "(2; 4)", interval.Disjunct, "(1; 2)", "(0; 0)", "(2; 4)"},
		{"(1; 2)", "[2; 4)", interval.Touching, "(1; 2)", "(0; 0)", "[2; 4)"},
		{"(1; 2]", "(2; 4)", interval.Touching, "(1; 2]", "(0; 0)", "(2; 4)"},

		{"(1; 3)", "(2; 4)", interval.Overlapping, "(1; 2]", "(2; 3)", "[3; 4)"},
		{"(1; 3]", "(2; 4)", interval.Overlapping, "(1; 2]", "(2; 3]", "(3; 4)"},
		{"(1; 3)", "[2; 4)", interval.Overlapping, "(1; 2)", "[2; 3)", "[3; 4)"},
		{"(1; 3]", "[2; 4)", interval.Overlapping, "(1; 2)", "[2; 3]", "(3; 4)"},

		{"(1; 4)", "(2; 3)", interval.Containing, "(1; 2]", "(2; 3)", "[3; 4)"},
		{"(1; 4)", "[2; 3)", interval.Containing, "(1; 2)", "[2; 3)", "[3; 4)"},
		{"(1; 4)", "(2; 3]", interval.Containing, "(1; 2]", "(2; 3]", "(3; 4)"},
		{"(1; 4)", "[2; 3]", interval.Containing, "(1; 2)", "[2; 3]", "(3; 4)"},
		{"[1; 4]", "(1; 4)", interval.Containing, "[1; 1]", "(1; 4)", "[4; 4]"},

		{"(1; 4)", "(1; 3)", interval.Starting, "(0; 0)", "(1; 3)", "[3; 4)"},
		{"(1; 4)", "(1; 3]", interval.Starting, "(0; 0)", "(1; 3]", "(3; 4)"},

		{"(1; 4)", "(3; 4)", interval.Finishing, "(1; 3]", "(3; 4)", "(0; 0)"},
		{"(1; 4)", "[3; 4)", interval.Finishing, "(1; 3)", "[3; 4)", "(0; 0)"},

		{"(1; 4)", "(1; 4)", interval.Equal, "(0; 0)", "(1; 4)", "(0; 0)"},
		{"[1; 4)", "[1; 4)", interval.Equal, "(0; 0)", "[1; 4)", "(0; 0)"},
		{"(1; 4]", "(1; 4]", interval.Equal, "(0; 0)", "(1; 4]", "(0; 0)"},
		{"[1; 4]", "[1; 4]", interval.Equal, "(0; 0)", "[1; 4]", "(0; 0)"},

		{"[1; 4)", "[5; 7)", interval.Disjunct, "[1; 4)", "(0; 0)", "[5; 7)"},
		{"[1; 4)", "[4; 7)", interval.Touching, "[1; 4)", "(0; 0)", "[4; 7)"},
		{"[4; 8)", "[4; 6)", interval.Starting, "(0; 0)", "[4; 6)", "[6; 8)"},
		{"[6; 8)", "[4; 8)", interval.Finishing, "[4; 6)", "[6; 8)", "(0; 0)"},
		{"[4; 7)", "[2; 10)", interval.Containing, "[2; 4)", "[4; 7)", "[7; 10)"},
		{"[4; 6]", "[6; 8)", interval.Overlapping, "[4; 6)", "[6; 6]", "(6; 8)"},
		{"[2; 7)", "[4; 9)", interval.Overlapping, "[2; 4)", "[4; 7)", "[7; 9)"},

		{"(-oo; 5)", "[3; +oo)", interval.Overlapping, "(-oo; 3)", "[3; 5)", "[5; +oo)"},
		{"(-oo; +oo)", "[3; 4]", interval.Containing, "(-oo; 3)", "[3; 4]", "(4; +oo)"},
	}

	for _, test := range tests {
		t.Run(test.a+" "+test.b, func(t *testing.T) {
			t.Parallel()

			a, b := parse(t, test.a), parse(t, test.b)
			lower, inter, upper := parse(t, test.lower), parse(t, test.inter), parse(t, test.upper)

			for _, rel := range []interval.Relation[int]{a.RelationTo(b), b.RelationTo(a)} {
				assert.Equal(t, test.kind, rel.Kind)
				assert.Equal(t, lower, rel.LowerDisjunct)
				assert.Equal(t, inter, rel.Intersecting)
				assert.Equal(t, upper, rel.UpperDisjunct)
			}
		})
	}
}

func TestRelationReconstructsUnion(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(3, 4))
	for range 500 {
		a, b := randomInterval(r), randomInterval(r)
		rel := a.RelationTo(b)

		union := interval.NewSet(a, b)
		parts := []interval.Interval[int]{rel.LowerDisjunct, rel.Intersecting, rel.UpperDisjunct}
		assert.True(t, union.SetEquals(slices.Values(parts)), "%v %v: %v", a, b, rel)

		// The parts must not overlap each other.
		assert.False(t, rel.LowerDisjunct.Overlaps(rel.Intersecting), "%v %v: %v", a, b, rel)
		assert.False(t, rel.Intersecting.Overlaps(rel.UpperDisjunct), "%v %v: %v", a, b, rel)
		assert.False(t, rel.LowerDisjunct.Overlaps(rel.UpperDisjunct), "%v %v: %v", a, b, rel)

		assert.Equal(t, rel, b.RelationTo(a))
	}
}

// randomInterval returns a random, possibly empty or unbounded, interval with
// small endpoints, so that collisions between endpoints are common.
func randomInterval(r *rand.Rand) interval.Interval[int] {
	kinds := []interval.Kind{interval.Unbounded, interval.Inclusive, interval.Exclusive}
	lower := interval.Lower[int]{Kind: kinds[r.IntN(3)]}
	upper := interval.Upper[int]{Kind: kinds[r.IntN(3)]}
	if lower.Kind != interval.Unbounded {
		lower.Value = r.IntN(10)
	}
	if upper.Kind != interval.Unbounded {
		upper.Value = r.IntN(10)
	}
	return interval.New(lower, upper)
}
