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

package lexcompile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lexcompile/regex"
	"github.com/bufbuild/lexcompile/table"
)

const calcSpec = `name: calc
tokens:
  - {name: eof, end: true}
  - {name: bad, error: true}
  - {name: num, preset: int}
  - {name: plus, text: "+"}
  - {name: ws, regex: " +", ignore: true}
`

const wordSpec = `name: words
tokens:
  - {name: end, end: true}
  - {name: error, error: true}
  - {name: word, preset: identifier}
  - {name: nl, text: "\n"}
`

func scan(t *table.Table, src string) []string {
	var tokens []string
	for lex := range t.Scan(src) {
		tokens = append(tokens, lex.Token+":"+lex.Text)
	}
	return tokens
}

func TestCompile(t *testing.T) {
	t.Parallel()

	comp := Compiler{
		Resolver: &SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{
			"calc.yaml":  calcSpec,
			"words.yaml": wordSpec,
		})},
	}
	results, err := comp.Compile(context.Background(), "words.yaml", "calc.yaml", "words.yaml")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Same(t, results[0], results[2])

	calc := results[1]
	assert.Equal(t, "calc.yaml", calc.Path)
	assert.Equal(t, "calc", calc.Spec.Name)
	assert.Len(t, calc.Table.States, 4)
	assert.Equal(t, []string{"num:1", "plus:+", "num:22", "bad:-", "eof:"}, scan(calc.Table, "1 + 22-"))
	assert.Equal(t, []string{"word:a", "nl:\n", "word:b", "end:"}, scan(results[0].Table, "a\nb"))
}

func TestCompileCache(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(4)
	require.NoError(t, err)
	metrics := NewMetrics(prometheus.NewRegistry())
	comp := Compiler{
		Resolver: &SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{
			"a.yaml": calcSpec,
			"b.yaml": calcSpec,
		})},
		Cache:   cache,
		Metrics: metrics,
	}

	ctx := context.Background()
	a, err := comp.Compile(ctx, "a.yaml")
	require.NoError(t, err)
	b, err := comp.Compile(ctx, "b.yaml")
	require.NoError(t, err)
	assert.Same(t, a[0].Table, b[0].Table)
	assert.Equal(t, "b.yaml", b[0].Spec.Filename)
	assert.Equal(t, 1, cache.Len())

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.compiled.WithLabelValues(resultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.compiled.WithLabelValues(resultCached)), 0)
	assert.InDelta(t, 8, testutil.ToFloat64(metrics.states), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))

	_, err = comp.Compile(ctx, "c.yaml")
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.compiled.WithLabelValues(resultError)), 0)
}

func TestCompilePrebuilt(t *testing.T) {
	t.Parallel()

	tbl, err := table.Build(context.Background(), []table.Token{{Name: "x", Regex: regex.Char('x')}}, table.Options{})
	require.NoError(t, err)
	invalid := &table.Table{Initial: 5}

	comp := Compiler{
		Resolver: CompositeResolver{
			ResolverFunc(func(path string) (SearchResult, error) {
				switch path {
				case "built":
					return SearchResult{Table: tbl}, nil
				case "invalid":
					return SearchResult{Table: invalid}, nil
				}
				return SearchResult{}, ErrNotFound
			}),
			&SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{"calc.yaml": calcSpec})},
		},
	}
	ctx := context.Background()
	results, err := comp.Compile(ctx, "built", "calc.yaml")
	require.NoError(t, err)
	assert.Same(t, tbl, results[0].Table)
	assert.Nil(t, results[0].Spec)
	assert.NotNil(t, results[1].Spec)

	_, err = comp.Compile(ctx, "invalid")
	require.ErrorIs(t, err, table.ErrInvalidTable)
	assert.ErrorContains(t, err, "invalid: ")

	_, err = comp.Compile(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = (&Compiler{Resolver: CompositeResolver{}}).Compile(ctx, "x")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = (&Compiler{Resolver: ResolverFunc(func(string) (SearchResult, error) {
		return SearchResult{}, nil
	})}).Compile(ctx, "x")
	assert.ErrorContains(t, err, `resolver returned nothing for "x"`)

	results, err = comp.Compile(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCompileCancelled(t *testing.T) {
	t.Parallel()

	errStop := errors.New("stop")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(errStop)

	comp := Compiler{
		Resolver: &SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{"calc.yaml": calcSpec})},
	}
	_, err := comp.Compile(ctx, "calc.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStop) || errors.Is(err, context.Canceled), "%v", err)
}

func TestCompileLogs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	comp := Compiler{
		Resolver: &SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{"calc.yaml": calcSpec})},
		Logger:   slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	_, err := comp.Compile(context.Background(), "calc.yaml", "nope.yaml")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=compiled file=calc.yaml states=4 cached=false")
	assert.Contains(t, out, "msg=minimized file=calc.yaml")
	assert.Contains(t, out, `msg="compile failed" file=nope.yaml`)
}

func TestSourceResolver(t *testing.T) {
	t.Parallel()

	resolver := &SourceResolver{
		ImportPaths: []string{"x", "y"},
		Accessor:    SourceAccessorFromMap(map[string]string{"y/a.yaml": calcSpec}),
	}
	res, err := resolver.FindFileByPath("a.yaml")
	require.NoError(t, err)
	assert.NotNil(t, res.Source)

	_, err = resolver.FindFileByPath("b.yaml")
	require.ErrorIs(t, err, fs.ErrNotExist)

	failing := &SourceResolver{
		ImportPaths: []string{"x", "y"},
		Accessor: func(string) (io.ReadCloser, error) {
			return nil, fs.ErrPermission
		},
	}
	_, err = failing.FindFileByPath("a.yaml")
	require.ErrorIs(t, err, fs.ErrPermission)
}
