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
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/bufbuild/lexcompile/lexspec"
	"github.com/bufbuild/lexcompile/reporter"
	"github.com/bufbuild/lexcompile/table"
)

// Compiler handles compilation tasks, to turn lexer definitions into lexer
// tables.
//
// The compilation process involves two steps for each definition:
//  1. Parsing the YAML source into a [lexspec.Spec], which also parses every
//     regular expression in it.
//  2. Building a [table.Table] from its tokens, by way of a minimal DFA.
type Compiler struct {
	// Resolves paths into lexer definitions. This is how the compiler loads
	// the files to be compiled. This field is the only required field.
	Resolver Resolver
	// The maximum parallelism to use when compiling. If unspecified or set to
	// a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default reporter
	// is used. A default reporter fails the compilation after encountering any
	// errors and ignores all warnings. Files are compiled concurrently, so
	// the reporter must be safe for concurrent use.
	Reporter reporter.Reporter
	// Receives debug records about each file compiled. If nil, nothing is
	// logged.
	Logger *slog.Logger
	// If set, records metrics about each file compiled.
	Metrics *Metrics
	// If set, tables built from source are cached and reused when the same
	// source is compiled again.
	Cache *Cache
}

// Result is a compiled lexer definition.
type Result struct {
	Path string
	// Spec is the parsed definition. It is nil if the resolver supplied a
	// table.
	Spec  *lexspec.Spec
	Table *table.Table
}

// Compile compiles the given paths into lexer tables. The compiler's
// resolver is used to locate each definition. The results are in the same
// order as files, and the first error in that order is returned.
func (c *Compiler) Compile(ctx context.Context, files ...string) ([]*Result, error) {
	if len(files) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := c.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := executor{
		c:       c,
		logger:  logger,
		s:       semaphore.NewWeighted(int64(par)),
		results: map[string]*result{},
	}

	results := make([]*result, len(files))
	for i, f := range files {
		results[i] = e.compile(ctx, f)
	}

	out := make([]*Result, len(files))
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
		if r.err != nil {
			return nil, r.err
		}
		out[i] = r.res
	}
	return out, nil
}

type result struct {
	ready chan struct{}
	res   *Result
	err   error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(res *Result) {
	r.res = res
	close(r.ready)
}

type executor struct {
	c      *Compiler
	logger *slog.Logger
	s      *semaphore.Weighted

	mu      sync.Mutex
	results map[string]*result
}

func (e *executor) compile(ctx context.Context, file string) *result {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.results[file]
	if r != nil {
		return r
	}

	r = &result{
		ready: make(chan struct{}),
	}
	e.results[file] = r
	go func() {
		e.doCompile(ctx, file, r)
	}()
	return r
}

func (e *executor) doCompile(ctx context.Context, file string, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	start := time.Now()
	res, cached, err := e.build(ctx, file)
	took := time.Since(start)
	if err != nil {
		e.c.Metrics.observe(resultError, 0, took)
		e.logger.DebugContext(ctx, "compile failed", slog.String("file", file), slog.Any("error", err))
		r.fail(err)
		return
	}

	label := resultOK
	if cached {
		label = resultCached
	}
	e.c.Metrics.observe(label, len(res.Table.States), took)
	e.logger.DebugContext(ctx, "compiled",
		slog.String("file", file),
		slog.Int("states", len(res.Table.States)),
		slog.Bool("cached", cached),
		slog.Duration("took", took),
	)
	r.complete(res)
}

func (e *executor) build(ctx context.Context, file string) (res *Result, cached bool, err error) {
	sr, err := e.c.Resolver.FindFileByPath(file)
	if err != nil {
		return nil, false, err
	}
	if c, ok := sr.Source.(io.Closer); ok {
		// if results included a source, don't leave it open
		defer func() { _ = c.Close() }()
	}

	if sr.Table != nil {
		if err := sr.Table.Validate(); err != nil {
			return nil, false, fmt.Errorf("%s: %w", file, err)
		}
		return &Result{Path: file, Table: sr.Table}, false, nil
	}

	spec := sr.Spec
	var src []byte
	if spec == nil {
		if sr.Source == nil {
			return nil, false, fmt.Errorf("resolver returned nothing for %q", file)
		}
		if src, err = io.ReadAll(sr.Source); err != nil {
			return nil, false, err
		}
		spec, err = lexspec.Parse(file, bytes.NewReader(src), reporter.NewHandler(e.c.Reporter))
		if err != nil {
			return nil, false, err
		}
	}

	if src != nil && e.c.Cache != nil {
		if t, ok := e.c.Cache.Get(src); ok {
			return &Result{Path: file, Spec: spec, Table: t}, true, nil
		}
	}

	opts := spec.Options()
	opts.Logger = e.logger.With(slog.String("file", file))
	t, err := table.Build(ctx, spec.Tokens(), opts)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", file, err)
	}
	if src != nil && e.c.Cache != nil {
		e.c.Cache.Add(src, t)
	}
	return &Result{Path: file, Spec: spec, Table: t}, false, nil
}
