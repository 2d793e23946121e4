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

// Command lexcompile compiles lexer definitions into lexer tables, and runs
// them.
//
//	lexcompile build [--format text|binary|classes] [--out FILE] SPEC...
//	lexcompile scan --spec SPEC [FILE]
//
// A SPEC may be a glob, such as lexers/**/*.yaml. The binary format is read
// back by scan when SPEC ends in .lextab.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bufbuild/lexcompile"
	"github.com/bufbuild/lexcompile/reporter"
	"github.com/bufbuild/lexcompile/table"
)

// tableExt is the extension of files holding encoded tables.
const tableExt = ".lextab"

type cli struct {
	Verbose     bool   `short:"v" help:"Log debug output to stderr." env:"LEXCOMPILE_VERBOSE"`
	Parallelism int    `help:"Maximum number of definitions compiled at once; 0 uses every CPU." default:"0" env:"LEXCOMPILE_PARALLELISM"`
	CacheSize   int    `help:"Number of built tables to keep for identical definitions." default:"64" env:"LEXCOMPILE_CACHE_SIZE"`
	Metrics     string `help:"Write Prometheus metrics in text format to this file when done." type:"path" env:"LEXCOMPILE_METRICS"`

	Build buildCmd `cmd:"" help:"Compile lexer definitions into tables."`
	Scan  scanCmd  `cmd:"" help:"Print the tokens of a file."`
}

type buildCmd struct {
	Format string   `short:"f" help:"Output format." enum:"text,binary,classes" default:"text"`
	Out    string   `short:"o" help:"Output file; defaults to stdout." type:"path"`
	Specs  []string `arg:"" name:"spec" help:"Lexer definitions, or globs matching them."`
}

type scanCmd struct {
	Spec string `short:"s" required:"" help:"Lexer definition, or a table written by build --format binary."`
	File string `arg:"" optional:"" help:"File to scan; defaults to stdin."`
}

// env is what commands run with.
type env struct {
	ctx      context.Context
	stdin    io.Reader
	stdout   io.Writer
	compiler *lexcompile.Compiler
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "lexcompile:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("lexcompile"),
		kong.Description("Compiles lexer definitions into lexer tables."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if c.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	cache, err := lexcompile.NewCache(max(c.CacheSize, 1))
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()

	var mu sync.Mutex
	warn := func(err reporter.ErrorWithPos) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(stderr, "warning:", err)
	}

	out := bufio.NewWriter(stdout)
	err = kctx.Run(&env{
		ctx:    ctx,
		stdin:  stdin,
		stdout: out,
		compiler: &lexcompile.Compiler{
			Resolver:       resolver{},
			MaxParallelism: c.Parallelism,
			Reporter:       reporter.NewReporter(nil, warn),
			Logger:         logger,
			Metrics:        lexcompile.NewMetrics(registry),
			Cache:          cache,
		},
	})
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	if c.Metrics != "" {
		if metricsErr := prometheus.WriteToTextfile(c.Metrics, registry); err == nil {
			err = metricsErr
		}
	}
	return err
}

// resolver loads paths ending in [tableExt] as encoded tables, and anything
// else as source.
type resolver struct {
	lexcompile.SourceResolver
}

func (r resolver) FindFileByPath(path string) (lexcompile.SearchResult, error) {
	if !strings.HasSuffix(path, tableExt) {
		return r.SourceResolver.FindFileByPath(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return lexcompile.SearchResult{}, err
	}
	t := new(table.Table)
	if err := t.UnmarshalBinary(data); err != nil {
		return lexcompile.SearchResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return lexcompile.SearchResult{Table: t}, nil
}

func (b *buildCmd) Run(e *env) error {
	files, err := expand(b.Specs)
	if err != nil {
		return err
	}
	if b.Format == "binary" && len(files) != 1 {
		return fmt.Errorf("binary output needs exactly one lexer definition, got %d", len(files))
	}
	results, err := e.compiler.Compile(e.ctx, files...)
	if err != nil {
		return err
	}

	if b.Out == "" {
		return b.write(e.stdout, results)
	}
	f, err := os.Create(b.Out)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = b.write(w, results)
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (b *buildCmd) write(w io.Writer, results []*lexcompile.Result) error {
	for i, res := range results {
		switch b.Format {
		case "binary":
			data, err := res.Table.MarshalBinary()
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
		case "classes":
			fmt.Fprintf(w, "# %s\n", res.Path)
			for _, class := range res.Table.Classes() {
				fmt.Fprintf(w, "%d\t%q\t%q\n", class.ID, class.Start, class.End)
			}
		default:
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", res.Path)
			if err := res.Table.Format(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// expand replaces each glob in patterns with the files it matches. Patterns
// matching nothing are kept as-is, so that compiling them reports that they
// do not exist.
func expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		for _, m := range matches {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func (s *scanCmd) Run(e *env) error {
	results, err := e.compiler.Compile(e.ctx, s.Spec)
	if err != nil {
		return err
	}

	var src []byte
	if s.File == "" || s.File == "-" {
		src, err = io.ReadAll(e.stdin)
	} else {
		src, err = os.ReadFile(s.File)
	}
	if err != nil {
		return err
	}

	for lex := range results[0].Table.Scan(string(src)) {
		fmt.Fprintf(e.stdout, "%d:%d\t%s\t%q\n", lex.Pos.Line, lex.Pos.Column, lex.Token, lex.Text)
	}
	return nil
}
