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

// Package lexcompile compiles lexer definitions into lexer tables.
//
// A lexer definition, written in YAML (see package lexspec), lists tokens
// and the regular expressions matching them. Compiling it turns every
// pattern into a fragment of one NFA, determinizes and minimizes that, and
// flattens the result into a table of rune ranges (see package table) that
// a scanner can run directly.
//
// The sub-packages hold the pieces of this pipeline:
//   - interval: bounds, intervals, and sets and maps keyed by them.
//   - automata: NFAs and DFAs, determinization and minimization.
//   - regex: regular expression syntax, and Thompson construction.
//   - table: lexer tables, their encoding, and a scanner.
//   - lexspec: the YAML format for lexer definitions.
//
// # Resolvers
//
// A [Resolver] is how the compiler locates the definitions to compile. It
// can answer with YAML source, an already parsed [lexspec.Spec], or an
// already built [table.Table], in which case nothing further needs to be
// done.
//
// # Compiler
//
// A [Compiler] accepts a list of paths and produces a list of tables. Only
// its Resolver field is required. A minimal Compiler, that loads files from
// the file system relative to the current working directory, can be had
// with the following simple snippet:
//
//	compiler := lexcompile.Compiler{
//	    Resolver: &lexcompile.SourceResolver{},
//	}
//
// This minimal Compiler will use default parallelism, equal to the number
// of CPU cores detected, and will fail fast at the first sign of any error.
// These, along with logging, metrics and caching, can be customized by
// setting other fields.
package lexcompile
