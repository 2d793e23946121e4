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

// Package lexspec reads lexer definitions written in YAML.
//
// A definition names the lexer's tokens, in order of precedence:
//
//	name: calc
//	tokens:
//	  - name: eof
//	    end: true
//	  - name: unknown
//	    error: true
//	  - name: number
//	    preset: int
//	  - name: plus
//	    text: "+"
//	  - name: ws
//	    regex: '[ \t]+'
//	    ignore: true
//
// Each token has any number of patterns, given as regular expressions
// (regex), literal text (text), or names of [regex.Presets] (preset). Each
// of these may be a string or a list of strings. Exactly one token must be
// marked end, and exactly one error; these have no patterns.
package lexspec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/bufbuild/lexcompile/regex"
	"github.com/bufbuild/lexcompile/reporter"
	"github.com/bufbuild/lexcompile/table"
)

// Spec is a parsed lexer definition.
type Spec struct {
	Filename string
	Name     string

	// End and Error are the names of the end and error tokens.
	End, Error string

	// Rules are listed in order of precedence.
	Rules []Rule
}

// Rule is a single pattern of a token.
type Rule struct {
	Token string
	// Pattern is the regular expression for this rule, with literal text
	// escaped and presets expanded.
	Pattern string
	Regex   regex.Node
	Ignore  bool
	Pos     reporter.Pos
}

// Tokens returns the tokens of this lexer, for [table.Build].
func (s *Spec) Tokens() []table.Token {
	tokens := make([]table.Token, len(s.Rules))
	for i, rule := range s.Rules {
		tokens[i] = table.Token{Name: rule.Token, Regex: rule.Regex, Ignore: rule.Ignore}
	}
	return tokens
}

// Options returns the options for [table.Build] which this lexer needs.
func (s *Spec) Options() table.Options {
	return table.Options{End: s.End, Error: s.Error}
}

type file struct {
	Name   yaml.Node    `yaml:"name"`
	Tokens []tokenEntry `yaml:"tokens"`
}

type tokenEntry struct {
	Name   yaml.Node `yaml:"name"`
	Regex  yaml.Node `yaml:"regex"`
	Text   yaml.Node `yaml:"text"`
	Preset yaml.Node `yaml:"preset"`
	Ignore yaml.Node `yaml:"ignore"`
	End    yaml.Node `yaml:"end"`
	Error  yaml.Node `yaml:"error"`
}

// Parse reads a lexer definition from r. Errors and warnings are reported
// to h, and if h decides to stop, Parse returns its error.
func Parse(filename string, r io.Reader, h *reporter.Handler) (*Spec, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &parser{
		h:     h,
		lines: newLineIndex(src),
		spec:  &Spec{Filename: filename},
	}

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("lexer definition is empty")
		}
		if err := h.HandleError(reporter.Error(reporter.Pos{Filename: filename}, err)); err != nil {
			return nil, err
		}
		return nil, h.Error()
	}

	if err := p.parse(&f); err != nil {
		return nil, err
	}
	if err := h.Error(); err != nil {
		return nil, err
	}
	return p.spec, nil
}

type parser struct {
	h     *reporter.Handler
	lines lineIndex
	spec  *Spec

	endNode, errorNode *yaml.Node
}

func (p *parser) parse(f *file) error {
	if f.Name.Kind != 0 {
		name, err := p.str(&f.Name)
		if err != nil {
			return err
		}
		p.spec.Name = name
	}

	for i := range f.Tokens {
		if err := p.token(&f.Tokens[i]); err != nil {
			return err
		}
	}

	for _, kind := range []struct {
		name string
		node *yaml.Node
	}{{"end", p.endNode}, {"error", p.errorNode}} {
		if kind.node == nil {
			if err := p.h.HandleError(reporter.Errorf(reporter.Pos{Filename: p.spec.Filename}, "no %s token defined", kind.name)); err != nil {
				return err
			}
		}
	}
	if p.endNode != nil && p.spec.End == p.spec.Error {
		return p.errorf(p.errorNode, "token %q cannot be both the end and the error token", p.spec.End)
	}

	for _, rule := range p.spec.Rules {
		if rule.Token == p.spec.End || rule.Token == p.spec.Error {
			if err := p.h.HandleErrorf(rule.Pos, "%s token %q may not have patterns", p.special(rule.Token), rule.Token); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) special(name string) string {
	if name == p.spec.End {
		return "end"
	}
	return "error"
}

func (p *parser) token(entry *tokenEntry) error {
	if entry.Name.Kind == 0 {
		return p.errorf(p.first(entry), "token has no name")
	}
	name, err := p.str(&entry.Name)
	if err != nil {
		return err
	}
	if name == "" {
		return p.errorf(&entry.Name, "token name must not be empty")
	}

	var ignore, end, isError bool
	for _, flag := range []struct {
		node  *yaml.Node
		value *bool
	}{{&entry.Ignore, &ignore}, {&entry.End, &end}, {&entry.Error, &isError}} {
		if flag.node.Kind == 0 {
			continue
		}
		if err := flag.node.Decode(flag.value); err != nil {
			return p.errorf(flag.node, "expected true or false")
		}
	}
	if end {
		if err := p.setSpecial(&p.endNode, &p.spec.End, "end", name, &entry.End); err != nil {
			return err
		}
	}
	if isError {
		if err := p.setSpecial(&p.errorNode, &p.spec.Error, "error", name, &entry.Error); err != nil {
			return err
		}
	}

	var patterns int
	for _, kind := range []struct {
		node    *yaml.Node
		compile func(*yaml.Node) (string, regex.Node, error)
	}{
		{&entry.Regex, p.regex},
		{&entry.Text, p.text},
		{&entry.Preset, p.preset},
	} {
		values, err := p.strs(kind.node)
		if err != nil {
			return err
		}
		patterns += len(values)
		for _, value := range values {
			pattern, node, err := kind.compile(value)
			if err != nil {
				return err
			}
			if node == nil {
				continue
			}
			p.spec.Rules = append(p.spec.Rules, Rule{
				Token:   name,
				Pattern: pattern,
				Regex:   node,
				Ignore:  ignore,
				Pos:     p.pos(value),
			})
		}
	}

	if !end && !isError && patterns == 0 {
		p.h.HandleWarningf(p.pos(&entry.Name), "token %q has no patterns and will never be produced", name)
	}
	return nil
}

// setSpecial records that name is the end or error token.
func (p *parser) setSpecial(node **yaml.Node, field *string, kind, name string, at *yaml.Node) error {
	if *node != nil {
		return p.errorf(at, "%s token already defined as %q at %v", kind, *field, p.pos(*node))
	}
	*node, *field = at, name
	return nil
}

func (p *parser) regex(n *yaml.Node) (string, regex.Node, error) {
	node, err := regex.Parse(n.Value)
	if err != nil {
		pos := p.pos(n)
		msg := err.Error()
		var syntax *regex.SyntaxError
		if errors.As(err, &syntax) {
			pos = p.patternPos(n, syntax.Offset)
			msg = syntax.Msg
		}
		return "", nil, p.h.HandleErrorf(pos, "invalid regex %q: %s", n.Value, msg)
	}
	return n.Value, node, nil
}

func (p *parser) text(n *yaml.Node) (string, regex.Node, error) {
	if n.Value == "" {
		return "", nil, p.h.HandleErrorf(p.pos(n), "text must not be empty")
	}
	return regex.Escape(n.Value), regex.Literal(n.Value), nil
}

func (p *parser) preset(n *yaml.Node) (string, regex.Node, error) {
	pattern, ok := regex.Presets[n.Value]
	if !ok {
		names := make([]string, 0, len(regex.Presets))
		for name := range regex.Presets {
			names = append(names, name)
		}
		slices.Sort(names)
		return "", nil, p.h.HandleErrorf(p.pos(n), "unknown preset %q; expected one of %s", n.Value, strings.Join(names, ", "))
	}
	return pattern, regex.MustParse(pattern), nil
}

// str decodes a string scalar.
func (p *parser) str(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", p.errorf(n, "expected a string")
	}
	return n.Value, nil
}

// strs returns the scalars of a string or a list of strings.
func (p *parser) strs(n *yaml.Node) ([]*yaml.Node, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		return []*yaml.Node{n}, nil
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, p.errorf(item, "expected a string")
			}
		}
		return n.Content, nil
	default:
		return nil, p.errorf(n, "expected a string or a list of strings")
	}
}

// first returns the first field of entry that is present.
func (p *parser) first(entry *tokenEntry) *yaml.Node {
	for _, n := range []*yaml.Node{&entry.Regex, &entry.Text, &entry.Preset, &entry.Ignore, &entry.End, &entry.Error} {
		if n.Kind != 0 {
			return n
		}
	}
	return nil
}

// errorf reports an error at n, which may be nil if the position is not
// known.
func (p *parser) errorf(n *yaml.Node, format string, args ...any) error {
	err := p.h.HandleErrorf(p.pos(n), format, args...)
	if err == nil {
		// The handler wants to keep going, but this error leaves nothing
		// sensible to continue with.
		err = p.h.Error()
	}
	return err
}

func (p *parser) pos(n *yaml.Node) reporter.Pos {
	if n == nil || n.Line == 0 {
		return reporter.Pos{Filename: p.spec.Filename}
	}
	return reporter.Pos{
		Filename: p.spec.Filename,
		Line:     n.Line,
		Col:      n.Column,
		Offset:   p.lines.offset(n.Line, n.Column),
	}
}

// patternPos returns the position of the byte at offset in the value of n,
// if the scalar is written such that this can be found.
func (p *parser) patternPos(n *yaml.Node, offset int) reporter.Pos {
	pos := p.pos(n)
	if pos.Line == 0 || offset > len(n.Value) || strings.Contains(n.Value, "\n") {
		return pos
	}

	var quote int
	switch n.Style {
	case 0:
	case yaml.SingleQuotedStyle:
		if strings.Contains(n.Value, "'") {
			return pos
		}
		quote = 1
	case yaml.DoubleQuotedStyle:
		if strings.ContainsAny(n.Value, `\"`) {
			return pos
		}
		quote = 1
	default:
		return pos
	}

	pos.Col += quote + utf8.RuneCountInString(n.Value[:offset])
	pos.Offset = p.lines.offset(pos.Line, pos.Col)
	return pos
}

// lineIndex converts line and column numbers into byte offsets.
type lineIndex struct {
	src    []byte
	starts []int
}

func newLineIndex(src []byte) lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{src: src, starts: starts}
}

// offset returns the offset of a 1-based line and column, where columns
// count runes.
func (l lineIndex) offset(line, col int) int {
	if line < 1 || line > len(l.starts) {
		return 0
	}
	offset := l.starts[line-1]
	for range col - 1 {
		if offset >= len(l.src) || l.src[offset] == '\n' {
			break
		}
		_, size := utf8.DecodeRune(l.src[offset:])
		offset += size
	}
	return offset
}

// String implements [fmt.Stringer].
func (s *Spec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lexer %q (end %q, error %q)", s.Name, s.End, s.Error)
	for _, rule := range s.Rules {
		fmt.Fprintf(&b, "\n  %s: %s", rule.Token, rule.Pattern)
		if rule.Ignore {
			b.WriteString(" (ignored)")
		}
	}
	return b.String()
}
