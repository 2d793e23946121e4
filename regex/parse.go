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

package regex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bufbuild/lexcompile/interval"
)

// ErrSyntax is wrapped by every error returned by [Parse].
var ErrSyntax = errors.New("invalid regular expression")

// SyntaxError describes a problem with the text of a regular expression.
type SyntaxError struct {
	// Offset is the byte offset into the text where the problem was found.
	Offset int
	Msg    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("regex: syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Unwrap returns [ErrSyntax].
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// maxRepeat bounds the counts of {n,m} repetitions, since each repetition
// is expanded into a copy of its operand.
const maxRepeat = 1000

// Parse parses a regular expression.
//
// The syntax is a subset of the usual one:
//
//   - Literal runes match themselves. The metacharacters \ . [ ] ( ) | * + ? {
//     must be escaped with a backslash to match literally; any other ASCII
//     punctuation may be.
//   - . matches any rune except a newline.
//   - [abc], [a-z] and [^a-z] are character classes.
//   - \n, \t, \r, \f, \v and \0 match control characters, \xHH and \u{H...}
//     match a rune by its hex code point, and \d, \w and \s (or their
//     negations \D, \W and \S) match ASCII digits, word characters and
//     whitespace. These work both inside and outside of classes.
//   - Parentheses group, | separates alternatives, and *, +, ?, {n}, {n,}
//     and {n,m} repeat the preceding item.
//
// There are no anchors, captures or flags. Errors are of type *[SyntaxError].
func Parse(text string) (Node, error) {
	p := parser{text: text}
	n, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.text) {
		// parseAlt only stops early at a closing paren.
		return nil, p.errorf(p.pos, "unmatched ')'")
	}
	return n, nil
}

// MustParse is like [Parse], but panics on error. It is meant for patterns
// known to be valid, such as [Presets].
func MustParse(text string) Node {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

// Escape returns a regular expression matching exactly text.
func Escape(text string) string {
	var out strings.Builder
	for _, r := range text {
		out.WriteString(escapeRune(r, false))
	}
	return out.String()
}

func escapeRune(r rune, inClass bool) string {
	switch r {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\f':
		return `\f`
	case '\v':
		return `\v`
	}

	var special string
	if inClass {
		special = `\[]-^`
	} else {
		special = `\.[]()|*+?{}`
	}
	switch {
	case strings.ContainsRune(special, r):
		return `\` + string(r)
	case !unicode.IsPrint(r) && r < 0x100:
		return fmt.Sprintf(`\x%02x`, r)
	case !unicode.IsPrint(r):
		return fmt.Sprintf(`\u{%x}`, r)
	default:
		return string(r)
	}
}

var (
	digitSet = interval.NewSet(interval.Closed('0', '9'))
	wordSet  = interval.NewSet(
		interval.Closed('0', '9'),
		interval.Closed('A', 'Z'),
		interval.Singleton('_'),
		interval.Closed('a', 'z'),
	)
	spaceSet = interval.NewSet(
		interval.Closed('\t', '\r'),
		interval.Singleton(' '),
	)
)

// dotSet returns the set matched by '.'.
func dotSet() *interval.Set[rune] {
	set := AnyRune()
	set.RemoveValue('\n')
	return set
}

// negate returns the valid runes not in set.
func negate(set *interval.Set[rune]) *interval.Set[rune] {
	out := set.Clone()
	out.Complement()
	out.IntersectWith(AnyRune().All())
	return out
}

type parser struct {
	text string
	pos  int
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) more() bool {
	return p.pos < len(p.text)
}

// peek returns the next rune without consuming it.
func (p *parser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.text[p.pos:])
	return r
}

// next consumes and returns the next rune.
func (p *parser) next() (rune, error) {
	if !p.more() {
		return 0, p.errorf(p.pos, "unexpected end of pattern")
	}
	r, size := utf8.DecodeRuneInString(p.text[p.pos:])
	if r == utf8.RuneError && size == 1 {
		return 0, p.errorf(p.pos, "invalid UTF-8")
	}
	p.pos += size
	return r, nil
}

func (p *parser) parseAlt() (Node, error) {
	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	alt := Alt{first}
	for p.more() && p.peek() == '|' {
		p.pos++
		n, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		alt = append(alt, n)
	}
	if len(alt) == 1 {
		return first, nil
	}
	return alt, nil
}

func (p *parser) parseSeq() (Node, error) {
	var seq Seq
	for p.more() {
		if r := p.peek(); r == '|' || r == ')' {
			break
		}
		n, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		seq = append(seq, n)
	}
	switch len(seq) {
	case 0:
		return Empty{}, nil
	case 1:
		return seq[0], nil
	default:
		return seq, nil
	}
}

func (p *parser) parseRepeat() (Node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.more() {
		switch p.peek() {
		case '*':
			n = Star{n}
		case '+':
			n = Plus{n}
		case '?':
			n = Option{n}
		case '{':
			lo, hi, err := p.parseCount()
			if err != nil {
				return nil, err
			}
			n = Repeat{Node: n, Min: lo, Max: hi}
			continue
		default:
			return n, nil
		}
		p.pos++
	}
	return n, nil
}

// parseCount parses {n}, {n,} or {n,m}.
func (p *parser) parseCount() (lo, hi int, err error) {
	start := p.pos
	p.pos++ // {

	lo, ok := p.parseInt()
	if !ok {
		return 0, 0, p.errorf(start, "malformed repetition count")
	}
	hi = lo
	if p.more() && p.peek() == ',' {
		p.pos++
		hi = -1
		if p.more() && p.peek() != '}' {
			if hi, ok = p.parseInt(); !ok {
				return 0, 0, p.errorf(start, "malformed repetition count")
			}
		}
	}
	if !p.more() || p.peek() != '}' {
		return 0, 0, p.errorf(start, "malformed repetition count")
	}
	p.pos++

	switch {
	case lo > maxRepeat || hi > maxRepeat:
		return 0, 0, p.errorf(start, "repetition count exceeds %d", maxRepeat)
	case hi >= 0 && hi < lo:
		return 0, 0, p.errorf(start, "repetition maximum %d is less than minimum %d", hi, lo)
	}
	return lo, hi, nil
}

func (p *parser) parseInt() (int, bool) {
	start := p.pos
	for p.more() && p.text[p.pos] >= '0' && p.text[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, false
	}
	v, err := strconv.Atoi(p.text[start:p.pos])
	return v, err == nil
}

func (p *parser) parseAtom() (Node, error) {
	start := p.pos
	r, err := p.next()
	if err != nil {
		return nil, err
	}
	switch r {
	case '(':
		n, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if !p.more() || p.peek() != ')' {
			return nil, p.errorf(start, "missing ')'")
		}
		p.pos++
		return n, nil
	case '[':
		set, err := p.parseClass(start)
		if err != nil {
			return nil, err
		}
		return Chars{set}, nil
	case '.':
		return Chars{dotSet()}, nil
	case '\\':
		r, set, err := p.parseEscape(start)
		if err != nil {
			return nil, err
		}
		if set != nil {
			return Chars{set}, nil
		}
		return Char(r), nil
	case '*', '+', '?', '{':
		return nil, p.errorf(start, "missing operand for %q", r)
	default:
		return Char(r), nil
	}
}

// parseClass parses the rest of a character class, after its opening
// bracket at start.
func (p *parser) parseClass(start int) (*interval.Set[rune], error) {
	set := new(interval.Set[rune])
	negated := p.more() && p.peek() == '^'
	if negated {
		p.pos++
	}

	for {
		if !p.more() {
			return nil, p.errorf(start, "missing ']'")
		}
		if p.peek() == ']' {
			p.pos++
			break
		}

		itemStart := p.pos
		lo, class, err := p.parseClassRune()
		if err != nil {
			return nil, err
		}
		if class != nil {
			set.UnionWith(class.All())
			continue
		}

		// A '-' is a range unless it comes last.
		if p.pos+1 < len(p.text) && p.text[p.pos] == '-' && p.text[p.pos+1] != ']' {
			p.pos++
			hi, class, err := p.parseClassRune()
			if err != nil {
				return nil, err
			}
			if class != nil {
				return nil, p.errorf(itemStart, "invalid range endpoint")
			}
			if hi < lo {
				return nil, p.errorf(itemStart, "invalid range %s-%s", escapeRune(lo, true), escapeRune(hi, true))
			}
			set.Add(interval.Closed(lo, hi))
			continue
		}
		set.AddValue(lo)
	}

	if negated {
		set = negate(set)
	}
	return set, nil
}

func (p *parser) parseClassRune() (rune, *interval.Set[rune], error) {
	start := p.pos
	r, err := p.next()
	if err != nil {
		return 0, nil, err
	}
	if r == '\\' {
		return p.parseEscape(start)
	}
	return r, nil, nil
}

// parseEscape parses the rest of an escape sequence, after its backslash at
// start. It returns either a single rune, or a non-nil set for the class
// escapes.
func (p *parser) parseEscape(start int) (rune, *interval.Set[rune], error) {
	r, err := p.next()
	if err != nil {
		return 0, nil, p.errorf(start, "trailing backslash")
	}
	switch r {
	case 'n':
		return '\n', nil, nil
	case 't':
		return '\t', nil, nil
	case 'r':
		return '\r', nil, nil
	case 'f':
		return '\f', nil, nil
	case 'v':
		return '\v', nil, nil
	case '0':
		return 0, nil, nil
	case 'd':
		return 0, digitSet.Clone(), nil
	case 'D':
		return 0, negate(digitSet), nil
	case 'w':
		return 0, wordSet.Clone(), nil
	case 'W':
		return 0, negate(wordSet), nil
	case 's':
		return 0, spaceSet.Clone(), nil
	case 'S':
		return 0, negate(spaceSet), nil

	case 'x':
		if p.pos+2 > len(p.text) {
			return 0, nil, p.errorf(start, `\x needs two hex digits`)
		}
		v, err := strconv.ParseUint(p.text[p.pos:p.pos+2], 16, 8)
		if err != nil {
			return 0, nil, p.errorf(start, `\x needs two hex digits`)
		}
		p.pos += 2
		return rune(v), nil, nil

	case 'u':
		if !p.more() || p.peek() != '{' {
			return 0, nil, p.errorf(start, `\u must be followed by {hex digits}`)
		}
		end := strings.IndexByte(p.text[p.pos:], '}')
		if end < 0 {
			return 0, nil, p.errorf(start, `missing '}' in \u escape`)
		}
		digits := p.text[p.pos+1 : p.pos+end]
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || len(digits) > 6 {
			return 0, nil, p.errorf(start, `invalid code point \u{%s}`, digits)
		}
		if v > unicode.MaxRune || (v >= 0xd800 && v <= 0xdfff) {
			return 0, nil, p.errorf(start, `code point \u{%s} is not a valid rune`, digits)
		}
		p.pos += end + 1
		return rune(v), nil, nil
	}

	if r < utf8.RuneSelf && unicode.IsPrint(r) && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return r, nil, nil
	}
	return 0, nil, p.errorf(start, "invalid escape %q", `\`+string(r))
}
