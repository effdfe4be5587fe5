// Copyright 2026 The Centreon Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidPattern is returned when a template cannot be turned into a
// matching expression, typically because a custom type tag is not a valid
// regular expression.
var ErrInvalidPattern = errors.New("invalid route pattern")

// tokenExpr recognizes placeholder tokens in a route template:
//
//	(/|.|)[type:name]?  →  prefix, type, name, optional marker
var tokenExpr = regexp.MustCompile(`(/|\.|)\[([^:\]]*)(?::([^:\]]*))?\](\?|)`)

// matchTypes maps the built-in type tags to the expression they match.
// Any other tag is used verbatim as a regular expression.
var matchTypes = map[string]string{
	"i":  `[0-9]+`,
	"a":  `[0-9A-Za-z]+`,
	"h":  `[0-9A-Fa-f]+`,
	"*":  `.+?`,
	"**": `.+`,
	"":   `[^/.]+`,
}

// Token is a placeholder found in a route template.
type Token struct {
	Prefix   string // "/", "." or ""
	Type     string // type tag, "" for the default segment type
	Name     string // parameter name, "" for unnamed tokens
	Optional bool   // trailing "?" marks the whole token optional
	Raw      string // token text as written, prefix and marker included
}

// Expr returns the regular expression matched by the token's type tag.
func (t Token) Expr() string {
	if expr, ok := matchTypes[t.Type]; ok {
		return expr
	}
	return t.Type
}

// Segment is either a literal run of text or a token.
type Segment struct {
	Literal string
	Token   *Token
}

// Template is a parsed route path.
// Templates are immutable once parsed and safe for concurrent use.
type Template struct {
	path     string
	virtual  bool
	segments []Segment
	tokens   []Token
	re       *regexp.Regexp
	groups   []int // capture group index per token, -1 when unnamed
}

// Parse splits a route path into literal segments and tokens.
// Parsing is purely syntactic and never fails: text that does not form a
// complete token stays literal. Paths starting with "@" are virtual: they
// are tokenised so Build can fill them, but never match a URL.
func Parse(path string) *Template {
	t := &Template{path: path, virtual: strings.HasPrefix(path, "@")}

	last := 0
	for _, m := range tokenExpr.FindAllStringSubmatchIndex(path, -1) {
		if m[0] > last {
			t.segments = append(t.segments, Segment{Literal: path[last:m[0]]})
		}
		tok := Token{
			Prefix:   path[m[2]:m[3]],
			Type:     path[m[4]:m[5]],
			Optional: m[9] > m[8],
			Raw:      path[m[0]:m[1]],
		}
		if m[6] >= 0 {
			tok.Name = path[m[6]:m[7]]
		}
		t.tokens = append(t.tokens, tok)
		t.segments = append(t.segments, Segment{Token: &t.tokens[len(t.tokens)-1]})
		last = m[1]
	}
	if last < len(path) {
		t.segments = append(t.segments, Segment{Literal: path[last:]})
	}

	// Segments point into the tokens slice; re-point after appends settled.
	i := 0
	for s := range t.segments {
		if t.segments[s].Token != nil {
			t.segments[s].Token = &t.tokens[i]
			i++
		}
	}

	return t
}

// Compile parses path and builds its matching expression.
// Virtual templates compile without an expression and never match.
func Compile(path string) (*Template, error) {
	t := Parse(path)
	if t.virtual {
		return t, nil
	}

	var b strings.Builder
	b.WriteByte('^')
	t.groups = make([]int, 0, len(t.tokens))
	for _, seg := range t.segments {
		if seg.Token == nil {
			b.WriteString(regexp.QuoteMeta(seg.Literal))
			continue
		}
		tok := seg.Token
		b.WriteString("(?:")
		b.WriteString(regexp.QuoteMeta(tok.Prefix))
		if tok.Name != "" {
			b.WriteString("(?P<p" + strconv.Itoa(len(t.groups)) + ">")
		} else {
			b.WriteString("(?:")
		}
		b.WriteString(tok.Expr())
		b.WriteString("))")
		if tok.Optional {
			b.WriteByte('?')
		}
		t.groups = append(t.groups, -1)
	}
	b.WriteByte('$')

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, path, err)
	}
	for i, tok := range t.tokens {
		if tok.Name != "" {
			t.groups[i] = re.SubexpIndex("p" + strconv.Itoa(i))
		}
	}
	t.re = re

	return t, nil
}

// MustCompile is like Compile but panics if the template cannot be compiled.
func MustCompile(path string) *Template {
	t, err := Compile(path)
	if err != nil {
		panic(err)
	}
	return t
}

// Path returns the template as written.
func (t *Template) Path() string { return t.path }

// Virtual reports whether the template is an "@" pseudo-route.
func (t *Template) Virtual() bool { return t.virtual }

// Static reports whether the template is a plain literal path.
func (t *Template) Static() bool { return !t.virtual && len(t.tokens) == 0 }

// Tokens returns the placeholder tokens in declaration order.
func (t *Template) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Segments returns the literal and token segments in order.
func (t *Template) Segments() []Segment { return t.segments }

// Expr returns the source of the matching expression, or "" when the
// template was only parsed or is virtual.
func (t *Template) Expr() string {
	if t.re == nil {
		return ""
	}
	return t.re.String()
}

// Match reports whether path matches the template and returns the named
// parameters it captured. Optional tokens absent from the path are not
// reported.
func (t *Template) Match(path string) (Params, bool) {
	if t.virtual {
		return nil, false
	}
	if t.re == nil {
		return nil, t.path == path
	}
	if len(t.tokens) == 0 {
		return nil, t.path == path
	}

	m := t.re.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, false
	}

	var params Params
	for i, tok := range t.tokens {
		g := t.groups[i]
		if g < 0 || m[2*g] < 0 {
			continue
		}
		params = append(params, Param{Key: tok.Name, Value: path[m[2*g]:m[2*g+1]]})
	}

	return params, true
}

// Build substitutes params into the template.
// A token with a value becomes prefix+value; an optional token without one
// is dropped together with its prefix; a required token without one is
// left as written and reported in missing.
func (t *Template) Build(params map[string]string) (path string, missing []string) {
	var b strings.Builder
	b.Grow(len(t.path))
	for _, seg := range t.segments {
		if seg.Token == nil {
			b.WriteString(seg.Literal)
			continue
		}
		tok := seg.Token
		if v, ok := params[tok.Name]; ok && tok.Name != "" {
			b.WriteString(tok.Prefix)
			b.WriteString(v)
			continue
		}
		if tok.Optional {
			continue
		}
		b.WriteString(tok.Raw)
		if tok.Name != "" {
			missing = append(missing, tok.Name)
		} else {
			missing = append(missing, tok.Raw)
		}
	}

	return b.String(), missing
}
