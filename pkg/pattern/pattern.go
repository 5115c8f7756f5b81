// Package pattern compiles URI templates like "/users/:id" into matchers
// for route-tree edges. A template matches a prefix of the incoming path
// segment-by-segment and can render that prefix back from parameters.
package pattern

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/routekit-go/routekit/pkg/route"
)

// Template compilation and matching errors.
var (
	ErrNoLeadingSlash = errors.New("pattern: template must start with /")
	ErrEmptyParam     = errors.New("pattern: empty parameter name")
	ErrMissingParam   = errors.New("pattern: missing parameter")
)

// segment is one compiled template segment: a literal, or a named
// parameter when param is non-empty.
type segment struct {
	literal string
	param   string
}

// Template is a compiled URI template. It implements route.Matcher.
type Template struct {
	raw         string
	segments    []segment
	specificity int
}

// Compile parses a template string. Segments are separated by "/";
// a segment starting with ":" captures one path segment as a parameter.
//
//	/users          literal
//	/users/:id      captures id
//	/users/:id/pets mixes both
func Compile(template string) (*Template, error) {
	if !strings.HasPrefix(template, "/") {
		return nil, fmt.Errorf("%w: %q", ErrNoLeadingSlash, template)
	}

	t := &Template{raw: template}
	for _, raw := range strings.Split(strings.Trim(template, "/"), "/") {
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, ":") {
			name := raw[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q", ErrEmptyParam, template)
			}
			t.segments = append(t.segments, segment{param: name})
			t.specificity++
		} else {
			t.segments = append(t.segments, segment{literal: raw})
			t.specificity += 3
		}
	}
	return t, nil
}

// MustCompile is Compile but panics on error. Intended for template
// literals in route declarations.
func MustCompile(template string) *Template {
	t, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the template source.
func (t *Template) String() string {
	return t.raw
}

// Match consumes one path segment per template segment. Literals must
// compare equal on the raw text; parameter segments capture the decoded
// segment. The matched prefix keeps its raw encoding so Reverse∘Match
// round-trips.
func (t *Template) Match(path string) (route.MatchResult, bool) {
	if !strings.HasPrefix(path, "/") {
		return route.MatchResult{}, false
	}

	rest := path
	var consumed []string
	params := route.Params{}

	for _, seg := range t.segments {
		rest = strings.TrimPrefix(rest, "/")
		if rest == "" {
			return route.MatchResult{}, false
		}
		part, remainder, _ := strings.Cut(rest, "/")
		if remainder != "" {
			remainder = "/" + remainder
		}

		if seg.param != "" {
			decoded, err := url.PathUnescape(part)
			if err != nil {
				return route.MatchResult{}, false
			}
			params[seg.param] = decoded
		} else if seg.literal != part {
			return route.MatchResult{}, false
		}
		consumed = append(consumed, part)
		rest = remainder
	}

	matched := ""
	if len(consumed) > 0 {
		matched = "/" + strings.Join(consumed, "/")
	}
	return route.MatchResult{Matched: matched, Tail: rest, Params: params}, true
}

// Reverse renders the template from parameters and appends tail.
// Every parameter named by the template must be present.
func (t *Template) Reverse(params route.Params, tail string) (string, error) {
	var b strings.Builder
	for _, seg := range t.segments {
		b.WriteByte('/')
		if seg.param == "" {
			b.WriteString(seg.literal)
			continue
		}
		value, ok := params[seg.param]
		if !ok {
			return "", fmt.Errorf("%w: %q in %q", ErrMissingParam, seg.param, t.raw)
		}
		b.WriteString(url.PathEscape(value))
	}
	b.WriteString(tail)
	return b.String(), nil
}

// Specificity orders templates when several match the same input: literal
// segments weigh more than parameter segments, longer templates more than
// shorter ones.
func (t *Template) Specificity() int {
	return t.specificity
}
