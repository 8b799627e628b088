// Package filter classifies visitor comments before anything is stored.
//
// A Filter is immutable after construction and has no side effects, so one
// instance is shared by every request.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rejection reasons. Verdict.Err wraps exactly one of these.
var (
	ErrMissingField     = errors.New("author and content are required")
	ErrTooLong          = errors.New("content too long")
	ErrMaliciousContent = errors.New("malicious content")
)

// DefaultMaxLength is the reference comment bound, in characters.
const DefaultMaxLength = 500

// DefaultMaxAuthorLength bounds the author display name.
const DefaultMaxAuthorLength = 50

// Verdict is the outcome of classifying one comment.
type Verdict struct {
	Accepted bool
	Content  string
	reason   error
	detail   string
}

// Err returns nil for accepted comments and the rejection reason otherwise.
func (v Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	if v.detail == "" {
		return v.reason
	}
	return fmt.Errorf("%w: %s", v.reason, v.detail)
}

// Filter applies a fixed Rules value.
type Filter struct {
	maxLength       int
	maxAuthorLength int
	substrings      []string
	patterns        []*regexp.Regexp
}

// New compiles rules into a Filter. Zero bounds take the defaults.
func New(rules Rules) (*Filter, error) {
	f := &Filter{
		maxLength:       rules.MaxLength,
		maxAuthorLength: rules.MaxAuthorLength,
	}
	if f.maxLength <= 0 {
		f.maxLength = DefaultMaxLength
	}
	if f.maxAuthorLength <= 0 {
		f.maxAuthorLength = DefaultMaxAuthorLength
	}

	for _, s := range rules.Substrings {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			f.substrings = append(f.substrings, s)
		}
	}
	for _, expr := range rules.Patterns {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// MustNew is New for rules known to be valid at compile time.
func MustNew(rules Rules) *Filter {
	f, err := New(rules)
	if err != nil {
		panic(err)
	}
	return f
}

// Check classifies a comment. Checks run in a fixed order: missing fields,
// length, then disallowed content.
func (f *Filter) Check(author, content string) Verdict {
	if strings.TrimSpace(author) == "" || strings.TrimSpace(content) == "" {
		return Verdict{reason: ErrMissingField}
	}

	if n := utf8.RuneCountInString(content); n > f.maxLength {
		return Verdict{reason: ErrTooLong, detail: fmt.Sprintf("%d characters, limit %d", n, f.maxLength)}
	}
	if n := utf8.RuneCountInString(author); n > f.maxAuthorLength {
		return Verdict{reason: ErrTooLong, detail: fmt.Sprintf("author has %d characters, limit %d", n, f.maxAuthorLength)}
	}

	if f.matches(content) || f.matches(author) {
		return Verdict{reason: ErrMaliciousContent}
	}

	return Verdict{Accepted: true, Content: content}
}

func (f *Filter) matches(text string) bool {
	lower := strings.ToLower(text)
	for _, s := range f.substrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	for _, re := range f.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
