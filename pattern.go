package glossify

import (
	"regexp"
	"strings"
)

// Blacklist matches page addresses against wildcard patterns. `*` matches
// any run of characters, `?` matches a single character, and matching is
// case-insensitive against the full address. A pattern that fails to
// compile is ignored and never matches.
type Blacklist struct {
	patterns []*regexp.Regexp
}

// CompileBlacklist compiles wildcard patterns. Invalid patterns are
// skipped silently, per the never-matching policy.
func CompileBlacklist(patterns []string) *Blacklist {
	b := &Blacklist{}
	for _, p := range patterns {
		re, err := compileWildcard(p)
		if err != nil {
			continue
		}
		b.patterns = append(b.patterns, re)
	}
	return b
}

// Matches reports whether any pattern matches the full address.
func (b *Blacklist) Matches(url string) bool {
	if b == nil {
		return false
	}
	for _, re := range b.patterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.patterns)
}

func compileWildcard(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, &PatternError{Pattern: pattern, Message: "empty pattern"}
	}
	var sb strings.Builder
	sb.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Cause: err}
	}
	return re, nil
}
