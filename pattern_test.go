package glossify

import "testing"

func TestBlacklist_Matches(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		url      string
		want     bool
	}{
		{"star matches any run", []string{"*.bank.com/*"}, "https://www.bank.com/login", true},
		{"full match required", []string{"bank.com"}, "https://bank.com/", false},
		{"question matches one rune", []string{"https://h?st/"}, "https://host/", true},
		{"question is not a run", []string{"https://h?st/"}, "https://hooost/", false},
		{"case insensitive", []string{"https://EXAMPLE.com/*"}, "https://example.COM/path", true},
		{"metacharacters are literal", []string{"https://example.com/a+b"}, "https://example.com/a+b", true},
		{"metacharacters do not repeat", []string{"https://example.com/a+b"}, "https://example.com/aab", false},
		{"no patterns", nil, "https://example.com/", false},
		{"empty pattern skipped", []string{"", "https://x/*"}, "https://x/y", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := CompileBlacklist(tt.patterns)
			if got := b.Matches(tt.url); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestBlacklist_NilSafe(t *testing.T) {
	var b *Blacklist
	if b.Matches("https://example.com/") {
		t.Error("nil blacklist should never match")
	}
	if b.Len() != 0 {
		t.Error("nil blacklist should have length 0")
	}
}

func TestCompileBlacklist_SkipsInvalid(t *testing.T) {
	b := CompileBlacklist([]string{" ", "https://ok/*"})
	if b.Len() != 1 {
		t.Errorf("Len = %d, want 1 (blank pattern dropped)", b.Len())
	}
}

func TestCompileWildcard_EmptyPattern(t *testing.T) {
	_, err := compileWildcard("")
	if err == nil {
		t.Fatal("expected error for empty pattern")
	}
	perr, ok := err.(*PatternError)
	if !ok {
		t.Fatalf("error type = %T, want *PatternError", err)
	}
	if perr.Message != "empty pattern" {
		t.Errorf("Message = %q", perr.Message)
	}
}
