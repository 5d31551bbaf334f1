package glossify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		r    rune
		want CharClass
	}{
		{'你', ClassCJK},
		{'一', ClassCJK},
		{'a', ClassLatin},
		{'Z', ClassLatin},
		{'7', ClassLatin},
		{'é', ClassLatin},
		{' ', ClassSpace},
		{'\n', ClassSpace},
		{'　', ClassSpace}, // ideographic space
		{'.', ClassPunct},
		{'。', ClassPunct},
		{'，', ClassPunct},
		{'+', ClassPunct},
		{'か', ClassOther}, // kana is outside the handled range
	}
	for _, tt := range tests {
		if got := Classify(tt.r); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestForeignRatio(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"你好", 1},
		{"abcd", 0},
		{"你好ab", 0.5},
		{"  你好  ", 1},
		{"", 0},
		{"   ", 0},
	}
	for _, tt := range tests {
		if got := foreignRatio(tt.text); got != tt.want {
			t.Errorf("foreignRatio(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
