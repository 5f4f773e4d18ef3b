package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses whitespace", "a  b\n\n\tc", "a b c"},
		{"strips unicode escapes", `caf\u00e9 time`, "caf time"},
		{"strips control characters", "a\x00b\x07c", "abc"},
		{"trims", "   padded   ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestUnescapePDFString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no escapes", "plain text", "plain text"},
		{"parens", `\(aside\)`, "(aside)"},
		{"backslash", `a\\b`, `a\b`},
		{"newline and return", `one\ntwo\rthree`, "one\ntwo\rthree"},
		{"octal", `\101\102C`, "ABC"},
		{"line continuation", "split\\\nword", "splitword"},
		{"unknown escape keeps char", `\q`, "q"},
		{"trailing backslash", `end\`, `end\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnescapePDFString(tt.input))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First one. Second one!  Third?? ")
	assert.Equal(t, []string{"First one", "Second one", "Third"}, got)

	assert.Empty(t, SplitSentences("...!?"))
	assert.Equal(t, []string{"no terminator"}, SplitSentences("no terminator"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"tell", "me", "about", "quantum", "mechanics"}, Tokens("Tell me about quantum-mechanics?"))
	assert.Empty(t, Tokens("  ,,, "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
