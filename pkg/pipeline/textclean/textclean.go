// Package textclean holds the small string helpers shared by the extraction,
// chunking and retrieval stages.
package textclean

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	unicodeEscape   = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)
	sentenceEnd     = regexp.MustCompile(`[.!?]+`)
	nonWordBoundary = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// CollapseWhitespace replaces every run of whitespace with a single space.
func CollapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// StripUnicodeEscapes removes literal \uXXXX sequences left behind by
// encoders that never got decoded.
func StripUnicodeEscapes(s string) string {
	return unicodeEscape.ReplaceAllString(s, "")
}

// StripControl drops control characters, including the replacement rune
// produced when invalid UTF-8 is ranged over.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Clean runs the post-extraction normalisation in a fixed order.
func Clean(s string) string {
	s = StripUnicodeEscapes(s)
	s = CollapseWhitespace(s)
	s = StripControl(s)
	return strings.TrimSpace(s)
}

// UnescapePDFString resolves the backslash escapes allowed inside a PDF
// literal string: \n \r \t \b \f \( \) \\ and up to three octal digits.
// A backslash followed by a line break is a continuation and is dropped.
func UnescapePDFString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}

		i++
		switch next := s[i]; next {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '(', ')', '\\':
			b.WriteByte(next)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			if next >= '0' && next <= '7' {
				end := i + 1
				for end < len(s) && end < i+3 && s[end] >= '0' && s[end] <= '7' {
					end++
				}
				v, _ := strconv.ParseUint(s[i:end], 8, 8)
				b.WriteByte(byte(v))
				i = end - 1
				continue
			}
			b.WriteByte(next)
		}
	}
	return b.String()
}

// SplitSentences splits on runs of sentence-terminal punctuation and returns
// the trimmed, non-empty pieces without their terminators.
func SplitSentences(s string) []string {
	parts := sentenceEnd.Split(s, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// Words splits on whitespace and discards empty tokens.
func Words(s string) []string {
	return strings.Fields(s)
}

// Tokens lowercases s and splits it on anything that is not a letter, digit
// or underscore.
func Tokens(s string) []string {
	parts := nonWordBoundary.Split(strings.ToLower(s), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// IsPrintableASCII reports whether b is printable ASCII or ordinary
// whitespace.
func IsPrintableASCII(b byte) bool {
	return (b >= 0x20 && b <= 0x7e) || b == '\n' || b == '\r' || b == '\t'
}

// Truncate cuts s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
