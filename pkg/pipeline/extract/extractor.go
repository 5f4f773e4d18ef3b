// Package extract turns raw PDF bytes into best-effort plain text without a
// full PDF parser.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"bookbodh-be/pkg/pipeline/textclean"
)

const (
	// PassThreshold is the usable length below which the next pass is tried.
	PassThreshold = 200
	// MinUsableLength is the usable length below which the placeholder is used.
	MinUsableLength = 100
	// minStreamSpan is the shortest printable span kept by the raw-stream pass.
	minStreamSpan = 50
)

// Pass names the strategy that produced an extraction.
type Pass string

const (
	PassTextOperators Pass = "text_operators"
	PassTextBlocks    Pass = "text_blocks"
	PassRawStreams    Pass = "raw_streams"
	PassPlaceholder   Pass = "placeholder"
)

// Extraction is the result of one extraction call. Text is never empty.
type Extraction struct {
	Text          string `json:"text"`
	Pass          Pass   `json:"pass"`
	LowConfidence bool   `json:"low_confidence"`
}

// TextExtractor converts document bytes into plain text. Implementations
// must not fail: unreadable input degrades to a low-confidence result.
type TextExtractor interface {
	Extract(data []byte) Extraction
}

var (
	// [ (Hel) -20 (lo) ] TJ  or  (Hello) Tj
	showOperator = regexp.MustCompile(`\[((?:[^\[\]\\]|\\.)*)\]\s*TJ|\(((?:[^()\\]|\\.)*)\)\s*Tj`)
	literal      = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)
	textBlock    = regexp.MustCompile(`(?s)\bBT\b(.*?)\bET\b`)
	rawStream    = regexp.MustCompile(`(?s)stream\r?\n(.*?)endstream`)
)

type Option func(*HeuristicExtractor)

// WithClock overrides the time source used for the placeholder text.
func WithClock(now func() time.Time) Option {
	return func(e *HeuristicExtractor) {
		e.now = now
	}
}

// HeuristicExtractor runs three regex passes over the raw bytes, falling
// through to the next pass while the text is shorter than PassThreshold.
type HeuristicExtractor struct {
	now func() time.Time
}

var _ TextExtractor = (*HeuristicExtractor)(nil)

func NewHeuristicExtractor(opts ...Option) *HeuristicExtractor {
	e := &HeuristicExtractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText is the plain-string form of HeuristicExtractor.Extract.
func ExtractText(data []byte) string {
	return NewHeuristicExtractor().Extract(data).Text
}

func (e *HeuristicExtractor) Extract(data []byte) Extraction {
	raw := string(data)

	best, pass := textclean.Clean(textOperatorPass(raw)), PassTextOperators
	if usable(best) < PassThreshold {
		if text := textclean.Clean(textBlockPass(raw)); usable(text) > usable(best) {
			best, pass = text, PassTextBlocks
		}
	}
	if usable(best) < PassThreshold {
		if text := textclean.Clean(rawStreamPass(data)); usable(text) > usable(best) {
			best, pass = text, PassRawStreams
		}
	}

	if usable(best) < MinUsableLength {
		return Extraction{
			Text:          Placeholder(e.now()),
			Pass:          PassPlaceholder,
			LowConfidence: true,
		}
	}
	return Extraction{Text: best, Pass: pass}
}

func usable(s string) int {
	return utf8.RuneCountInString(s)
}

// Placeholder is the text substituted when nothing usable was recovered.
func Placeholder(at time.Time) string {
	return fmt.Sprintf(
		"Text could not be extracted automatically from this document (processed %s). "+
			"The file may be scanned, image based or use an unsupported encoding. "+
			"Add the book content manually or upload a text based PDF.",
		at.UTC().Format(time.RFC3339),
	)
}

func textOperatorPass(raw string) string {
	var parts []string
	for _, m := range showOperator.FindAllStringSubmatch(raw, -1) {
		var s string
		if m[1] != "" || strings.HasSuffix(m[0], "TJ") {
			s = joinLiterals(m[1], "")
		} else {
			s = textclean.UnescapePDFString(m[2])
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func textBlockPass(raw string) string {
	var parts []string
	for _, m := range textBlock.FindAllStringSubmatch(raw, -1) {
		if s := strings.TrimSpace(joinLiterals(m[1], " ")); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// joinLiterals unescapes every (...) literal in s. Inside a TJ array the
// pieces are glyph runs of the same word, so they are joined with sep "".
func joinLiterals(s, sep string) string {
	matches := literal.FindAllStringSubmatch(s, -1)
	pieces := make([]string, 0, len(matches))
	for _, m := range matches {
		pieces = append(pieces, textclean.UnescapePDFString(m[1]))
	}
	return strings.Join(pieces, sep)
}

func rawStreamPass(data []byte) string {
	var spans []string
	for _, loc := range rawStream.FindAllSubmatchIndex(data, -1) {
		body := data[loc[2]:loc[3]]
		start := -1
		for i := 0; i <= len(body); i++ {
			if i < len(body) && textclean.IsPrintableASCII(body[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				span := strings.TrimSpace(string(body[start:i]))
				if len(span) > minStreamSpan {
					spans = append(spans, span)
				}
				start = -1
			}
		}
	}
	return strings.Join(spans, " ")
}
