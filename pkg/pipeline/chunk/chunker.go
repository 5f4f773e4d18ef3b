// Package chunk partitions extracted text into fixed-size word chunks.
package chunk

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"bookbodh-be/pkg/pipeline/textclean"
)

const (
	DefaultTargetWords = 500

	summarySentences = 2
	maxSummaryChars  = 200
	minSummaryChars  = 10
)

var ErrInvalidTargetWords = errors.New("chunk: target words must not be negative")

type Chunk struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

// ChunkText splits text into chunks of targetWords whitespace-separated words.
// The last chunk holds the remainder. A targetWords of 0 selects
// DefaultTargetWords.
func ChunkText(text, title string, targetWords int) ([]Chunk, error) {
	if targetWords < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTargetWords, targetWords)
	}
	if targetWords == 0 {
		targetWords = DefaultTargetWords
	}

	words := textclean.Words(text)
	if len(words) == 0 {
		return []Chunk{}, nil
	}

	chunks := make([]Chunk, 0, (len(words)+targetWords-1)/targetWords)
	for start := 0; start < len(words); start += targetWords {
		end := min(start+targetWords, len(words))
		index := len(chunks)
		body := strings.Join(words[start:end], " ")
		chunks = append(chunks, Chunk{
			Index:   index,
			Title:   PartTitle(title, index),
			Text:    body,
			Summary: Summarize(body, title, index),
		})
	}
	return chunks, nil
}

// PartTitle is the display title of the chunk at index.
func PartTitle(title string, index int) string {
	return fmt.Sprintf("%s - Part %d", title, index+1)
}

// Summarize returns the first two sentences of text, with "..." when more
// follow, falling back to "Part <n> of <title>" when that is too short.
func Summarize(text, title string, index int) string {
	sentences := textclean.SplitSentences(text)

	n := min(summarySentences, len(sentences))
	summary := strings.Join(sentences[:n], ". ")
	if len(sentences) > summarySentences {
		summary += "..."
	}
	summary = textclean.Truncate(summary, maxSummaryChars)

	if utf8.RuneCountInString(summary) < minSummaryChars {
		return fmt.Sprintf("Part %d of %s", index+1, title)
	}
	return summary
}
