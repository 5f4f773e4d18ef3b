// Package retrieval ranks chunks against a query by keyword overlap and
// builds a short extractive answer. It is the answer path used when no
// language model is configured or the model call fails.
package retrieval

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"bookbodh-be/pkg/pipeline/textclean"
)

const (
	minSignificantLen = 4
	maxAnswerSentence = 3
)

// Source is one stored chunk as seen by the scorer.
type Source struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

// Scored pairs a source with its position in the input and its score.
type Scored struct {
	Index  int
	Source Source
	Score  int
}

// Answer is the reply plus the book it was drawn from. Cited fields are nil
// when no book applies.
type Answer struct {
	ResponseText string  `json:"response"`
	CitedTitle   *string `json:"book"`
	CitedAuthor  *string `json:"author"`
}

var partSuffix = regexp.MustCompile(`\s+-\s+Part\s+\d+$`)

// SignificantWords lowercases the query, splits it on non-word characters
// and keeps the distinct tokens longer than three characters.
func SignificantWords(query string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, tok := range textclean.Tokens(query) {
		if utf8.RuneCountInString(tok) < minSignificantLen {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		words = append(words, tok)
	}
	return words
}

// Score counts the significant words contained anywhere in text.
func Score(text string, words []string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			score++
		}
	}
	return score
}

// Rank scores every source and orders them by descending score. Equal
// scores keep input order.
func Rank(query string, sources []Source) []Scored {
	words := SignificantWords(query)
	ranked := make([]Scored, len(sources))
	for i, s := range sources {
		ranked[i] = Scored{Index: i, Source: s, Score: Score(s.Text, words)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// ScoreAndAnswer picks the best matching chunk and quotes up to three of
// its sentences. Empty input, vague queries and zero matches produce
// templated replies rather than errors.
func ScoreAndAnswer(query string, sources []Source, bookTitle, bookAuthor *string) Answer {
	bookTitle, bookAuthor = present(bookTitle), present(bookAuthor)

	if len(sources) == 0 {
		return Answer{
			ResponseText: noInformation(bookTitle, bookAuthor),
			CitedTitle:   bookTitle,
			CitedAuthor:  bookAuthor,
		}
	}

	words := SignificantWords(query)
	if len(words) == 0 {
		title, author := cite(bookTitle, bookAuthor, sources[0])
		return Answer{
			ResponseText: beMoreSpecific(title),
			CitedTitle:   title,
			CitedAuthor:  author,
		}
	}

	best := Rank(query, sources)[0]
	title, author := cite(bookTitle, bookAuthor, best.Source)
	if best.Score == 0 {
		return Answer{
			ResponseText: noSpecificInformation(title),
			CitedTitle:   title,
			CitedAuthor:  author,
		}
	}

	var b strings.Builder
	if title != nil {
		fmt.Fprintf(&b, "Based on \"%s\", ", *title)
	} else {
		b.WriteString("Based on the information available, ")
	}
	b.WriteString(strings.Join(selectSentences(best.Source.Text, words), ". "))
	b.WriteString(".")
	if title != nil {
		b.WriteString("\n\n")
		b.WriteString(Citation(*title, author))
	}

	return Answer{
		ResponseText: b.String(),
		CitedTitle:   title,
		CitedAuthor:  author,
	}
}

// Citation formats the trailing attribution line.
func Citation(title string, author *string) string {
	if author == nil {
		return fmt.Sprintf("(From \"%s\")", title)
	}
	return fmt.Sprintf("(From \"%s\" by %s)", title, *author)
}

// BookTitleFromPart strips the " - Part N" suffix the chunker adds.
func BookTitleFromPart(partTitle string) string {
	return partSuffix.ReplaceAllString(strings.TrimSpace(partTitle), "")
}

func selectSentences(text string, words []string) []string {
	sentences := textclean.SplitSentences(text)

	var picked []string
	for _, s := range sentences {
		if Score(s, words) > 0 {
			picked = append(picked, s)
			if len(picked) == maxAnswerSentence {
				return picked
			}
		}
	}
	if len(picked) > 0 {
		return picked
	}
	return sentences[:min(maxAnswerSentence, len(sentences))]
}

// cite prefers the caller's book, then whatever the chunk says about itself.
func cite(bookTitle, bookAuthor *string, src Source) (*string, *string) {
	title, author := bookTitle, bookAuthor
	if title == nil {
		if t := BookTitleFromPart(src.Title); t != "" {
			title = &t
		}
	}
	if author == nil && strings.TrimSpace(src.Author) != "" {
		a := strings.TrimSpace(src.Author)
		author = &a
	}
	return title, author
}

func present(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func bookRef(title, author *string) string {
	if author == nil {
		return fmt.Sprintf("\"%s\"", *title)
	}
	return fmt.Sprintf("\"%s\" by %s", *title, *author)
}

func noInformation(title, author *string) string {
	if title == nil {
		return "I don't have any book content to answer from yet. Select a book or tell me which book you have in mind, and I'll take a look."
	}
	return fmt.Sprintf("I couldn't find any relevant information in %s. The book may still be processing, or its text could not be extracted.", bookRef(title, author))
}

func beMoreSpecific(title *string) string {
	if title == nil {
		return "Could you please be more specific about what you'd like to know?"
	}
	return fmt.Sprintf("Could you please be more specific about what you'd like to know about \"%s\"?", *title)
}

func noSpecificInformation(title *string) string {
	if title == nil {
		return "I don't have specific information about that. Try asking about another topic or rephrasing your question."
	}
	return fmt.Sprintf("I don't have specific information about that in \"%s\". Try asking about another topic from the book.", *title)
}
