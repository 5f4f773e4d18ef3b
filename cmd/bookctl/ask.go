package main

import (
	"fmt"

	"bookbodh-be/pkg/pipeline/retrieval"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var (
		title  string
		author string
		words  int
	)

	cmd := &cobra.Command{
		Use:   "ask <file> <query>",
		Short: "Answer a question from a document without an LLM",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunks, err := chunkFile(args[0], title, words)
			if err != nil {
				return err
			}

			sources := make([]retrieval.Source, 0, len(chunks))
			for _, c := range chunks {
				sources = append(sources, retrieval.Source{
					Title:   c.Title,
					Author:  author,
					Text:    c.Text,
					Summary: c.Summary,
				})
			}

			var bookTitle, bookAuthor *string
			if title != "" {
				bookTitle = &title
			}
			if author != "" {
				bookAuthor = &author
			}

			answer := retrieval.ScoreAndAnswer(args[1], sources, bookTitle, bookAuthor)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, answer.ResponseText)
			if answer.CitedTitle != nil {
				labelColor.Fprint(out, "Book: ")
				fmt.Fprintln(out, *answer.CitedTitle)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "book title")
	cmd.Flags().StringVarP(&author, "author", "a", "", "book author")
	cmd.Flags().IntVarP(&words, "words", "w", 0, "target words per chunk (0 uses the default)")
	return cmd
}
