package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newChunkCmd() *cobra.Command {
	var (
		title string
		words int
	)

	cmd := &cobra.Command{
		Use:   "chunk <file>",
		Short: "Split a document into titled chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunks, err := chunkFile(args[0], title, words)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			headerColor.Fprintf(out, "%d chunks\n", len(chunks))
			for _, c := range chunks {
				fmt.Fprintln(out)
				labelColor.Fprintf(out, "[%d] %s\n", c.Index, c.Title)
				fmt.Fprintln(out, c.Summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "book title (defaults to the file name)")
	cmd.Flags().IntVarP(&words, "words", "w", 0, "target words per chunk (0 uses the default)")
	return cmd
}
