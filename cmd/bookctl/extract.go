package main

import (
	"fmt"
	"os"

	"bookbodh-be/pkg/pipeline/extract"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Print the text extracted from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			if err := extract.Validate(data); err != nil {
				return err
			}

			result := extract.NewHeuristicExtractor().Extract(data)
			out := cmd.OutOrStdout()

			headerColor.Fprintln(out, "Extraction")
			labelColor.Fprint(out, "Pass: ")
			fmt.Fprintln(out, result.Pass)
			labelColor.Fprint(out, "Low confidence: ")
			fmt.Fprintln(out, result.LowConfidence)
			if result.LowConfidence {
				warnColor.Fprintln(out, "Text looks unusable, manual extraction is recommended")
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, result.Text)
			return nil
		},
	}
}
