package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bookbodh-be/pkg/pipeline/chunk"
	"bookbodh-be/pkg/pipeline/extract"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgYellow)
	warnColor   = color.New(color.FgRed)
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookctl",
		Short: "Run the book extraction pipeline locally",
		Long: `bookctl runs text extraction, chunking and lexical answering
against local files without a database or server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newExtractCmd(), newChunkCmd(), newAskCmd())
	return root
}

// loadText returns the document text. PDFs go through the heuristic
// extractor; anything else is read as plain text.
func loadText(path string) (string, *extract.Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		if err := extract.Validate(data); err != nil {
			return "", nil, err
		}
		result := extract.NewHeuristicExtractor().Extract(data)
		return result.Text, &result, nil
	}

	return string(data), nil, nil
}

// chunkFile loads and chunks a file. An empty title falls back to the file
// name without extension.
func chunkFile(path, title string, words int) ([]chunk.Chunk, error) {
	text, _, err := loadText(path)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return chunk.ChunkText(text, title, words)
}
