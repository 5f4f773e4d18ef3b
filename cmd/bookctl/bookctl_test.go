package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"bookbodh-be/pkg/pipeline/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const botany = "Photosynthesis converts light into chemical energy. " +
	"Plants absorb light with chlorophyll in their leaves. " +
	"Roots draw water from the soil."

func TestChunkCommand(t *testing.T) {
	path := writeFile(t, "botany.txt", botany)

	out, err := run(t, "chunk", path, "--words", "8")

	require.NoError(t, err)
	assert.Contains(t, out, "3 chunks")
	assert.Contains(t, out, "botany - Part 1")
	assert.Contains(t, out, "botany - Part 3")
}

func TestChunkCommand_NegativeWords(t *testing.T) {
	path := writeFile(t, "botany.txt", botany)

	_, err := run(t, "chunk", path, "--words", "-1")

	assert.Error(t, err)
}

func TestAskCommand(t *testing.T) {
	path := writeFile(t, "botany.txt", botany)

	out, err := run(t, "ask", path, "what does chlorophyll absorb", "--title", "Botany", "--author", "Jane Doe")

	require.NoError(t, err)
	assert.Contains(t, out, `Based on "Botany"`)
	assert.Contains(t, out, "chlorophyll")
	assert.Contains(t, out, `(From "Botany" by Jane Doe)`)
}

func TestExtractCommand_RejectsNonPDF(t *testing.T) {
	path := writeFile(t, "notes.pdf", "just some text")

	_, err := run(t, "extract", path)

	assert.ErrorIs(t, err, extract.ErrNotPDF)
}

func TestExtractCommand_TextOperators(t *testing.T) {
	pdf := "%PDF-1.4\nBT (The river carried the boat past the old mill and into the quiet valley where the farmers waited for the harvest to begin under the autumn sun.) Tj ET\n" +
		"BT (Every evening the villagers gathered by the water to trade stories about distant cities and the travellers who passed through their small town.) Tj ET\n%%EOF"
	path := writeFile(t, "river.pdf", pdf)

	out, err := run(t, "extract", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Pass: text_operators")
	assert.Contains(t, out, "The river carried the boat")
}
