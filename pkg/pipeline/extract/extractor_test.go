package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestExtractor() *HeuristicExtractor {
	return NewHeuristicExtractor(WithClock(func() time.Time { return fixedNow }))
}

const sentence = "The quick brown fox jumps over the lazy dog while the river keeps running to the sea."

func pdfWithContent(content string) []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Length 100 >>\nstream\n" + content + "\nendstream\nendobj\n%%EOF")
}

func TestExtract_AlwaysUsable(t *testing.T) {
	inputs := map[string][]byte{
		"nil":     nil,
		"empty":   {},
		"non pdf": []byte("hello world"),
		"garbage": {0x00, 0xff, 0xfe, 0x10, 0x80, 0x81, 0x9f},
		"header":  []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"),
	}

	e := newTestExtractor()
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			got := e.Extract(data)
			assert.GreaterOrEqual(t, len([]rune(got.Text)), MinUsableLength)
			assert.True(t, got.LowConfidence)
			assert.Equal(t, PassPlaceholder, got.Pass)
			assert.Contains(t, got.Text, "2024-03-01T12:00:00Z")
		})
	}
}

func TestExtract_TextShowOperators(t *testing.T) {
	var ops []string
	for i := 0; i < 4; i++ {
		ops = append(ops, "BT /F1 12 Tf 72 700 Td ("+sentence+") Tj ET")
	}
	ops = append(ops, "BT [(Kern)-120(ing) ( works)] TJ ET")

	got := newTestExtractor().Extract(pdfWithContent(strings.Join(ops, "\n")))

	require.False(t, got.LowConfidence)
	assert.Equal(t, PassTextOperators, got.Pass)
	assert.True(t, strings.HasPrefix(got.Text, sentence))
	assert.True(t, strings.HasSuffix(got.Text, "Kerning works"))
	assert.NotContains(t, got.Text, "Tj")
}

func TestExtract_UnescapesLiterals(t *testing.T) {
	content := `(` + sentence + ` \(with an aside\) and a back\\slash) Tj ` +
		`(` + sentence + `) Tj (` + sentence + `) Tj`

	got := newTestExtractor().Extract(pdfWithContent(content))

	assert.Contains(t, got.Text, `(with an aside) and a back\slash`)
}

func TestExtract_FallsBackToTextBlocks(t *testing.T) {
	// Literals shown with ' (next line) are missed by the first pass.
	content := "BT (" + sentence + ") ' (" + sentence + ") ' (" + sentence + ") ' ET"

	got := newTestExtractor().Extract(pdfWithContent(content))

	assert.Equal(t, PassTextBlocks, got.Pass)
	assert.False(t, got.LowConfidence)
	assert.Equal(t, 3, strings.Count(got.Text, "lazy dog"))
}

func TestExtract_FallsBackToRawStreams(t *testing.T) {
	long := strings.Repeat("Readable words inside an uncompressed stream. ", 5)
	content := "\x01\x02" + long + "\x00\x03short run\x04"

	got := newTestExtractor().Extract(pdfWithContent(content))

	assert.Equal(t, PassRawStreams, got.Pass)
	assert.Contains(t, got.Text, "Readable words inside an uncompressed stream.")
	assert.NotContains(t, got.Text, "short run")
}

func TestExtract_CleansOutput(t *testing.T) {
	content := strings.Repeat("("+sentence+"\n\n\t  more) Tj ", 3)

	got := newTestExtractor().Extract(pdfWithContent(content))

	assert.NotContains(t, got.Text, "\n")
	assert.NotContains(t, got.Text, "  ")
	assert.Equal(t, strings.TrimSpace(got.Text), got.Text)
}

func TestExtractText_Deterministic(t *testing.T) {
	data := pdfWithContent(strings.Repeat("("+sentence+") Tj ", 3))
	assert.Equal(t, ExtractText(data), ExtractText(data))
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrEmptyDocument)
	assert.ErrorIs(t, Validate([]byte("PK\x03\x04")), ErrNotPDF)
	assert.NoError(t, Validate([]byte("%PDF-1.4 ...")))
}

func TestInspect_RejectsNonPDF(t *testing.T) {
	_, err := Inspect([]byte("not a pdf"))
	assert.ErrorIs(t, err, ErrNotPDF)
}
