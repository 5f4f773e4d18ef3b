package ollama

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"bookbodh-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a local Ollama when OLLAMA_BASE_URL is set.
func TestOllamaIntegration_Chat(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	p := NewOllamaProvider(baseURL, model, 2*time.Minute)
	reply, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "Answer with a single word."},
		{Role: llm.RoleUser, Content: "What color is the sky on a clear day?"},
	}, llm.WithTemperature(0), llm.WithMaxTokens(10))

	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(reply))
}
