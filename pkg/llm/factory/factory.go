package factory

import (
	"fmt"
	"time"

	"bookbodh-be/pkg/llm"
	"bookbodh-be/pkg/llm/ollama"
	"bookbodh-be/pkg/llm/openai"
)

const (
	ProviderNone   = "none"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// NewLLMProvider returns nil, nil for "none" (or empty): callers answer
// lexically.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case ProviderNone, "":
		return nil, nil
	case ProviderOllama:
		return ollama.NewOllamaProvider(baseURL, modelName, timeout), nil
	case ProviderOpenAI:
		p, err := openai.NewProvider(apiKey, baseURL, modelName, timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
