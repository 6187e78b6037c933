package llm

// Ollama is reached through its OpenAI-compatible endpoint, so the
// provider wraps OpenAIProvider with local-server defaults.

const (
	defaultOllamaBaseURL = "http://localhost:11434/v1"
	defaultOllamaModel   = "llama3.1"
)

// OllamaProvider implements the Provider interface for a local Ollama server
type OllamaProvider struct {
	*OpenAIProvider
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultOllamaBaseURL
	}
	if config.Model == "" {
		config.Model = defaultOllamaModel
	}
	// Ollama ignores the key but the client requires one
	if config.APIKey == "" {
		config.APIKey = "ollama"
	}

	inner, err := NewOpenAIProvider(config)
	if err != nil {
		return nil, err
	}

	return &OllamaProvider{OpenAIProvider: inner}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}
