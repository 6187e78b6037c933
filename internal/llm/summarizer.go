package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/okranov/evolens/internal/model"
)

// Summarizer coordinates narrative generation. It rate limits provider
// calls so batch runs stay inside API limits, and it verifies that the
// narrative only quotes strategies from the roster.
type Summarizer struct {
	provider Provider
	config   Config
	limiter  *rate.Limiter
}

// NewSummarizer creates a new summarizer. A config with no provider
// yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Summarizer{
		provider: provider,
		config:   config,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or ""
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateNarrative produces a narrative for the report. The narrative
// never feeds back into the computed statistics; quoted names outside
// the roster are recorded as warnings rather than failing the run.
func (s *Summarizer) GenerateNarrative(ctx context.Context, report model.Report) (*model.Narrative, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return nil, fmt.Errorf("LLM provider %s is not available", s.provider.Name())
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	allowed := AllowedNames(report)

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:       report,
		AllowedNames: allowed,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	var warnings []string
	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}
	for _, quoted := range resp.QuotedNames {
		if !allowedSet[quoted] {
			warnings = append(warnings, fmt.Sprintf("narrative quotes unknown strategy %q", quoted))
		}
	}

	return &model.Narrative{
		Enabled:  true,
		Provider: s.provider.Name(),
		Model:    resp.Model,
		Text:     resp.Summary,
		Warnings: warnings,
	}, nil
}
