package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okranov/evolens/internal/model"
)

// Provider defines the interface for narrative LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative for the report with a strict
	// strategy-name allowlist
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for narrative generation
type SummarizeRequest struct {
	// Report is the computed analysis to narrate
	Report model.Report

	// AllowedNames is the strict allowlist of strategy names the model
	// may quote. Quoted names outside the list are flagged, not fatal.
	AllowedNames []string

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the provider's narrative output
type SummarizeResponse struct {
	// Summary is the generated narrative text
	Summary string

	// QuotedNames are the names the model quoted (for verification)
	QuotedNames []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for custom endpoints (e.g. a local Ollama server)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond throttles API calls across batch runs
	RequestsPerSecond float64

	// Burst is the rate limiter burst size
	Burst int
}

// DefaultConfig returns sensible defaults with the narrator disabled
func DefaultConfig() Config {
	return Config{
		Provider:          "",
		Model:             "",
		Timeout:           30,
		MaxTokens:         1000,
		RequestsPerSecond: 1,
		Burst:             2,
	}
}

// BuildPrompt constructs the default narration prompt. The prompt carries
// the computed numbers so the model describes rather than recomputes them.
func BuildPrompt(report model.Report, allowedNames []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are narrating the results of an agent-simulation analysis. All numbers below are already computed; describe them, never recalculate or invent figures.

CRITICAL RULES:
1. You may ONLY mention strategies from this list:
%s

2. Do not speculate about strategies, games, or tournaments not shown below.
3. If a result looks surprising, describe it without explaining it away.

Run summary:
- Snapshot: %s (%s schema)
- Tournaments completed: %d
- Strategies tracked: %d

Final standings:
`, joinNames(allowedNames), report.Subject, report.SchemaVariant, report.CompletedTournaments, len(report.Stats))

	for i, s := range report.Standings {
		if i >= 5 {
			fmt.Fprintf(&b, "... and %d more strategies\n", len(report.Standings)-5)
			break
		}
		fmt.Fprintf(&b, "%d. %s: %d coins (%+d, %d games)\n", i+1, s.Name, s.FinalBalance, s.Profit, s.GamesPlayed)
	}

	l := report.Leaders
	if l.MostProfitable.ID != "" {
		fmt.Fprintf(&b, "\nLeaders:\n")
		fmt.Fprintf(&b, "- Most profitable: %s (%+.0f coins)\n", l.MostProfitable.Name, l.MostProfitable.Value)
		fmt.Fprintf(&b, "- Most volatile: %s (±%.1f coins/game)\n", l.MostVolatile.Name, l.MostVolatile.Value)
		fmt.Fprintf(&b, "- Most consistent: %s (±%.1f coins/game)\n", l.MostConsistent.Name, l.MostConsistent.Value)
		fmt.Fprintf(&b, "- Best win rate: %s (%.1f%%)\n", l.BestWinRate.Name, l.BestWinRate.Value)
	}

	b.WriteString("\nWrite a 3-5 sentence narrative of how the run unfolded, focusing on risk and reward differences between strategies.")

	return b.String()
}

// AllowedNames collects the roster names the model may quote, sorted
func AllowedNames(report model.Report) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range report.Stats {
		if s.Name != "" && !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "(no strategies tracked)"
	}
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "\n- %s", name)
	}
	return b.String()
}
