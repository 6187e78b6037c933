package model

import "time"

// Report is the complete analysis artifact for one snapshot, handed to
// presentation adapters and serialized by the renderer.
type Report struct {
	Subject              string    `json:"subject"`
	SourcePath           string    `json:"source_path"`
	AnalyzedAt           time.Time `json:"analyzed_at"`
	Timestamp            string    `json:"timestamp,omitempty"`
	SchemaVariant        string    `json:"schema_variant"`
	CompletedTournaments int       `json:"completed_tournaments"`

	Timelines map[string]*BalanceTimeline `json:"timelines"`
	Stats     map[string]*StrategyStats   `json:"stats"`
	Standings []Standing                  `json:"standings"`
	Leaders   Leaders                     `json:"leaders"`

	Lineage *LineageSummary `json:"lineage,omitempty"`
	Matchup *MatchupSummary `json:"matchup,omitempty"`

	Issues []Issue `json:"issues,omitempty"`

	// Narrative is optional and never affects the derived numbers
	Narrative *Narrative `json:"narrative,omitempty"`
}

// LineageSummary is the lineage graph prepared for rendering. When Trivial
// is set the run had only core strategies and callers should render the
// flat roster instead of a layered graph.
type LineageSummary struct {
	Trivial     bool             `json:"trivial"`
	Nodes       []LineageNode    `json:"nodes"`
	Edges       []LineageEdge    `json:"edges"`
	Generations map[int][]string `json:"generations,omitempty"`
}

// MatchupSummary holds head-to-head results across all strategy pairs
type MatchupSummary struct {
	Strategies []string                            `json:"strategies"`
	WinRates   [][]float64                         `json:"win_rates"`
	Dominance  []DominanceScore                    `json:"dominance"`
	Edges      []DominanceEdge                     `json:"edges,omitempty"`
	Records    map[string]map[string]MatchupRecord `json:"records,omitempty"`
}

// DominanceScore is a strategy's overall win rate across all matchups
type DominanceScore struct {
	ID      string  `json:"id"`
	WinRate float64 `json:"win_rate"`
	Wins    int     `json:"wins"`
	Games   int     `json:"games"`
}

// DominanceEdge records that one strategy beats another more often than
// the configured dominance threshold
type DominanceEdge struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	WinRate float64 `json:"win_rate"`
}

// IssueSeverity indicates how serious a derived-artifact issue is
type IssueSeverity string

const (
	IssueInfo     IssueSeverity = "info"
	IssueWarning  IssueSeverity = "warning"
	IssueCritical IssueSeverity = "critical"
)

// Issue is one integrity finding over the derived artifacts. Issues are
// diagnostic only; they never abort processing.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Strategy string        `json:"strategy,omitempty"`
	Message  string        `json:"message"`
}

// Narrative contains an optional LLM-generated prose summary.
// It is clearly separated from the computed statistics.
type Narrative struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Text     string   `json:"text,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
