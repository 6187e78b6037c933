package model

// Snapshot is the normalized in-memory form of one simulation snapshot,
// regardless of which source schema variant it was read from.
type Snapshot struct {
	Timestamp            string                              `json:"timestamp,omitempty"`
	SchemaVariant        string                              `json:"schema_variant"`
	CompletedTournaments int                                 `json:"completed_tournaments"`
	Tournaments          []Tournament                        `json:"tournaments"`
	Timelines            map[string]*BalanceTimeline         `json:"timelines,omitempty"`
	Matchups             map[string]map[string]MatchupRecord `json:"matchups,omitempty"`
}

// HasTimelines reports whether the source carried an explicit balance timeline
func (s *Snapshot) HasTimelines() bool {
	return len(s.Timelines) > 0
}

// Tournament is one round of competition among a roster of strategies
type Tournament struct {
	Number     int              `json:"number"`
	Strategies []StrategyState  `json:"strategies"`
	Games      []Game           `json:"games"`
	Evolution  EvolutionDetails `json:"evolution"`
}

// StrategyState describes a participant's state at tournament start
type StrategyState struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Archetype    string `json:"archetype"`
	StrategyText string `json:"strategy_text,omitempty"`
	// Balance is nil when the source omits the starting balance;
	// the reconstructor applies the configured default.
	Balance *int `json:"balance,omitempty"`
}

// Game is one game within a tournament
type Game struct {
	Number  int              `json:"number"`
	Impacts []EconomicImpact `json:"impacts"`
}

// EconomicImpact is a per-game, per-strategy profit/loss record
type EconomicImpact struct {
	StrategyID string `json:"strategy_id"`
	Profit     int    `json:"profit"`
	IsWinner   bool   `json:"is_winner"`
}

// EvolutionDetails describes what happened to the roster after a tournament.
// Older snapshots only carry Created (mapped from strategiesEvolved).
type EvolutionDetails struct {
	Created    []EvolvedStrategy   `json:"created,omitempty"`
	Survivors  []SurvivorRecord    `json:"survivors,omitempty"`
	Eliminated []EliminationRecord `json:"eliminated,omitempty"`
}

// EvolvedStrategy is a strategy introduced by evolution rather than
// present at some tournament's start
type EvolvedStrategy struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Archetype    string      `json:"archetype"`
	StrategyText string      `json:"strategy_text,omitempty"`
	Parents      []ParentRef `json:"parents,omitempty"`
	Avoiding     string      `json:"avoiding,omitempty"`
}

// WeightUnspecified marks a parent reference that declared no
// inheritance weight
const WeightUnspecified = -1

// ParentRef is a declared inheritance reference. Weight is a percentage
// contribution; sibling weights need not sum to 100.
type ParentRef struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// SurvivorRecord is a strategy that survived a tournament's elimination round
type SurvivorRecord struct {
	ID      string  `json:"id"`
	Balance int     `json:"balance"`
	WinRate float64 `json:"win_rate"`
}

// EliminationRecord is a strategy removed from play after a tournament
type EliminationRecord struct {
	ID           string  `json:"id"`
	FinalBalance int     `json:"final_balance"`
	WinRate      float64 `json:"win_rate"`
}

// MatchupRecord counts head-to-head results between two strategies
type MatchupRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}
