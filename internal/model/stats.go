package model

// Tier is a qualitative risk or reward classification
type Tier string

const (
	TierHigh Tier = "HIGH"
	TierMed  Tier = "MED"
	TierLow  Tier = "LOW"
)

// StrategyStats holds the derived per-strategy performance statistics.
// ChangePct is nil when the starting balance was zero.
type StrategyStats struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Start     int      `json:"start"`
	Final     int      `json:"final"`
	Peak      int      `json:"peak"`
	Change    int      `json:"change"`
	ChangePct *float64 `json:"change_pct,omitempty"`

	// Volatility is the population standard deviation of per-game profit,
	// seed points excluded. Zero when fewer than one post-seed point exists.
	Volatility float64 `json:"volatility"`

	Wins    int     `json:"wins"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`

	RiskTier   Tier `json:"risk_tier"`
	RewardTier Tier `json:"reward_tier"`
}

// Standing is one row of the final rankings, sorted by final balance
type Standing struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FinalBalance int    `json:"final_balance"`
	Profit       int    `json:"profit"`
	GamesPlayed  int    `json:"games_played"`
}

// Leader names a strategy together with the value that made it a leader
type Leader struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Leaders collects the notable strategies of a run
type Leaders struct {
	MostProfitable Leader `json:"most_profitable"`
	MostVolatile   Leader `json:"most_volatile"`
	MostConsistent Leader `json:"most_consistent"`
	BestWinRate    Leader `json:"best_win_rate"`
}
