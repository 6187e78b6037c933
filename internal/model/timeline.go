package model

// BalanceDataPoint is one observation of a strategy's coin balance.
// Game 0 is a synthetic seed point recording the starting balance for a
// tournament; seed points never count toward win-rate or volatility.
type BalanceDataPoint struct {
	Tournament   int  `json:"tournament"`
	Game         int  `json:"game"`
	Balance      int  `json:"balance"`
	Profit       int  `json:"profit"`
	IsWinner     bool `json:"isWinner"`
	IsEliminated bool `json:"isEliminated"`
}

// IsSeed reports whether the point is a tournament-start seed
func (p BalanceDataPoint) IsSeed() bool {
	return p.Game == 0
}

// BalanceTimeline is the ordered balance history of one strategy.
// Points are ordered by (tournament, game); each tournament segment
// begins with a game-0 seed point.
type BalanceTimeline struct {
	Name       string             `json:"name"`
	Archetype  string             `json:"archetype,omitempty"`
	DataPoints []BalanceDataPoint `json:"dataPoints"`
}

// Last returns the most recent data point, or false for an empty timeline
func (t *BalanceTimeline) Last() (BalanceDataPoint, bool) {
	if len(t.DataPoints) == 0 {
		return BalanceDataPoint{}, false
	}
	return t.DataPoints[len(t.DataPoints)-1], true
}

// GamePoints returns the non-seed points in order
func (t *BalanceTimeline) GamePoints() []BalanceDataPoint {
	var points []BalanceDataPoint
	for _, p := range t.DataPoints {
		if !p.IsSeed() {
			points = append(points, p)
		}
	}
	return points
}
