package matchup

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/okranov/evolens/internal/model"
)

// Analyzer derives head-to-head summaries from raw matchup records
type Analyzer struct {
	dominanceThreshold float64
}

// NewAnalyzer creates a matchup analyzer
func NewAnalyzer(cfg model.MatchupConfig) *Analyzer {
	return &Analyzer{dominanceThreshold: cfg.DominanceThreshold}
}

// Analyze builds the win-rate matrix, per-strategy dominance scores and
// dominance edges. Returns nil when the snapshot carried no matchup data.
func (a *Analyzer) Analyze(records map[string]map[string]model.MatchupRecord) *model.MatchupSummary {
	if len(records) == 0 {
		return nil
	}

	strategies := collectStrategies(records)
	matrix := a.winRateMatrix(records, strategies)

	summary := &model.MatchupSummary{
		Strategies: strategies,
		WinRates:   matrixRows(matrix),
		Dominance:  a.dominanceScores(records),
		Edges:      a.dominanceEdges(matrix, strategies),
		Records:    records,
	}
	return summary
}

// collectStrategies gathers every strategy id appearing on either side of
// a matchup, sorted for stable output
func collectStrategies(records map[string]map[string]model.MatchupRecord) []string {
	seen := make(map[string]bool)
	for id, opponents := range records {
		seen[id] = true
		for oppID := range opponents {
			seen[oppID] = true
		}
	}
	strategies := make([]string, 0, len(seen))
	for id := range seen {
		strategies = append(strategies, id)
	}
	sort.Strings(strategies)
	return strategies
}

// winRateMatrix builds the row-vs-column win-rate matrix. The diagonal is
// 0.5 (a strategy against itself) and unplayed pairs are 0.
func (a *Analyzer) winRateMatrix(records map[string]map[string]model.MatchupRecord, strategies []string) *mat.Dense {
	n := len(strategies)
	matrix := mat.NewDense(n, n, nil)

	for i, row := range strategies {
		for j, col := range strategies {
			if i == j {
				matrix.Set(i, j, 0.5)
				continue
			}
			rec, ok := records[row][col]
			if !ok {
				continue
			}
			total := rec.Wins + rec.Losses
			if total > 0 {
				matrix.Set(i, j, float64(rec.Wins)/float64(total))
			}
		}
	}
	return matrix
}

// dominanceScores computes each strategy's overall win rate across all of
// its matchups, sorted by win rate descending
func (a *Analyzer) dominanceScores(records map[string]map[string]model.MatchupRecord) []model.DominanceScore {
	scores := make([]model.DominanceScore, 0, len(records))
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		wins, games := 0, 0
		for _, rec := range records[id] {
			wins += rec.Wins
			games += rec.Wins + rec.Losses
		}
		winRate := 0.0
		if games > 0 {
			winRate = float64(wins) / float64(games) * 100
		}
		scores = append(scores, model.DominanceScore{
			ID:      id,
			WinRate: winRate,
			Wins:    wins,
			Games:   games,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].WinRate > scores[j].WinRate })
	return scores
}

// dominanceEdges reports directed pairs whose win rate exceeds the
// configured threshold
func (a *Analyzer) dominanceEdges(matrix *mat.Dense, strategies []string) []model.DominanceEdge {
	var edges []model.DominanceEdge
	n := len(strategies)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			rate := matrix.At(i, j)
			if rate > a.dominanceThreshold {
				edges = append(edges, model.DominanceEdge{
					From:    strategies[i],
					To:      strategies[j],
					WinRate: rate,
				})
			}
		}
	}
	return edges
}

// matrixRows flattens a dense matrix into row slices for serialization
func matrixRows(matrix *mat.Dense) [][]float64 {
	r, c := matrix.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		mat.Row(row, i, matrix)
		rows[i] = row
	}
	return rows
}
