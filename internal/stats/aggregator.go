package stats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/okranov/evolens/internal/model"
)

// ErrZeroStartingBalance indicates a strategy started at zero, leaving
// its percentage change undefined. The error is per-strategy and never
// aborts processing of siblings.
var ErrZeroStartingBalance = errors.New("starting balance is zero, percentage change undefined")

// Aggregator computes per-strategy performance statistics from balance
// timelines
type Aggregator struct {
	risk model.RiskConfig
	log  zerolog.Logger
}

// NewAggregator creates an aggregator with the given classification cutoffs
func NewAggregator(cfg model.RiskConfig, log zerolog.Logger) *Aggregator {
	return &Aggregator{risk: cfg, log: log}
}

// Aggregate computes the statistics for one timeline. Seed points (game 0)
// contribute to balance figures but never to volatility or win rate.
func (a *Aggregator) Aggregate(id string, timeline *model.BalanceTimeline) (*model.StrategyStats, error) {
	if len(timeline.DataPoints) == 0 {
		return nil, fmt.Errorf("strategy %s: empty timeline", id)
	}

	first := timeline.DataPoints[0]
	last := timeline.DataPoints[len(timeline.DataPoints)-1]

	peak := first.Balance
	for _, p := range timeline.DataPoints {
		if p.Balance > peak {
			peak = p.Balance
		}
	}

	gamePoints := timeline.GamePoints()
	profits := make([]float64, 0, len(gamePoints))
	wins := 0
	for _, p := range gamePoints {
		profits = append(profits, float64(p.Profit))
		if p.IsWinner {
			wins++
		}
	}

	volatility := 0.0
	if len(profits) > 0 {
		volatility = stat.PopStdDev(profits, nil)
	}

	winRate := 0.0
	if len(gamePoints) > 0 {
		winRate = float64(wins) / float64(len(gamePoints)) * 100
	}

	change := last.Balance - first.Balance
	result := &model.StrategyStats{
		ID:         id,
		Name:       timeline.Name,
		Start:      first.Balance,
		Final:      last.Balance,
		Peak:       peak,
		Change:     change,
		Volatility: volatility,
		Wins:       wins,
		Games:      len(gamePoints),
		WinRate:    winRate,
		RiskTier:   a.riskTier(volatility),
		RewardTier: a.rewardTier(change),
	}

	if first.Balance == 0 {
		return result, fmt.Errorf("strategy %s: %w", id, ErrZeroStartingBalance)
	}
	pct := float64(change) / float64(first.Balance) * 100
	result.ChangePct = &pct
	return result, nil
}

// AggregateAll computes statistics for every timeline. Per-strategy
// anomalies are isolated: the affected strategy keeps its partial record
// (percentage change unset) and siblings are unaffected.
func (a *Aggregator) AggregateAll(timelines map[string]*model.BalanceTimeline) map[string]*model.StrategyStats {
	results := make(map[string]*model.StrategyStats, len(timelines))
	for _, id := range sortedKeys(timelines) {
		result, err := a.Aggregate(id, timelines[id])
		if err != nil {
			a.log.Warn().Err(err).Str("strategy", id).Msg("statistics incomplete")
			if result == nil {
				continue
			}
		}
		results[id] = result
	}
	return results
}

func (a *Aggregator) riskTier(volatility float64) model.Tier {
	switch {
	case volatility > a.risk.HighVolatility:
		return model.TierHigh
	case volatility > a.risk.MedVolatility:
		return model.TierMed
	default:
		return model.TierLow
	}
}

func (a *Aggregator) rewardTier(change int) model.Tier {
	switch {
	case change > a.risk.HighReward:
		return model.TierHigh
	case change > 0:
		return model.TierMed
	default:
		return model.TierLow
	}
}

// Standings ranks strategies by final balance, descending. Ties rank
// alphabetically so repeated runs produce identical reports.
func Standings(results map[string]*model.StrategyStats) []model.Standing {
	standings := make([]model.Standing, 0, len(results))
	for _, id := range sortedStatKeys(results) {
		s := results[id]
		standings = append(standings, model.Standing{
			ID:           id,
			Name:         s.Name,
			FinalBalance: s.Final,
			Profit:       s.Change,
			GamesPlayed:  s.Games,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].FinalBalance != standings[j].FinalBalance {
			return standings[i].FinalBalance > standings[j].FinalBalance
		}
		return standings[i].Name < standings[j].Name
	})
	return standings
}

// ComputeLeaders picks the notable strategies of a run: most profitable,
// most volatile, most consistent, best win rate. Ties go to the first
// strategy in id order.
func ComputeLeaders(results map[string]*model.StrategyStats) model.Leaders {
	var leaders model.Leaders
	first := true
	for _, id := range sortedStatKeys(results) {
		s := results[id]
		if first {
			leaders.MostProfitable = model.Leader{ID: id, Name: s.Name, Value: float64(s.Change)}
			leaders.MostVolatile = model.Leader{ID: id, Name: s.Name, Value: s.Volatility}
			leaders.MostConsistent = model.Leader{ID: id, Name: s.Name, Value: s.Volatility}
			leaders.BestWinRate = model.Leader{ID: id, Name: s.Name, Value: s.WinRate}
			first = false
			continue
		}
		if float64(s.Change) > leaders.MostProfitable.Value {
			leaders.MostProfitable = model.Leader{ID: id, Name: s.Name, Value: float64(s.Change)}
		}
		if s.Volatility > leaders.MostVolatile.Value {
			leaders.MostVolatile = model.Leader{ID: id, Name: s.Name, Value: s.Volatility}
		}
		if s.Volatility < leaders.MostConsistent.Value {
			leaders.MostConsistent = model.Leader{ID: id, Name: s.Name, Value: s.Volatility}
		}
		if s.WinRate > leaders.BestWinRate.Value {
			leaders.BestWinRate = model.Leader{ID: id, Name: s.Name, Value: s.WinRate}
		}
	}
	return leaders
}

func sortedKeys(m map[string]*model.BalanceTimeline) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStatKeys(m map[string]*model.StrategyStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
