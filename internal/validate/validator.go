package validate

import (
	"fmt"
	"sort"

	"github.com/okranov/evolens/internal/model"
)

// Validator runs integrity checks over derived artifacts. Findings are
// diagnostic: they flag inconsistencies in the source data or in the
// derivation and never abort processing.
type Validator struct {
	eliminationThreshold int
}

// NewValidator creates a validator using the simulation's policy constants
func NewValidator(cfg model.SimulationConfig) *Validator {
	return &Validator{eliminationThreshold: cfg.EliminationThreshold}
}

// Check inspects timelines, statistics and the lineage summary and
// returns any issues found
func (v *Validator) Check(timelines map[string]*model.BalanceTimeline, results map[string]*model.StrategyStats, lineage *model.LineageSummary) []model.Issue {
	var issues []model.Issue
	issues = append(issues, v.checkTimelines(timelines)...)
	issues = append(issues, v.checkStats(results)...)
	issues = append(issues, v.checkLineage(lineage)...)
	return issues
}

func (v *Validator) checkTimelines(timelines map[string]*model.BalanceTimeline) []model.Issue {
	var issues []model.Issue

	ids := make([]string, 0, len(timelines))
	for id := range timelines {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		timeline := timelines[id]
		lastTournament := -1
		lastGame := -1
		for i, p := range timeline.DataPoints {
			ordered := p.Tournament > lastTournament ||
				(p.Tournament == lastTournament && p.Game > lastGame)
			if !ordered {
				issues = append(issues, model.Issue{
					Severity: model.IssueCritical,
					Strategy: id,
					Message:  fmt.Sprintf("data point %d out of order: tournament %d game %d", i, p.Tournament, p.Game),
				})
			}

			if p.Tournament != lastTournament && p.Game != 0 {
				issues = append(issues, model.Issue{
					Severity: model.IssueWarning,
					Strategy: id,
					Message:  fmt.Sprintf("tournament %d segment does not start with a seed point", p.Tournament),
				})
			}

			if eliminated := p.Balance < v.eliminationThreshold; !p.IsSeed() && p.IsEliminated != eliminated {
				issues = append(issues, model.Issue{
					Severity: model.IssueWarning,
					Strategy: id,
					Message:  fmt.Sprintf("tournament %d game %d: elimination flag %v disagrees with balance %d", p.Tournament, p.Game, p.IsEliminated, p.Balance),
				})
			}

			lastTournament = p.Tournament
			lastGame = p.Game
		}
	}

	return issues
}

func (v *Validator) checkStats(results map[string]*model.StrategyStats) []model.Issue {
	var issues []model.Issue
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s := results[id]
		if s.Volatility < 0 {
			issues = append(issues, model.Issue{
				Severity: model.IssueCritical,
				Strategy: id,
				Message:  fmt.Sprintf("negative volatility %.2f", s.Volatility),
			})
		}
		if s.WinRate < 0 || s.WinRate > 100 {
			issues = append(issues, model.Issue{
				Severity: model.IssueCritical,
				Strategy: id,
				Message:  fmt.Sprintf("win rate %.2f outside [0, 100]", s.WinRate),
			})
		}
		if s.ChangePct == nil {
			issues = append(issues, model.Issue{
				Severity: model.IssueInfo,
				Strategy: id,
				Message:  "percentage change undefined (zero starting balance)",
			})
		}
	}
	return issues
}

func (v *Validator) checkLineage(lineage *model.LineageSummary) []model.Issue {
	if lineage == nil {
		return nil
	}
	var issues []model.Issue
	for _, e := range lineage.Edges {
		if e.ParentID == e.ChildID {
			issues = append(issues, model.Issue{
				Severity: model.IssueCritical,
				Strategy: e.ChildID,
				Message:  "lineage self-loop",
			})
		}
		if e.Weight < 0 || e.Weight > 100 {
			issues = append(issues, model.Issue{
				Severity: model.IssueCritical,
				Strategy: e.ChildID,
				Message:  fmt.Sprintf("edge weight %d outside [0, 100]", e.Weight),
			})
		}
	}
	return issues
}
