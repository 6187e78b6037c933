package ingest

import "github.com/okranov/evolens/internal/model"

// currentAdapter handles the current schema variant: tournaments under
// tournamentData, evolved strategies under evolutionDetails.created with
// parents declared as {name, weight} pairs.
type currentAdapter struct{}

// NewCurrentAdapter creates the current-schema adapter
func NewCurrentAdapter() Adapter {
	return &currentAdapter{}
}

// Name returns the adapter name
func (a *currentAdapter) Name() string {
	return "current"
}

// CanHandle checks if the raw document uses the current schema.
// A document carrying only a balanceTimeline (no tournament records at all)
// is also current-schema output.
func (a *currentAdapter) CanHandle(doc *rawDocument) bool {
	return doc.TournamentData != nil || (doc.Tournaments == nil && len(doc.BalanceTimeline) > 0)
}

// Normalize converts the raw document into the uniform representation
func (a *currentAdapter) Normalize(doc *rawDocument) *model.Snapshot {
	return normalizeCommon(doc, a.Name(), doc.TournamentData, func(t rawTournament) model.EvolutionDetails {
		if t.EvolutionDetails == nil {
			return model.EvolutionDetails{}
		}
		details := model.EvolutionDetails{
			Created: normalizeEvolved(t.EvolutionDetails.Created, func(e rawEvolved) []rawParent {
				return e.Parents
			}),
		}
		for _, s := range t.EvolutionDetails.Survivors {
			details.Survivors = append(details.Survivors, model.SurvivorRecord{
				ID:      s.ID,
				Balance: s.Balance,
				WinRate: s.WinRate,
			})
		}
		for _, e := range t.EvolutionDetails.Eliminated {
			details.Eliminated = append(details.Eliminated, model.EliminationRecord{
				ID:           e.ID,
				FinalBalance: e.FinalBalance,
				WinRate:      e.WinRate,
			})
		}
		return details
	})
}
