package ingest

import "github.com/okranov/evolens/internal/model"

// legacyAdapter handles the older schema variant: tournaments under
// tournaments, evolved strategies listed in strategiesEvolved with their
// ancestry declared as basedOn entries.
type legacyAdapter struct{}

// NewLegacyAdapter creates the legacy-schema adapter
func NewLegacyAdapter() Adapter {
	return &legacyAdapter{}
}

// Name returns the adapter name
func (a *legacyAdapter) Name() string {
	return "legacy"
}

// CanHandle checks if the raw document uses the legacy schema
func (a *legacyAdapter) CanHandle(doc *rawDocument) bool {
	return doc.Tournaments != nil
}

// Normalize converts the raw document into the uniform representation.
// Legacy snapshots carry no survivor/elimination records.
func (a *legacyAdapter) Normalize(doc *rawDocument) *model.Snapshot {
	return normalizeCommon(doc, a.Name(), doc.Tournaments, func(t rawTournament) model.EvolutionDetails {
		return model.EvolutionDetails{
			Created: normalizeEvolved(t.StrategiesEvolved, func(e rawEvolved) []rawParent {
				return e.BasedOn
			}),
		}
	})
}
