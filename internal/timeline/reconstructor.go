package timeline

import (
	"github.com/rs/zerolog"

	"github.com/okranov/evolens/internal/model"
)

// Reconstructor rebuilds per-strategy balance timelines from raw
// tournament records when the snapshot carries no explicit timeline.
type Reconstructor struct {
	startingBalance      int
	eliminationThreshold int
	log                  zerolog.Logger
}

// NewReconstructor creates a reconstructor with the simulation's economic
// policy constants
func NewReconstructor(cfg model.SimulationConfig, log zerolog.Logger) *Reconstructor {
	return &Reconstructor{
		startingBalance:      cfg.StartingBalance,
		eliminationThreshold: cfg.EliminationThreshold,
		log:                  log,
	}
}

// Timelines returns the snapshot's balance timelines, reconstructing them
// from per-game economic impacts when the source omitted them. A snapshot
// that already carries an explicit timeline is passed through untouched.
func (r *Reconstructor) Timelines(snapshot *model.Snapshot) map[string]*model.BalanceTimeline {
	if snapshot.HasTimelines() {
		return snapshot.Timelines
	}

	timelines := r.Rebuild(snapshot.Tournaments)
	r.log.Info().
		Int("strategies", len(timelines)).
		Int("tournaments", len(snapshot.Tournaments)).
		Msg("balance timelines reconstructed from tournament records")
	return timelines
}

// Rebuild replays tournaments in ascending number. Every strategy in a
// tournament's starting roster gets a game-0 seed point carrying its
// starting balance for that tournament, so each tournament segment begins
// at game 0. Each economic impact then extends the strategy's running
// balance; a strategy with no roster appearance so far is skipped, since
// there is no balance to extend.
func (r *Reconstructor) Rebuild(tournaments []model.Tournament) map[string]*model.BalanceTimeline {
	timelines := make(map[string]*model.BalanceTimeline)

	for _, tournament := range tournaments {
		for _, strategy := range tournament.Strategies {
			timeline, ok := timelines[strategy.ID]
			if !ok {
				timeline = &model.BalanceTimeline{
					Name:      strategy.Name,
					Archetype: strategy.Archetype,
				}
				timelines[strategy.ID] = timeline
			}

			balance := r.startingBalance
			if strategy.Balance != nil {
				balance = *strategy.Balance
			}
			timeline.DataPoints = append(timeline.DataPoints, model.BalanceDataPoint{
				Tournament: tournament.Number,
				Game:       0,
				Balance:    balance,
			})
		}

		for _, game := range tournament.Games {
			for _, impact := range game.Impacts {
				timeline, ok := timelines[impact.StrategyID]
				if !ok || len(timeline.DataPoints) == 0 {
					continue
				}

				last := timeline.DataPoints[len(timeline.DataPoints)-1]
				balance := last.Balance + impact.Profit
				timeline.DataPoints = append(timeline.DataPoints, model.BalanceDataPoint{
					Tournament:   tournament.Number,
					Game:         game.Number,
					Balance:      balance,
					Profit:       impact.Profit,
					IsWinner:     impact.IsWinner,
					IsEliminated: balance < r.eliminationThreshold,
				})
			}
		}
	}

	return timelines
}
