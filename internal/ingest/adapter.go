package ingest

import (
	"sort"

	"github.com/okranov/evolens/internal/model"
)

// Adapter normalizes one snapshot schema variant
type Adapter interface {
	// Name returns the variant name recorded in the normalized snapshot
	Name() string

	// CanHandle checks if this adapter recognizes the raw document
	CanHandle(doc *rawDocument) bool

	// Normalize converts the raw document into the uniform representation
	Normalize(doc *rawDocument) *model.Snapshot
}

// rawDocument mirrors the union of both schema variants. Unknown fields
// are ignored; absent fields stay zero-valued.
type rawDocument struct {
	Timestamp            string                           `json:"timestamp"`
	CompletedTournaments *int                             `json:"completedTournaments"`
	BalanceTimeline      map[string]rawTimeline           `json:"balanceTimeline"`
	TournamentData       []rawTournament                  `json:"tournamentData"`
	Tournaments          []rawTournament                  `json:"tournaments"`
	StrategyMatchups     map[string]map[string]rawMatchup `json:"strategyMatchups"`
}

type rawTimeline struct {
	Name       string     `json:"name"`
	Archetype  string     `json:"archetype"`
	DataPoints []rawPoint `json:"dataPoints"`
}

type rawPoint struct {
	Tournament   int  `json:"tournament"`
	Game         int  `json:"game"`
	Balance      int  `json:"balance"`
	Profit       int  `json:"profit"`
	IsWinner     bool `json:"isWinner"`
	IsEliminated bool `json:"isEliminated"`
}

type rawTournament struct {
	TournamentNumber  int           `json:"tournamentNumber"`
	Strategies        []rawStrategy `json:"strategies"`
	Games             []rawGame     `json:"games"`
	EvolutionDetails  *rawEvolution `json:"evolutionDetails"`
	StrategiesEvolved []rawEvolved  `json:"strategiesEvolved"`
}

type rawStrategy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Archetype   string `json:"archetype"`
	Strategy    string `json:"strategy"`
	CoinBalance *int   `json:"coinBalance"`
}

type rawGame struct {
	GameNumber     int         `json:"gameNumber"`
	EconomicImpact []rawImpact `json:"economicImpact"`
}

type rawImpact struct {
	StrategyID string `json:"strategyId"`
	Profit     int    `json:"profit"`
	IsWinner   bool   `json:"isWinner"`
}

type rawEvolution struct {
	Created    []rawEvolved    `json:"created"`
	Survivors  []rawSurvivor   `json:"survivors"`
	Eliminated []rawEliminated `json:"eliminated"`
}

type rawEvolved struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Archetype string      `json:"archetype"`
	Strategy  string      `json:"strategy"`
	Avoiding  string      `json:"avoiding"`
	Parents   []rawParent `json:"parents"`
	BasedOn   []rawParent `json:"basedOn"`
}

type rawParent struct {
	Name   string `json:"name"`
	Weight *int   `json:"weight"`
}

type rawSurvivor struct {
	ID      string  `json:"id"`
	Balance int     `json:"balance"`
	WinRate float64 `json:"winRate"`
}

type rawEliminated struct {
	ID           string  `json:"id"`
	FinalBalance int     `json:"finalBalance"`
	WinRate      float64 `json:"winRate"`
}

// Shared normalization helpers used by both adapters.

func normalizeRoster(raw []rawStrategy) []model.StrategyState {
	states := make([]model.StrategyState, 0, len(raw))
	for _, s := range raw {
		states = append(states, model.StrategyState{
			ID:           s.ID,
			Name:         s.Name,
			Archetype:    s.Archetype,
			StrategyText: s.Strategy,
			Balance:      s.CoinBalance,
		})
	}
	return states
}

func normalizeGames(raw []rawGame) []model.Game {
	games := make([]model.Game, 0, len(raw))
	for _, g := range raw {
		impacts := make([]model.EconomicImpact, 0, len(g.EconomicImpact))
		for _, imp := range g.EconomicImpact {
			impacts = append(impacts, model.EconomicImpact{
				StrategyID: imp.StrategyID,
				Profit:     imp.Profit,
				IsWinner:   imp.IsWinner,
			})
		}
		games = append(games, model.Game{Number: g.GameNumber, Impacts: impacts})
	}
	// Games replay in ascending number regardless of source order
	sort.SliceStable(games, func(i, j int) bool { return games[i].Number < games[j].Number })
	return games
}

func normalizeParents(raw []rawParent) []model.ParentRef {
	if len(raw) == 0 {
		return nil
	}
	parents := make([]model.ParentRef, 0, len(raw))
	for _, p := range raw {
		weight := model.WeightUnspecified
		if p.Weight != nil {
			weight = *p.Weight
		}
		parents = append(parents, model.ParentRef{Name: p.Name, Weight: weight})
	}
	return parents
}

func normalizeEvolved(raw []rawEvolved, parentsOf func(rawEvolved) []rawParent) []model.EvolvedStrategy {
	evolved := make([]model.EvolvedStrategy, 0, len(raw))
	for _, e := range raw {
		evolved = append(evolved, model.EvolvedStrategy{
			ID:           e.ID,
			Name:         e.Name,
			Archetype:    e.Archetype,
			StrategyText: e.Strategy,
			Avoiding:     e.Avoiding,
			Parents:      normalizeParents(parentsOf(e)),
		})
	}
	return evolved
}

func normalizeTimelines(raw map[string]rawTimeline) map[string]*model.BalanceTimeline {
	if len(raw) == 0 {
		return map[string]*model.BalanceTimeline{}
	}
	timelines := make(map[string]*model.BalanceTimeline, len(raw))
	for id, t := range raw {
		name := t.Name
		if name == "" {
			name = id
		}
		points := make([]model.BalanceDataPoint, 0, len(t.DataPoints))
		for _, p := range t.DataPoints {
			points = append(points, model.BalanceDataPoint{
				Tournament:   p.Tournament,
				Game:         p.Game,
				Balance:      p.Balance,
				Profit:       p.Profit,
				IsWinner:     p.IsWinner,
				IsEliminated: p.IsEliminated,
			})
		}
		sort.SliceStable(points, func(i, j int) bool {
			if points[i].Tournament != points[j].Tournament {
				return points[i].Tournament < points[j].Tournament
			}
			return points[i].Game < points[j].Game
		})
		timelines[id] = &model.BalanceTimeline{
			Name:       name,
			Archetype:  t.Archetype,
			DataPoints: points,
		}
	}
	return timelines
}

func normalizeMatchups(raw map[string]map[string]rawMatchup) map[string]map[string]model.MatchupRecord {
	if len(raw) == 0 {
		return nil
	}
	matchups := make(map[string]map[string]model.MatchupRecord, len(raw))
	for id, opponents := range raw {
		matchups[id] = make(map[string]model.MatchupRecord, len(opponents))
		for oppID, rec := range opponents {
			matchups[id][oppID] = model.MatchupRecord{Wins: rec.Wins, Losses: rec.Losses}
		}
	}
	return matchups
}

type rawMatchup struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

func normalizeCommon(doc *rawDocument, variant string, tournaments []rawTournament, evolutionOf func(rawTournament) model.EvolutionDetails) *model.Snapshot {
	normalized := make([]model.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		normalized = append(normalized, model.Tournament{
			Number:     t.TournamentNumber,
			Strategies: normalizeRoster(t.Strategies),
			Games:      normalizeGames(t.Games),
			Evolution:  evolutionOf(t),
		})
	}
	// Tournaments replay in ascending number
	sort.SliceStable(normalized, func(i, j int) bool { return normalized[i].Number < normalized[j].Number })

	completed := len(tournaments)
	if doc.CompletedTournaments != nil {
		completed = *doc.CompletedTournaments
	}

	return &model.Snapshot{
		Timestamp:            doc.Timestamp,
		SchemaVariant:        variant,
		CompletedTournaments: completed,
		Tournaments:          normalized,
		Timelines:            normalizeTimelines(doc.BalanceTimeline),
		Matchups:             normalizeMatchups(doc.StrategyMatchups),
	}
}
