package timeline

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/okranov/evolens/internal/model"
)

func testConfig() model.SimulationConfig {
	return model.SimulationConfig{StartingBalance: 500, EliminationThreshold: 100}
}

func intPtr(v int) *int { return &v }

func TestRebuild_SingleTournament(t *testing.T) {
	r := NewReconstructor(testConfig(), zerolog.Nop())

	tournaments := []model.Tournament{
		{
			Number: 1,
			Strategies: []model.StrategyState{
				{ID: "s1", Name: "Alpha", Archetype: "cautious"},
			},
			Games: []model.Game{
				{Number: 1, Impacts: []model.EconomicImpact{{StrategyID: "s1", Profit: 50, IsWinner: true}}},
				{Number: 2, Impacts: []model.EconomicImpact{{StrategyID: "s1", Profit: -150}}},
			},
		},
	}

	timelines := r.Rebuild(tournaments)

	alpha := timelines["s1"]
	if alpha == nil {
		t.Fatal("Expected timeline for s1")
	}

	expected := []model.BalanceDataPoint{
		{Tournament: 1, Game: 0, Balance: 500},
		{Tournament: 1, Game: 1, Balance: 550, Profit: 50, IsWinner: true},
		{Tournament: 1, Game: 2, Balance: 400, Profit: -150},
	}
	if len(alpha.DataPoints) != len(expected) {
		t.Fatalf("Expected %d points, got %d", len(expected), len(alpha.DataPoints))
	}
	for i, want := range expected {
		if alpha.DataPoints[i] != want {
			t.Errorf("Point %d: expected %+v, got %+v", i, want, alpha.DataPoints[i])
		}
	}
}

func TestRebuild_SeedPerTournament(t *testing.T) {
	r := NewReconstructor(testConfig(), zerolog.Nop())

	// A strategy in both rosters gets a seed point for each tournament,
	// and the second seed uses its declared balance
	tournaments := []model.Tournament{
		{
			Number:     1,
			Strategies: []model.StrategyState{{ID: "s1", Name: "Alpha"}},
			Games: []model.Game{
				{Number: 1, Impacts: []model.EconomicImpact{{StrategyID: "s1", Profit: -20}}},
			},
		},
		{
			Number:     2,
			Strategies: []model.StrategyState{{ID: "s1", Name: "Alpha", Balance: intPtr(480)}},
			Games: []model.Game{
				{Number: 1, Impacts: []model.EconomicImpact{{StrategyID: "s1", Profit: 10, IsWinner: true}}},
			},
		},
	}

	timelines := r.Rebuild(tournaments)
	points := timelines["s1"].DataPoints

	if len(points) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(points))
	}
	if points[2].Tournament != 2 || points[2].Game != 0 || points[2].Balance != 480 {
		t.Errorf("Expected second seed (2, 0, 480), got %+v", points[2])
	}
	if points[3].Balance != 490 {
		t.Errorf("Expected balance 490 after second tournament game, got %d", points[3].Balance)
	}
}

func TestRebuild_SkipsUnknownStrategy(t *testing.T) {
	r := NewReconstructor(testConfig(), zerolog.Nop())

	// An impact for a strategy never seen in a roster has no balance to
	// extend and is dropped
	tournaments := []model.Tournament{
		{
			Number:     1,
			Strategies: []model.StrategyState{{ID: "s1", Name: "Alpha"}},
			Games: []model.Game{
				{Number: 1, Impacts: []model.EconomicImpact{
					{StrategyID: "s1", Profit: 10},
					{StrategyID: "ghost", Profit: 99},
				}},
			},
		},
	}

	timelines := r.Rebuild(tournaments)
	if _, ok := timelines["ghost"]; ok {
		t.Error("Expected no timeline for a strategy outside every roster")
	}
	if len(timelines["s1"].DataPoints) != 2 {
		t.Errorf("Expected 2 points for s1, got %d", len(timelines["s1"].DataPoints))
	}
}

func TestRebuild_EliminationFlag(t *testing.T) {
	r := NewReconstructor(testConfig(), zerolog.Nop())

	tournaments := []model.Tournament{
		{
			Number:     1,
			Strategies: []model.StrategyState{{ID: "s1", Name: "Alpha"}},
			Games: []model.Game{
				{Number: 1, Impacts: []model.EconomicImpact{{StrategyID: "s1", Profit: -401}}},
				{Number: 2, Impacts: []model.EconomicImpact{{StrategyID: "s1", Profit: 1}}},
			},
		},
	}

	points := r.Rebuild(tournaments)["s1"].DataPoints

	if !points[1].IsEliminated {
		t.Errorf("Expected balance %d below threshold to set the flag", points[1].Balance)
	}
	// Exactly at the threshold is not eliminated
	if points[2].Balance != 100 || points[2].IsEliminated {
		t.Errorf("Expected balance 100 not eliminated, got %+v", points[2])
	}
}

func TestTimelines_Passthrough(t *testing.T) {
	r := NewReconstructor(testConfig(), zerolog.Nop())

	existing := map[string]*model.BalanceTimeline{
		"s1": {Name: "Alpha", DataPoints: []model.BalanceDataPoint{{Tournament: 1, Game: 0, Balance: 500}}},
	}
	snapshot := &model.Snapshot{
		Timelines: existing,
		Tournaments: []model.Tournament{
			{Number: 1, Strategies: []model.StrategyState{{ID: "s2", Name: "Beta"}}},
		},
	}

	timelines := r.Timelines(snapshot)
	if len(timelines) != 1 {
		t.Fatalf("Expected passthrough of 1 timeline, got %d", len(timelines))
	}
	if timelines["s1"] != existing["s1"] {
		t.Error("Expected the source timeline to pass through untouched")
	}
}
