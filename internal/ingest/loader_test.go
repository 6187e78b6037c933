package ingest

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

const currentSnapshot = `{
	"timestamp": "2025-03-01T12:00:00Z",
	"completedTournaments": 2,
	"tournamentData": [
		{
			"tournamentNumber": 2,
			"strategies": [
				{"id": "s2", "name": "Beta", "archetype": "aggressive", "coinBalance": 480}
			],
			"games": [
				{"gameNumber": 1, "economicImpact": [{"strategyId": "s2", "profit": 20, "isWinner": true}]}
			],
			"evolutionDetails": {
				"created": [
					{"id": "s3", "name": "Gamma", "archetype": "hybrid", "parents": [{"name": "Beta", "weight": 70}], "avoiding": "Alpha"}
				],
				"survivors": [{"id": "s2", "balance": 500, "winRate": 55.0}],
				"eliminated": [{"id": "s1", "finalBalance": 80, "winRate": 20.0}]
			}
		},
		{
			"tournamentNumber": 1,
			"strategies": [
				{"id": "s1", "name": "Alpha", "archetype": "cautious"},
				{"id": "s2", "name": "Beta", "archetype": "aggressive"}
			],
			"games": []
		}
	],
	"strategyMatchups": {
		"s1": {"s2": {"wins": 3, "losses": 7}}
	}
}`

const legacySnapshot = `{
	"timestamp": "2024-11-20T08:30:00Z",
	"tournaments": [
		{
			"tournamentNumber": 1,
			"strategies": [{"id": "s1", "name": "Alpha"}],
			"games": [],
			"strategiesEvolved": [
				{"id": "s2", "name": "Beta", "basedOn": [{"name": "Alpha"}]}
			]
		}
	]
}`

func TestParse_CurrentSchema(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	snapshot, err := loader.Parse([]byte(currentSnapshot))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if snapshot.SchemaVariant != "current" {
		t.Errorf("Expected variant current, got %s", snapshot.SchemaVariant)
	}
	if snapshot.CompletedTournaments != 2 {
		t.Errorf("Expected 2 completed tournaments, got %d", snapshot.CompletedTournaments)
	}
	if len(snapshot.Tournaments) != 2 {
		t.Fatalf("Expected 2 tournaments, got %d", len(snapshot.Tournaments))
	}

	// Tournaments are sorted ascending regardless of document order
	if snapshot.Tournaments[0].Number != 1 || snapshot.Tournaments[1].Number != 2 {
		t.Errorf("Expected tournaments sorted ascending, got %d then %d",
			snapshot.Tournaments[0].Number, snapshot.Tournaments[1].Number)
	}

	second := snapshot.Tournaments[1]
	if len(second.Evolution.Created) != 1 {
		t.Fatalf("Expected 1 evolved strategy, got %d", len(second.Evolution.Created))
	}
	evolved := second.Evolution.Created[0]
	if evolved.Name != "Gamma" || evolved.Avoiding != "Alpha" {
		t.Errorf("Unexpected evolved strategy: %+v", evolved)
	}
	if len(evolved.Parents) != 1 || evolved.Parents[0].Name != "Beta" || evolved.Parents[0].Weight != 70 {
		t.Errorf("Unexpected parents: %+v", evolved.Parents)
	}
	if len(second.Evolution.Survivors) != 1 || second.Evolution.Survivors[0].ID != "s2" {
		t.Errorf("Unexpected survivors: %+v", second.Evolution.Survivors)
	}
	if len(second.Evolution.Eliminated) != 1 || second.Evolution.Eliminated[0].FinalBalance != 80 {
		t.Errorf("Unexpected eliminated: %+v", second.Evolution.Eliminated)
	}

	if snapshot.Matchups["s1"]["s2"].Wins != 3 {
		t.Errorf("Expected 3 wins for s1 vs s2, got %d", snapshot.Matchups["s1"]["s2"].Wins)
	}

	roster := second.Strategies
	if len(roster) != 1 || roster[0].Balance == nil || *roster[0].Balance != 480 {
		t.Errorf("Unexpected roster: %+v", roster)
	}
}

func TestParse_LegacySchema(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	snapshot, err := loader.Parse([]byte(legacySnapshot))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if snapshot.SchemaVariant != "legacy" {
		t.Errorf("Expected variant legacy, got %s", snapshot.SchemaVariant)
	}
	// completedTournaments absent: defaults to the tournament count
	if snapshot.CompletedTournaments != 1 {
		t.Errorf("Expected completed tournaments to default to 1, got %d", snapshot.CompletedTournaments)
	}

	created := snapshot.Tournaments[0].Evolution.Created
	if len(created) != 1 {
		t.Fatalf("Expected 1 evolved strategy, got %d", len(created))
	}
	if len(created[0].Parents) != 1 || created[0].Parents[0].Name != "Alpha" {
		t.Errorf("Unexpected parents: %+v", created[0].Parents)
	}
	// basedOn entries carry no weight
	if created[0].Parents[0].Weight != -1 {
		t.Errorf("Expected unspecified weight sentinel, got %d", created[0].Parents[0].Weight)
	}
}

func TestParse_TimelineOnly(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	doc := `{
		"balanceTimeline": {
			"s1": {
				"name": "Alpha",
				"dataPoints": [
					{"tournament": 1, "game": 1, "balance": 550, "profit": 50, "isWinner": true},
					{"tournament": 1, "game": 0, "balance": 500}
				]
			}
		}
	}`

	snapshot, err := loader.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if snapshot.SchemaVariant != "current" {
		t.Errorf("Expected variant current, got %s", snapshot.SchemaVariant)
	}
	if !snapshot.HasTimelines() {
		t.Fatal("Expected snapshot to carry timelines")
	}

	points := snapshot.Timelines["s1"].DataPoints
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	// Points are sorted by (tournament, game)
	if points[0].Game != 0 || points[1].Game != 1 {
		t.Errorf("Expected points sorted by game, got %d then %d", points[0].Game, points[1].Game)
	}
}

func TestParse_Malformed(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	tests := []struct {
		name string
		doc  string
	}{
		{"no recognizable keys", `{"somethingElse": true}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tt.doc))
			if !errors.Is(err, ErrMalformedSnapshot) {
				t.Errorf("Expected ErrMalformedSnapshot, got %v", err)
			}
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	if _, err := loader.Parse([]byte(`{not json`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestParse_EmptyTournamentData(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	// Present but empty tournamentData is still the current schema
	snapshot, err := loader.Parse([]byte(`{"tournamentData": []}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if snapshot.SchemaVariant != "current" {
		t.Errorf("Expected variant current, got %s", snapshot.SchemaVariant)
	}
	if snapshot.CompletedTournaments != 0 {
		t.Errorf("Expected 0 completed tournaments, got %d", snapshot.CompletedTournaments)
	}
}
