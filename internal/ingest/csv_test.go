package ingest

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

const timelineCSV = `Strategy,StrategyId,Tournament,Game,Balance,Profit,IsWinner,IsEliminated
Alpha,s1,1,1,550,50,True,False
Alpha,s1,1,0,500,0,False,False
Beta,s2,1,0,500,0,False,False
Beta,s2,1,1,450,-50,False,False
`

func TestParseTimelineCSV(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	timelines, err := loader.ParseTimelineCSV([]byte(timelineCSV))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(timelines) != 2 {
		t.Fatalf("Expected 2 timelines, got %d", len(timelines))
	}

	alpha := timelines["s1"]
	if alpha == nil {
		t.Fatal("Expected timeline for s1")
	}
	if alpha.Name != "Alpha" {
		t.Errorf("Expected name Alpha, got %s", alpha.Name)
	}
	if len(alpha.DataPoints) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(alpha.DataPoints))
	}
	// Rows are sorted by (tournament, game) regardless of file order
	if alpha.DataPoints[0].Game != 0 || alpha.DataPoints[1].Game != 1 {
		t.Errorf("Expected points sorted by game, got %d then %d",
			alpha.DataPoints[0].Game, alpha.DataPoints[1].Game)
	}
	if !alpha.DataPoints[1].IsWinner {
		t.Error("Expected Python-style True to parse as a win")
	}

	beta := timelines["s2"]
	if beta.DataPoints[1].Balance != 450 || beta.DataPoints[1].Profit != -50 {
		t.Errorf("Unexpected beta point: %+v", beta.DataPoints[1])
	}
}

func TestParseTimelineCSV_MissingColumn(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	csv := "Strategy,Tournament,Game,Balance,Profit,IsWinner\nAlpha,1,0,500,0,False\n"
	_, err := loader.ParseTimelineCSV([]byte(csv))
	if !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("Expected ErrMalformedSnapshot for missing StrategyId, got %v", err)
	}
}

func TestParseTimelineCSV_BadNumber(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	csv := "Strategy,StrategyId,Tournament,Game,Balance,Profit,IsWinner,IsEliminated\nAlpha,s1,one,0,500,0,False,False\n"
	if _, err := loader.ParseTimelineCSV([]byte(csv)); err == nil {
		t.Error("Expected error for non-numeric tournament")
	}
}

func TestParseTimelineCSV_FallbackID(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	// Empty StrategyId falls back to the strategy name
	csv := "Strategy,StrategyId,Tournament,Game,Balance,Profit,IsWinner,IsEliminated\nAlpha,,1,0,500,0,False,False\n"
	timelines, err := loader.ParseTimelineCSV([]byte(csv))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := timelines["Alpha"]; !ok {
		t.Error("Expected timeline keyed by strategy name")
	}
}
