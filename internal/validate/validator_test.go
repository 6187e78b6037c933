package validate

import (
	"strings"
	"testing"

	"github.com/okranov/evolens/internal/model"
)

func testValidator() *Validator {
	return NewValidator(model.SimulationConfig{StartingBalance: 500, EliminationThreshold: 100})
}

func TestCheck_CleanArtifacts(t *testing.T) {
	v := testValidator()

	timelines := map[string]*model.BalanceTimeline{
		"s1": {Name: "Alpha", DataPoints: []model.BalanceDataPoint{
			{Tournament: 1, Game: 0, Balance: 500},
			{Tournament: 1, Game: 1, Balance: 550, Profit: 50, IsWinner: true},
			{Tournament: 2, Game: 0, Balance: 550},
		}},
	}
	pct := 10.0
	results := map[string]*model.StrategyStats{
		"s1": {ID: "s1", Name: "Alpha", WinRate: 100, ChangePct: &pct},
	}
	lineage := &model.LineageSummary{
		Edges: []model.LineageEdge{{ParentID: "a", ChildID: "b", Weight: 50}},
	}

	if issues := v.Check(timelines, results, lineage); len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestCheck_OutOfOrderPoints(t *testing.T) {
	v := testValidator()

	timelines := map[string]*model.BalanceTimeline{
		"s1": {Name: "Alpha", DataPoints: []model.BalanceDataPoint{
			{Tournament: 1, Game: 0, Balance: 500},
			{Tournament: 1, Game: 2, Balance: 520, Profit: 20},
			{Tournament: 1, Game: 1, Balance: 510, Profit: -10},
		}},
	}

	issues := v.Check(timelines, nil, nil)
	if len(issues) == 0 {
		t.Fatal("Expected an ordering issue")
	}
	if issues[0].Severity != model.IssueCritical {
		t.Errorf("Expected critical severity, got %s", issues[0].Severity)
	}
	if !strings.Contains(issues[0].Message, "out of order") {
		t.Errorf("Unexpected message: %s", issues[0].Message)
	}
}

func TestCheck_MissingSeed(t *testing.T) {
	v := testValidator()

	timelines := map[string]*model.BalanceTimeline{
		"s1": {Name: "Alpha", DataPoints: []model.BalanceDataPoint{
			{Tournament: 1, Game: 1, Balance: 550, Profit: 50},
		}},
	}

	issues := v.Check(timelines, nil, nil)
	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(issues))
	}
	if !strings.Contains(issues[0].Message, "seed point") {
		t.Errorf("Unexpected message: %s", issues[0].Message)
	}
}

func TestCheck_EliminationFlagMismatch(t *testing.T) {
	v := testValidator()

	timelines := map[string]*model.BalanceTimeline{
		"s1": {Name: "Alpha", DataPoints: []model.BalanceDataPoint{
			{Tournament: 1, Game: 0, Balance: 500},
			{Tournament: 1, Game: 1, Balance: 50, Profit: -450, IsEliminated: false},
		}},
	}

	issues := v.Check(timelines, nil, nil)
	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(issues))
	}
	if !strings.Contains(issues[0].Message, "elimination flag") {
		t.Errorf("Unexpected message: %s", issues[0].Message)
	}
}

func TestCheck_SeedBelowThresholdIgnored(t *testing.T) {
	v := testValidator()

	// Seed points carry no elimination flag; a low seed balance is fine
	timelines := map[string]*model.BalanceTimeline{
		"s1": {Name: "Alpha", DataPoints: []model.BalanceDataPoint{
			{Tournament: 1, Game: 0, Balance: 50},
		}},
	}

	if issues := v.Check(timelines, nil, nil); len(issues) != 0 {
		t.Errorf("Expected no issues for a low seed balance, got %v", issues)
	}
}

func TestCheck_StatsBounds(t *testing.T) {
	v := testValidator()

	results := map[string]*model.StrategyStats{
		"s1": {ID: "s1", WinRate: 120, Volatility: -1},
	}

	issues := v.Check(nil, results, nil)

	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	joined := strings.Join(messages, "; ")
	if !strings.Contains(joined, "negative volatility") {
		t.Errorf("Expected a volatility issue, got %v", messages)
	}
	if !strings.Contains(joined, "outside [0, 100]") {
		t.Errorf("Expected a win rate issue, got %v", messages)
	}
	// Missing percentage change is informational
	if !strings.Contains(joined, "percentage change undefined") {
		t.Errorf("Expected an info issue for nil change pct, got %v", messages)
	}
}

func TestCheck_LineageIssues(t *testing.T) {
	v := testValidator()

	lineage := &model.LineageSummary{
		Edges: []model.LineageEdge{
			{ParentID: "a", ChildID: "a", Weight: 50},
			{ParentID: "a", ChildID: "b", Weight: 140},
		},
	}

	issues := v.Check(nil, nil, lineage)
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %d", len(issues))
	}
	if !strings.Contains(issues[0].Message, "self-loop") {
		t.Errorf("Unexpected message: %s", issues[0].Message)
	}
	if !strings.Contains(issues[1].Message, "weight 140") {
		t.Errorf("Unexpected message: %s", issues[1].Message)
	}
}
