package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/okranov/evolens/internal/model"
)

const snapshotDoc = `{
	"timestamp": "2025-03-01T12:00:00Z",
	"tournamentData": [
		{
			"tournamentNumber": 1,
			"strategies": [
				{"id": "s1", "name": "Alpha", "archetype": "cautious"},
				{"id": "s2", "name": "Beta", "archetype": "aggressive"}
			],
			"games": [
				{"gameNumber": 1, "economicImpact": [
					{"strategyId": "s1", "profit": 50, "isWinner": true},
					{"strategyId": "s2", "profit": -50, "isWinner": false}
				]}
			]
		}
	],
	"strategyMatchups": {
		"s1": {"s2": {"wins": 7, "losses": 3}},
		"s2": {"s1": {"wins": 3, "losses": 7}}
	}
}`

func testPipeline(cfg *model.Config) *Pipeline {
	return NewPipeline(cfg, zerolog.Nop())
}

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestAnalyzeFile(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := testPipeline(cfg)

	path := writeSnapshot(t, "run.json", snapshotDoc)

	result, err := p.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}

	rep := result.Report
	if rep.Subject != "run" {
		t.Errorf("Expected subject run, got %s", rep.Subject)
	}
	if rep.SchemaVariant != "current" {
		t.Errorf("Expected current schema, got %s", rep.SchemaVariant)
	}
	if rep.CompletedTournaments != 1 {
		t.Errorf("Expected 1 completed tournament, got %d", rep.CompletedTournaments)
	}

	if len(rep.Timelines) != 2 {
		t.Fatalf("Expected 2 timelines, got %d", len(rep.Timelines))
	}
	alpha := rep.Stats["s1"]
	if alpha == nil || alpha.Final != 550 || alpha.Wins != 1 {
		t.Errorf("Unexpected alpha stats: %+v", alpha)
	}

	if len(rep.Standings) != 2 || rep.Standings[0].ID != "s1" {
		t.Errorf("Unexpected standings: %+v", rep.Standings)
	}

	// Two core strategies only: trivial lineage
	if rep.Lineage == nil || !rep.Lineage.Trivial {
		t.Errorf("Expected trivial lineage, got %+v", rep.Lineage)
	}

	if rep.Matchup == nil || len(rep.Matchup.Edges) != 1 {
		t.Errorf("Expected one dominance edge, got %+v", rep.Matchup)
	}

	if len(rep.Issues) != 0 {
		t.Errorf("Expected no integrity issues, got %v", rep.Issues)
	}
	if rep.Narrative != nil {
		t.Error("Expected no narrative without an LLM provider")
	}
}

func TestAnalyzeFile_CacheHit(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Dir = t.TempDir()
	p := testPipeline(cfg)

	path := writeSnapshot(t, "run.json", snapshotDoc)

	first, err := p.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("first analysis failed: %v", err)
	}
	if first.CacheHit {
		t.Error("Expected first analysis to miss the cache")
	}

	second, err := p.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("second analysis failed: %v", err)
	}
	if !second.CacheHit {
		t.Error("Expected second analysis to hit the cache")
	}
	if second.Report.Subject != first.Report.Subject {
		t.Errorf("Cached report differs: %s vs %s", second.Report.Subject, first.Report.Subject)
	}
}

func TestAnalyzeFile_CSV(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := testPipeline(cfg)

	csv := `Strategy,StrategyId,Tournament,Game,Balance,Profit,IsWinner,IsEliminated
Alpha,s1,1,0,500,0,False,False
Alpha,s1,1,1,550,50,True,False
`
	path := writeSnapshot(t, "balance_timeline.csv", csv)

	result, err := p.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}

	rep := result.Report
	if rep.SchemaVariant != "csv" {
		t.Errorf("Expected csv variant, got %s", rep.SchemaVariant)
	}
	if rep.Lineage != nil || rep.Matchup != nil {
		t.Error("Expected no lineage or matchup data from CSV input")
	}
	if rep.Stats["s1"] == nil || rep.Stats["s1"].Final != 550 {
		t.Errorf("Unexpected stats: %+v", rep.Stats["s1"])
	}
}

func TestAnalyzeFile_Malformed(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := testPipeline(cfg)

	path := writeSnapshot(t, "bad.json", `{"unrelated": true}`)

	if _, err := p.AnalyzeFile(context.Background(), path); err == nil {
		t.Error("Expected error for malformed snapshot")
	}
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := testPipeline(cfg)

	if _, err := p.AnalyzeFile(context.Background(), "missing.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRenderReport_WritesFiles(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := testPipeline(cfg)

	path := writeSnapshot(t, "run.json", snapshotDoc)
	result, err := p.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out.json")
	mdPath := filepath.Join(dir, "out.md")

	if err := p.RenderReport(result.Report, jsonPath, mdPath, false); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	for _, out := range []string{jsonPath, mdPath} {
		if _, err := os.Stat(out); err != nil {
			t.Errorf("Expected output file %s: %v", out, err)
		}
	}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"runs/evolution_progress.json", "evolution_progress"},
		{"balance_timeline.csv", "balance_timeline"},
		{"/abs/path/run-3.JSON", "run-3"},
	}

	for _, tt := range tests {
		if got := subject(tt.path); got != tt.want {
			t.Errorf("subject(%s): expected %s, got %s", tt.path, tt.want, got)
		}
	}
}
