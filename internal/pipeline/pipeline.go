package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/okranov/evolens/internal/cache"
	"github.com/okranov/evolens/internal/ingest"
	"github.com/okranov/evolens/internal/lineage"
	"github.com/okranov/evolens/internal/llm"
	"github.com/okranov/evolens/internal/matchup"
	"github.com/okranov/evolens/internal/model"
	"github.com/okranov/evolens/internal/report"
	"github.com/okranov/evolens/internal/stats"
	"github.com/okranov/evolens/internal/timeline"
	"github.com/okranov/evolens/internal/validate"
)

// Pipeline orchestrates the complete analysis of one snapshot file
type Pipeline struct {
	loader        *ingest.Loader
	reconstructor *timeline.Reconstructor
	lineageBld    *lineage.Builder
	aggregator    *stats.Aggregator
	matchups      *matchup.Analyzer
	validator     *validate.Validator
	renderer      *report.Renderer
	summarizer    *llm.Summarizer // nil when the narrator is disabled
	reportCache   cache.Cache     // nil when caching is disabled
	config        *model.Config
	log           zerolog.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, log zerolog.Logger) *Pipeline {
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize LLM provider; narrative disabled")
		} else {
			summarizer = s
		}
	}

	var reportCache cache.Cache
	if cfg.Cache.Enabled {
		reportCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cacheDir(cfg.Cache.Dir), cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		loader:        ingest.NewLoader(log),
		reconstructor: timeline.NewReconstructor(cfg.Simulation, log),
		lineageBld:    lineage.NewBuilder(cfg.Lineage, log),
		aggregator:    stats.NewAggregator(cfg.Risk, log),
		matchups:      matchup.NewAnalyzer(cfg.Matchup),
		validator:     validate.NewValidator(cfg.Simulation),
		renderer:      report.NewRenderer(cfg.Output),
		summarizer:    summarizer,
		reportCache:   reportCache,
		config:        cfg,
		log:           log,
	}
}

// AnalyzeResult contains the complete analysis result
type AnalyzeResult struct {
	Report   *model.Report
	CacheHit bool
}

// AnalyzeFile analyzes a single snapshot file and produces a report.
// JSON snapshots go through the full derivation; CSV timeline exports
// skip the stages that need tournament records.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*AnalyzeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	key := cache.Key(data)
	if p.reportCache != nil {
		if cached, found := p.reportCache.Get(key); found {
			var rep model.Report
			if err := json.Unmarshal(cached, &rep); err == nil {
				p.log.Debug().Str("path", path).Msg("report cache hit")
				return &AnalyzeResult{Report: &rep, CacheHit: true}, nil
			}
			// Unreadable entry: drop it and reanalyze
			_ = p.reportCache.Delete(key)
		}
	}

	var rep *model.Report
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rep, err = p.analyzeCSV(path, data)
	} else {
		rep, err = p.analyzeSnapshot(path, data)
	}
	if err != nil {
		return nil, err
	}

	// Narrative comes last so it can never affect the derived numbers
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		narrative, err := p.summarizer.GenerateNarrative(ctx, *rep)
		if err != nil {
			p.log.Warn().Err(err).Msg("narrative generation failed")
		} else if narrative != nil {
			rep.Narrative = narrative
		}
	}

	if p.reportCache != nil {
		if encoded, err := json.Marshal(rep); err == nil {
			if err := p.reportCache.Set(key, encoded, 0); err != nil {
				p.log.Debug().Err(err).Msg("report cache write failed")
			}
		}
	}

	return &AnalyzeResult{Report: rep}, nil
}

// analyzeSnapshot runs the full derivation for a JSON snapshot
func (p *Pipeline) analyzeSnapshot(path string, data []byte) (*model.Report, error) {
	snapshot, err := p.loader.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	timelines := p.reconstructor.Timelines(snapshot)

	var lineageSummary *model.LineageSummary
	graph, err := p.lineageBld.Build(snapshot.Tournaments)
	switch {
	case errors.Is(err, lineage.ErrTrivialLineage):
		lineageSummary = summarizeLineage(graph, true)
	case err != nil:
		return nil, fmt.Errorf("build lineage: %w", err)
	default:
		lineageSummary = summarizeLineage(graph, false)
	}

	results := p.aggregator.AggregateAll(timelines)

	rep := &model.Report{
		Subject:              subject(path),
		SourcePath:           path,
		AnalyzedAt:           time.Now().UTC(),
		Timestamp:            snapshot.Timestamp,
		SchemaVariant:        snapshot.SchemaVariant,
		CompletedTournaments: snapshot.CompletedTournaments,
		Timelines:            timelines,
		Stats:                results,
		Standings:            stats.Standings(results),
		Leaders:              stats.ComputeLeaders(results),
		Lineage:              lineageSummary,
		Matchup:              p.matchups.Analyze(snapshot.Matchups),
	}
	rep.Issues = p.validator.Check(timelines, results, lineageSummary)

	return rep, nil
}

// analyzeCSV derives what it can from a balance timeline export.
// Lineage and matchups need tournament records, which CSV lacks.
func (p *Pipeline) analyzeCSV(path string, data []byte) (*model.Report, error) {
	timelines, err := p.loader.ParseTimelineCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parse timeline CSV: %w", err)
	}

	results := p.aggregator.AggregateAll(timelines)

	rep := &model.Report{
		Subject:       subject(path),
		SourcePath:    path,
		AnalyzedAt:    time.Now().UTC(),
		SchemaVariant: "csv",
		Timelines:     timelines,
		Stats:         results,
		Standings:     stats.Standings(results),
		Leaders:       stats.ComputeLeaders(results),
	}
	rep.Issues = p.validator.Check(timelines, results, nil)

	return rep, nil
}

// RenderReport renders the report to the configured outputs
func (p *Pipeline) RenderReport(rep *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(rep, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(rep, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(rep)

	return nil
}

// summarizeLineage prepares the graph for rendering and serialization
func summarizeLineage(graph *model.LineageGraph, trivial bool) *model.LineageSummary {
	if graph == nil {
		return nil
	}

	nodes := make([]model.LineageNode, 0, len(graph.Order))
	for _, id := range graph.Order {
		nodes = append(nodes, *graph.Nodes[id])
	}

	generations := make(map[int][]string)
	for gen, ids := range graph.Generations() {
		for _, id := range ids {
			generations[gen] = append(generations[gen], graph.Nodes[id].Name)
		}
	}

	return &model.LineageSummary{
		Trivial:     trivial,
		Nodes:       nodes,
		Edges:       graph.Edges,
		Generations: generations,
	}
}

// subject derives a human-readable snapshot name from its path
func subject(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// cacheDir resolves the disk cache location, preferring the configured
// directory and falling back to the user cache
func cacheDir(configured string) string {
	if configured != "" {
		return configured
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "evolens")
	}
	return filepath.Join(os.TempDir(), "evolens-cache")
}
