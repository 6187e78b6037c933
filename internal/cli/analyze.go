package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okranov/evolens/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <snapshot>",
	Short: "Analyze a single simulation snapshot",
	Long: `Analyze reads one progress snapshot (JSON) or balance timeline
export (CSV) and derives:
- Per-strategy balance timelines from game economic records
- Performance statistics, risk tiers, and final standings
- The strategy lineage graph with inheritance weights
- Head-to-head dominance from recorded matchups

Example:
  evolens analyze progress.json
  evolens analyze progress.json --json report.json --md report.md
  evolens analyze balance_timeline.csv
  evolens analyze progress.json --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report cache (force reanalysis)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable narrative summary generation")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = cfg.Output.IncludeFooter && !noFooter

	if llmEnabled {
		if err := configureLLM(cfg, llmProvider, llmModel); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, log)

	result, err := p.AnalyzeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		rep := result.Report
		if result.CacheHit {
			fmt.Fprintf(os.Stderr, "Loaded cached report\n")
		}
		fmt.Fprintf(os.Stderr, "Schema: %s\n", rep.SchemaVariant)
		fmt.Fprintf(os.Stderr, "Strategies: %d\n", len(rep.Timelines))
		fmt.Fprintf(os.Stderr, "Tournaments: %d\n", rep.CompletedTournaments)
		if rep.Narrative != nil && rep.Narrative.Enabled {
			fmt.Fprintf(os.Stderr, "Narrative: %s/%s\n", rep.Narrative.Provider, rep.Narrative.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(result.Report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
