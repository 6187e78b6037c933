package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/okranov/evolens/internal/model"
)

const (
	chartWidth = 40
	nameColumn = 12
	footerText = "Generated by evolens - deterministic analysis of agent-simulation snapshots."
)

// Renderer produces the JSON, Markdown and terminal views of a report
type Renderer struct {
	includeFooter   bool
	chartStrategies int
}

// NewRenderer creates a new renderer
func NewRenderer(cfg model.OutputConfig) *Renderer {
	chartStrategies := cfg.ChartStrategies
	if chartStrategies <= 0 {
		chartStrategies = 3
	}
	return &Renderer{
		includeFooter:   cfg.IncludeFooter,
		chartStrategies: chartStrategies,
	}
}

// RenderJSON writes the report as indented JSON to the given path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the human-readable report to the given path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Simulation Analysis: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Source**: %s\n", report.SourcePath)
	fmt.Fprintf(&b, "- **Analyzed**: %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Schema**: %s\n", report.SchemaVariant)
	fmt.Fprintf(&b, "- **Tournaments completed**: %d\n\n", report.CompletedTournaments)

	r.writeStandings(&b, report)
	r.writeRiskReward(&b, report)
	r.writeLeaders(&b, report)
	r.writeLineage(&b, report)
	r.writeMatchups(&b, report)
	r.writeIssues(&b, report)

	if report.Narrative != nil && report.Narrative.Enabled {
		fmt.Fprintf(&b, "## Narrative Summary\n\n")
		fmt.Fprintf(&b, "_Generated by %s (%s); does not affect the computed statistics._\n\n",
			report.Narrative.Provider, report.Narrative.Model)
		b.WriteString(report.Narrative.Text)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n%s\n", footerText)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func (r *Renderer) writeStandings(b *strings.Builder, report *model.Report) {
	if len(report.Standings) == 0 {
		return
	}
	b.WriteString("## Final Standings\n\n")
	b.WriteString("| # | Strategy | Final Balance | Profit | Games |\n")
	b.WriteString("|---|----------|---------------|--------|-------|\n")
	for i, s := range report.Standings {
		fmt.Fprintf(b, "| %d | %s | %d | %+d | %d |\n",
			i+1, s.Name, s.FinalBalance, s.Profit, s.GamesPlayed)
	}
	b.WriteString("\n")
}

func (r *Renderer) writeRiskReward(b *strings.Builder, report *model.Report) {
	if len(report.Stats) == 0 {
		return
	}
	b.WriteString("## Risk vs Reward\n\n")
	b.WriteString("| Strategy | Volatility | Win Rate | Risk | Reward |\n")
	b.WriteString("|----------|------------|----------|------|--------|\n")
	for _, id := range sortedIDs(report.Stats) {
		s := report.Stats[id]
		fmt.Fprintf(b, "| %s | ±%.1f | %.1f%% | %s | %s |\n",
			s.Name, s.Volatility, s.WinRate, s.RiskTier, s.RewardTier)
	}
	b.WriteString("\n")
}

func (r *Renderer) writeLeaders(b *strings.Builder, report *model.Report) {
	l := report.Leaders
	if l.MostProfitable.ID == "" {
		return
	}
	b.WriteString("## Leaders\n\n")
	fmt.Fprintf(b, "- **Most profitable**: %s (%+.0f coins)\n", l.MostProfitable.Name, l.MostProfitable.Value)
	fmt.Fprintf(b, "- **Most volatile**: %s (±%.1f coins/game)\n", l.MostVolatile.Name, l.MostVolatile.Value)
	fmt.Fprintf(b, "- **Most consistent**: %s (±%.1f coins/game)\n", l.MostConsistent.Name, l.MostConsistent.Value)
	fmt.Fprintf(b, "- **Best win rate**: %s (%.1f%%)\n\n", l.BestWinRate.Name, l.BestWinRate.Value)
}

func (r *Renderer) writeLineage(b *strings.Builder, report *model.Report) {
	lin := report.Lineage
	if lin == nil {
		return
	}
	b.WriteString("## Lineage\n\n")
	if lin.Trivial {
		b.WriteString("All strategies are core; no evolution occurred.\n\n")
		for _, n := range lin.Nodes {
			fmt.Fprintf(b, "- %s (%s)\n", n.Name, n.Archetype)
		}
		b.WriteString("\n")
		return
	}

	fmt.Fprintf(b, "%d strategies across %d generations, %d inheritance edges.\n\n",
		len(lin.Nodes), len(lin.Generations), len(lin.Edges))

	gens := make([]int, 0, len(lin.Generations))
	for g := range lin.Generations {
		gens = append(gens, g)
	}
	sort.Ints(gens)
	for _, g := range gens {
		if g == 0 {
			fmt.Fprintf(b, "- **Core**: %s\n", strings.Join(lin.Generations[g], ", "))
		} else {
			fmt.Fprintf(b, "- **Generation %d**: %s\n", g, strings.Join(lin.Generations[g], ", "))
		}
	}
	b.WriteString("\n")
}

func (r *Renderer) writeMatchups(b *strings.Builder, report *model.Report) {
	m := report.Matchup
	if m == nil || len(m.Dominance) == 0 {
		return
	}
	b.WriteString("## Head-to-Head Dominance\n\n")
	b.WriteString("| Strategy | Overall Win Rate | Wins | Games |\n")
	b.WriteString("|----------|------------------|------|-------|\n")
	for _, d := range m.Dominance {
		fmt.Fprintf(b, "| %s | %.1f%% | %d | %d |\n", d.ID, d.WinRate, d.Wins, d.Games)
	}
	b.WriteString("\n")
	for _, e := range m.Edges {
		fmt.Fprintf(b, "- %s dominates %s (%.0f%% win rate)\n", e.From, e.To, e.WinRate*100)
	}
	if len(m.Edges) > 0 {
		b.WriteString("\n")
	}
}

func (r *Renderer) writeIssues(b *strings.Builder, report *model.Report) {
	if len(report.Issues) == 0 {
		return
	}
	b.WriteString("## Integrity Issues\n\n")
	for _, issue := range report.Issues {
		if issue.Strategy != "" {
			fmt.Fprintf(b, "- [%s] %s: %s\n", issue.Severity, issue.Strategy, issue.Message)
		} else {
			fmt.Fprintf(b, "- [%s] %s\n", issue.Severity, issue.Message)
		}
	}
	b.WriteString("\n")
}

// RenderSummary prints a terminal overview of the report to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println()
	fmt.Println("BALANCE TIMELINE ANALYSIS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Snapshot: %s (%s schema, %d tournaments)\n",
		report.Subject, report.SchemaVariant, report.CompletedTournaments)

	fmt.Println()
	fmt.Println("FINAL RANKINGS (by balance)")
	fmt.Println(strings.Repeat("-", 50))
	for i, s := range report.Standings {
		stats := report.Stats[s.ID]
		fmt.Printf("%d. %s\n", i+1, s.Name)
		if stats != nil {
			pct := "n/a"
			if stats.ChangePct != nil {
				pct = fmt.Sprintf("%+.1f%%", *stats.ChangePct)
			}
			fmt.Printf("   %d -> %d coins (%+d, %s)\n", stats.Start, stats.Final, stats.Change, pct)
			fmt.Printf("   Peak: %d | Volatility: ±%.1f | Win rate: %.1f%% (%d/%d)\n",
				stats.Peak, stats.Volatility, stats.WinRate, stats.Wins, stats.Games)
		}
	}

	r.renderChart(report)

	l := report.Leaders
	if l.MostProfitable.ID != "" {
		fmt.Println()
		fmt.Println("KEY INSIGHTS")
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("Most profitable: %s (%+.0f coins)\n", l.MostProfitable.Name, l.MostProfitable.Value)
		fmt.Printf("Most volatile:   %s (±%.1f coins/game)\n", l.MostVolatile.Name, l.MostVolatile.Value)
		fmt.Printf("Most consistent: %s (±%.1f coins/game)\n", l.MostConsistent.Name, l.MostConsistent.Value)
		fmt.Printf("Best win rate:   %s (%.1f%%)\n", l.BestWinRate.Name, l.BestWinRate.Value)
	}

	if n := len(report.Issues); n > 0 {
		fmt.Printf("\n%d integrity issue(s) found; see the rendered report for details.\n", n)
	}
	fmt.Println()
}

// renderChart draws a coarse balance progression chart for the top
// strategies. Each row samples the timeline across a fixed width and
// shades by balance relative to the overall peak.
func (r *Renderer) renderChart(report *model.Report) {
	if len(report.Standings) == 0 {
		return
	}

	maxBalance := 0
	for _, t := range report.Timelines {
		for _, p := range t.DataPoints {
			if p.Balance > maxBalance {
				maxBalance = p.Balance
			}
		}
	}
	if maxBalance == 0 {
		return
	}

	fmt.Println()
	fmt.Println("BALANCE PROGRESSION")
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("%*d|%s\n", nameColumn, maxBalance, strings.Repeat("─", chartWidth))

	top := report.Standings
	if len(top) > r.chartStrategies {
		top = top[:r.chartStrategies]
	}
	for _, s := range top {
		t := report.Timelines[s.ID]
		if t == nil || len(t.DataPoints) == 0 {
			continue
		}
		fmt.Println(chartRow(truncate(t.Name, nameColumn), t.DataPoints, maxBalance))
	}

	fmt.Printf("%*s|%s\n", nameColumn, "", strings.Repeat("─", chartWidth))
	fmt.Printf("%*s Game 0%sFinal Game\n", nameColumn-8, "0", strings.Repeat(" ", chartWidth-15))
}

func chartRow(name string, points []model.BalanceDataPoint, maxBalance int) string {
	var row strings.Builder
	fmt.Fprintf(&row, "%*s|", nameColumn, name)
	for i := 0; i < chartWidth; i++ {
		idx := 0
		if len(points) > 1 {
			idx = i * (len(points) - 1) / (chartWidth - 1)
		}
		ratio := float64(points[idx].Balance) / float64(maxBalance)
		switch {
		case ratio > 0.8:
			row.WriteString("█")
		case ratio > 0.6:
			row.WriteString("▓")
		case ratio > 0.4:
			row.WriteString("▒")
		case ratio > 0.2:
			row.WriteString("░")
		default:
			row.WriteString(" ")
		}
	}
	return row.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func sortedIDs(stats map[string]*model.StrategyStats) []string {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
