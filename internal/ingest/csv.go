package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/okranov/evolens/internal/model"
)

// csv.go reads timelines exported by the simulator as flat CSV
// (balance_timeline_*.csv): one row per data point with columns
// Strategy,StrategyId,Tournament,Game,Balance,Profit,IsWinner,IsEliminated.

// ParseTimelineCSV parses an exported timeline CSV into timelines keyed
// by strategy id
func (l *Loader) ParseTimelineCSV(data []byte) (map[string]*model.BalanceTimeline, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse timeline csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse timeline csv: %w", ErrMalformedSnapshot)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Strategy", "StrategyId", "Tournament", "Game", "Balance", "Profit", "IsWinner"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("timeline csv missing column %q: %w", required, ErrMalformedSnapshot)
		}
	}

	timelines := make(map[string]*model.BalanceTimeline)
	for line, row := range records[1:] {
		point, id, name, err := parseCSVRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("timeline csv row %d: %w", line+2, err)
		}
		timeline, ok := timelines[id]
		if !ok {
			timeline = &model.BalanceTimeline{Name: name}
			timelines[id] = timeline
		}
		timeline.DataPoints = append(timeline.DataPoints, point)
	}

	for _, timeline := range timelines {
		points := timeline.DataPoints
		sort.SliceStable(points, func(i, j int) bool {
			if points[i].Tournament != points[j].Tournament {
				return points[i].Tournament < points[j].Tournament
			}
			return points[i].Game < points[j].Game
		})
	}

	return timelines, nil
}

// LoadTimelineCSV reads and parses an exported timeline CSV file
func (l *Loader) LoadTimelineCSV(path string) (map[string]*model.BalanceTimeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline csv: %w", err)
	}
	return l.ParseTimelineCSV(data)
}

func parseCSVRow(row []string, columns map[string]int) (model.BalanceDataPoint, string, string, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	intField := func(name string) (int, error) {
		v, err := strconv.Atoi(field(name))
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		return v, nil
	}
	boolField := func(name string) bool {
		return strings.EqualFold(field(name), "true")
	}

	tournament, err := intField("Tournament")
	if err != nil {
		return model.BalanceDataPoint{}, "", "", err
	}
	game, err := intField("Game")
	if err != nil {
		return model.BalanceDataPoint{}, "", "", err
	}
	balance, err := intField("Balance")
	if err != nil {
		return model.BalanceDataPoint{}, "", "", err
	}
	profit, err := intField("Profit")
	if err != nil {
		return model.BalanceDataPoint{}, "", "", err
	}

	id := field("StrategyId")
	name := field("Strategy")
	if id == "" {
		id = name
	}

	point := model.BalanceDataPoint{
		Tournament:   tournament,
		Game:         game,
		Balance:      balance,
		Profit:       profit,
		IsWinner:     boolField("IsWinner"),
		IsEliminated: boolField("IsEliminated"),
	}
	return point, id, name, nil
}
