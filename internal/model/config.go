package model

import "time"

// Config holds the complete evolens configuration
type Config struct {
	Simulation  SimulationConfig  `yaml:"simulation" mapstructure:"simulation"`
	Risk        RiskConfig        `yaml:"risk" mapstructure:"risk"`
	Lineage     LineageConfig     `yaml:"lineage" mapstructure:"lineage"`
	Matchup     MatchupConfig     `yaml:"matchup" mapstructure:"matchup"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// SimulationConfig carries the simulation's economic policy constants.
// These are properties of the simulation being analyzed, not of the data
// distribution, so they are configured rather than derived.
type SimulationConfig struct {
	// StartingBalance is assumed when a roster entry omits its balance
	StartingBalance int `yaml:"starting_balance" mapstructure:"starting_balance"`
	// EliminationThreshold marks a strategy eliminated when its balance
	// drops below this value
	EliminationThreshold int `yaml:"elimination_threshold" mapstructure:"elimination_threshold"`
}

// RiskConfig holds the fixed risk/reward classification cutoffs
type RiskConfig struct {
	HighVolatility float64 `yaml:"high_volatility" mapstructure:"high_volatility"`
	MedVolatility  float64 `yaml:"med_volatility" mapstructure:"med_volatility"`
	HighReward     int     `yaml:"high_reward" mapstructure:"high_reward"`
}

// LineageConfig controls lineage graph construction
type LineageConfig struct {
	// TrivialMaxNodes is the largest all-core node set that is rendered
	// as a flat roster instead of a layered graph
	TrivialMaxNodes int `yaml:"trivial_max_nodes" mapstructure:"trivial_max_nodes"`
	// DefaultWeight is assumed when a parent reference omits its weight
	DefaultWeight int `yaml:"default_weight" mapstructure:"default_weight"`
}

// MatchupConfig controls head-to-head analysis
type MatchupConfig struct {
	// DominanceThreshold is the win rate above which a directed
	// dominance edge is reported
	DominanceThreshold float64 `yaml:"dominance_threshold" mapstructure:"dominance_threshold"`
}

// CacheConfig controls report caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	// ChartStrategies is how many top strategies the terminal chart shows
	ChartStrategies int `yaml:"chart_strategies" mapstructure:"chart_strategies"`
}

// LLMConfig controls the optional narrative summarizer
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"`
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"-" mapstructure:"-"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			StartingBalance:      500,
			EliminationThreshold: 100,
		},
		Risk: RiskConfig{
			HighVolatility: 60,
			MedVolatility:  30,
			HighReward:     100,
		},
		Lineage: LineageConfig{
			TrivialMaxNodes: 6,
			DefaultWeight:   50,
		},
		Matchup: MatchupConfig{
			DominanceThreshold: 0.6,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose:         false,
			IncludeFooter:   true,
			ChartStrategies: 3,
		},
		LLM: LLMConfig{
			Provider:          "",
			Model:             "",
			TimeoutSeconds:    30,
			MaxTokens:         1000,
			RequestsPerSecond: 1,
			Burst:             2,
		},
	}
}
