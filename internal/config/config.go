// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - A Config is built once per run and treated as read-only afterwards.
// - External errors must be wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Roster slot names.
const (
	PositionQB   = "QB"
	PositionRB   = "RB"
	PositionWR   = "WR"
	PositionTE   = "TE"
	PositionFlex = "FLEX"
	PositionK    = "K"
	PositionDEF  = "DEF"
)

// Boost tier names.
const (
	BoostSmall  = "small"
	BoostMedium = "medium"
	BoostLarge  = "large"
	BoostMax    = "max"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// DataDir is the root of the dated artifact tree.
	DataDir string `koanf:"data_dir"`

	// AliasPath, BoostPath and MimicPath point at optional directive files.
	AliasPath string `koanf:"alias_path"`
	BoostPath string `koanf:"boost_path"`
	MimicPath string `koanf:"mimic_path"`

	// Addr configures the HTTP listen address of the board server, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxBoardLimit caps GET /board?limit.
	MaxBoardLimit int `koanf:"max_board_limit"`

	Metrics Metrics `koanf:"metrics"`
	Sources Sources `koanf:"sources"`
	League  League  `koanf:"league"`
}

// Metrics configures batch export of pipeline metrics. Both are optional.
type Metrics struct {
	Textfile       string `koanf:"textfile"`
	PushgatewayURL string `koanf:"pushgateway_url"`
}

// Sources configures the upstream data providers.
type Sources struct {
	SleeperURL string `koanf:"sleeper_url"`
	ADPURL     string `koanf:"adp_url"`
	// ProjectionsURL may contain {scoring}.
	ProjectionsURL string `koanf:"projections_url"`
	// HistoricalURL must contain {pos} and {week}; {scoring} is optional.
	HistoricalURL       string        `koanf:"historical_url"`
	HistoricalPositions []string      `koanf:"historical_positions"`
	HistoricalWeeks     int           `koanf:"historical_weeks"`
	UserAgent           string        `koanf:"user_agent"`
	Timeout             time.Duration `koanf:"timeout"`
	RequestsPerSecond   float64       `koanf:"requests_per_second"`
	BreakerFailures     uint32        `koanf:"breaker_failures"`
}

// League is the league-specific valuation configuration.
type League struct {
	Teams  int            `koanf:"teams"`
	Roster map[string]int `koanf:"roster"`
	// Scoring is the scoring format: PPR, HALF or STD.
	Scoring string `koanf:"scoring"`

	GamesDivisor       float64 `koanf:"games_divisor"`
	TopGameCount       int     `koanf:"top_game_count"`
	MinHistoricalScore float64 `koanf:"min_historical_score"`

	WeightProjection float64 `koanf:"weight_projection"`
	WeightLastYear   float64 `koanf:"weight_last_year"`
	TargetMaxPPG     float64 `koanf:"target_max_ppg"`

	// Boosts maps a tier name to its fraction, e.g. large: 0.2.
	Boosts     map[string]float64 `koanf:"boosts"`
	BoostOrder []string           `koanf:"boost_order"`

	// PositionalPenalties multiplies expected_ppg and vor for a position.
	// Only values below 1.0 are applied.
	PositionalPenalties map[string]float64 `koanf:"positional_penalties"`

	FuzzyThreshold int      `koanf:"fuzzy_threshold"`
	FlexPositions  []string `koanf:"flex_positions"`

	TierDropThreshold   float64  `koanf:"tier_drop_threshold"`
	CheatsheetPositions []string `koanf:"cheatsheet_positions"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		DataDir:       "data",
		AliasPath:     "player_aliases.json",
		BoostPath:     "player_boost.json",
		MimicPath:     "player_mimic.json",
		Addr:          ":9080",
		MaxBoardLimit: 500,
		Sources: Sources{
			SleeperURL:          "https://api.sleeper.app/v1/players/nfl",
			ADPURL:              "https://www.fantasypros.com/nfl/adp/ppr-overall.php",
			ProjectionsURL:      "https://www.fantasypros.com/nfl/projections/all.php?scoring={scoring}",
			HistoricalURL:       "https://www.fantasypros.com/nfl/stats/{pos}.php?week={week}&scoring={scoring}&range=week",
			HistoricalPositions: []string{"qb", "rb", "wr", "te", "k", "dst"},
			HistoricalWeeks:     17,
			UserAgent:           "Mozilla/5.0 (X11; Linux x86_64) draftboard/1.0",
			Timeout:             15 * time.Second,
			RequestsPerSecond:   4,
			BreakerFailures:     5,
		},
		League: League{
			Teams: 12,
			Roster: map[string]int{
				PositionQB:   1,
				PositionRB:   2,
				PositionWR:   2,
				PositionTE:   1,
				PositionFlex: 1,
				PositionK:    1,
				PositionDEF:  1,
			},
			Scoring:            "HALF",
			GamesDivisor:       17,
			TopGameCount:       8,
			MinHistoricalScore: 5,
			WeightProjection:   0.5,
			WeightLastYear:     0.5,
			TargetMaxPPG:       25,
			Boosts: map[string]float64{
				BoostSmall:  0.05,
				BoostMedium: 0.10,
				BoostLarge:  0.20,
				BoostMax:    0.30,
			},
			BoostOrder:          []string{BoostSmall, BoostMedium, BoostLarge, BoostMax},
			PositionalPenalties: map[string]float64{},
			FuzzyThreshold:      85,
			FlexPositions:       []string{PositionRB, PositionWR, PositionTE},
			TierDropThreshold:   1.75,
			CheatsheetPositions: []string{PositionQB, PositionRB, PositionWR, PositionTE},
		},
	}
}

// Starters returns the configured starter count for a roster slot.
func (l League) Starters(position string) int {
	return l.Roster[position]
}

// Positions returns the roster positions with starters, excluding FLEX, sorted.
func (l League) Positions() []string {
	out := make([]string, 0, len(l.Roster))
	for pos, n := range l.Roster {
		if pos == PositionFlex || n <= 0 {
			continue
		}
		out = append(out, pos)
	}
	sort.Strings(out)
	return out
}

// IsFlexEligible reports whether position can fill the flex slot.
func (l League) IsFlexEligible(position string) bool {
	return slices.Contains(l.FlexPositions, position)
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.MaxBoardLimit <= 0 {
		return fmt.Errorf("%w: max_board_limit must be positive", ErrInvalidConfig)
	}
	if c.Sources.Timeout <= 0 {
		return fmt.Errorf("%w: sources.timeout must be positive", ErrInvalidConfig)
	}
	if c.Sources.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: sources.requests_per_second must be positive", ErrInvalidConfig)
	}
	return c.League.Validate()
}

// Validate checks the league block.
func (l League) Validate() error {
	switch {
	case l.Teams <= 0:
		return fmt.Errorf("%w: league.teams must be positive", ErrInvalidConfig)
	case l.GamesDivisor <= 0:
		return fmt.Errorf("%w: league.games_divisor must be positive", ErrInvalidConfig)
	case l.TopGameCount <= 0:
		return fmt.Errorf("%w: league.top_game_count must be positive", ErrInvalidConfig)
	case l.WeightProjection < 0 || l.WeightLastYear < 0:
		return fmt.Errorf("%w: league weights must not be negative", ErrInvalidConfig)
	case l.TargetMaxPPG <= 0:
		return fmt.Errorf("%w: league.target_max_ppg must be positive", ErrInvalidConfig)
	case l.FuzzyThreshold < 0 || l.FuzzyThreshold > 100:
		return fmt.Errorf("%w: league.fuzzy_threshold must be within 0..100", ErrInvalidConfig)
	}
	for pos, n := range l.Roster {
		if n < 0 {
			return fmt.Errorf("%w: league.roster.%s must not be negative", ErrInvalidConfig, pos)
		}
	}
	for pos, p := range l.PositionalPenalties {
		if p <= 0 || p > 1 {
			return fmt.Errorf("%w: league.positional_penalties.%s must be within (0, 1]", ErrInvalidConfig, pos)
		}
	}
	for tier, f := range l.Boosts {
		if f < -1 {
			return fmt.Errorf("%w: league.boosts.%s must be greater than -1", ErrInvalidConfig, tier)
		}
	}
	seen := make(map[string]bool, len(l.BoostOrder))
	for _, tier := range l.BoostOrder {
		if _, ok := l.Boosts[tier]; !ok {
			return fmt.Errorf("%w: league.boost_order references unknown tier %q", ErrInvalidConfig, tier)
		}
		if seen[tier] {
			return fmt.Errorf("%w: league.boost_order repeats tier %q", ErrInvalidConfig, tier)
		}
		seen[tier] = true
	}
	return nil
}

// normalize upper-cases position keys and lists, lower-cases tier names.
// Keys are visited in sorted order so an override spelled in lower case
// (env vars always are) wins over the upper-case default.
func (c *Config) normalize() {
	l := &c.League
	l.Roster = upperKeys(l.Roster)
	l.PositionalPenalties = upperKeys(l.PositionalPenalties)
	l.Scoring = strings.ToUpper(strings.TrimSpace(l.Scoring))
	for i, p := range l.FlexPositions {
		l.FlexPositions[i] = strings.ToUpper(strings.TrimSpace(p))
	}
	for i, p := range l.CheatsheetPositions {
		l.CheatsheetPositions[i] = strings.ToUpper(strings.TrimSpace(p))
	}
	for i, t := range l.BoostOrder {
		l.BoostOrder[i] = strings.ToLower(strings.TrimSpace(t))
	}
	boosts := make(map[string]float64, len(l.Boosts))
	for _, k := range sortedKeys(l.Boosts) {
		boosts[strings.ToLower(k)] = l.Boosts[k]
	}
	l.Boosts = boosts
}

func upperKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for _, k := range sortedKeys(m) {
		out[strings.ToUpper(k)] = m[k]
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
