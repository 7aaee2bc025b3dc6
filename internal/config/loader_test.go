package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/draftboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.League.Teams, convey.ShouldEqual, 12)
				convey.So(cfg.League.Roster["FLEX"], convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DRAFTBOARD_ADDR", ":8080")
			_ = os.Setenv("DRAFTBOARD_DATA_DIR", "/tmp/board")
			_ = os.Setenv("DRAFTBOARD_LEAGUE__TEAMS", "10")
			_ = os.Setenv("DRAFTBOARD_LEAGUE__ROSTER__RB", "3")
			_ = os.Setenv("DRAFTBOARD_LEAGUE__BOOST_ORDER", "max,large")
			_ = os.Setenv("DRAFTBOARD_SOURCES__TIMEOUT", "5s")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/board")
				convey.So(cfg.League.Teams, convey.ShouldEqual, 10)
				convey.So(cfg.League.Roster["RB"], convey.ShouldEqual, 3)
				convey.So(cfg.League.Roster["QB"], convey.ShouldEqual, 1)
				convey.So(cfg.League.BoostOrder, convey.ShouldResemble, []string{"max", "large"})
				convey.So(cfg.Sources.Timeout, convey.ShouldEqual, 5*time.Second)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
league:
  teams: 10
  scoring: ppr
  roster:
    QB: 1
    RB: 2
    WR: 3
    TE: 1
    FLEX: 1
  positional_penalties:
    k: 0.5
  fuzzy_threshold: 90
`
			path := createTempConfigFile(t, yamlContent)

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.League.Teams, convey.ShouldEqual, 10)
				convey.So(cfg.League.Scoring, convey.ShouldEqual, "PPR")
				convey.So(cfg.League.Roster["WR"], convey.ShouldEqual, 3)
				convey.So(cfg.League.PositionalPenalties["K"], convey.ShouldEqual, 0.5)
				convey.So(cfg.League.FuzzyThreshold, convey.ShouldEqual, 90)
			})

			convey.Convey("Then defaults should fill the fields the file omits", func() {
				convey.So(cfg.League.GamesDivisor, convey.ShouldEqual, 17)
				convey.So(cfg.Sources.RequestsPerSecond, convey.ShouldEqual, 4)
			})

			convey.Convey("Then the file roster should replace the default slots", func() {
				_, hasK := cfg.League.Roster["K"]
				_, hasDEF := cfg.League.Roster["DEF"]
				convey.So(hasK, convey.ShouldBeFalse)
				convey.So(hasDEF, convey.ShouldBeFalse)
				convey.So(cfg.League.Positions(), convey.ShouldResemble, []string{"QB", "RB", "TE", "WR"})
			})
		})

		convey.Convey("When env overrides a slot of a file roster", func() {
			path := createTempConfigFile(t, "league:\n  roster:\n    QB: 1\n    RB: 2\n    FLEX: 1\n")
			_ = os.Setenv("DRAFTBOARD_LEAGUE__ROSTER__RB", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then only the overridden slot should change", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.League.Roster, convey.ShouldResemble, map[string]int{"QB": 1, "RB": 3, "FLEX": 1})
			})
		})

		convey.Convey("When list settings are set from the environment", func() {
			_ = os.Setenv("DRAFTBOARD_LEAGUE__FLEX_POSITIONS", "rb, wr")
			_ = os.Setenv("DRAFTBOARD_LEAGUE__CHEATSHEET_POSITIONS", "QB,TE")
			_ = os.Setenv("DRAFTBOARD_SOURCES__HISTORICAL_POSITIONS", "qb,rb,wr")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then each value should split on commas", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.League.FlexPositions, convey.ShouldResemble, []string{"RB", "WR"})
				convey.So(cfg.League.CheatsheetPositions, convey.ShouldResemble, []string{"QB", "TE"})
				convey.So(cfg.Sources.HistoricalPositions, convey.ShouldResemble, []string{"qb", "rb", "wr"})
				convey.So(cfg.Sources.RequestsPerSecond, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := createTempConfigFile(t, "addr: \":9090\"\nlog_level: debug\n")
			_ = os.Setenv("DRAFTBOARD_CONFIG", path)
			_ = os.Setenv("DRAFTBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := createTempConfigFile(t, `invalid: yaml: content: [`)

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the layered config is invalid", func() {
			_ = os.Setenv("DRAFTBOARD_LEAGUE__GAMES_DIVISOR", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(err.Error(), convey.ShouldContainSubstring, "games_divisor")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draftboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"DRAFTBOARD_CONFIG",
		"DRAFTBOARD_ADDR",
		"DRAFTBOARD_DATA_DIR",
		"DRAFTBOARD_LEAGUE__TEAMS",
		"DRAFTBOARD_LEAGUE__ROSTER__RB",
		"DRAFTBOARD_LEAGUE__BOOST_ORDER",
		"DRAFTBOARD_LEAGUE__GAMES_DIVISOR",
		"DRAFTBOARD_LEAGUE__FLEX_POSITIONS",
		"DRAFTBOARD_LEAGUE__CHEATSHEET_POSITIONS",
		"DRAFTBOARD_SOURCES__HISTORICAL_POSITIONS",
		"DRAFTBOARD_SOURCES__TIMEOUT",
	} {
		_ = os.Unsetenv(key)
	}
}
