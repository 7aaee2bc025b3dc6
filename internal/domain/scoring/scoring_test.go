package scoring_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/internal/domain/model"
	scoring "github.com/okian/draftboard/internal/domain/scoring"
	"github.com/okian/draftboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func testLeague() config.League {
	l := config.New().League
	l.GamesDivisor = 1
	return l
}

func qb(slug string, proj, hist *float64) model.Player {
	return model.Player{Slug: slug, Position: "QB", ProjectedPoints: proj, TopNAvg: hist}
}

// pool: a and b have both signals, c projection only, d history only, e neither.
func pool() []model.Player {
	return []model.Player{
		qb("a", model.Float(20), model.Float(22)),
		qb("b", model.Float(24), model.Float(26)),
		qb("c", model.Float(16), nil),
		qb("d", nil, model.Float(18)),
		qb("e", nil, nil),
	}
}

func scoreOf(rep scoring.Report, slug string) float64 {
	for _, p := range rep.Players {
		if p.Slug == slug {
			return *p.ExpectedPPG
		}
	}
	return -1
}

func TestScorer_Score(t *testing.T) {
	Convey("Given a scorer with an even projection/history blend", t, func() {
		ctx := context.Background()
		scorer := scoring.NewScorer(scoring.WithLeague(testLeague()), scoring.WithLogger(logger.Nop()))

		Convey("When scoring a mixed player pool", func() {
			in := pool()
			rep, err := scorer.Score(ctx, in)

			Convey("Then each series should be scaled to the ceiling", func() {
				So(err, ShouldBeNil)
				So(rep.ProjectionScale, ShouldAlmostEqual, 25, 1e-9)
				So(rep.HistoryScale, ShouldAlmostEqual, 25, 1e-9)
				So(*rep.Players[1].ScaledProj, ShouldAlmostEqual, 25, 1e-9)
				So(rep.Players[3].ScaledProj, ShouldBeNil)
				So(rep.Players[2].ScaledHist, ShouldBeNil)
			})

			Convey("Then players should be blended by signal class", func() {
				So(scoreOf(rep, "a"), ShouldAlmostEqual, 0, 1e-9)
				So(scoreOf(rep, "b"), ShouldAlmostEqual, 25, 1e-9)
				So(scoreOf(rep, "c"), ShouldAlmostEqual, -25, 1e-9)
				So(scoreOf(rep, "d"), ShouldAlmostEqual, -25, 1e-9)
				So(scoreOf(rep, "e"), ShouldEqual, 0)
				So(rep.Classes, ShouldResemble, map[scoring.Class]int{
					scoring.ClassBoth:           2,
					scoring.ClassProjectionOnly: 1,
					scoring.ClassHistoryOnly:    1,
					scoring.ClassNone:           1,
				})
			})

			Convey("Then missing signals should still get a zero z-score", func() {
				So(*rep.Players[4].ZProj, ShouldEqual, 0)
				So(*rep.Players[4].ZHist, ShouldEqual, 0)
			})

			Convey("Then the input should not be modified", func() {
				So(in[0].Score, ShouldBeNil)
				So(in[0].ProjectedPPG, ShouldBeNil)
			})
		})

		Convey("When projections are season totals", func() {
			l := testLeague()
			l.GamesDivisor = 17
			rep, err := scoring.NewScorer(scoring.WithLeague(l)).Score(ctx, []model.Player{qb("a", model.Float(340), nil)})

			Convey("Then projected_ppg should divide by the games divisor", func() {
				So(err, ShouldBeNil)
				So(*rep.Players[0].ProjectedPPG, ShouldEqual, 20)
			})

			Convey("Then a series with no positive z-score should scale to zero", func() {
				So(rep.ProjectionScale, ShouldEqual, 0)
				So(*rep.Players[0].ExpectedPPG, ShouldEqual, 0)
			})
		})

		Convey("When the games divisor is invalid", func() {
			l := testLeague()
			l.GamesDivisor = 0
			_, err := scoring.NewScorer(scoring.WithLeague(l)).Score(ctx, pool())
			So(err, ShouldWrap, scoring.ErrInvalidLeague)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := scorer.Score(cctx, pool())
			So(err, ShouldWrap, context.Canceled)
		})
	})
}

func TestScorer_Directives(t *testing.T) {
	Convey("Given boost and mimic directives", t, func() {
		ctx := context.Background()

		Convey("When a player is in both the large and max tiers", func() {
			scorer := scoring.NewScorer(
				scoring.WithLeague(testLeague()),
				scoring.WithDirectives(scoring.Directives{Boosts: map[string][]string{
					"large": {"b"},
					"max":   {"b"},
				}}),
			)
			rep, err := scorer.Score(ctx, pool())

			Convey("Then the multipliers should compose", func() {
				So(err, ShouldBeNil)
				So(scoreOf(rep, "b"), ShouldAlmostEqual, 25*1.2*1.3, 1e-9)
				So(rep.Boosted["large"], ShouldEqual, 1)
				So(rep.Boosted["max"], ShouldEqual, 1)
			})
		})

		Convey("When a slug is listed twice in one tier", func() {
			scorer := scoring.NewScorer(
				scoring.WithLeague(testLeague()),
				scoring.WithDirectives(scoring.Directives{Boosts: map[string][]string{"small": {"b", "b"}}}),
			)
			rep, _ := scorer.Score(ctx, pool())

			Convey("Then the tier should apply once", func() {
				So(scoreOf(rep, "b"), ShouldAlmostEqual, 25*1.05, 1e-9)
			})
		})

		Convey("When a tier is missing from the boost order", func() {
			l := testLeague()
			l.BoostOrder = []string{"small"}
			scorer := scoring.NewScorer(
				scoring.WithLeague(l),
				scoring.WithDirectives(scoring.Directives{Boosts: map[string][]string{"max": {"b"}}}),
			)
			rep, _ := scorer.Score(ctx, pool())

			Convey("Then it should not be applied and a warning recorded", func() {
				So(scoreOf(rep, "b"), ShouldAlmostEqual, 25, 1e-9)
				So(len(rep.Warnings), ShouldEqual, 1)
			})
		})

		Convey("When a boosted target mimics another player", func() {
			scorer := scoring.NewScorer(
				scoring.WithLeague(testLeague()),
				scoring.WithDirectives(scoring.Directives{
					Boosts: map[string][]string{"max": {"a", "b"}},
					Mimics: []scoring.Mimic{{Target: "a", Source: "c"}, {Target: "e", Source: "b"}},
				}),
			)
			rep, _ := scorer.Score(ctx, pool())

			Convey("Then the target's score should be replaced verbatim", func() {
				So(scoreOf(rep, "a"), ShouldAlmostEqual, -25, 1e-9)
				So(scoreOf(rep, "e"), ShouldAlmostEqual, 25*1.3, 1e-9)
				So(rep.Mimicked, ShouldEqual, 2)
			})
		})

		Convey("When a mimic names an unknown player", func() {
			scorer := scoring.NewScorer(
				scoring.WithLeague(testLeague()),
				scoring.WithDirectives(scoring.Directives{Mimics: []scoring.Mimic{{Target: "zz", Source: "b"}}}),
			)
			rep, err := scorer.Score(ctx, pool())

			Convey("Then it should be skipped with a warning", func() {
				So(err, ShouldBeNil)
				So(rep.Mimicked, ShouldEqual, 0)
				So(len(rep.Warnings), ShouldEqual, 1)
				So(scoreOf(rep, "b"), ShouldAlmostEqual, 25, 1e-9)
			})
		})
	})
}

func TestLoadDirectives(t *testing.T) {
	Convey("Given directive files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		write := func(name, content string) string {
			path := filepath.Join(dir, name)
			So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)
			return path
		}

		Convey("When both files are present", func() {
			boost := write("player_boost.json", `{"max_boost_slugs": ["ja-marr-chase"], "small_boost_slugs": ["a", "b"]}`)
			mimic := write("player_mimic.json", `{"mimic": [{"target": "chase-brown", "source": "james-cook"}]}`)

			d, err := scoring.LoadDirectives(ctx, boost, mimic, logger.Nop())

			Convey("Then tiers and pairs should load", func() {
				So(err, ShouldBeNil)
				So(d.Boosts["max"], ShouldResemble, []string{"ja-marr-chase"})
				So(d.Boosts["small"], ShouldResemble, []string{"a", "b"})
				So(d.Tiers(), ShouldResemble, []string{"max", "small"})
				So(d.Mimics, ShouldResemble, []scoring.Mimic{{Target: "chase-brown", Source: "james-cook"}})
			})
		})

		Convey("When the files are absent", func() {
			d, err := scoring.LoadDirectives(ctx, filepath.Join(dir, "nope.json"), filepath.Join(dir, "nada.json"), nil)

			Convey("Then the directives should be empty without error", func() {
				So(err, ShouldBeNil)
				So(d.Boosts, ShouldBeEmpty)
				So(d.Mimics, ShouldBeEmpty)
			})
		})

		Convey("When a boost tier is not a list", func() {
			boost := write("bad_boost.json", `{"max_boost_slugs": "ja-marr-chase"}`)
			_, err := scoring.LoadDirectives(ctx, boost, "", logger.Nop())
			So(err, ShouldWrap, scoring.ErrInvalidDirectives)
		})

		Convey("When a mimic entry is incomplete", func() {
			mimic := write("bad_mimic.json", `{"mimic": [{"target": "chase-brown"}]}`)
			_, err := scoring.LoadDirectives(ctx, "", mimic, logger.Nop())
			So(err, ShouldWrap, scoring.ErrInvalidDirectives)
		})

		Convey("When a file is not valid JSON or YAML", func() {
			boost := write("broken.json", `{"max_boost_slugs": [`)
			_, err := scoring.LoadDirectives(ctx, boost, "", logger.Nop())
			So(err, ShouldWrap, scoring.ErrInvalidDirectives)
		})
	})
}
