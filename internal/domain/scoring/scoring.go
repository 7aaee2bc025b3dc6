// Package scoring blends normalized projection and history signals into one
// expected points-per-game figure per player.
package scoring

import (
	"context"
	"fmt"
	"slices"

	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/normalize"
	"github.com/okian/draftboard/pkg/logger"
)

// Class is the signal combination a player was scored from.
type Class string

// Signal classes.
const (
	ClassBoth           Class = "both"
	ClassProjectionOnly Class = "projection_only"
	ClassHistoryOnly    Class = "history_only"
	ClassNone           Class = "none"
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithLeague sets the league configuration.
func WithLeague(l config.League) Option {
	return func(s *Scorer) {
		s.league = l
	}
}

// WithDirectives sets the boost and mimic directives.
func WithDirectives(d Directives) Option {
	return func(s *Scorer) {
		s.directives = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.log = l
		}
	}
}

// Scorer computes expected_ppg for a player pool.
type Scorer struct {
	league     config.League
	directives Directives
	log        logger.Logger
}

// NewScorer creates a Scorer; without WithLeague it uses the default league.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		league: config.New().League,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report is the scored player pool plus what happened to it.
type Report struct {
	Players []model.Player

	ProjectionStats map[string]normalize.Stats
	HistoryStats    map[string]normalize.Stats
	ProjectionScale float64
	HistoryScale    float64

	Classes  map[Class]int
	Boosted  map[string]int
	Mimicked int
	Warnings []string
}

// Score returns a copy of players with projected_ppg, z-scores, scaled
// signals, score and expected_ppg set. The input slice is not modified.
//
// Boost tiers are applied in the configured order and compose
// multiplicatively. Mimic pairs run afterwards, in file order, and replace
// the target's score with the source's current score.
func (s *Scorer) Score(ctx context.Context, players []model.Player) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("score: %w", err)
	}
	if s.league.GamesDivisor <= 0 {
		return Report{}, fmt.Errorf("%w: games divisor %v", ErrInvalidLeague, s.league.GamesDivisor)
	}

	out := slices.Clone(players)
	for i := range out {
		out[i].ProjectedPPG = nil
		if pts := out[i].ProjectedPoints; pts != nil {
			out[i].ProjectedPPG = model.Float(*pts / s.league.GamesDivisor)
		}
	}

	rep := Report{
		Players:         out,
		ProjectionStats: normalize.GroupStats(out, model.AttrProjectedPPG),
		HistoryStats:    normalize.GroupStats(out, model.AttrTopNAvg),
		Classes:         make(map[Class]int),
		Boosted:         make(map[string]int),
	}
	s.logMissing(ctx, "projected_ppg", rep.ProjectionStats)
	s.logMissing(ctx, "top_n_avg", rep.HistoryStats)

	zProj := normalize.ZScores(out, model.AttrProjectedPPG)
	zHist := normalize.ZScores(out, model.AttrTopNAvg)
	rep.ProjectionScale = s.scaleFactor(out, zProj, model.AttrProjectedPPG)
	rep.HistoryScale = s.scaleFactor(out, zHist, model.AttrTopNAvg)

	for i := range out {
		p := &out[i]
		p.ZProj = model.Float(zProj[i])
		p.ZHist = model.Float(zHist[i])
		p.ScaledProj, p.ScaledHist = nil, nil
		if p.ProjectedPPG != nil {
			p.ScaledProj = model.Float(zProj[i] * rep.ProjectionScale)
		}
		if p.TopNAvg != nil {
			p.ScaledHist = model.Float(zHist[i] * rep.HistoryScale)
		}
		class, score := s.blend(p)
		rep.Classes[class]++
		p.Score = model.Float(score)
	}

	s.applyBoosts(ctx, &rep)
	s.applyMimics(ctx, &rep)

	for i := range out {
		out[i].ExpectedPPG = model.Float(*out[i].Score)
	}

	s.log.Info(ctx, "composite scores computed",
		logger.Int("players", len(out)),
		logger.Int("both", rep.Classes[ClassBoth]),
		logger.Int("projection_only", rep.Classes[ClassProjectionOnly]),
		logger.Int("history_only", rep.Classes[ClassHistoryOnly]),
		logger.Int("none", rep.Classes[ClassNone]),
		logger.Float64("projection_scale", rep.ProjectionScale),
		logger.Float64("history_scale", rep.HistoryScale),
		logger.Int("mimicked", rep.Mimicked),
	)
	return rep, nil
}

// scaleFactor maps the largest z-score among players with the signal onto
// the target ceiling. A series whose maximum is not positive scales to 0.
func (s *Scorer) scaleFactor(players []model.Player, z []float64, attr model.Attribute) float64 {
	maxZ, seen := 0.0, false
	for i := range players {
		if attr(&players[i]) == nil {
			continue
		}
		if !seen || z[i] > maxZ {
			maxZ, seen = z[i], true
		}
	}
	if !seen || maxZ <= 0 {
		return 0
	}
	return s.league.TargetMaxPPG / maxZ
}

func (s *Scorer) blend(p *model.Player) (Class, float64) {
	switch {
	case p.ScaledProj != nil && p.ScaledHist != nil:
		return ClassBoth, s.league.WeightProjection*(*p.ScaledProj) + s.league.WeightLastYear*(*p.ScaledHist)
	case p.ScaledProj != nil:
		return ClassProjectionOnly, *p.ScaledProj
	case p.ScaledHist != nil:
		return ClassHistoryOnly, *p.ScaledHist
	default:
		return ClassNone, 0
	}
}

func (s *Scorer) applyBoosts(ctx context.Context, rep *Report) {
	ordered := make(map[string]bool, len(s.league.BoostOrder))
	for _, tier := range s.league.BoostOrder {
		ordered[tier] = true
	}
	for _, tier := range s.directives.Tiers() {
		if !ordered[tier] && len(s.directives.Boosts[tier]) > 0 {
			msg := fmt.Sprintf("boost tier %q is not in boost_order and was not applied", tier)
			rep.Warnings = append(rep.Warnings, msg)
			s.log.Warn(ctx, msg)
		}
	}

	for _, tier := range s.league.BoostOrder {
		slugs := s.directives.Boosts[tier]
		if len(slugs) == 0 {
			continue
		}
		factor := 1 + s.league.Boosts[tier]
		listed := make(map[string]bool, len(slugs))
		for _, slug := range slugs {
			listed[slug] = true
		}
		var applied []string
		for i := range rep.Players {
			p := &rep.Players[i]
			if p.Slug == "" || !listed[p.Slug] {
				continue
			}
			p.Score = model.Float(*p.Score * factor)
			applied = append(applied, p.Slug)
		}
		rep.Boosted[tier] = len(applied)
		s.log.Info(ctx, "boost tier applied",
			logger.String("tier", tier),
			logger.Float64("factor", factor),
			logger.Strings("slugs", applied),
		)
	}
}

func (s *Scorer) applyMimics(ctx context.Context, rep *Report) {
	if len(s.directives.Mimics) == 0 {
		return
	}
	bySlug := make(map[string]int, len(rep.Players))
	for i, p := range rep.Players {
		if p.Slug != "" {
			bySlug[p.Slug] = i
		}
	}
	for _, m := range s.directives.Mimics {
		ti, okTarget := bySlug[m.Target]
		si, okSource := bySlug[m.Source]
		if !okTarget || !okSource {
			msg := fmt.Sprintf("mimic %s <- %s skipped: player not found", m.Target, m.Source)
			rep.Warnings = append(rep.Warnings, msg)
			s.log.Warn(ctx, "mimic skipped",
				logger.String("target", m.Target),
				logger.String("source", m.Source),
				logger.Bool("target_found", okTarget),
				logger.Bool("source_found", okSource),
			)
			continue
		}
		rep.Players[ti].Score = model.Float(*rep.Players[si].Score)
		rep.Mimicked++
	}
}

func (s *Scorer) logMissing(ctx context.Context, attribute string, stats map[string]normalize.Stats) {
	for pos, st := range stats {
		if st.Missing() == 0 {
			continue
		}
		s.log.Debug(ctx, "missing values scored as z=0",
			logger.String("attribute", attribute),
			logger.String("position", pos),
			logger.Int("missing", st.Missing()),
			logger.Int("members", st.Members),
		)
	}
}
