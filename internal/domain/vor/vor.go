// Package vor converts expected points per game into value over a
// replacement-level player and ranks the board.
package vor

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/pkg/logger"
)

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithLeague sets the league configuration.
func WithLeague(l config.League) Option {
	return func(r *Ranker) {
		r.league = l
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Ranker) {
		if l != nil {
			r.log = l
		}
	}
}

// Ranker computes replacement levels, VOR and the final ranking.
type Ranker struct {
	league config.League
	log    logger.Logger
}

// NewRanker creates a Ranker; without WithLeague it uses the default league.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		league: config.New().League,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the ranked board and the baselines it was measured against.
type Result struct {
	Players []model.Player
	// Replacement holds the replacement-level expected_ppg per position,
	// taken before positional penalties.
	Replacement     map[string]float64
	FlexReplacement float64
	Dropped         int
	Warnings        []string
}

// Rank computes vor for every player, applies positional penalties, drops
// players without ADP and ranks the rest by vor descending. Ties keep the
// input order. Every player must have expected_ppg.
func (r *Ranker) Rank(ctx context.Context, players []model.Player) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("rank: %w", err)
	}
	if r.league.Teams <= 0 {
		return Result{}, fmt.Errorf("%w: teams %d", ErrInvalidLeague, r.league.Teams)
	}
	for i, p := range players {
		if p.ExpectedPPG == nil {
			return Result{}, fmt.Errorf("%w: player %d (%s)", ErrMissingScore, i, p.Slug)
		}
	}

	out := slices.Clone(players)
	res := Result{Replacement: make(map[string]float64)}

	byPos := make(map[string][]int)
	for i := range out {
		byPos[out[i].Position] = append(byPos[out[i].Position], i)
	}
	for pos := range byPos {
		sortByPPG(out, byPos[pos])
	}

	for _, pos := range r.league.Positions() {
		need := r.league.Teams * r.league.Starters(pos)
		idx := byPos[pos]
		if len(idx) < need {
			res.Replacement[pos] = 0
			res.warn(ctx, r.log, fmt.Sprintf("not enough %s players for a replacement level: need %d, have %d", pos, need, len(idx)))
			continue
		}
		res.Replacement[pos] = *out[idx[need-1]].ExpectedPPG
	}

	flexSlots := r.league.Starters(config.PositionFlex)
	if flexSlots > 0 {
		var pool []int
		for _, pos := range r.league.FlexPositions {
			idx := byPos[pos]
			starters := min(r.league.Teams*r.league.Starters(pos), len(idx))
			pool = append(pool, idx[starters:]...)
		}
		sortByPPG(out, pool)
		need := r.league.Teams * flexSlots
		if len(pool) < need {
			res.warn(ctx, r.log, fmt.Sprintf("not enough flex players for a replacement level: need %d, have %d", need, len(pool)))
		} else {
			res.FlexReplacement = *out[pool[need-1]].ExpectedPPG
		}
	}

	for i := range out {
		p := &out[i]
		ppg := *p.ExpectedPPG
		v := ppg - res.Replacement[p.Position]
		if flexSlots > 0 && r.league.IsFlexEligible(p.Position) {
			v = max(v, ppg-res.FlexReplacement)
		}
		p.VOR = model.Float(v)
	}

	for _, pos := range sortedKeys(r.league.PositionalPenalties) {
		penalty := r.league.PositionalPenalties[pos]
		if penalty >= 1 {
			continue
		}
		n := 0
		for i := range out {
			p := &out[i]
			if p.Position != pos {
				continue
			}
			p.ExpectedPPG = model.Float(*p.ExpectedPPG * penalty)
			p.VOR = model.Float(*p.VOR * penalty)
			n++
		}
		r.log.Info(ctx, "positional penalty applied",
			logger.String("position", pos), logger.Float64("penalty", penalty), logger.Int("players", n))
	}

	ranked := out[:0]
	for _, p := range out {
		if p.ADP == nil {
			res.Dropped++
			continue
		}
		ranked = append(ranked, p)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].VOR > *ranked[j].VOR
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	res.Players = ranked

	r.log.Info(ctx, "players ranked",
		logger.Int("ranked", len(ranked)),
		logger.Int("dropped_no_adp", res.Dropped),
		logger.Any("replacement", res.Replacement),
		logger.Float64("flex_replacement", res.FlexReplacement),
	)
	return res, nil
}

func (res *Result) warn(ctx context.Context, log logger.Logger, msg string) {
	res.Warnings = append(res.Warnings, msg)
	log.Warn(ctx, msg)
}

// sortByPPG orders idx by expected_ppg descending, keeping input order on ties.
func sortByPPG(players []model.Player, idx []int) {
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(*players[b].ExpectedPPG, *players[a].ExpectedPPG)
	})
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
