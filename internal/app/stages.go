package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/okian/draftboard/internal/adapters/export"
	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/internal/domain/history"
	"github.com/okian/draftboard/internal/domain/identity"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/roster"
	"github.com/okian/draftboard/internal/domain/scoring"
	"github.com/okian/draftboard/internal/domain/types"
	"github.com/okian/draftboard/internal/domain/vor"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/okian/draftboard/pkg/metrics"
)

// Stage names as used by the CLI, logs and metrics.
const (
	StageIngest     = "ingest"
	StageClean      = "clean"
	StageEnrich     = "enrich"
	StageStats      = "stats"
	StageVOR        = "vor"
	StageCheatsheet = "cheatsheet"
)

// CheatsheetDir is the directory under a run date holding the CSV sheets.
const CheatsheetDir = "cheatsheets"

// Ingest fetches the roster and stores it as raw_players.
func (s *Service) Ingest(ctx context.Context, date string) error {
	return s.runStage(ctx, StageIngest, date, func(ctx context.Context, log logger.Logger) (int, error) {
		raw, err := s.roster.Players(ctx)
		if err != nil {
			return 0, err
		}
		if err := s.store.SaveRaw(ctx, date, raw); err != nil {
			return 0, err
		}
		return len(raw), nil
	})
}

// Clean keeps rostered players at positions with a starting slot and stores
// them as roster_players.
func (s *Service) Clean(ctx context.Context, date string) error {
	return s.runStage(ctx, StageClean, date, func(ctx context.Context, log logger.Logger) (int, error) {
		raw, err := s.store.LoadRaw(ctx, date)
		if err != nil {
			return 0, err
		}
		if len(raw) == 0 {
			log.Warn(ctx, "raw roster is empty, writing an empty roster")
		}
		players := roster.KeepRosteredAndRelevant(roster.FromRaw(raw), s.cfg.League.Positions())
		log.Info(ctx, "roster filtered",
			logger.Int("raw", len(raw)),
			logger.Int("kept", len(players)),
			logger.Strings("positions", s.cfg.League.Positions()),
		)
		if err := s.store.SavePlayers(ctx, date, repository.RosterPlayers, players); err != nil {
			return 0, err
		}
		return len(players), nil
	})
}

// Enrich assigns slugs and joins ADP and projections onto the roster.
func (s *Service) Enrich(ctx context.Context, date string) error {
	return s.runStage(ctx, StageEnrich, date, func(ctx context.Context, log logger.Logger) (int, error) {
		players, err := s.store.LoadPlayers(ctx, date, repository.RosterPlayers)
		if err != nil {
			return 0, err
		}
		for i := range players {
			if players[i].Slug == "" {
				players[i].Slug = identity.Slugify(players[i].FullName())
			}
		}
		canonical := slugs(players)
		aliases := identity.LoadAliasTable(ctx, s.cfg.AliasPath, log)

		adp, err := s.adp.ADP(ctx)
		if err != nil {
			return 0, err
		}
		proj, err := s.projections.Projections(ctx)
		if err != nil {
			return 0, err
		}

		adpRes := resolve(ctx, log, "adp", identity.Map(adp, canonical, s.matchOptions(aliases)...))
		projRes := resolve(ctx, log, "projections", identity.Map(proj, canonical, s.matchOptions(aliases)...))

		for i := range players {
			p := &players[i]
			if v, ok := adpRes.Values[p.Slug]; ok {
				p.ADP = model.Float(v.ADP)
				if p.ByeWeek == nil && v.ByeWeek != nil {
					p.ByeWeek = model.Int(*v.ByeWeek)
				}
			}
			if v, ok := projRes.Values[p.Slug]; ok {
				p.ProjectedPoints = model.Float(v)
			}
		}

		if err := s.store.SavePlayers(ctx, date, repository.PlayersEnriched, players); err != nil {
			return 0, err
		}
		return len(players), nil
	})
}

// Stats aggregates last season's weekly points and computes expected_ppg.
func (s *Service) Stats(ctx context.Context, date string) error {
	return s.runStage(ctx, StageStats, date, func(ctx context.Context, log logger.Logger) (int, error) {
		players, err := s.store.LoadPlayers(ctx, date, repository.PlayersEnriched)
		if err != nil {
			return 0, err
		}
		directives, err := scoring.LoadDirectives(ctx, s.cfg.BoostPath, s.cfg.MimicPath, log)
		if err != nil {
			return 0, err
		}
		weekly, err := s.history.Weekly(ctx)
		if err != nil {
			return 0, err
		}

		canonical := slugs(players)
		aliases := identity.LoadAliasTable(ctx, s.cfg.AliasPath, log)
		histRes := resolve(ctx, log, "historical", identity.Map(weekly, canonical, s.matchOptions(aliases)...))

		league := s.cfg.League
		topN := history.Aggregate(histRes.Values, canonical, league.TopGameCount, league.MinHistoricalScore)
		for i := range players {
			if v, ok := topN[players[i].Slug]; ok {
				players[i].TopNAvg = model.Float(v)
			}
		}
		log.Info(ctx, "historical averages computed",
			logger.Int("with_history", len(topN)),
			logger.Int("top_games", league.TopGameCount),
			logger.Float64("min_score", league.MinHistoricalScore),
		)

		scorer := scoring.NewScorer(
			scoring.WithLeague(league),
			scoring.WithDirectives(directives),
			scoring.WithLogger(log),
		)
		report, err := scorer.Score(ctx, players)
		if err != nil {
			return 0, err
		}
		for tier, n := range report.Boosted {
			metrics.RecordScoreAdjustments("boost_"+tier, n)
		}
		metrics.RecordScoreAdjustments("mimic", report.Mimicked)
		log.Info(ctx, "composite scores computed",
			logger.Any("classes", report.Classes),
			logger.Float64("projection_scale", report.ProjectionScale),
			logger.Float64("history_scale", report.HistoryScale),
			logger.Int("warnings", len(report.Warnings)),
		)

		if err := s.store.SavePlayers(ctx, date, repository.PlayersWithPPG, report.Players); err != nil {
			return 0, err
		}
		return len(report.Players), nil
	})
}

// VOR ranks players by value over replacement and stores the final board.
func (s *Service) VOR(ctx context.Context, date string) error {
	return s.runStage(ctx, StageVOR, date, func(ctx context.Context, log logger.Logger) (int, error) {
		players, err := s.store.LoadPlayers(ctx, date, repository.PlayersWithPPG)
		if err != nil {
			return 0, err
		}
		res, err := vor.NewRanker(vor.WithLeague(s.cfg.League), vor.WithLogger(log)).Rank(ctx, players)
		if err != nil {
			return 0, err
		}
		for pos, v := range res.Replacement {
			metrics.UpdateReplacementLevel(pos, v)
		}
		if s.cfg.League.Starters(config.PositionFlex) > 0 {
			metrics.UpdateReplacementLevel(config.PositionFlex, res.FlexReplacement)
		}
		metrics.UpdatePlayersRanked(len(res.Players))

		if err := s.store.SavePlayers(ctx, date, repository.PlayersFinal, res.Players); err != nil {
			return 0, err
		}
		return len(res.Players), nil
	})
}

// All runs enrich, stats and vor in order, stopping at the first failure.
func (s *Service) All(ctx context.Context, date string) error {
	for _, stage := range []func(context.Context, string) error{s.Enrich, s.Stats, s.VOR} {
		if err := stage(ctx, date); err != nil {
			return err
		}
	}
	return nil
}

// Cheatsheet writes the overall and per-position tiered CSV sheets for the
// final board and returns their paths.
func (s *Service) Cheatsheet(ctx context.Context, date string) ([]string, error) {
	var paths []string
	err := s.runStage(ctx, StageCheatsheet, date, func(ctx context.Context, log logger.Logger) (int, error) {
		players, err := s.store.LoadPlayers(ctx, date, repository.PlayersFinal)
		if err != nil {
			return 0, err
		}
		sheets := export.NewCheatsheets(
			filepath.Join(s.cfg.DataDir, date, CheatsheetDir),
			export.WithDropThreshold(s.cfg.League.TierDropThreshold),
			export.WithLogger(log),
		)
		paths, err = sheets.Write(ctx, types.FromPlayers(players), s.cfg.League.CheatsheetPositions)
		if err != nil {
			return 0, err
		}
		log.Info(ctx, "cheatsheets written", logger.Strings("files", paths))
		return len(players), nil
	})
	return paths, err
}

// Board returns the final board of the pinned date, or of the latest date
// holding one. It implements the board API dependencies.
func (s *Service) Board(ctx context.Context) ([]types.Entry, error) {
	date := s.boardDate
	if date == "" {
		dates, err := s.store.Dates(ctx, repository.PlayersFinal)
		if err != nil {
			return nil, err
		}
		if len(dates) == 0 {
			return nil, fmt.Errorf("%w: no %s artifact", repository.ErrNotFound, repository.PlayersFinal)
		}
		date = dates[len(dates)-1]
	}
	players, err := s.store.LoadPlayers(ctx, date, repository.PlayersFinal)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(players, func(i, j int) bool { return players[i].Rank < players[j].Rank })
	return types.FromPlayers(players), nil
}

func (s *Service) matchOptions(aliases identity.AliasTable) []identity.Option {
	return []identity.Option{
		identity.WithAliases(aliases),
		identity.WithThreshold(s.cfg.League.FuzzyThreshold),
	}
}

// resolve logs and exports the identity resolution outcome for a source.
func resolve[V any](ctx context.Context, log logger.Logger, source string, res identity.Result[V]) identity.Result[V] {
	counts := res.Counts()
	for method, n := range counts {
		metrics.RecordIdentityMatches(source, string(method), n)
	}
	metrics.UpdateIdentityUnmatched(source, len(res.UnmatchedCanonical))
	log.Info(ctx, "source joined",
		logger.String("source", source),
		logger.Int("exact", counts[identity.MethodExact]),
		logger.Int("alias", counts[identity.MethodAlias]),
		logger.Int("fuzzy", counts[identity.MethodFuzzy]),
		logger.Int("unmatched_players", len(res.UnmatchedCanonical)),
		logger.Int("unused_source_rows", len(res.UnmatchedSources)),
	)
	if len(res.UnmatchedSources) > 0 {
		log.Debug(ctx, "source rows without a player",
			logger.String("source", source),
			logger.Strings("slugs", res.UnmatchedSources),
		)
	}
	return res
}

func slugs(players []model.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.Slug)
	}
	return out
}
