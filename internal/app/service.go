// Package service wires the valuation pipeline stages to their sources,
// the artifact store and the board API.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/adapters/sources"
	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/okian/draftboard/pkg/metrics"
)

// RosterSource lists every player keyed by player_id.
type RosterSource interface {
	Players(ctx context.Context) (map[string]model.RawPlayer, error)
}

// ADPSource reports average draft position keyed by source slug.
type ADPSource interface {
	ADP(ctx context.Context) (map[string]model.ADPValue, error)
}

// ProjectionSource reports projected season points keyed by source slug.
type ProjectionSource interface {
	Projections(ctx context.Context) (map[string]float64, error)
}

// HistorySource reports last season's weekly points keyed by source slug.
type HistorySource interface {
	Weekly(ctx context.Context) (map[string][]float64, error)
}

// Service runs pipeline stages for a run date. Stages are sequential and
// each is the unit of failure: a failed stage writes no artifact.
type Service struct {
	cfg   *config.Config
	store repository.Store

	roster      RosterSource
	adp         ADPSource
	projections ProjectionSource
	history     HistorySource

	boardDate string
	now       func() time.Time
	logger    logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration. It is treated as read-only.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithStore replaces the artifact store rooted at data_dir.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRosterSource replaces the Sleeper roster source.
func WithRosterSource(src RosterSource) Option {
	return func(s *Service) {
		if src != nil {
			s.roster = src
		}
	}
}

// WithADPSource replaces the FantasyPros ADP source.
func WithADPSource(src ADPSource) Option {
	return func(s *Service) {
		if src != nil {
			s.adp = src
		}
	}
}

// WithProjectionSource replaces the FantasyPros projection source.
func WithProjectionSource(src ProjectionSource) Option {
	return func(s *Service) {
		if src != nil {
			s.projections = src
		}
	}
}

// WithHistorySource replaces the weekly stats source.
func WithHistorySource(src HistorySource) Option {
	return func(s *Service) {
		if src != nil {
			s.history = src
		}
	}
}

// WithBoardDate pins the run date served by Board. By default the latest
// date holding a final board is served.
func WithBoardDate(date string) Option {
	return func(s *Service) {
		s.boardDate = date
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Collaborators that are not given are built from
// the configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    config.New(),
		now:    time.Now,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewFileStore(s.cfg.DataDir, repository.WithLogger(s.logger.Named("store")))
	}
	if s.roster == nil || s.adp == nil || s.projections == nil || s.history == nil {
		s.defaultSources()
	}
	return s
}

func (s *Service) defaultSources() {
	src, league := s.cfg.Sources, s.cfg.League
	log := s.logger.Named("sources")
	client := sources.NewClient(
		sources.WithTimeout(src.Timeout),
		sources.WithRateLimit(src.RequestsPerSecond),
		sources.WithBreakerFailures(src.BreakerFailures),
		sources.WithUserAgent(src.UserAgent),
		sources.WithLogger(log),
	)
	fp := sources.NewFantasyPros(client, src.ADPURL, src.ProjectionsURL, league.Scoring, log)

	if s.roster == nil {
		s.roster = sources.NewSleeper(client, src.SleeperURL, log)
	}
	if s.adp == nil {
		s.adp = fp
	}
	if s.projections == nil {
		s.projections = fp
	}
	if s.history == nil {
		s.history = sources.NewHistorical(client, src.HistoricalURL, src.HistoricalPositions, src.HistoricalWeeks, league.Scoring, log)
	}
}

// Config returns the configuration the service runs with.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// stageFunc runs one stage and returns the number of players it wrote.
type stageFunc func(ctx context.Context, log logger.Logger) (int, error)

// runStage tags the stage with a run id, times it and records its outcome.
func (s *Service) runStage(ctx context.Context, stage, date string, fn stageFunc) error {
	log := s.logger.Named(stage).With(
		logger.String("run_id", uuid.NewString()),
		logger.String("date", date),
	)
	start := time.Now()
	log.Info(ctx, "stage started")

	n, err := fn(ctx, log)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordStageRun(stage, metrics.StatusFailure, elapsed.Seconds())
		log.Error(ctx, "stage failed", logger.Error(err), logger.Duration("elapsed", elapsed))
		return fmt.Errorf("%w: %s: %w", ErrStage, stage, err)
	}

	metrics.RecordStageRun(stage, metrics.StatusSuccess, elapsed.Seconds())
	metrics.MarkStageSuccess(stage, float64(s.now().Unix()))
	metrics.UpdateStagePlayers(stage, n)
	log.Info(ctx, "stage finished", logger.Int("players", n), logger.Duration("elapsed", elapsed))
	return nil
}

// ExportMetrics writes the metrics textfile and pushes to the Pushgateway
// when either is configured.
func (s *Service) ExportMetrics(ctx context.Context, job, date string) error {
	m := s.cfg.Metrics
	if m.Textfile != "" {
		if err := metrics.WriteTextfile(m.Textfile); err != nil {
			return err
		}
		s.logger.Debug(ctx, "metrics textfile written", logger.String("path", m.Textfile))
	}
	if m.PushgatewayURL != "" {
		if err := metrics.Push(ctx, m.PushgatewayURL, "draftboard", map[string]string{"command": job, "date": date}); err != nil {
			return err
		}
		s.logger.Debug(ctx, "metrics pushed", logger.String("url", m.PushgatewayURL))
	}
	return nil
}
