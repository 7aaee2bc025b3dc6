// Package api serves the ranked draft board over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/domain/types"
	"github.com/okian/draftboard/pkg/logger"
)

// DefaultMaxLimit caps GET /board?limit when no option is given.
const DefaultMaxLimit = 500

const shutdownTimeout = 5 * time.Second

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Board returns the ranked board in rank order. An error wrapping
	// repository.ErrNotFound means no board has been built yet.
	Board(ctx context.Context) ([]Entry, error)
}

// Entry mirrors one row of the published board.
type Entry = types.Entry

// Server wires HTTP routes for the board API.
type Server struct {
	deps     Dependencies
	maxLimit int
	log      logger.Logger

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	boardHandler  *BoardHandler
	playerHandler *PlayerHandler
}

// Option configures a Server.
type Option func(*Server)

// WithMaxLimit caps the board page size.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, maxLimit: DefaultMaxLimit, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.boardHandler = NewBoardHandler(deps, s.maxLimit)
	s.playerHandler = NewPlayerHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/openapi.yaml", MetricsMiddleware(HandleOpenAPI, "openapi"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("/board/", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "player"))
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "board server listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrServe, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: shutdown: %w", ErrServe, err)
		}
		s.log.Info(ctx, "board server stopped")
		return nil
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeBoardError translates a Dependencies error into a response.
func writeBoardError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "board_not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
