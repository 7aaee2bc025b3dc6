package api

import (
	"net/http"
)

// BoardStats summarises the current board.
type BoardStats struct {
	Players   int                `json:"players"`
	Positions map[string]int     `json:"positions"`
	TopVOR    map[string]float64 `json:"top_vor"`
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps Dependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	board, err := h.deps.Board(r.Context())
	if err != nil {
		writeBoardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(board))
}

func summarize(board []Entry) BoardStats {
	s := BoardStats{
		Players:   len(board),
		Positions: make(map[string]int),
		TopVOR:    make(map[string]float64),
	}
	for _, e := range board {
		if _, ok := s.TopVOR[e.Position]; !ok || e.VOR > s.TopVOR[e.Position] {
			s.TopVOR[e.Position] = e.VOR
		}
		s.Positions[e.Position]++
	}
	return s
}
