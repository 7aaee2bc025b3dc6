package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// BoardHandler serves the ranked board.
type BoardHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps Dependencies, maxLimit int) *BoardHandler {
	return &BoardHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetBoard handles GET /board?limit=N&position=P. Without limit the
// whole (capped) board is returned; rank stays the overall rank when a
// position is selected.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	n := h.maxLimit
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit must not exceed %d", ErrBadRequest, h.maxLimit))
			return
		}
		n = v
	}
	position := strings.ToUpper(strings.TrimSpace(q.Get("position")))

	board, err := h.deps.Board(r.Context())
	if err != nil {
		writeBoardError(w, err)
		return
	}

	out := make([]Entry, 0, min(n, len(board)))
	for _, e := range board {
		if len(out) == n {
			break
		}
		if position != "" && e.Position != position {
			continue
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}
