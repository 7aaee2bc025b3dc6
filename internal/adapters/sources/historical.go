package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/draftboard/internal/domain/identity"
	"github.com/okian/draftboard/pkg/logger"
)

// Historical scrapes prior-season weekly fantasy points, one page per
// position and week.
type Historical struct {
	client    *Client
	url       string
	positions []string
	weeks     int
	scoring   string
	log       logger.Logger
}

// NewHistorical creates a Historical source. url must contain {pos} and
// {week}; {scoring} is optional.
func NewHistorical(c *Client, url string, positions []string, weeks int, scoring string, log logger.Logger) *Historical {
	if log == nil {
		log = logger.Nop()
	}
	return &Historical{
		client:    c,
		url:       url,
		positions: positions,
		weeks:     weeks,
		scoring:   strings.ToUpper(scoring),
		log:       log,
	}
}

// Weekly returns slug -> weekly scores in week order. A slug listed under
// several positions keeps the scores of the first position in the list.
// A failed page is logged and skipped; an open breaker or a cancelled
// context aborts the scrape.
func (h *Historical) Weekly(ctx context.Context) (map[string][]float64, error) {
	out := make(map[string][]float64)
	skipped := 0
	for _, pos := range h.positions {
		series := make(map[string][]float64)
		for week := 1; week <= h.weeks; week++ {
			scores, err := h.page(ctx, pos, week)
			if err != nil {
				if errors.Is(err, ErrBreakerOpen) || ctx.Err() != nil {
					return nil, fmt.Errorf("historical %s week %d: %w", pos, week, err)
				}
				skipped++
				h.log.Warn(ctx, "skipping historical page",
					logger.String("position", pos),
					logger.Int("week", week),
					logger.Error(err),
				)
				continue
			}
			for slug, pts := range scores {
				series[slug] = append(series[slug], pts)
			}
		}
		for slug, s := range series {
			if _, seen := out[slug]; !seen {
				out[slug] = s
			}
		}
	}
	h.log.Info(ctx, "scraped historical stats",
		logger.Int("players", len(out)),
		logger.Int("skipped_pages", skipped),
	)
	return out, nil
}

func (h *Historical) page(ctx context.Context, pos string, week int) (map[string]float64, error) {
	url := strings.NewReplacer(
		"{pos}", strings.ToLower(pos),
		"{week}", strconv.Itoa(week),
		"{scoring}", h.scoring,
	).Replace(h.url)
	body, err := h.client.Get(ctx, "historical", url)
	if err != nil {
		return nil, err
	}
	return ParseWeekly(bytes.NewReader(body))
}

// ParseWeekly reads one weekly stats page: the "Player" column and the
// "FPTS" column.
func ParseWeekly(r io.Reader) (map[string]float64, error) {
	t, err := parseTable(r, "table#data")
	if err != nil {
		return nil, err
	}
	playerCol := t.column("Player")
	ptsCol := t.column("FPTS")
	if ptsCol < 0 {
		ptsCol = t.columnContaining("FPTS", false)
	}
	if playerCol < 0 || ptsCol < 0 {
		return nil, fmt.Errorf("%w: weekly columns not found in %q", ErrUnexpectedPage, t.header)
	}

	out := make(map[string]float64, len(t.rows))
	for _, row := range t.rows {
		pts, ok := parseNumber(cell(row, ptsCol))
		if !ok {
			continue
		}
		slug := identity.Slugify(cleanName(cell(row, playerCol)))
		if _, dup := out[slug]; slug == "" || dup {
			continue
		}
		out[slug] = pts
	}
	return out, nil
}
