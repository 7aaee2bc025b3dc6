// Package export writes the ranked board as CSV cheatsheets.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/draftboard/internal/domain/tiers"
	"github.com/okian/draftboard/internal/domain/types"
	"github.com/okian/draftboard/pkg/logger"
)

// OverallFile is the name of the untiered board.
const OverallFile = "cheatsheet_overall.csv"

var boardHeader = []string{"id", "name", "position", "team", "vor", "adp", "bye", "ppg"}

// Cheatsheets writes an overall board and one tiered sheet per position.
type Cheatsheets struct {
	dir       string
	threshold float64
	log       logger.Logger
}

// Option configures Cheatsheets.
type Option func(*Cheatsheets)

// WithDropThreshold sets the VOR drop that opens a new tier.
func WithDropThreshold(v float64) Option {
	return func(c *Cheatsheets) {
		if v > 0 {
			c.threshold = v
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Cheatsheets) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCheatsheets writes into dir, creating it when needed.
func NewCheatsheets(dir string, opts ...Option) *Cheatsheets {
	c := &Cheatsheets{dir: dir, threshold: tiers.DefaultDropThreshold, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PositionFile returns the tiered sheet name for a position.
func PositionFile(position string) string {
	return "cheatsheet_" + position + ".csv"
}

// Write writes every sheet and returns the written paths.
func (c *Cheatsheets) Write(ctx context.Context, board []types.Entry, positions []string) ([]string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	rows := make([][]string, 0, len(board))
	for _, e := range board {
		rows = append(rows, entryRecord(e))
	}
	overall := filepath.Join(c.dir, OverallFile)
	if err := writeCSV(overall, boardHeader, rows); err != nil {
		return nil, err
	}
	paths := []string{overall}

	for _, pos := range positions {
		tiered := tiers.Assign(board, pos, c.threshold)
		rows := make([][]string, 0, len(tiered))
		for _, r := range tiered {
			rows = append(rows, append([]string{strconv.Itoa(r.Tier)}, entryRecord(r.Entry)...))
		}
		path := filepath.Join(c.dir, PositionFile(pos))
		if err := writeCSV(path, append([]string{"Tier"}, boardHeader...), rows); err != nil {
			return nil, err
		}
		paths = append(paths, path)

		tierCount := 0
		if len(tiered) > 0 {
			tierCount = tiered[len(tiered)-1].Tier
		}
		c.log.Debug(ctx, "wrote tiered cheatsheet",
			logger.String("position", pos),
			logger.Int("players", len(tiered)),
			logger.Int("tiers", tierCount),
		)
	}
	return paths, nil
}

func entryRecord(e types.Entry) []string {
	adp, bye := "", ""
	if e.ADP != nil {
		adp = strconv.FormatFloat(*e.ADP, 'f', 1, 64)
	}
	if e.Bye != nil {
		bye = strconv.Itoa(*e.Bye)
	}
	return []string{
		strconv.Itoa(e.Rank),
		e.Name,
		e.Position,
		e.Team,
		strconv.FormatFloat(e.VOR, 'f', 2, 64),
		adp,
		bye,
		strconv.FormatFloat(e.PPG, 'f', 2, 64),
	}
}

func writeCSV(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}
