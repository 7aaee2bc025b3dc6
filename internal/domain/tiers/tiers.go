// Package tiers groups a position's board into draft tiers.
package tiers

import (
	"math"
	"sort"

	"github.com/okian/draftboard/internal/domain/types"
)

// DefaultDropThreshold is the VOR drop that opens a new tier.
const DefaultDropThreshold = 1.75

// Row is a board entry with its tier.
type Row struct {
	Tier int
	types.Entry
}

// Assign returns the entries at position sorted by VOR descending. A new
// tier starts whenever the VOR drop from the previous row exceeds threshold.
func Assign(entries []types.Entry, position string, threshold float64) []Row {
	var rows []Row
	for _, e := range entries {
		if e.Position == position {
			rows = append(rows, Row{Entry: e})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].VOR > rows[j].VOR })
	tier := 1
	for i := range rows {
		if i > 0 && math.Abs(rows[i-1].VOR-rows[i].VOR) > threshold {
			tier++
		}
		rows[i].Tier = tier
	}
	return rows
}
