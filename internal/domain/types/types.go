// Package types contains common types used across the application
package types

import (
	"math"

	"github.com/okian/draftboard/internal/domain/model"
)

// Entry is one row of the published draft board. Rank is serialised as "id"
// because board consumers key rows by it.
type Entry struct {
	Rank     int      `json:"id"`
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Team     string   `json:"team"`
	Position string   `json:"position"`
	ADP      *float64 `json:"adp"`
	VOR      float64  `json:"vor"`
	Bye      *int     `json:"bye"`
	PPG      float64  `json:"ppg"`
}

// FromPlayer formats a ranked player: adp to 1 decimal, vor and ppg to 2.
func FromPlayer(p model.Player) Entry {
	e := Entry{
		Rank:     p.Rank,
		Slug:     p.Slug,
		Name:     p.FullName(),
		Team:     p.Team,
		Position: p.Position,
		VOR:      round(model.Value(p.VOR), 2),
		Bye:      p.ByeWeek,
		PPG:      round(model.Value(p.ExpectedPPG), 2),
	}
	if p.ADP != nil {
		e.ADP = model.Float(round(*p.ADP, 1))
	}
	return e
}

// FromPlayers converts a ranked slice, preserving order.
func FromPlayers(players []model.Player) []Entry {
	out := make([]Entry, len(players))
	for i, p := range players {
		out[i] = FromPlayer(p)
	}
	return out
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
