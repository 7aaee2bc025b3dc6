// Package model contains domain models passed between layers.
package model

import "strings"

// RawPlayer is a roster-source record. Team and position may be missing for
// free agents and retired players.
type RawPlayer struct {
	PlayerID  string `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position,omitempty"`
	Team      string `json:"team,omitempty"`
	ByeWeek   *int   `json:"fantasy_data_tms_bye_week,omitempty"`
}

// Player is the unit flowing through every pipeline stage. Optional numeric
// attributes are nil when the data is absent; absence is never zero.
type Player struct {
	PlayerID  string `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	ByeWeek   *int   `json:"bye_week"`

	// Slug is assigned once during enrichment and never changes.
	Slug string `json:"slug,omitempty"`

	ADP             *float64 `json:"adp"`
	ProjectedPoints *float64 `json:"projected_points"`
	ProjectedPPG    *float64 `json:"projected_ppg,omitempty"`
	TopNAvg         *float64 `json:"top_n_avg,omitempty"`

	ZProj      *float64 `json:"z_proj,omitempty"`
	ZHist      *float64 `json:"z_hist,omitempty"`
	ScaledProj *float64 `json:"scaled_proj,omitempty"`
	ScaledHist *float64 `json:"scaled_hist,omitempty"`
	Score      *float64 `json:"score,omitempty"`

	ExpectedPPG *float64 `json:"expected_ppg,omitempty"`
	VOR         *float64 `json:"vor,omitempty"`
	Rank        int      `json:"rank,omitempty"`
}

// FullName joins first and last name.
func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// FromRaw copies the identity fields of a roster record.
func FromRaw(r RawPlayer) Player {
	return Player{
		PlayerID:  r.PlayerID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Team:      r.Team,
		Position:  r.Position,
		ByeWeek:   r.ByeWeek,
	}
}

// ADPValue is what the ADP source reports per player.
type ADPValue struct {
	ADP     float64 `json:"adp"`
	ByeWeek *int    `json:"bye_week,omitempty"`
}

// Attribute selects an optional numeric attribute of a player.
type Attribute func(*Player) *float64

// Named attributes used by the normalizer and scorer.
var (
	AttrADP          Attribute = func(p *Player) *float64 { return p.ADP }
	AttrProjectedPPG Attribute = func(p *Player) *float64 { return p.ProjectedPPG }
	AttrTopNAvg      Attribute = func(p *Player) *float64 { return p.TopNAvg }
	AttrExpectedPPG  Attribute = func(p *Player) *float64 { return p.ExpectedPPG }
	AttrVOR          Attribute = func(p *Player) *float64 { return p.VOR }
)

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Value dereferences f, returning 0 for nil.
func Value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
