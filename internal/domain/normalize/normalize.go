// Package normalize converts raw player attributes into position-relative
// z-scores.
package normalize

import (
	"math"

	"github.com/okian/draftboard/internal/domain/model"
)

// Stats summarises one position group for one attribute.
type Stats struct {
	Members int
	Present int
	Mean    float64
	// StdDev is the sample standard deviation; 0 when fewer than two
	// values are present.
	StdDev float64
}

// Missing is the number of members without a value.
func (s Stats) Missing() int { return s.Members - s.Present }

// GroupStats computes per-position statistics over present values.
func GroupStats(players []model.Player, attr model.Attribute) map[string]Stats {
	sums := make(map[string]float64)
	out := make(map[string]Stats)
	for i := range players {
		p := &players[i]
		s := out[p.Position]
		s.Members++
		if v := attr(p); v != nil {
			s.Present++
			sums[p.Position] += *v
		}
		out[p.Position] = s
	}
	for pos, s := range out {
		if s.Present > 0 {
			s.Mean = sums[pos] / float64(s.Present)
		}
		out[pos] = s
	}

	sq := make(map[string]float64)
	for i := range players {
		p := &players[i]
		if v := attr(p); v != nil {
			d := *v - out[p.Position].Mean
			sq[p.Position] += d * d
		}
	}
	for pos, s := range out {
		if s.Present > 1 {
			s.StdDev = math.Sqrt(sq[pos] / float64(s.Present-1))
		}
		out[pos] = s
	}
	return out
}

// ZScores returns one z-score per player, aligned with players, computed
// within the player's position group. Missing values score 0, as does every
// member of a group whose standard deviation is 0.
func ZScores(players []model.Player, attr model.Attribute) []float64 {
	stats := GroupStats(players, attr)
	out := make([]float64, len(players))
	for i := range players {
		p := &players[i]
		v := attr(p)
		s := stats[p.Position]
		if v == nil || s.StdDev == 0 {
			continue
		}
		out[i] = (*v - s.Mean) / s.StdDev
	}
	return out
}
