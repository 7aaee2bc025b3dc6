// Package roster turns the raw roster source into the player pool the
// pipeline values.
package roster

import (
	"sort"

	"github.com/okian/draftboard/internal/domain/model"
)

// FromRaw converts the player_id keyed roster into players ordered by
// player_id.
func FromRaw(raw map[string]model.RawPlayer) []model.Player {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		r := raw[id]
		if r.PlayerID == "" {
			r.PlayerID = id
		}
		out = append(out, model.FromRaw(r))
	}
	return out
}

// KeepRosteredAndRelevant keeps players who are on a team and play one of
// positions. The order of players is preserved.
func KeepRosteredAndRelevant(players []model.Player, positions []string) []model.Player {
	relevant := make(map[string]bool, len(positions))
	for _, p := range positions {
		relevant[p] = true
	}
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Team == "" || !relevant[p.Position] {
			continue
		}
		out = append(out, p)
	}
	return out
}
