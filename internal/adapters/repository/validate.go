package repository

import (
	"fmt"

	"github.com/okian/draftboard/internal/domain/model"
)

// Validate checks that every record carries the fields its stage must have
// produced. Optional signals (adp, projections, history) may be absent
// until the final board, where adp is required.
func Validate(artifact Artifact, players []model.Player) error {
	for i := range players {
		if err := validatePlayer(artifact, &players[i]); err != nil {
			return fmt.Errorf("%w: %s record %d: %w", ErrInvalidArtifact, artifact, i, err)
		}
	}
	return nil
}

func validatePlayer(artifact Artifact, p *model.Player) error {
	if p.Position == "" {
		return missing("position")
	}
	if artifact == RosterPlayers {
		if p.Team == "" {
			return missing("team")
		}
		return nil
	}
	if p.Slug == "" {
		return missing("slug")
	}
	if artifact == PlayersEnriched {
		return nil
	}
	if p.ExpectedPPG == nil {
		return missing("expected_ppg")
	}
	if artifact == PlayersWithPPG {
		return nil
	}
	switch {
	case p.VOR == nil:
		return missing("vor")
	case p.ADP == nil:
		return missing("adp")
	case p.Rank < 1:
		return missing("rank")
	}
	return nil
}

type missingFieldError string

func (e missingFieldError) Error() string { return "missing " + string(e) }

func missing(field string) error { return missingFieldError(field) }
