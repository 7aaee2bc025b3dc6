// Package repository persists pipeline artifacts keyed by run date.
package repository

import (
	"context"

	"github.com/okian/draftboard/internal/domain/model"
)

// Artifact names one stage output.
type Artifact string

// Pipeline artifacts in stage order.
const (
	RawPlayers      Artifact = "raw_players"
	RosterPlayers   Artifact = "roster_players"
	PlayersEnriched Artifact = "players_enriched"
	PlayersWithPPG  Artifact = "players_with_ppg"
	PlayersFinal    Artifact = "players_final"
)

// DateLayout is the run date format.
const DateLayout = "2006-01-02"

// Store provides read/write access to dated artifacts.
type Store interface {
	// SaveRaw writes the raw roster mapping.
	SaveRaw(ctx context.Context, date string, raw map[string]model.RawPlayer) error
	// LoadRaw reads the raw roster mapping.
	// Returns ErrNotFound if the artifact does not exist.
	LoadRaw(ctx context.Context, date string) (map[string]model.RawPlayer, error)

	// SavePlayers writes a player-list artifact.
	SavePlayers(ctx context.Context, date string, artifact Artifact, players []model.Player) error
	// LoadPlayers reads and validates a player-list artifact.
	// Returns ErrNotFound or ErrInvalidArtifact.
	LoadPlayers(ctx context.Context, date string, artifact Artifact) ([]model.Player, error)

	// Dates lists run dates that hold the artifact, oldest first.
	Dates(ctx context.Context, artifact Artifact) ([]string, error)
}
