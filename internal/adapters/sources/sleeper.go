package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/pkg/logger"
)

// Sleeper reads the full NFL player list from the Sleeper API.
type Sleeper struct {
	client *Client
	url    string
	log    logger.Logger
}

// NewSleeper creates a Sleeper source.
func NewSleeper(c *Client, url string, log logger.Logger) *Sleeper {
	if log == nil {
		log = logger.Nop()
	}
	return &Sleeper{client: c, url: url, log: log}
}

// Players returns every player keyed by player_id.
func (s *Sleeper) Players(ctx context.Context) (map[string]model.RawPlayer, error) {
	body, err := s.client.Get(ctx, "sleeper", s.url)
	if err != nil {
		return nil, err
	}
	var players map[string]model.RawPlayer
	if err := json.Unmarshal(body, &players); err != nil {
		return nil, fmt.Errorf("%w: sleeper: %w", ErrUnexpectedPage, err)
	}
	s.log.Info(ctx, "fetched roster", logger.Int("players", len(players)))
	return players, nil
}
