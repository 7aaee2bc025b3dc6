package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/draftboard/internal/domain/identity"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/pkg/logger"
)

var (
	byeToken     = regexp.MustCompile(`^\((\d{1,2})\)$`)
	trailingTeam = regexp.MustCompile(`\s+\(?[A-Z]{2,3}\)?$`)
	nameMarks    = strings.NewReplacer("*", "", "+", "")
)

// FantasyPros reads ADP and season projections.
type FantasyPros struct {
	client         *Client
	adpURL         string
	projectionsURL string
	log            logger.Logger
}

// NewFantasyPros creates a FantasyPros source. {scoring} in projectionsURL
// is replaced with scoring.
func NewFantasyPros(c *Client, adpURL, projectionsURL, scoring string, log logger.Logger) *FantasyPros {
	if log == nil {
		log = logger.Nop()
	}
	return &FantasyPros{
		client:         c,
		adpURL:         adpURL,
		projectionsURL: strings.ReplaceAll(projectionsURL, "{scoring}", strings.ToUpper(scoring)),
		log:            log,
	}
}

// ADP returns source slug -> (adp, bye week).
func (f *FantasyPros) ADP(ctx context.Context) (map[string]model.ADPValue, error) {
	body, err := f.client.Get(ctx, "adp", f.adpURL)
	if err != nil {
		return nil, err
	}
	out, err := ParseADP(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("adp: %w", err)
	}
	f.log.Info(ctx, "parsed adp", logger.Int("players", len(out)))
	return out, nil
}

// Projections returns source slug -> projected season points.
func (f *FantasyPros) Projections(ctx context.Context) (map[string]float64, error) {
	body, err := f.client.Get(ctx, "projections", f.projectionsURL)
	if err != nil {
		return nil, err
	}
	out, err := ParseProjections(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("projections: %w", err)
	}
	f.log.Info(ctx, "parsed projections", logger.Int("players", len(out)))
	return out, nil
}

// ParseADP reads table#data with "Player Team (Bye)" and "AVG" columns.
// The player cell reads "First Last TEAM (BYE)".
func ParseADP(r io.Reader) (map[string]model.ADPValue, error) {
	t, err := parseTable(r, "table#data")
	if err != nil {
		return nil, err
	}
	playerCol, avgCol := t.column("Player Team (Bye)"), t.column("AVG")
	if playerCol < 0 || avgCol < 0 {
		return nil, fmt.Errorf("%w: adp columns not found in %q", ErrUnexpectedPage, t.header)
	}

	out := make(map[string]model.ADPValue, len(t.rows))
	for _, row := range t.rows {
		adp, ok := parseNumber(cell(row, avgCol))
		if !ok {
			continue
		}
		tokens := strings.Fields(cell(row, playerCol))
		var name string
		var bye *int
		switch {
		case len(tokens) > 2:
			name = strings.Join(tokens[:len(tokens)-2], " ")
			if m := byeToken.FindStringSubmatch(tokens[len(tokens)-1]); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					bye = &n
				}
			}
		case len(tokens) > 0:
			name = tokens[0]
		}
		if slug := identity.Slugify(name); slug != "" {
			out[slug] = model.ADPValue{ADP: adp, ByeWeek: bye}
		}
	}
	return out, nil
}

// ParseProjections reads table#data and takes the last "FPTS" column, which
// is the season fantasy point total.
func ParseProjections(r io.Reader) (map[string]float64, error) {
	t, err := parseTable(r, "table#data")
	if err != nil {
		return nil, err
	}
	playerCol, ptsCol := t.columnContaining("Player", false), t.columnContaining("FPTS", true)
	if playerCol < 0 || ptsCol < 0 {
		return nil, fmt.Errorf("%w: projection columns not found in %q", ErrUnexpectedPage, t.header)
	}

	out := make(map[string]float64, len(t.rows))
	for _, row := range t.rows {
		pts, ok := parseNumber(cell(row, ptsCol))
		if !ok {
			continue
		}
		if slug := identity.Slugify(cleanName(cell(row, playerCol))); slug != "" {
			out[slug] = pts
		}
	}
	return out, nil
}

// cleanName drops footnote marks and a trailing team abbreviation.
func cleanName(s string) string {
	s = strings.TrimSpace(nameMarks.Replace(s))
	return strings.TrimSpace(trailingTeam.ReplaceAllString(s, ""))
}
