package scoring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/draftboard/pkg/logger"
)

const boostKeySuffix = "_boost_slugs"

// Mimic forces Target's score to equal Source's.
type Mimic struct {
	Target string `koanf:"target" json:"target"`
	Source string `koanf:"source" json:"source"`
}

// Directives are the manual score adjustments for a run.
type Directives struct {
	// Boosts maps a tier name to the canonical slugs it applies to.
	Boosts map[string][]string
	Mimics []Mimic
}

// Tiers returns the boost tier names present, sorted.
func (d Directives) Tiers() []string {
	out := make([]string, 0, len(d.Boosts))
	for tier := range d.Boosts {
		out = append(out, tier)
	}
	sort.Strings(out)
	return out
}

// LoadDirectives reads the optional boost and mimic files. A missing file is
// a warning; a malformed one is an error.
//
// Boost file: {"max_boost_slugs": ["slug", ...], "large_boost_slugs": [...]}
// (a bare tier name is accepted as key too).
// Mimic file: {"mimic": [{"target": "slug", "source": "slug"}, ...]}.
func LoadDirectives(ctx context.Context, boostPath, mimicPath string, log logger.Logger) (Directives, error) {
	if log == nil {
		log = logger.Nop()
	}
	d := Directives{Boosts: map[string][]string{}}

	if k, ok, err := loadOptional(ctx, boostPath, "boost list", log); err != nil {
		return Directives{}, err
	} else if ok {
		for key, v := range k.Raw() {
			tier := strings.ToLower(strings.TrimSuffix(key, boostKeySuffix))
			slugs, err := stringList(v)
			if err != nil {
				return Directives{}, fmt.Errorf("%w: %s: %s: %w", ErrInvalidDirectives, boostPath, key, err)
			}
			d.Boosts[tier] = append(d.Boosts[tier], slugs...)
		}
	}

	if k, ok, err := loadOptional(ctx, mimicPath, "mimic list", log); err != nil {
		return Directives{}, err
	} else if ok {
		if err := k.UnmarshalWithConf("mimic", &d.Mimics, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return Directives{}, fmt.Errorf("%w: %s: %w", ErrInvalidDirectives, mimicPath, err)
		}
		for i, m := range d.Mimics {
			if m.Target == "" || m.Source == "" {
				return Directives{}, fmt.Errorf("%w: %s: mimic entry %d needs target and source", ErrInvalidDirectives, mimicPath, i)
			}
		}
	}

	log.Info(ctx, "loaded score directives",
		logger.Strings("boost_tiers", d.Tiers()),
		logger.Int("mimics", len(d.Mimics)),
	)
	return d, nil
}

func loadOptional(ctx context.Context, path, what string, log logger.Logger) (*koanf.Koanf, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Warn(ctx, what+" not found, skipping", logger.String("path", path))
		return nil, false, nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrInvalidDirectives, path, err)
	}
	return k, true, nil
}

func stringList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("want a list of slugs, got %T", v)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("want a slug, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}
