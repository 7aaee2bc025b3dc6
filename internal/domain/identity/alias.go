package identity

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/draftboard/pkg/logger"
)

// AliasTable maps a known-bad source slug to its canonical slug.
type AliasTable map[string]string

// LoadAliasTable reads a JSON or YAML object of source slug -> canonical slug.
// A missing file yields an empty table with a warning; a malformed one is
// logged and also yields an empty table. It never fails.
func LoadAliasTable(ctx context.Context, path string, log logger.Logger) AliasTable {
	if log == nil {
		log = logger.Nop()
	}
	if path == "" {
		return AliasTable{}
	}
	table, err := readAliasTable(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warn(ctx, "alias table not found, continuing without aliases", logger.String("path", path))
		return AliasTable{}
	case err != nil:
		log.Error(ctx, "alias table is malformed, continuing without aliases",
			logger.String("path", path), logger.Error(err))
		return AliasTable{}
	}
	log.Info(ctx, "loaded alias table", logger.String("path", path), logger.Int("aliases", len(table)))
	return table
}

func readAliasTable(path string) (AliasTable, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedAliases, err)
	}
	table := make(AliasTable, len(k.Raw()))
	for source, v := range k.Raw() {
		target, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value for %q is %T, want string", ErrMalformedAliases, source, v)
		}
		table[source] = target
	}
	return table, nil
}
