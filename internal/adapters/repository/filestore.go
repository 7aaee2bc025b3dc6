package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/pkg/logger"
)

const dirMode = 0o755

// FileStore keeps artifacts as pretty-printed JSON at root/<date>/<name>.json.
// Writes are not atomic; concurrent runs for the same date may race.
type FileStore struct {
	root     string
	fileMode uint32
	log      logger.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at root.
func NewFileStore(root string, opts ...Option) *FileStore {
	s := &FileStore{
		root:     root,
		fileMode: 0o644,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file backing an artifact.
func (s *FileStore) Path(date string, artifact Artifact) string {
	return filepath.Join(s.root, date, string(artifact)+".json")
}

// SaveRaw implements Store.
func (s *FileStore) SaveRaw(ctx context.Context, date string, raw map[string]model.RawPlayer) error {
	if raw == nil {
		raw = map[string]model.RawPlayer{}
	}
	return s.save(ctx, date, RawPlayers, raw, len(raw))
}

// LoadRaw implements Store.
func (s *FileStore) LoadRaw(ctx context.Context, date string) (map[string]model.RawPlayer, error) {
	var raw map[string]model.RawPlayer
	if err := s.load(ctx, date, RawPlayers, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]model.RawPlayer{}
	}
	return raw, nil
}

// SavePlayers implements Store.
func (s *FileStore) SavePlayers(ctx context.Context, date string, artifact Artifact, players []model.Player) error {
	if artifact == RawPlayers {
		return fmt.Errorf("%w: %s is not a player list", ErrInvalidArtifact, artifact)
	}
	if players == nil {
		players = []model.Player{}
	}
	return s.save(ctx, date, artifact, players, len(players))
}

// LoadPlayers implements Store.
func (s *FileStore) LoadPlayers(ctx context.Context, date string, artifact Artifact) ([]model.Player, error) {
	if artifact == RawPlayers {
		return nil, fmt.Errorf("%w: %s is not a player list", ErrInvalidArtifact, artifact)
	}
	var players []model.Player
	if err := s.load(ctx, date, artifact, &players); err != nil {
		return nil, err
	}
	if err := Validate(artifact, players); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path(date, artifact), err)
	}
	return players, nil
}

// Dates implements Store.
func (s *FileStore) Dates(ctx context.Context, artifact Artifact) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}
	var dates []string
	for _, e := range entries {
		if !e.IsDir() || checkDate(e.Name()) != nil {
			continue
		}
		if _, err := os.Stat(s.Path(e.Name(), artifact)); err == nil {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *FileStore) save(ctx context.Context, date string, artifact Artifact, v any, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkDate(date); err != nil {
		return err
	}
	path := s.Path(date, artifact)
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", artifact, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append(b, '\n'), fs.FileMode(s.fileMode)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.log.Info(ctx, "artifact saved", logger.String("path", path), logger.Int("records", count))
	return nil
}

func (s *FileStore) load(ctx context.Context, date string, artifact Artifact, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkDate(date); err != nil {
		return err
	}
	path := s.Path(date, artifact)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, path, err)
	}
	s.log.Debug(ctx, "artifact loaded", logger.String("path", path))
	return nil
}

func checkDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}
