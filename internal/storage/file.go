package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

var _ Store = (*FileStore)(nil)

// FileStore persists each slot as <dir>/<slot>.json. Writes go through a
// temp file and rename so a crash never leaves a half-written slot.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating storage dir: %v", types.ErrPersistence, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

func (s *FileStore) Read(ctx context.Context, slot string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: reading slot %q: %v", types.ErrPersistence, slot, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		// Malformed persisted state is treated as absent, not fatal.
		s.logger.WarnContext(ctx, "Discarding malformed slot contents",
			slog.String("slot", slot), slog.Any("error", err))
		return false, nil
	}
	return true, nil
}

func (s *FileStore) Write(ctx context.Context, slot string, v any) error {
	js, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding slot %q: %v", types.ErrPersistence, slot, err)
	}
	if err := atomic.WriteFile(s.path(slot), bytes.NewReader(js)); err != nil {
		return fmt.Errorf("%w: writing slot %q: %v", types.ErrPersistence, slot, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, slot string) error {
	err := os.Remove(s.path(slot))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: deleting slot %q: %v", types.ErrPersistence, slot, err)
	}
	return nil
}
