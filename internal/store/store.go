// Package store persists run state as JSON files: the published catalog
// (which carries the hero history) and the price snapshot.
//
// Files are replaced atomically by writing a temp file in the same
// directory and renaming it over the target.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rickgao/prob-markets/internal/model"
)

const (
	DefaultCatalogFile  = "markets.json"
	DefaultSnapshotFile = "price_snapshot.json"
)

// FileStore reads and writes state under one directory.
type FileStore struct {
	dir          string
	catalogFile  string
	snapshotFile string
	logger       *slog.Logger
}

// NewFileStore creates a store rooted at dir, creating it if needed. Empty
// file names use the defaults.
func NewFileStore(dir, catalogFile, snapshotFile string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if catalogFile == "" {
		catalogFile = DefaultCatalogFile
	}
	if snapshotFile == "" {
		snapshotFile = DefaultSnapshotFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		dir:          dir,
		catalogFile:  catalogFile,
		snapshotFile: snapshotFile,
		logger:       logger,
	}, nil
}

// CatalogPath returns the catalog file path.
func (s *FileStore) CatalogPath() string {
	return filepath.Join(s.dir, s.catalogFile)
}

// SnapshotPath returns the snapshot file path.
func (s *FileStore) SnapshotPath() string {
	return filepath.Join(s.dir, s.snapshotFile)
}

// Load reads the prior state. A missing or unreadable file yields the empty
// value for that half of the state: the first run has no priors, and a
// damaged file must not block every later run.
func (s *FileStore) Load() (model.State, error) {
	var state model.State

	var prev struct {
		HeroHistory model.HeroHistory `json:"hero_history"`
	}
	ok, err := s.readJSON(s.CatalogPath(), &prev)
	if err != nil {
		return state, err
	}
	if ok {
		state.History = prev.HeroHistory
	}

	var snap model.PriceSnapshot
	ok, err = s.readJSON(s.SnapshotPath(), &snap)
	if err != nil {
		return state, err
	}
	if ok && snap.Prices != nil {
		state.Snapshot = &snap
	}

	s.logger.Debug("loaded state",
		"history", len(state.History),
		"snapshot_prices", len(snapPrices(state.Snapshot)),
	)
	return state, nil
}

// Save writes the snapshot and then the catalog. Each file is replaced
// atomically; a failure leaves the previous version of that file intact.
func (s *FileStore) Save(cat *model.Catalog, snap *model.PriceSnapshot) error {
	if err := writeJSON(s.SnapshotPath(), snap); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := writeJSON(s.CatalogPath(), cat); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	s.logger.Info("saved state",
		"catalog", s.CatalogPath(),
		"snapshot", s.SnapshotPath(),
		"snapshot_prices", len(snapPrices(snap)),
	)
	return nil
}

// readJSON decodes path into v. It reports false when the file does not
// exist or does not decode; only other I/O errors are returned.
func (s *FileStore) readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("ignoring unreadable state file", "path", path, "error", err)
		return false, nil
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func snapPrices(s *model.PriceSnapshot) map[string]float64 {
	if s == nil {
		return nil
	}
	return s.Prices
}
