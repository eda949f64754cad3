package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"patient-records/internal/models"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// FileStore keeps the collection in one JSON file.
type FileStore struct {
	path  string
	mutex sync.Mutex
	log   zerolog.Logger
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log.With().Str("store", "file").Str("path", path).Logger(),
	}
}

// Init writes an empty collection if the file does not exist yet.
func (s *FileStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat data file: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s.log.Info().Msg("Data file missing, creating empty collection")
	return s.Save(context.Background(), models.Collection{})
}

func (s *FileStore) Load(_ context.Context) (models.Collection, error) {
	s.mutex.Lock()
	data, err := os.ReadFile(s.path)
	s.mutex.Unlock()
	if err != nil {
		return nil, loadError(fmt.Errorf("failed to read file: %w", err))
	}

	var c models.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, loadError(fmt.Errorf("failed to parse collection: %w", err))
	}
	if c == nil {
		return nil, loadError(errors.New("data file does not hold a JSON object"))
	}
	return c, nil
}

// Save writes to a temporary file beside the target and renames it into
// place, so a failed write never leaves a truncated collection behind.
func (s *FileStore) Save(_ context.Context, c models.Collection) error {
	if c == nil {
		c = models.Collection{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return saveError(fmt.Errorf("failed to marshal collection: %w", err))
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := renameio.WriteFile(s.path, data, 0644); err != nil {
		return saveError(fmt.Errorf("failed to replace data file: %w", err))
	}

	s.log.Debug().Int("records", len(c)).Msg("Collection saved")
	return nil
}
