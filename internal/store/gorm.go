package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"patient-records/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const insertBatchSize = 100

// GormStore keeps the collection in the patient_records table. Save
// replaces the table contents inside one transaction.
type GormStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewGormStore(db *gorm.DB, log zerolog.Logger) *GormStore {
	return &GormStore{db: db, log: log.With().Str("store", "gorm").Logger()}
}

func (s *GormStore) Load(ctx context.Context) (models.Collection, error) {
	var rows []models.RecordRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, loadError(fmt.Errorf("failed to query records: %w", err))
	}
	c, err := collectionFromRows(rows)
	if err != nil {
		return nil, loadError(err)
	}
	return c, nil
}

func (s *GormStore) Save(ctx context.Context, c models.Collection) error {
	rows, err := rowsFromCollection(c)
	if err != nil {
		return saveError(err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.RecordRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert records: %w", err)
		}
		return nil
	})
	if err != nil {
		return saveError(err)
	}

	s.log.Debug().Int("records", len(rows)).Msg("Collection saved")
	return nil
}

func collectionFromRows(rows []models.RecordRow) (models.Collection, error) {
	c := make(models.Collection, len(rows))
	for _, row := range rows {
		var r models.Record
		if err := json.Unmarshal(row.Payload, &r); err != nil {
			return nil, fmt.Errorf("failed to parse record %s: %w", row.ID, err)
		}
		c[row.ID] = r
	}
	return c, nil
}

// rowsFromCollection orders rows by ID so inserts are reproducible.
func rowsFromCollection(c models.Collection) ([]models.RecordRow, error) {
	rows := make([]models.RecordRow, 0, len(c))
	for id, r := range c {
		payload, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record %s: %w", id, err)
		}
		rows = append(rows, models.RecordRow{ID: id, Payload: datatypes.JSON(payload)})
	}
	slices.SortFunc(rows, func(a, b models.RecordRow) int { return strings.Compare(a.ID, b.ID) })
	return rows, nil
}
