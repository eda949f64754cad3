package service

import (
	"cmp"
	"context"
	"fmt"

	"patient-records/internal/models"
	"patient-records/internal/store"
	"patient-records/internal/utils"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Sort fields and orders accepted by Sort.
var (
	SortFields = []string{"height", "weight", "bmi"}
	SortOrders = []string{"asc", "desc"}
)

// PatientService implements the record operations on top of a Store. Each
// call loads the whole collection, mutates it in memory and saves it back.
type PatientService struct {
	store store.Store
	log   zerolog.Logger
}

func NewPatientService(s store.Store, log zerolog.Logger) *PatientService {
	return &PatientService{
		store: s,
		log:   log.With().Str("component", "patient_service").Logger(),
	}
}

// List returns the collection exactly as stored.
func (s *PatientService) List(ctx context.Context) (models.Collection, error) {
	return s.store.Load(ctx)
}

// Get returns the stored record for id.
func (s *PatientService) Get(ctx context.Context, id string) (models.Record, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return models.Record{}, err
	}
	r, ok := data[id]
	if !ok {
		return models.Record{}, ErrNotFound
	}
	return r, nil
}

// Sort returns all stored records ordered by sortBy. An empty order means
// ascending. Records with equal keys keep ascending ID order.
func (s *PatientService) Sort(ctx context.Context, sortBy, order string) ([]models.Record, error) {
	if !slices.Contains(SortFields, sortBy) {
		return nil, &InvalidArgumentError{Param: "sort_by", Value: sortBy, Allowed: SortFields}
	}
	if order == "" {
		order = "asc"
	}
	if !slices.Contains(SortOrders, order) {
		return nil, &InvalidArgumentError{Param: "order", Value: order, Allowed: SortOrders}
	}

	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	records := make([]models.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, data[id])
	}

	desc := order == "desc"
	slices.SortStableFunc(records, func(a, b models.Record) int {
		c := cmp.Compare(sortKey(a, sortBy), sortKey(b, sortBy))
		if desc {
			return -c
		}
		return c
	})
	return records, nil
}

func sortKey(r models.Record, field string) float64 {
	switch field {
	case "height":
		return r.Height
	case "weight":
		return r.Weight
	case "bmi":
		return r.BMI
	default:
		return 0
	}
}

// Create stores a validated patient under its ID.
func (s *PatientService) Create(ctx context.Context, p models.Patient) error {
	data, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if _, exists := data[p.ID]; exists {
		return ErrConflict
	}

	data[p.ID] = p.Record()
	if err := s.store.Save(ctx, data); err != nil {
		return err
	}

	s.log.Info().Str("patient_id", p.ID).Float64("bmi", p.BMI()).Msg("Patient created")
	return nil
}

// Update merges the patch onto the stored record and stores the result only
// if the merged record passes full validation. Computed fields are
// refreshed from the merged height and weight.
func (s *PatientService) Update(ctx context.Context, id string, patch models.PatientUpdate) (models.Patient, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return models.Patient{}, err
	}
	existing, ok := data[id]
	if !ok {
		return models.Patient{}, ErrNotFound
	}

	updated, err := patch.ApplyTo(id, existing).Validate()
	if err != nil {
		return models.Patient{}, fmt.Errorf("patch leaves patient %s invalid: %w", id, err)
	}

	data[id] = updated.Record()
	if err := s.store.Save(ctx, data); err != nil {
		return models.Patient{}, err
	}

	s.log.Info().Str("patient_id", id).Strs("fields", patch.Fields()).Msg("Patient updated")
	return updated, nil
}

// Delete removes the record for id.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	data, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := data[id]; !ok {
		return ErrNotFound
	}

	delete(data, id)
	if err := s.store.Save(ctx, data); err != nil {
		return err
	}

	s.log.Info().Str("patient_id", id).Msg("Patient deleted")
	return nil
}

// Summary aggregates the stored measurements.
type Summary struct {
	Count    int            `json:"count"`
	Height   utils.Stats    `json:"height"`
	Weight   utils.Stats    `json:"weight"`
	BMI      utils.Stats    `json:"bmi"`
	Verdicts map[string]int `json:"verdicts"`
}

// Stats summarises the stored records as they are persisted.
func (s *PatientService) Stats(ctx context.Context) (Summary, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return Summary{}, err
	}

	heights := make([]float64, 0, len(data))
	weights := make([]float64, 0, len(data))
	bmis := make([]float64, 0, len(data))
	verdicts := map[string]int{}
	for _, r := range data {
		heights = append(heights, r.Height)
		weights = append(weights, r.Weight)
		bmis = append(bmis, r.BMI)
		if r.Verdict != "" {
			verdicts[r.Verdict]++
		}
	}

	return Summary{
		Count:    len(data),
		Height:   utils.CalculateStats(heights),
		Weight:   utils.CalculateStats(weights),
		BMI:      utils.CalculateStats(bmis),
		Verdicts: verdicts,
	}, nil
}
