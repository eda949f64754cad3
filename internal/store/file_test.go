package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"patient-records/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCollection() models.Collection {
	return models.Collection{
		"P001": models.Patient{ID: "P001", Name: "Ravi", City: "Delhi", Age: 40, Gender: models.GenderMale, Height: 1.75, Weight: 70}.Record(),
		"P002": models.Patient{ID: "P002", Name: "Asha", City: "Pune", Age: 30, Gender: models.GenderFemale, Height: 1.6, Weight: 50}.Record(),
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.json")
	s := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleCollection()))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleCollection(), got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_ReadsStoredLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.json")
	raw := `{"P001": {"name": "Ravi", "city": "Delhi", "age": 40, "gender": "male", "height": 1.75, "weight": 70, "bmi": 22.86, "verdict": "Normal"},
	         "P002": {"name": "Old", "city": "Agra", "age": 50, "gender": "female", "height": 1.5, "weight": 60}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	got, err := NewFileStore(path, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 22.86, got["P001"].BMI)
	assert.Equal(t, "Normal", got["P001"].Verdict)
	assert.Equal(t, 0.0, got["P002"].BMI, "a missing bmi loads as zero")
}

func TestFileStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileStore(filepath.Join(dir, "absent.json"), zerolog.Nop()).Load(ctx)
		var serr *StorageError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "load", serr.Op)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	for name, content := range map[string]string{
		"corrupt": `{"P001": {`,
		"null":    `null`,
		"array":   `[1, 2]`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := NewFileStore(path, zerolog.Nop()).Load(ctx)
			var serr *StorageError
			assert.ErrorAs(t, err, &serr)
		})
	}
}

func TestFileStore_SaveFailureKeepsPreviousState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patients.json")
	s := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleCollection()))

	// A directory in place of the target makes the rename fail.
	blocked := NewFileStore(filepath.Join(dir, "sub"), zerolog.Nop())
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "child"), 0755))
	err := blocked.Save(ctx, models.Collection{})
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "save", serr.Op)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"patients.json", "sub"}, names)
}

func TestFileStore_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "patients.json")
	s := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.Init())
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Save(ctx, sampleCollection()))
	require.NoError(t, s.Init(), "existing data is left alone")
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
