package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedRecord() Record {
	return Patient{ID: "P001", Name: "Ravi", City: "Delhi", Age: 40, Gender: GenderMale, Height: 1.75, Weight: 70}.Record()
}

func TestParsePatientUpdate(t *testing.T) {
	t.Run("unset, null and set are distinct", func(t *testing.T) {
		u, err := ParsePatientUpdate([]byte(`{"city":null,"weight":80}`))
		require.NoError(t, err)

		assert.False(t, u.Name.Set)
		assert.True(t, u.City.Set)
		assert.True(t, u.City.Null)
		assert.Equal(t, Some(80.0), u.Weight)
		assert.Equal(t, []string{"city", "weight"}, u.Fields())
	})

	t.Run("empty patch", func(t *testing.T) {
		u, err := ParsePatientUpdate([]byte(`{}`))
		require.NoError(t, err)
		assert.Empty(t, u.Fields())
	})

	t.Run("id and computed members ignored", func(t *testing.T) {
		u, err := ParsePatientUpdate([]byte(`{"id":"P999","bmi":12,"verdict":"x"}`))
		require.NoError(t, err)
		assert.Empty(t, u.Fields())
	})

	t.Run("constraint violations", func(t *testing.T) {
		_, err := ParsePatientUpdate([]byte(`{"age":0,"weight":-1,"height":0,"gender":"robot"}`))
		assert.Equal(t, []string{"age", "gender", "weight", "height"}, fieldsOf(t, err))
	})

	t.Run("age upper bound is left to the record schema", func(t *testing.T) {
		u, err := ParsePatientUpdate([]byte(`{"age":150}`))
		require.NoError(t, err)
		assert.Equal(t, Some(150), u.Age)
	})

	t.Run("wrong types", func(t *testing.T) {
		_, err := ParsePatientUpdate([]byte(`{"name":1,"age":"old"}`))
		assert.Equal(t, []string{"name", "age"}, fieldsOf(t, err))
	})
}

func TestPatientUpdate_ApplyTo(t *testing.T) {
	t.Run("overwrites supplied members only", func(t *testing.T) {
		u := PatientUpdate{Weight: Some(95.0), City: Some("Mumbai")}
		p, err := u.ApplyTo("P001", storedRecord()).Validate()
		require.NoError(t, err)

		assert.Equal(t, "P001", p.ID)
		assert.Equal(t, "Ravi", p.Name)
		assert.Equal(t, "Mumbai", p.City)
		assert.Equal(t, 95.0, p.Weight)
		assert.Equal(t, 31.02, p.BMI())
		assert.Equal(t, VerdictObese, p.Verdict())
	})

	t.Run("merged record must pass the record schema", func(t *testing.T) {
		u := PatientUpdate{Age: Some(150), Height: Some(12.0)}
		require.NoError(t, u.Validate())

		_, err := u.ApplyTo("P001", storedRecord()).Validate()
		assert.Equal(t, []string{"age", "height"}, fieldsOf(t, err))
	})

	t.Run("explicit null clears a required field", func(t *testing.T) {
		u := PatientUpdate{Name: Nulled[string]()}
		_, err := u.ApplyTo("P001", storedRecord()).Validate()
		assert.Equal(t, []string{"name"}, fieldsOf(t, err))
	})

	t.Run("does not alias the stored record", func(t *testing.T) {
		r := storedRecord()
		u := PatientUpdate{Name: Some("Other")}
		_, err := u.ApplyTo("P001", r).Validate()
		require.NoError(t, err)
		assert.Equal(t, "Ravi", r.Name)
	})
}

func TestPatientUpdate_MarshalJSON(t *testing.T) {
	u := PatientUpdate{Age: Some(41), City: Nulled[string](), Gender: Some(GenderOther)}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"age":41,"city":null,"gender":"other"}`, string(data))

	back, err := ParsePatientUpdate(data)
	require.NoError(t, err)
	assert.Equal(t, u, back)
}
