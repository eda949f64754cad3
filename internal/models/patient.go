package models

import (
	"encoding/json"
	"math"
	"strings"

	"patient-records/internal/utils"
)

// Gender is the closed set of gender literals a record may carry.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
	GenderOthers Gender = "others"
)

var genders = []Gender{GenderMale, GenderFemale, GenderOther, GenderOthers}

// Valid reports whether g is one of the accepted literals.
func (g Gender) Valid() bool {
	for _, known := range genders {
		if g == known {
			return true
		}
	}
	return false
}

func genderMessage() string {
	names := make([]string, len(genders))
	for i, g := range genders {
		names[i] = string(g)
	}
	return "must be one of " + strings.Join(names, ", ")
}

// Verdict thresholds on the rounded BMI.
const (
	UnderweightBelow = 18.5
	ObeseFrom        = 30.0

	VerdictUnderweight = "Underweight"
	VerdictNormal      = "Normal"
	VerdictObese       = "Obese"
)

// Age and height are open ranges.
const (
	MaxAge    = 120
	MaxHeight = 10.0
)

// VerdictFor classifies a BMI value.
func VerdictFor(bmi float64) string {
	switch {
	case bmi < UnderweightBelow:
		return VerdictUnderweight
	case bmi < ObeseFrom:
		return VerdictNormal
	default:
		return VerdictObese
	}
}

// Patient is a validated patient record. BMI and verdict are derived on
// demand from height and weight and are never stored on the struct.
type Patient struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	City   string  `json:"city"`
	Age    int     `json:"age"`
	Gender Gender  `json:"gender"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// BMI is weight / height², rounded to two decimals.
func (p Patient) BMI() float64 {
	return utils.RoundFloat(p.Weight/(p.Height*p.Height), 2)
}

func (p Patient) Verdict() string {
	return VerdictFor(p.BMI())
}

// MarshalJSON adds the computed fields to the serialized form.
func (p Patient) MarshalJSON() ([]byte, error) {
	type plain Patient
	return json.Marshal(struct {
		plain
		BMI     float64 `json:"bmi"`
		Verdict string  `json:"verdict"`
	}{plain(p), p.BMI(), p.Verdict()})
}

// Record returns the payload stored under the patient's ID, with the
// computed fields captured at this moment.
func (p Patient) Record() Record {
	return Record{
		Name:    p.Name,
		City:    p.City,
		Age:     p.Age,
		Gender:  p.Gender,
		Height:  p.Height,
		Weight:  p.Weight,
		BMI:     p.BMI(),
		Verdict: p.Verdict(),
	}
}

// PatientInput is an unvalidated patient. A nil field is missing or null.
type PatientInput struct {
	ID     *string
	Name   *string
	City   *string
	Age    *int
	Gender *Gender
	Height *float64
	Weight *float64
}

// Validate checks presence and every field constraint and returns the
// validated Patient, or a *ValidationError listing all violations.
func (in PatientInput) Validate() (Patient, error) {
	verr := &ValidationError{}
	in.check(verr)
	if err := verr.orNil(); err != nil {
		return Patient{}, err
	}
	return Patient{
		ID:     *in.ID,
		Name:   *in.Name,
		City:   *in.City,
		Age:    *in.Age,
		Gender: *in.Gender,
		Height: *in.Height,
		Weight: *in.Weight,
	}, nil
}

// check records violations for fields not already reported by the decoder.
func (in PatientInput) check(verr *ValidationError) {
	required := func(field string, present bool) bool {
		if verr.has(field) {
			return false
		}
		if !present {
			verr.add(field, msgRequired)
			return false
		}
		return true
	}

	required("id", in.ID != nil)
	required("name", in.Name != nil)
	required("city", in.City != nil)
	if required("age", in.Age != nil) {
		if *in.Age <= 0 {
			verr.add("age", "must be greater than 0")
		} else if *in.Age >= MaxAge {
			verr.add("age", "must be less than 120")
		}
	}
	if required("gender", in.Gender != nil) && !in.Gender.Valid() {
		verr.add("gender", genderMessage())
	}
	heightOK := false
	if required("height", in.Height != nil) {
		if *in.Height <= 0 {
			verr.add("height", "must be greater than 0")
		} else if *in.Height >= MaxHeight {
			verr.add("height", "must be less than 10")
		} else {
			heightOK = true
		}
	}
	weightOK := false
	if required("weight", in.Weight != nil) {
		if *in.Weight <= 0 {
			verr.add("weight", "must be greater than 0")
		} else {
			weightOK = true
		}
	}
	// bmi must stay a finite JSON number.
	if heightOK && weightOK && !finiteBMI(*in.Height, *in.Weight) {
		verr.add("height", msgBMIRange)
		verr.add("weight", msgBMIRange)
	}
}

const msgBMIRange = "height and weight give a bmi out of range"

func finiteBMI(height, weight float64) bool {
	bmi := Patient{Height: height, Weight: weight}.BMI()
	return !math.IsInf(bmi, 0) && !math.IsNaN(bmi)
}

// ParsePatient decodes and validates a patient from a JSON object.
// Unknown members, including bmi and verdict, are ignored.
func ParsePatient(data []byte) (Patient, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return Patient{}, err
	}

	verr := &ValidationError{}
	var in PatientInput
	in.ID = stringMember(raw, "id", verr)
	in.Name = stringMember(raw, "name", verr)
	in.City = stringMember(raw, "city", verr)
	in.Age = intMember(raw, "age", verr)
	if g := stringMember(raw, "gender", verr); g != nil {
		gender := Gender(*g)
		in.Gender = &gender
	}
	in.Height = floatMember(raw, "height", verr)
	in.Weight = floatMember(raw, "weight", verr)

	in.check(verr)
	if err := verr.orNil(); err != nil {
		return Patient{}, err
	}
	return in.Validate()
}

func stringMember(raw map[string]json.RawMessage, field string, verr *ValidationError) *string {
	v, ok := raw[field]
	if !ok || isNull(v) {
		return nil
	}
	s, err := decodeString(v)
	if err != nil {
		verr.add(field, msgString)
		return nil
	}
	return &s
}

func intMember(raw map[string]json.RawMessage, field string, verr *ValidationError) *int {
	v, ok := raw[field]
	if !ok || isNull(v) {
		return nil
	}
	i, err := decodeInt(v)
	if err != nil {
		verr.add(field, msgInteger)
		return nil
	}
	return &i
}

func floatMember(raw map[string]json.RawMessage, field string, verr *ValidationError) *float64 {
	v, ok := raw[field]
	if !ok || isNull(v) {
		return nil
	}
	f, err := decodeFloat(v)
	if err != nil {
		verr.add(field, msgNumber)
		return nil
	}
	return &f
}

// Record is the stored payload of a patient: every field except the ID,
// plus bmi and verdict as captured at the last write.
type Record struct {
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Age     int     `json:"age"`
	Gender  Gender  `json:"gender"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
	BMI     float64 `json:"bmi"`
	Verdict string  `json:"verdict"`
}

// Input turns a stored record back into unvalidated input under id.
func (r Record) Input(id string) PatientInput {
	return PatientInput{
		ID:     &id,
		Name:   &r.Name,
		City:   &r.City,
		Age:    &r.Age,
		Gender: &r.Gender,
		Height: &r.Height,
		Weight: &r.Weight,
	}
}

// Collection maps patient IDs to stored records.
type Collection map[string]Record

// Clone returns an independent copy; Record holds no references.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for id, r := range c {
		out[id] = r
	}
	return out
}
