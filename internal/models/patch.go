package models

import (
	"encoding/json"
)

// Optional is a patch member. Set reports whether the member was supplied
// at all; Null reports whether it was supplied as an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a supplied, non-null member.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Nulled returns a member explicitly set to null.
func Nulled[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// over applies o on top of the current value.
func (o Optional[T]) over(current *T) *T {
	if !o.Set {
		return current
	}
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

func (o Optional[T]) jsonValue() any {
	if o.Null {
		return nil
	}
	return o.Value
}

// PatientUpdate is a partial update of a stored patient.
type PatientUpdate struct {
	Name   Optional[string]
	City   Optional[string]
	Age    Optional[int]
	Gender Optional[Gender]
	Weight Optional[float64]
	Height Optional[float64]
}

// Fields lists the supplied members in schema order.
func (u PatientUpdate) Fields() []string {
	var fields []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"name", u.Name.Set},
		{"city", u.City.Set},
		{"age", u.Age.Set},
		{"gender", u.Gender.Set},
		{"weight", u.Weight.Set},
		{"height", u.Height.Set},
	} {
		if f.set {
			fields = append(fields, f.name)
		}
	}
	return fields
}

// MarshalJSON emits only the supplied members; nulls stay explicit.
func (u PatientUpdate) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if u.Name.Set {
		out["name"] = u.Name.jsonValue()
	}
	if u.City.Set {
		out["city"] = u.City.jsonValue()
	}
	if u.Age.Set {
		out["age"] = u.Age.jsonValue()
	}
	if u.Gender.Set {
		out["gender"] = u.Gender.jsonValue()
	}
	if u.Weight.Set {
		out["weight"] = u.Weight.jsonValue()
	}
	if u.Height.Set {
		out["height"] = u.Height.jsonValue()
	}
	return json.Marshal(out)
}

// Validate checks the constraints of supplied, non-null members only.
func (u PatientUpdate) Validate() error {
	verr := &ValidationError{}
	if u.Age.Set && !u.Age.Null && u.Age.Value <= 0 {
		verr.add("age", "must be greater than 0")
	}
	if u.Gender.Set && !u.Gender.Null && !u.Gender.Value.Valid() {
		verr.add("gender", genderMessage())
	}
	if u.Weight.Set && !u.Weight.Null && u.Weight.Value <= 0 {
		verr.add("weight", "must be greater than 0")
	}
	if u.Height.Set && !u.Height.Null && u.Height.Value <= 0 {
		verr.add("height", "must be greater than 0")
	}
	return verr.orNil()
}

// ApplyTo merges the update onto a stored record and re-attaches id. The
// result still has to pass PatientInput.Validate before it may be stored.
func (u PatientUpdate) ApplyTo(id string, r Record) PatientInput {
	in := r.Input(id)
	in.Name = u.Name.over(in.Name)
	in.City = u.City.over(in.City)
	in.Age = u.Age.over(in.Age)
	in.Gender = u.Gender.over(in.Gender)
	in.Weight = u.Weight.over(in.Weight)
	in.Height = u.Height.over(in.Height)
	return in
}

// ParsePatientUpdate decodes and validates a patch from a JSON object.
// Members outside the patch schema, id included, are ignored.
func ParsePatientUpdate(data []byte) (PatientUpdate, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return PatientUpdate{}, err
	}

	verr := &ValidationError{}
	var u PatientUpdate
	u.Name = optionalMember(raw, "name", decodeString, msgString, verr)
	u.City = optionalMember(raw, "city", decodeString, msgString, verr)
	u.Age = optionalMember(raw, "age", decodeInt, msgInteger, verr)
	u.Gender = optionalMember(raw, "gender", func(v json.RawMessage) (Gender, error) {
		s, err := decodeString(v)
		return Gender(s), err
	}, msgString, verr)
	u.Weight = optionalMember(raw, "weight", decodeFloat, msgNumber, verr)
	u.Height = optionalMember(raw, "height", decodeFloat, msgNumber, verr)

	if err := verr.orNil(); err != nil {
		return PatientUpdate{}, err
	}
	if err := u.Validate(); err != nil {
		return PatientUpdate{}, err
	}
	return u, nil
}

func optionalMember[T any](raw map[string]json.RawMessage, field string, decode func(json.RawMessage) (T, error), typeMsg string, verr *ValidationError) Optional[T] {
	v, ok := raw[field]
	if !ok {
		return Optional[T]{}
	}
	if isNull(v) {
		return Nulled[T]()
	}
	val, err := decode(v)
	if err != nil {
		verr.add(field, typeMsg)
		return Optional[T]{}
	}
	return Some(val)
}
