package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
)

const (
	msgRequired = "field required"
	msgString   = "must be a string"
	msgInteger  = "must be an integer"
	msgNumber   = "must be a number"
	msgObject   = "request body must be a JSON object"
)

var errWrongType = errors.New("wrong type")

// decodeObject splits a JSON object into its raw members.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "body", Message: msgObject}}}
	}
	return raw, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errWrongType
	}
	return s, nil
}

// decodeNumber rejects quoted numbers, which json.Number would accept.
func decodeNumber(raw json.RawMessage) (json.Number, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '"' {
		return "", errWrongType
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", errWrongType
	}
	return n, nil
}

// decodeInt accepts integral JSON numbers, including forms like 30.0.
func decodeInt(raw json.RawMessage) (int, error) {
	n, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errWrongType
	}
	return int(f), nil
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	n, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	f, err := n.Float64()
	if err != nil {
		return 0, errWrongType
	}
	return f, nil
}
