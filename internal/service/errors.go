package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no record exists for the requested ID.
	ErrNotFound = errors.New("patient not found")
	// ErrConflict is returned when creating a record under an existing ID.
	ErrConflict = errors.New("patient already exists")
)

// InvalidArgumentError reports a query parameter outside its allowed set.
type InvalidArgumentError struct {
	Param   string
	Value   string
	Allowed []string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q, select from [%s]", e.Param, e.Value, strings.Join(e.Allowed, ", "))
}
