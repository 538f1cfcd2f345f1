package models

import "fmt"

// ValidationError reports a provider record that cannot be transformed
// into a canonical entity. The record is skipped, never half-written.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record: field %s: %s", e.Entity, e.Field, e.Reason)
}

func missingField(entity, field string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: "required field missing"}
}
