package ingest

import "fmt"

// ReferenceError reports a record whose foreign reference did not
// resolve at persist time. Only the offending record is skipped; the
// run keeps going.
type ReferenceError struct {
	Entity string
	Key    string
	Wants  string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s record %s references missing %s", e.Entity, e.Key, e.Wants)
}
