package repository

import "errors"

// ErrNotFound marks lookups that matched no row. Pipelines use it to
// tell a missing reference apart from a storage failure.
var ErrNotFound = errors.New("not found")
