package repository

import "errors"

// ErrVersionConflict is returned when a conditional update loses a race
// against another writer.
var ErrVersionConflict = errors.New("case was modified concurrently")
