package repository

import "errors"

// Sentinel errors shared by every repository implementation. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrStaleState   = errors.New("record is not in the expected state")
	ErrSlotConflict = errors.New("time slot overlaps an existing booking")
	ErrDuplicate    = errors.New("record already exists")
)
