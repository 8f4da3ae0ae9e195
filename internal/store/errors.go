package store

import "errors"

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDuplicateID     = errors.New("duplicate entry id")
	ErrMissingID       = errors.New("missing entry id")
	ErrInvalidType     = errors.New("invalid entry type")
	ErrAmbiguousID     = errors.New("ambiguous entry id prefix")
	ErrNotMemory       = errors.New("entry is not a memory")
)
