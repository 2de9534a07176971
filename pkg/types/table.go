package types

import "errors"

// Table provides uniform row operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity
// struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Set is an upsert: for entities with a compound natural key
	// (branches) an existing row with the same key is overwritten.
	// Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter, ordered by creation
	// time descending. An empty filter returns every entity in the table.
	// Recognized keys are equality filters on entity fields plus "limit".
	Fetch(filter map[string]any) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Graph structural errors. These are distinct from the not-found set so
// callers can report an invariant violation differently from a missing row.
var (
	ErrParentNotFound   = errors.New("parent snippet not found")
	ErrTargetNotFound   = errors.New("target snippet not found")
	ErrHeadNotFound     = errors.New("branch head snippet not found")
	ErrBranchNotFound   = errors.New("branch not found")
	ErrCannotDeleteRoot = errors.New("cannot delete the root snippet")
	ErrNotAChild        = errors.New("snippet is not a child of the given parent")
	ErrStoryMismatch    = errors.New("snippet belongs to a different story")
	ErrInvalidName      = errors.New("invalid name")
)
