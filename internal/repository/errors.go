package repository

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProtected is returned when deleting an entity that must not be
	// deleted (the default template, the primary logo asset).
	ErrProtected = errors.New("entity is protected")

	// ErrInvalidID is returned for malformed user-supplied asset ids.
	ErrInvalidID = errors.New("invalid id")

	// ErrDuplicateID is returned when a user-supplied id is already taken.
	ErrDuplicateID = errors.New("id already exists")
)
