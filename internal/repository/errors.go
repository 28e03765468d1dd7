// Package repository holds the storage-level sentinel errors shared by every
// persistence backend.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row doesn't exist for the tenant
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert collides with an existing row
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrForeignKeyViolation is returned when a referenced row is missing
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when a storage call receives unusable arguments
	ErrInvalidInput = errors.New("invalid input")
)
