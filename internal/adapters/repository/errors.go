// Package repository provides the profile and event collaborators
// backed by MongoDB, plus in-memory counterparts for tests.
package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrProfileNotFound = errors.New("user not found")
	ErrInvalidUserID   = errors.New("invalid user id")
)
