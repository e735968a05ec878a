// Package repository defines error values reused across repositories.
// These sentinels let handlers distinguish failure scenarios without
// inspecting driver errors: absence maps to 404, duplicates to 409.
package repository

import "errors"

// ErrEmailExists is returned when a registration or email update collides
// with an existing account.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEventNotFound is returned when no event row matches the id/owner
// pair. A row owned by a different user is indistinguishable from an
// absent one.
var ErrEventNotFound = errors.New("event not found")
