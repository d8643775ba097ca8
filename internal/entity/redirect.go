// Package entity defines the entities and errors used in the application.
// It includes the Redirect struct, which represents a claimed short path and
// the destination it forwards to, along with the domain error definitions.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrEmptyShortPath is returned when an operation is called without a short path.
	ErrEmptyShortPath = errors.New("short path is required")
	// ErrEmptyDestination is returned when a registration omits the destination URL.
	ErrEmptyDestination = errors.New("destination is required")
	// ErrMissingCaller is returned when a registration has no authenticated caller identity.
	ErrMissingCaller = errors.New("caller identity is required")
	// ErrShortPathExists is returned when attempting to claim a short path that is already taken.
	ErrShortPathExists = errors.New("short path exists")
	// ErrRedirectNotFound is returned when no redirect is registered under the given short path.
	ErrRedirectNotFound = errors.New("redirect not found")
)

// Redirect represents a registered short path.
//
// ShortPath, Destination and OwnerID are write-once: they are set when the
// path is claimed and never change afterwards. AccessCount only moves forward,
// bumped exactly once per successful resolve.
type Redirect struct {
	ID            int64     // ID is the unique identifier of the redirect in the database.
	ShortPath     string    // ShortPath is the claimed identifier the redirect is registered under.
	Destination   string    // Destination is the full URL the short path resolves to.
	Label         string    // Label is an optional human-readable annotation, empty when not set.
	OwnerID       string    // OwnerID is the identity of the caller that claimed the short path.
	RedirectStats           // RedirectStats contains usage statistics for the redirect.
	CreatedAt     time.Time // CreatedAt is the timestamp when the short path was claimed.
	UpdatedAt     time.Time // UpdatedAt is refreshed on every successful resolve.
}

// RedirectStats contains usage statistics for a registered short path.
type RedirectStats struct {
	AccessCount int64 // AccessCount is the number of times the short path has been resolved.
}
