// Package domain defines the core user profile entities and types.
package domain

import (
	"time"

	"github.com/legacykeep/user-service/internal/errors"
)

// UserProfile represents a user's profile with personal information and bio
// data. The auth service owns the user account; UserID references it.
//
// FirstName, LastName, and PhoneNumber are sensitive: in memory they always
// hold plaintext, while the storage layer persists them encrypted alongside a
// deterministic fingerprint column per field so exact-match lookups never
// need to decrypt rows.
type UserProfile struct {
	ID     int64
	UserID int64

	FirstName   string
	LastName    string
	PhoneNumber string

	DisplayName string
	Bio         string
	DateOfBirth *time.Time

	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Country      string
	PostalCode   string

	Timezone          string
	Language          string
	ProfilePictureURL string
	IsPublic          bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// FullName returns the display-ready combination of first and last name.
func (p *UserProfile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// IsDeleted reports whether the profile has been soft-deleted.
func (p *UserProfile) IsDeleted() bool {
	return p.DeletedAt != nil
}

// Domain-specific errors for profile operations.
var (
	// ErrProfileNotFound indicates the requested profile does not exist.
	ErrProfileNotFound = errors.Wrap(errors.ErrNotFound, "profile not found")

	// ErrProfileAlreadyExists indicates the user already has a profile.
	ErrProfileAlreadyExists = errors.Wrap(errors.ErrConflict, "profile already exists")
)
