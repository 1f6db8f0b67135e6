// Package usecase defines the interfaces and implementations for profile management
// use cases. Use cases orchestrate repositories and the transactional outbox to
// implement profile lifecycle business logic.
package usecase

import (
	"context"
	"time"

	outboxDomain "github.com/legacykeep/user-service/internal/outbox/domain"
	"github.com/legacykeep/user-service/internal/profile/domain"
)

// ProfileRepository defines the interface for profile persistence operations.
// Implementations are responsible for field encryption and fingerprint columns;
// callers always work with plaintext.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error)
	GetByID(ctx context.Context, id int64) (*domain.UserProfile, error)
	Update(ctx context.Context, profile *domain.UserProfile) error
	SoftDelete(ctx context.Context, userID int64, deletedAt time.Time) error
	ListPublic(ctx context.Context, offset, limit int) ([]*domain.UserProfile, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.UserProfile, error)
}

// OutboxEventRepository defines the outbox operations needed by profile use cases.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// ProfileInput carries the caller-supplied profile fields for create and update
// operations. Zero values clear the corresponding optional fields.
type ProfileInput struct {
	FirstName         string
	LastName          string
	DisplayName       string
	Bio               string
	DateOfBirth       *time.Time
	PhoneNumber       string
	AddressLine1      string
	AddressLine2      string
	City              string
	State             string
	Country           string
	PostalCode        string
	Timezone          string
	Language          string
	ProfilePictureURL string
	IsPublic          bool
}

// ProfileUseCase defines the interface for profile management business logic.
type ProfileUseCase interface {
	// Create creates the profile for the given user. Each user has at most one
	// profile; a second create returns domain.ErrProfileAlreadyExists.
	Create(ctx context.Context, userID int64, input ProfileInput) (*domain.UserProfile, error)
	// GetByUserID retrieves the caller's own profile.
	GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error)
	// GetByID retrieves a profile by id on behalf of requesterUserID (0 for
	// anonymous callers). Private profiles are only visible to their owner;
	// everyone else gets domain.ErrProfileNotFound.
	GetByID(ctx context.Context, id, requesterUserID int64) (*domain.UserProfile, error)
	// Update replaces the mutable fields of the user's profile.
	Update(ctx context.Context, userID int64, input ProfileInput) (*domain.UserProfile, error)
	// Delete soft-deletes the user's profile.
	Delete(ctx context.Context, userID int64) error
	// ListPublic returns a page of public profiles.
	ListPublic(ctx context.Context, offset, limit int) ([]*domain.UserProfile, error)
	// FindByPhoneNumber resolves a profile by exact phone number match.
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.UserProfile, error)
}
