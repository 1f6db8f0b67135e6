package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/legacykeep/user-service/internal/database"
	apperrors "github.com/legacykeep/user-service/internal/errors"
	outboxDomain "github.com/legacykeep/user-service/internal/outbox/domain"
	"github.com/legacykeep/user-service/internal/profile/domain"
	apprules "github.com/legacykeep/user-service/internal/validation"
)

// profileUseCase implements the ProfileUseCase interface.
type profileUseCase struct {
	txManager   database.TxManager
	profileRepo ProfileRepository
	outboxRepo  OutboxEventRepository
}

// NewProfileUseCase creates a new ProfileUseCase.
func NewProfileUseCase(
	txManager database.TxManager,
	profileRepo ProfileRepository,
	outboxRepo OutboxEventRepository,
) ProfileUseCase {
	return &profileUseCase{
		txManager:   txManager,
		profileRepo: profileRepo,
		outboxRepo:  outboxRepo,
	}
}

// validateInput checks field lengths and formats for create/update operations.
func validateInput(input ProfileInput) error {
	err := validation.Errors{
		"first_name":          validation.Validate(input.FirstName, validation.Length(0, 50)),
		"last_name":           validation.Validate(input.LastName, validation.Length(0, 50)),
		"display_name":        validation.Validate(input.DisplayName, validation.Length(0, 100)),
		"bio":                 validation.Validate(input.Bio, validation.Length(0, 1000)),
		"phone_number":        validation.Validate(input.PhoneNumber, validation.Length(0, 20), validation.When(input.PhoneNumber != "", apprules.Phone)),
		"address_line1":       validation.Validate(input.AddressLine1, validation.Length(0, 255)),
		"address_line2":       validation.Validate(input.AddressLine2, validation.Length(0, 255)),
		"city":                validation.Validate(input.City, validation.Length(0, 100)),
		"state":               validation.Validate(input.State, validation.Length(0, 100)),
		"country":             validation.Validate(input.Country, validation.Length(0, 100)),
		"postal_code":         validation.Validate(input.PostalCode, validation.Length(0, 20)),
		"timezone":            validation.Validate(input.Timezone, validation.Length(0, 50)),
		"language":            validation.Validate(input.Language, validation.Length(0, 10), validation.When(input.Language != "", apprules.Language)),
		"profile_picture_url": validation.Validate(input.ProfilePictureURL, validation.Length(0, 500)),
	}.Filter()

	return apprules.WrapValidationError(err)
}

// applyInput copies caller-supplied fields onto the profile entity.
func applyInput(profile *domain.UserProfile, input ProfileInput) {
	profile.FirstName = input.FirstName
	profile.LastName = input.LastName
	profile.DisplayName = input.DisplayName
	profile.Bio = input.Bio
	profile.DateOfBirth = input.DateOfBirth
	profile.PhoneNumber = input.PhoneNumber
	profile.AddressLine1 = input.AddressLine1
	profile.AddressLine2 = input.AddressLine2
	profile.City = input.City
	profile.State = input.State
	profile.Country = input.Country
	profile.PostalCode = input.PostalCode
	profile.Timezone = input.Timezone
	if profile.Timezone == "" {
		profile.Timezone = "UTC"
	}
	profile.Language = input.Language
	if profile.Language == "" {
		profile.Language = "en"
	}
	profile.ProfilePictureURL = input.ProfilePictureURL
	profile.IsPublic = input.IsPublic
}

// Create creates the profile for the given user and records a profile.created
// event in the same transaction.
func (p *profileUseCase) Create(
	ctx context.Context,
	userID int64,
	input ProfileInput,
) (*domain.UserProfile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.UserProfile{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(profile, input)

	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := p.profileRepo.Create(txCtx, profile); err != nil {
			return err
		}

		event, err := outboxDomain.NewProfileEvent(outboxDomain.EventTypeProfileCreated, profile.ID, userID, now)
		if err != nil {
			return err
		}

		return p.outboxRepo.Create(txCtx, event)
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetByUserID retrieves the caller's own profile.
func (p *profileUseCase) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	return p.profileRepo.GetByUserID(ctx, userID)
}

// GetByID retrieves a profile by id, hiding private profiles from non-owners.
func (p *profileUseCase) GetByID(ctx context.Context, id, requesterUserID int64) (*domain.UserProfile, error) {
	profile, err := p.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Private profiles are indistinguishable from missing ones for non-owners.
	if !profile.IsPublic && profile.UserID != requesterUserID {
		return nil, domain.ErrProfileNotFound
	}

	return profile, nil
}

// Update replaces the mutable fields of the user's profile and records a
// profile.updated event in the same transaction.
func (p *profileUseCase) Update(
	ctx context.Context,
	userID int64,
	input ProfileInput,
) (*domain.UserProfile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	profile, err := p.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applyInput(profile, input)
	profile.UpdatedAt = now

	err = p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := p.profileRepo.Update(txCtx, profile); err != nil {
			return err
		}

		event, err := outboxDomain.NewProfileEvent(outboxDomain.EventTypeProfileUpdated, profile.ID, userID, now)
		if err != nil {
			return err
		}

		return p.outboxRepo.Create(txCtx, event)
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// Delete soft-deletes the user's profile and records a profile.deleted event
// in the same transaction.
func (p *profileUseCase) Delete(ctx context.Context, userID int64) error {
	profile, err := p.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	return p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := p.profileRepo.SoftDelete(txCtx, userID, now); err != nil {
			return err
		}

		event, err := outboxDomain.NewProfileEvent(outboxDomain.EventTypeProfileDeleted, profile.ID, userID, now)
		if err != nil {
			return err
		}

		return p.outboxRepo.Create(txCtx, event)
	})
}

// ListPublic returns a page of public profiles.
func (p *profileUseCase) ListPublic(ctx context.Context, offset, limit int) ([]*domain.UserProfile, error) {
	return p.profileRepo.ListPublic(ctx, offset, limit)
}

// FindByPhoneNumber resolves a profile by exact phone number match.
func (p *profileUseCase) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.UserProfile, error) {
	if phoneNumber == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "phone number is required")
	}

	return p.profileRepo.FindByPhoneNumber(ctx, phoneNumber)
}
