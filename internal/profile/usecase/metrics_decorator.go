package usecase

import (
	"context"
	"time"

	"github.com/legacykeep/user-service/internal/metrics"
	"github.com/legacykeep/user-service/internal/profile/domain"
)

// profileUseCaseWithMetrics decorates ProfileUseCase with metrics instrumentation.
type profileUseCaseWithMetrics struct {
	next    ProfileUseCase
	metrics metrics.BusinessMetrics
}

// NewProfileUseCaseWithMetrics wraps a ProfileUseCase with metrics recording.
func NewProfileUseCaseWithMetrics(useCase ProfileUseCase, m metrics.BusinessMetrics) ProfileUseCase {
	return &profileUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration histogram for one call.
func (p *profileUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "profile", operation, status)
	p.metrics.RecordDuration(ctx, "profile", operation, time.Since(start), status)
}

// Create records metrics for profile creation operations.
func (p *profileUseCaseWithMetrics) Create(
	ctx context.Context,
	userID int64,
	input ProfileInput,
) (*domain.UserProfile, error) {
	start := time.Now()
	profile, err := p.next.Create(ctx, userID, input)
	p.record(ctx, "profile_create", start, err)
	return profile, err
}

// GetByUserID records metrics for own-profile retrieval operations.
func (p *profileUseCaseWithMetrics) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	start := time.Now()
	profile, err := p.next.GetByUserID(ctx, userID)
	p.record(ctx, "profile_get_own", start, err)
	return profile, err
}

// GetByID records metrics for profile retrieval operations.
func (p *profileUseCaseWithMetrics) GetByID(
	ctx context.Context,
	id, requesterUserID int64,
) (*domain.UserProfile, error) {
	start := time.Now()
	profile, err := p.next.GetByID(ctx, id, requesterUserID)
	p.record(ctx, "profile_get", start, err)
	return profile, err
}

// Update records metrics for profile update operations.
func (p *profileUseCaseWithMetrics) Update(
	ctx context.Context,
	userID int64,
	input ProfileInput,
) (*domain.UserProfile, error) {
	start := time.Now()
	profile, err := p.next.Update(ctx, userID, input)
	p.record(ctx, "profile_update", start, err)
	return profile, err
}

// Delete records metrics for profile deletion operations.
func (p *profileUseCaseWithMetrics) Delete(ctx context.Context, userID int64) error {
	start := time.Now()
	err := p.next.Delete(ctx, userID)
	p.record(ctx, "profile_delete", start, err)
	return err
}

// ListPublic records metrics for public profile listing operations.
func (p *profileUseCaseWithMetrics) ListPublic(
	ctx context.Context,
	offset, limit int,
) ([]*domain.UserProfile, error) {
	start := time.Now()
	profiles, err := p.next.ListPublic(ctx, offset, limit)
	p.record(ctx, "profile_list_public", start, err)
	return profiles, err
}

// FindByPhoneNumber records metrics for phone number lookup operations.
func (p *profileUseCaseWithMetrics) FindByPhoneNumber(
	ctx context.Context,
	phoneNumber string,
) (*domain.UserProfile, error) {
	start := time.Now()
	profile, err := p.next.FindByPhoneNumber(ctx, phoneNumber)
	p.record(ctx, "profile_lookup_phone", start, err)
	return profile, err
}
