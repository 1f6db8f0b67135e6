package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/legacykeep/user-service/internal/errors"
	outboxDomain "github.com/legacykeep/user-service/internal/outbox/domain"
	"github.com/legacykeep/user-service/internal/profile/domain"
)

// fakeTxManager runs the transactional function directly; the tests only care
// that repository and outbox writes happen inside the same WithTx call.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// mockProfileRepository is a mock implementation of ProfileRepository for testing.
type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id int64) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *mockProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepository) SoftDelete(ctx context.Context, userID int64, deletedAt time.Time) error {
	args := m.Called(ctx, userID, deletedAt)
	return args.Error(0)
}

func (m *mockProfileRepository) ListPublic(ctx context.Context, offset, limit int) ([]*domain.UserProfile, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserProfile), args.Error(1)
}

func (m *mockProfileRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.UserProfile, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

// mockOutboxRepository is a mock implementation of OutboxEventRepository for testing.
type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func validInput() ProfileInput {
	return ProfileInput{
		FirstName:   "John",
		LastName:    "Doe",
		DisplayName: "johnd",
		PhoneNumber: "+15551234567",
		City:        "Lisbon",
		Country:     "PT",
		IsPublic:    true,
	}
}

// eventOfType matches a pending outbox event with the given type and payload
// carrying only identifiers.
func eventOfType(eventType string, profileID, userID int64) any {
	return mock.MatchedBy(func(event *outboxDomain.OutboxEvent) bool {
		if event.EventType != eventType || event.Status != outboxDomain.OutboxEventStatusPending {
			return false
		}
		var payload outboxDomain.ProfileEventPayload
		if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
			return false
		}
		return payload.ProfileID == profileID && payload.UserID == userID
	})
}

func TestProfileUseCase_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		txManager := &fakeTxManager{}
		profileRepo := &mockProfileRepository{}
		outboxRepo := &mockOutboxRepository{}
		ctx := context.Background()

		profileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.UserProfile")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.UserProfile).ID = 7
			}).
			Return(nil).
			Once()
		outboxRepo.On("Create", mock.Anything, eventOfType(outboxDomain.EventTypeProfileCreated, 7, 42)).
			Return(nil).
			Once()

		uc := NewProfileUseCase(txManager, profileRepo, outboxRepo)
		profile, err := uc.Create(ctx, 42, validInput())

		require.NoError(t, err)
		assert.Equal(t, int64(7), profile.ID)
		assert.Equal(t, int64(42), profile.UserID)
		assert.Equal(t, "John", profile.FirstName)
		assert.Equal(t, 1, txManager.calls)
		profileRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("Success_DefaultsTimezoneAndLanguage", func(t *testing.T) {
		txManager := &fakeTxManager{}
		profileRepo := &mockProfileRepository{}
		outboxRepo := &mockOutboxRepository{}

		profileRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		uc := NewProfileUseCase(txManager, profileRepo, outboxRepo)
		profile, err := uc.Create(context.Background(), 42, ProfileInput{DisplayName: "johnd"})

		require.NoError(t, err)
		assert.Equal(t, "UTC", profile.Timezone)
		assert.Equal(t, "en", profile.Language)
	})

	t.Run("Error_ValidationFailure", func(t *testing.T) {
		testCases := []struct {
			name  string
			input ProfileInput
		}{
			{"first_name_too_long", ProfileInput{FirstName: strings.Repeat("a", 51)}},
			{"bio_too_long", ProfileInput{Bio: strings.Repeat("a", 1001)}},
			{"invalid_phone", ProfileInput{PhoneNumber: "not-a-phone"}},
			{"invalid_language", ProfileInput{Language: "english!"}},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				txManager := &fakeTxManager{}
				profileRepo := &mockProfileRepository{}
				outboxRepo := &mockOutboxRepository{}

				uc := NewProfileUseCase(txManager, profileRepo, outboxRepo)
				profile, err := uc.Create(context.Background(), 42, tc.input)

				assert.Nil(t, profile)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				assert.Equal(t, 0, txManager.calls)
				profileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Error_DuplicateProfile", func(t *testing.T) {
		txManager := &fakeTxManager{}
		profileRepo := &mockProfileRepository{}
		outboxRepo := &mockOutboxRepository{}

		profileRepo.On("Create", mock.Anything, mock.Anything).
			Return(domain.ErrProfileAlreadyExists).
			Once()

		uc := NewProfileUseCase(txManager, profileRepo, outboxRepo)
		profile, err := uc.Create(context.Background(), 42, validInput())

		assert.Nil(t, profile)
		assert.ErrorIs(t, err, domain.ErrProfileAlreadyExists)
		outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_OutboxWriteFailsTransaction", func(t *testing.T) {
		txManager := &fakeTxManager{}
		profileRepo := &mockProfileRepository{}
		outboxRepo := &mockOutboxRepository{}

		profileRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.Anything).
			Return(assert.AnError).
			Once()

		uc := NewProfileUseCase(txManager, profileRepo, outboxRepo)
		profile, err := uc.Create(context.Background(), 42, validInput())

		assert.Nil(t, profile)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestProfileUseCase_GetByID(t *testing.T) {
	newUseCase := func(profile *domain.UserProfile) ProfileUseCase {
		profileRepo := &mockProfileRepository{}
		profileRepo.On("GetByID", mock.Anything, profile.ID).Return(profile, nil)
		return NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})
	}

	t.Run("Success_PublicProfileVisibleToAnyone", func(t *testing.T) {
		stored := &domain.UserProfile{ID: 7, UserID: 42, IsPublic: true}
		uc := newUseCase(stored)

		profile, err := uc.GetByID(context.Background(), 7, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(7), profile.ID)
	})

	t.Run("Success_PrivateProfileVisibleToOwner", func(t *testing.T) {
		stored := &domain.UserProfile{ID: 7, UserID: 42, IsPublic: false}
		uc := newUseCase(stored)

		profile, err := uc.GetByID(context.Background(), 7, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), profile.UserID)
	})

	t.Run("Error_PrivateProfileHiddenFromOthers", func(t *testing.T) {
		stored := &domain.UserProfile{ID: 7, UserID: 42, IsPublic: false}
		uc := newUseCase(stored)

		// Same not-found error a missing profile produces.
		for _, requester := range []int64{0, 43} {
			profile, err := uc.GetByID(context.Background(), 7, requester)
			assert.Nil(t, profile)
			assert.ErrorIs(t, err, domain.ErrProfileNotFound)
		}
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		profileRepo := &mockProfileRepository{}
		profileRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrProfileNotFound)
		uc := NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})

		profile, err := uc.GetByID(context.Background(), 99, 42)
		assert.Nil(t, profile)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}

func TestProfileUseCase_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		txManager := &fakeTxManager{}
		profileRepo := &mockProfileRepository{}
		outboxRepo := &mockOutboxRepository{}

		createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		stored := &domain.UserProfile{
			ID: 7, UserID: 42, FirstName: "John", Timezone: "UTC", Language: "en",
			CreatedAt: createdAt, UpdatedAt: createdAt,
		}

		profileRepo.On("GetByUserID", mock.Anything, int64(42)).Return(stored, nil).Once()
		profileRepo.On("Update", mock.Anything, stored).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, eventOfType(outboxDomain.EventTypeProfileUpdated, 7, 42)).
			Return(nil).
			Once()

		input := validInput()
		input.FirstName = "Jonathan"

		uc := NewProfileUseCase(txManager, profileRepo, outboxRepo)
		profile, err := uc.Update(context.Background(), 42, input)

		require.NoError(t, err)
		assert.Equal(t, "Jonathan", profile.FirstName)
		assert.True(t, profile.UpdatedAt.After(createdAt))
		assert.Equal(t, 1, txManager.calls)
		profileRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		profileRepo := &mockProfileRepository{}
		profileRepo.On("GetByUserID", mock.Anything, int64(42)).
			Return(nil, domain.ErrProfileNotFound).
			Once()

		uc := NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})
		profile, err := uc.Update(context.Background(), 42, validInput())

		assert.Nil(t, profile)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("Error_ValidationFailure", func(t *testing.T) {
		profileRepo := &mockProfileRepository{}

		uc := NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})
		_, err := uc.Update(context.Background(), 42, ProfileInput{DisplayName: strings.Repeat("a", 101)})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		profileRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})
}

func TestProfileUseCase_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		txManager := &fakeTxManager{}
		profileRepo := &mockProfileRepository{}
		outboxRepo := &mockOutboxRepository{}

		stored := &domain.UserProfile{ID: 7, UserID: 42}
		profileRepo.On("GetByUserID", mock.Anything, int64(42)).Return(stored, nil).Once()
		profileRepo.On("SoftDelete", mock.Anything, int64(42), mock.AnythingOfType("time.Time")).
			Return(nil).
			Once()
		outboxRepo.On("Create", mock.Anything, eventOfType(outboxDomain.EventTypeProfileDeleted, 7, 42)).
			Return(nil).
			Once()

		uc := NewProfileUseCase(txManager, profileRepo, outboxRepo)
		err := uc.Delete(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, 1, txManager.calls)
		profileRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		profileRepo := &mockProfileRepository{}
		profileRepo.On("GetByUserID", mock.Anything, int64(42)).
			Return(nil, domain.ErrProfileNotFound).
			Once()

		uc := NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})
		err := uc.Delete(context.Background(), 42)

		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}

func TestProfileUseCase_ListPublic(t *testing.T) {
	profileRepo := &mockProfileRepository{}
	profiles := []*domain.UserProfile{{ID: 1, IsPublic: true}, {ID: 2, IsPublic: true}}
	profileRepo.On("ListPublic", mock.Anything, 0, 50).Return(profiles, nil).Once()

	uc := NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})
	result, err := uc.ListPublic(context.Background(), 0, 50)

	require.NoError(t, err)
	assert.Len(t, result, 2)
	profileRepo.AssertExpectations(t)
}

func TestProfileUseCase_FindByPhoneNumber(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		profileRepo := &mockProfileRepository{}
		stored := &domain.UserProfile{ID: 7, UserID: 42, PhoneNumber: "+15551234567"}
		profileRepo.On("FindByPhoneNumber", mock.Anything, "+15551234567").Return(stored, nil).Once()

		uc := NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})
		profile, err := uc.FindByPhoneNumber(context.Background(), "+15551234567")

		require.NoError(t, err)
		assert.Equal(t, int64(7), profile.ID)
	})

	t.Run("Error_BlankPhone", func(t *testing.T) {
		profileRepo := &mockProfileRepository{}

		uc := NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})
		profile, err := uc.FindByPhoneNumber(context.Background(), "")

		assert.Nil(t, profile)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		profileRepo.AssertNotCalled(t, "FindByPhoneNumber", mock.Anything, mock.Anything)
	})

	t.Run("Error_NoMatch", func(t *testing.T) {
		profileRepo := &mockProfileRepository{}
		profileRepo.On("FindByPhoneNumber", mock.Anything, "+15550000000").
			Return(nil, domain.ErrProfileNotFound).
			Once()

		uc := NewProfileUseCase(&fakeTxManager{}, profileRepo, &mockOutboxRepository{})
		profile, err := uc.FindByPhoneNumber(context.Background(), "+15550000000")

		assert.Nil(t, profile)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}
