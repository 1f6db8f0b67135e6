package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legacykeep/user-service/internal/outbox/domain"
	"github.com/legacykeep/user-service/internal/testutil"
)

func TestNewPostgreSQLOutboxEventRepository(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestPostgreSQLOutboxEventRepository_Create(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	event, err := domain.NewProfileEvent(domain.EventTypeProfileCreated, 7, 42, time.Now().UTC())
	require.NoError(t, err)

	err = repo.Create(ctx, event)
	assert.NoError(t, err)

	events, err := repo.GetPendingEvents(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, domain.EventTypeProfileCreated, events[0].EventType)
	assert.Equal(t, event.Payload, events[0].Payload)
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	event1, err := domain.NewProfileEvent(domain.EventTypeProfileCreated, 7, 42, time.Now().UTC())
	require.NoError(t, err)
	event2, err := domain.NewProfileEvent(domain.EventTypeProfileUpdated, 7, 42, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, event1))
	require.NoError(t, repo.Create(ctx, event2))

	// Oldest events come back first.
	events, err := repo.GetPendingEvents(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, event1.ID, events[0].ID)
	assert.Equal(t, event2.ID, events[1].ID)

	// The limit caps the batch.
	events, err = repo.GetPendingEvents(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents_Empty(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)

	events, err := repo.GetPendingEvents(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, events, 0)
}

func TestPostgreSQLOutboxEventRepository_Update(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	event, err := domain.NewProfileEvent(domain.EventTypeProfileDeleted, 7, 42, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, event))

	now := time.Now()
	event.Status = domain.OutboxEventStatusProcessed
	event.ProcessedAt = &now

	err = repo.Update(ctx, event)
	assert.NoError(t, err)

	// Processed events no longer show up as pending.
	events, err := repo.GetPendingEvents(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, events, 0)
}

func TestPostgreSQLOutboxEventRepository_Update_FailedWithRetries(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	event, err := domain.NewProfileEvent(domain.EventTypeProfileCreated, 7, 42, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, event))

	lastError := "publish failed"
	event.Status = domain.OutboxEventStatusFailed
	event.Retries = 3
	event.LastError = &lastError

	err = repo.Update(ctx, event)
	assert.NoError(t, err)

	events, err := repo.GetPendingEvents(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, events, 0)
}
