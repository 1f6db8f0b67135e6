// Package domain defines the core outbox domain entities and types.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/legacykeep/user-service/internal/errors"
)

// Event types emitted by the profile module.
const (
	EventTypeProfileCreated = "profile.created"
	EventTypeProfileUpdated = "profile.updated"
	EventTypeProfileDeleted = "profile.deleted"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// OutboxEvent represents an event in the transactional outbox pattern
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileEventPayload is the JSON body attached to profile lifecycle events.
// It carries identifiers only; profile field values never enter the outbox.
type ProfileEventPayload struct {
	ProfileID  int64     `json:"profile_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProfileEvent builds a pending outbox event for a profile lifecycle change.
func NewProfileEvent(eventType string, profileID, userID int64, occurredAt time.Time) (*OutboxEvent, error) {
	payload, err := json.Marshal(ProfileEventPayload{
		ProfileID:  profileID,
		UserID:     userID,
		OccurredAt: occurredAt,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal event payload")
	}

	return &OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(payload),
		Status:    OutboxEventStatusPending,
	}, nil
}
