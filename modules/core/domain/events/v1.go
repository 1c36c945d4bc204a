package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicNotificationCreatedV1 = "notification.created.v1"
	TopicUserChangedV1         = "core.user.changed.v1"
	EventVersionV1             = 1
)

// NotificationCreatedV1 is published after a notification row is committed.
// Delivery adapters subscribe to it; the publishing transaction never waits
// on them.
type NotificationCreatedV1 struct {
	EventID        uuid.UUID         `json:"event_id"`
	EventVersion   int               `json:"event_version"`
	TenantID       uuid.UUID         `json:"tenant_id"`
	NotificationID uuid.UUID         `json:"notification_id"`
	UserID         uuid.UUID         `json:"user_id"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

type UserChangedV1 struct {
	EventID      uuid.UUID `json:"event_id"`
	EventVersion int       `json:"event_version"`
	TenantID     uuid.UUID `json:"tenant_id"`
	UserID       uuid.UUID `json:"user_id"`
	ChangeType   string    `json:"change_type"` // created | updated | deleted
	OccurredAt   time.Time `json:"occurred_at"`
}
