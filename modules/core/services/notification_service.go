package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/entities/notification"
	"github.com/aisleworks/aisle/modules/core/domain/events"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/eventbus"
)

// Dispatcher hands a committed notification to a delivery channel
// (push/email/SMS). Implementations live outside this module; the default one
// publishes on the in-process event bus.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *notification.Notification) error
}

// EventBusDispatcher publishes notification.created.v1 for delivery adapters.
type EventBusDispatcher struct {
	publisher eventbus.EventBus
}

func NewEventBusDispatcher(publisher eventbus.EventBus) *EventBusDispatcher {
	return &EventBusDispatcher{publisher: publisher}
}

func (d *EventBusDispatcher) Dispatch(_ context.Context, n *notification.Notification) error {
	d.publisher.Publish(events.TopicNotificationCreatedV1, events.NotificationCreatedV1{
		EventID:        uuid.New(),
		EventVersion:   events.EventVersionV1,
		TenantID:       n.TenantID,
		NotificationID: n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Body:           n.Body,
		Metadata:       n.Metadata,
		OccurredAt:     time.Now(),
	})
	return nil
}

type NotificationService struct {
	repo       notification.Repository
	dispatcher Dispatcher
}

func NewNotificationService(repo notification.Repository, dispatcher Dispatcher) *NotificationService {
	return &NotificationService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

// Notify persists the notification, then hands it to the dispatcher. Dispatch
// failures are logged and swallowed: delivery must never fail the operation
// that triggered the notification.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, title, body string, metadata map[string]string) (*notification.Notification, error) {
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*notification.Notification, error) {
		return s.repo.Create(txCtx, notification.New(userID, title, body, metadata))
	})
	if err != nil {
		return nil, err
	}

	if err := s.dispatcher.Dispatch(ctx, created); err != nil {
		if logger, ok := composables.TryUseLogger(ctx); ok {
			logger.WithError(err).
				WithField("notification_id", created.ID).
				Warn("notification dispatch failed")
		}
	}
	return created, nil
}

func (s *NotificationService) GetForUser(ctx context.Context, params *notification.FindParams) ([]*notification.Notification, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*notification.Notification, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.CountUnread(txCtx, userID)
	})
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkRead(txCtx, id, time.Now())
	})
}
