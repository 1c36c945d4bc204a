package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/entities/notification"
	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/repo"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var ErrNotificationNotFound = serrors.NewNotFound("notification not found", "Errors.Notification.NotFound")

const (
	notificationFindQuery = `
		SELECT n.id, n.tenant_id, n.user_id, n.title, n.body, n.metadata, n.read_at, n.created_at
		FROM notifications n`

	notificationInsertQuery = `
		INSERT INTO notifications (id, tenant_id, user_id, title, body, metadata, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	notificationCountUnreadQuery = `
		SELECT COUNT(*) FROM notifications
		WHERE tenant_id = $1 AND user_id = $2 AND read_at IS NULL`

	// COALESCE keeps the first read timestamp, so re-reading is idempotent.
	notificationMarkReadQuery = `
		UPDATE notifications SET read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND tenant_id = $2`
)

type PgNotificationRepository struct{}

func NewNotificationRepository() notification.Repository {
	return &PgNotificationRepository{}
}

func (r *PgNotificationRepository) Create(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	n.TenantID = tenantID
	dbNotification, err := ToDBNotification(n)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, notificationInsertQuery,
		dbNotification.ID,
		dbNotification.TenantID,
		dbNotification.UserID,
		dbNotification.Title,
		dbNotification.Body,
		dbNotification.Metadata,
		dbNotification.ReadAt,
		dbNotification.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}
	return n, nil
}

func (r *PgNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	row := tx.QueryRow(ctx, notificationFindQuery+" WHERE n.tenant_id = $1 AND n.id = $2", tenantID, id)
	var dbNotification models.Notification
	if err := row.Scan(
		&dbNotification.ID,
		&dbNotification.TenantID,
		&dbNotification.UserID,
		&dbNotification.Title,
		&dbNotification.Body,
		&dbNotification.Metadata,
		&dbNotification.ReadAt,
		&dbNotification.CreatedAt,
	); err != nil {
		return nil, translateDBError(err, ErrNotificationNotFound, nil)
	}
	return ToDomainNotification(&dbNotification)
}

func (r *PgNotificationRepository) GetPaginated(ctx context.Context, params *notification.FindParams) ([]*notification.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"n.tenant_id = $1", "n.user_id = $2"}
	args := []interface{}{tenantID, params.UserID}
	if params.UnreadOnly {
		where = append(where, "n.read_at IS NULL")
	}

	query := repo.Join(
		notificationFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY n.created_at DESC",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get paginated notifications")
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var dbNotification models.Notification
		if err := rows.Scan(
			&dbNotification.ID,
			&dbNotification.TenantID,
			&dbNotification.UserID,
			&dbNotification.Title,
			&dbNotification.Body,
			&dbNotification.Metadata,
			&dbNotification.ReadAt,
			&dbNotification.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan notification")
		}
		entity, err := ToDomainNotification(&dbNotification)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, entity)
	}
	return notifications, rows.Err()
}

func (r *PgNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get tenant from context")
	}
	var count int64
	if err := tx.QueryRow(ctx, notificationCountUnreadQuery, tenantID, userID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}
	return count, nil
}

func (r *PgNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tag, err := tx.Exec(ctx, notificationMarkReadQuery, id, tenantID, readAt)
	if err != nil {
		return errors.Wrap(err, "failed to mark notification read")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
