package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/entities/announcement"
	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/repo"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var ErrAnnouncementNotFound = serrors.NewNotFound("announcement not found", "Errors.Announcement.NotFound")

const (
	announcementFindQuery = `
		SELECT a.id, a.tenant_id, a.author_id, a.title, a.body, a.audience,
			a.published_at, a.created_at, a.updated_at
		FROM announcements a`

	announcementInsertQuery = `
		INSERT INTO announcements (
			id, tenant_id, author_id, title, body, audience,
			published_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	announcementUpdateQuery = `
		UPDATE announcements
		SET title = $3, body = $4, audience = $5, published_at = $6, updated_at = $7
		WHERE id = $1 AND tenant_id = $2`

	announcementDeleteQuery = `DELETE FROM announcements WHERE id = $1 AND tenant_id = $2`
)

type PgAnnouncementRepository struct{}

func NewAnnouncementRepository() announcement.Repository {
	return &PgAnnouncementRepository{}
}

func (r *PgAnnouncementRepository) Create(ctx context.Context, a *announcement.Announcement) (*announcement.Announcement, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	a.TenantID = tenantID
	dbAnnouncement := ToDBAnnouncement(a)
	_, err = tx.Exec(ctx, announcementInsertQuery,
		dbAnnouncement.ID,
		dbAnnouncement.TenantID,
		dbAnnouncement.AuthorID,
		dbAnnouncement.Title,
		dbAnnouncement.Body,
		dbAnnouncement.Audience,
		dbAnnouncement.PublishedAt,
		dbAnnouncement.CreatedAt,
		dbAnnouncement.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create announcement")
	}
	return a, nil
}

func (r *PgAnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	row := tx.QueryRow(ctx, announcementFindQuery+" WHERE a.tenant_id = $1 AND a.id = $2", tenantID, id)
	return scanAnnouncement(row.Scan)
}

func (r *PgAnnouncementRepository) GetPaginated(ctx context.Context, params *announcement.FindParams) ([]*announcement.Announcement, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"a.tenant_id = $1"}
	args := []interface{}{tenantID}
	if len(params.Audiences) > 0 {
		placeholders := make([]string, 0, len(params.Audiences))
		for _, audience := range params.Audiences {
			args = append(args, string(audience))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		where = append(where, fmt.Sprintf("a.audience IN (%s)", strings.Join(placeholders, ", ")))
	}

	query := repo.Join(
		announcementFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY a.created_at DESC",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get paginated announcements")
	}
	defer rows.Close()

	var announcements []*announcement.Announcement
	for rows.Next() {
		entity, err := scanAnnouncement(rows.Scan)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, entity)
	}
	return announcements, rows.Err()
}

func (r *PgAnnouncementRepository) Update(ctx context.Context, a *announcement.Announcement) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}

	dbAnnouncement := ToDBAnnouncement(a)
	tag, err := tx.Exec(ctx, announcementUpdateQuery,
		dbAnnouncement.ID,
		tenantID,
		dbAnnouncement.Title,
		dbAnnouncement.Body,
		dbAnnouncement.Audience,
		dbAnnouncement.PublishedAt,
		dbAnnouncement.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update announcement")
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (r *PgAnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tag, err := tx.Exec(ctx, announcementDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete announcement")
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func scanAnnouncement(scan func(...any) error) (*announcement.Announcement, error) {
	var dbAnnouncement models.Announcement
	if err := scan(
		&dbAnnouncement.ID,
		&dbAnnouncement.TenantID,
		&dbAnnouncement.AuthorID,
		&dbAnnouncement.Title,
		&dbAnnouncement.Body,
		&dbAnnouncement.Audience,
		&dbAnnouncement.PublishedAt,
		&dbAnnouncement.CreatedAt,
		&dbAnnouncement.UpdatedAt,
	); err != nil {
		return nil, translateDBError(err, ErrAnnouncementNotFound, nil)
	}
	return ToDomainAnnouncement(&dbAnnouncement)
}
