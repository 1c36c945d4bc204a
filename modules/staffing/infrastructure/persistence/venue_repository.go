package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/entities/venue"
	"github.com/aisleworks/aisle/modules/staffing/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/repo"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var ErrVenueNotFound = serrors.NewNotFound("venue not found", "Errors.Venue.NotFound")

const (
	venueFindQuery = `
		SELECT
			v.id,
			v.tenant_id,
			v.name,
			v.address,
			v.latitude,
			v.longitude,
			v.created_at,
			v.updated_at
		FROM venues v`

	venueInsertQuery = `
		INSERT INTO venues (
			id, tenant_id, name, address, latitude, longitude, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	venueUpdateQuery = `
		UPDATE venues
		SET name = $3, address = $4, latitude = $5, longitude = $6, updated_at = $7
		WHERE id = $1 AND tenant_id = $2`

	venueDeleteQuery = `DELETE FROM venues WHERE id = $1 AND tenant_id = $2`
)

type PgVenueRepository struct{}

func NewVenueRepository() venue.Repository {
	return &PgVenueRepository{}
}

func (r *PgVenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error) {
	venues, err := r.queryVenues(ctx, repo.JoinWhere("v.tenant_id = $1", "v.id = $2"), id)
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, ErrVenueNotFound
	}
	return venues[0], nil
}

func (r *PgVenueRepository) GetPaginated(ctx context.Context, params *venue.FindParams) ([]*venue.Venue, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"v.tenant_id = $1"}
	args := []interface{}{tenantID}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		index := len(args)
		where = append(where, fmt.Sprintf("(v.name ILIKE $%d OR v.address ILIKE $%d)", index, index))
	}

	query := repo.Join(
		venueFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY v.name",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get paginated venues")
	}
	defer rows.Close()

	var venues []*venue.Venue
	for rows.Next() {
		var dbVenue models.Venue
		if err := rows.Scan(
			&dbVenue.ID,
			&dbVenue.TenantID,
			&dbVenue.Name,
			&dbVenue.Address,
			&dbVenue.Latitude,
			&dbVenue.Longitude,
			&dbVenue.CreatedAt,
			&dbVenue.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan venue")
		}
		entity, err := ToDomainVenue(&dbVenue)
		if err != nil {
			return nil, err
		}
		venues = append(venues, entity)
	}
	return venues, rows.Err()
}

func (r *PgVenueRepository) Create(ctx context.Context, data *venue.Venue) (*venue.Venue, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	dbVenue := ToDBVenue(data)
	dbVenue.TenantID = tenantID.String()
	_, err = tx.Exec(ctx, venueInsertQuery,
		dbVenue.ID,
		dbVenue.TenantID,
		dbVenue.Name,
		dbVenue.Address,
		dbVenue.Latitude,
		dbVenue.Longitude,
		dbVenue.CreatedAt,
		dbVenue.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create venue")
	}
	return r.GetByID(ctx, data.ID)
}

func (r *PgVenueRepository) Update(ctx context.Context, data *venue.Venue) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}

	dbVenue := ToDBVenue(data)
	tag, err := tx.Exec(ctx, venueUpdateQuery,
		dbVenue.ID,
		tenantID,
		dbVenue.Name,
		dbVenue.Address,
		dbVenue.Latitude,
		dbVenue.Longitude,
		dbVenue.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update venue")
	}
	if tag.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *PgVenueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tag, err := tx.Exec(ctx, venueDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete venue")
	}
	if tag.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *PgVenueRepository) queryVenues(ctx context.Context, where string, args ...any) ([]*venue.Venue, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	queryArgs := append([]interface{}{tenantID}, args...)
	rows, err := tx.Query(ctx, repo.Join(venueFindQuery, where), queryArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query venues")
	}
	defer rows.Close()

	var venues []*venue.Venue
	for rows.Next() {
		var dbVenue models.Venue
		if err := rows.Scan(
			&dbVenue.ID,
			&dbVenue.TenantID,
			&dbVenue.Name,
			&dbVenue.Address,
			&dbVenue.Latitude,
			&dbVenue.Longitude,
			&dbVenue.CreatedAt,
			&dbVenue.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan venue")
		}
		entity, err := ToDomainVenue(&dbVenue)
		if err != nil {
			return nil, err
		}
		venues = append(venues, entity)
	}
	return venues, rows.Err()
}
