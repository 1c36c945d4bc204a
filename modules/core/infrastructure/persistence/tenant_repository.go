package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/entities/tenant"
	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var (
	ErrTenantNotFound = serrors.NewNotFound("tenant not found", "Errors.Tenant.NotFound")
	ErrTenantExists   = serrors.NewConflict("tenant already exists", "Errors.Tenant.Exists")
)

const (
	tenantFindQuery = `
		SELECT id, name, domain, is_active, created_at, updated_at
		FROM tenants`

	tenantInsertQuery = `
		INSERT INTO tenants (id, name, domain, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	tenantUpdateQuery = `
		UPDATE tenants
		SET name = $2, domain = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
)

type PgTenantRepository struct{}

func NewTenantRepository() tenant.Repository {
	return &PgTenantRepository{}
}

func (r *PgTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, tenantFindQuery+" WHERE id = $1", id)
	return r.scanTenant(row.Scan)
}

func (r *PgTenantRepository) GetByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, tenantFindQuery+" WHERE domain = $1", domain)
	return r.scanTenant(row.Scan)
}

func (r *PgTenantRepository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, tenantFindQuery+" ORDER BY created_at")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tenants")
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		entity, err := r.scanTenant(rows.Scan)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, entity)
	}
	return tenants, rows.Err()
}

func (r *PgTenantRepository) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbTenant := ToDBTenant(t)
	_, err = tx.Exec(ctx, tenantInsertQuery,
		dbTenant.ID,
		dbTenant.Name,
		dbTenant.Domain,
		dbTenant.IsActive,
		dbTenant.CreatedAt,
		dbTenant.UpdatedAt,
	)
	if err != nil {
		return nil, translateDBError(err, nil, ErrTenantExists)
	}
	return t, nil
}

func (r *PgTenantRepository) Update(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbTenant := ToDBTenant(t)
	tag, err := tx.Exec(ctx, tenantUpdateQuery,
		dbTenant.ID,
		dbTenant.Name,
		dbTenant.Domain,
		dbTenant.IsActive,
		dbTenant.UpdatedAt,
	)
	if err != nil {
		return nil, translateDBError(err, nil, ErrTenantExists)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTenantNotFound
	}
	return t, nil
}

func (r *PgTenantRepository) scanTenant(scan func(...any) error) (*tenant.Tenant, error) {
	var dbTenant models.Tenant
	if err := scan(
		&dbTenant.ID,
		&dbTenant.Name,
		&dbTenant.Domain,
		&dbTenant.IsActive,
		&dbTenant.CreatedAt,
		&dbTenant.UpdatedAt,
	); err != nil {
		return nil, translateDBError(err, ErrTenantNotFound, nil)
	}
	return ToDomainTenant(&dbTenant)
}
