package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/repo"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var (
	ErrUserNotFound    = serrors.NewNotFound("user not found", "Errors.User.NotFound")
	ErrUserEmailExists = serrors.NewConflict("a user with this email already exists", "Errors.User.EmailExists")
)

const (
	userFindQuery = `
		SELECT
			u.id,
			u.tenant_id,
			u.email,
			u.first_name,
			u.last_name,
			u.phone,
			u.role,
			u.latitude,
			u.longitude,
			u.created_at,
			u.updated_at
		FROM users u`

	userCountQuery = `SELECT COUNT(u.id) FROM users u WHERE u.tenant_id = $1`

	userInsertQuery = `
		INSERT INTO users (
			id, tenant_id, email, first_name, last_name, phone, role,
			latitude, longitude, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	userUpdateQuery = `
		UPDATE users
		SET first_name = $3, last_name = $4, phone = $5, role = $6,
			latitude = $7, longitude = $8, updated_at = $9
		WHERE id = $1 AND tenant_id = $2`

	userDeleteQuery = `DELETE FROM users WHERE id = $1 AND tenant_id = $2`
)

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (r *PgUserRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get tenant from context")
	}
	var count int64
	if err := tx.QueryRow(ctx, userCountQuery, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}
	return count, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	users, err := r.queryUsers(ctx, "u.id = $2", id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	users, err := r.queryUsers(ctx, "u.email = $2", email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (r *PgUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"u.tenant_id = $1"}
	args := []interface{}{tenantID}

	if params.Role != "" {
		args = append(args, string(params.Role))
		where = append(where, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		index := len(args)
		where = append(where, fmt.Sprintf(
			"(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)",
			index, index, index,
		))
	}

	query := repo.Join(
		userFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY u.last_name, u.first_name",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get paginated users")
	}
	defer rows.Close()
	return scanUsers(rows.Next, rows.Scan, rows.Err)
}

func (r *PgUserRepository) Create(ctx context.Context, data user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	dbUser := ToDBUser(data)
	dbUser.TenantID = tenantID.String()
	_, err = tx.Exec(ctx, userInsertQuery,
		dbUser.ID,
		dbUser.TenantID,
		dbUser.Email,
		dbUser.FirstName,
		dbUser.LastName,
		dbUser.Phone,
		dbUser.Role,
		dbUser.Latitude,
		dbUser.Longitude,
		dbUser.CreatedAt,
		dbUser.UpdatedAt,
	)
	if err != nil {
		return nil, translateDBError(err, nil, ErrUserEmailExists)
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgUserRepository) Update(ctx context.Context, data user.User) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}

	dbUser := ToDBUser(data)
	tag, err := tx.Exec(ctx, userUpdateQuery,
		dbUser.ID,
		tenantID,
		dbUser.FirstName,
		dbUser.LastName,
		dbUser.Phone,
		dbUser.Role,
		dbUser.Latitude,
		dbUser.Longitude,
		dbUser.UpdatedAt,
	)
	if err != nil {
		return translateDBError(err, nil, ErrUserEmailExists)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tag, err := tx.Exec(ctx, userDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgUserRepository) queryUsers(ctx context.Context, predicate string, arg any) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}
	query := repo.Join(userFindQuery, repo.JoinWhere("u.tenant_id = $1", predicate))
	rows, err := tx.Query(ctx, query, tenantID, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users")
	}
	defer rows.Close()
	return scanUsers(rows.Next, rows.Scan, rows.Err)
}

func scanUsers(next func() bool, scan func(...any) error, rowsErr func() error) ([]user.User, error) {
	var users []user.User
	for next() {
		var dbUser models.User
		if err := scan(
			&dbUser.ID,
			&dbUser.TenantID,
			&dbUser.Email,
			&dbUser.FirstName,
			&dbUser.LastName,
			&dbUser.Phone,
			&dbUser.Role,
			&dbUser.Latitude,
			&dbUser.Longitude,
			&dbUser.CreatedAt,
			&dbUser.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user")
		}
		entity, err := ToDomainUser(&dbUser)
		if err != nil {
			return nil, err
		}
		users = append(users, entity)
	}
	return users, rowsErr()
}
