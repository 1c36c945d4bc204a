package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/entities/interest"
	"github.com/aisleworks/aisle/modules/staffing/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var (
	ErrInterestNotFound = serrors.NewNotFound("interest not found", "Errors.Interest.NotFound")
	ErrInterestExists   = serrors.NewConflict("interest already expressed for this job", "Errors.Interest.Exists")
)

const (
	interestByJobQuery = `
		SELECT i.id, i.tenant_id, i.job_id, i.user_id, i.expressed_at
		FROM interests i
		WHERE i.tenant_id = $1 AND i.job_id = $2
		ORDER BY i.expressed_at`

	interestInsertQuery = `
		INSERT INTO interests (id, tenant_id, job_id, user_id, expressed_at)
		VALUES ($1, $2, $3, $4, $5)`

	interestDeleteQuery = `
		DELETE FROM interests
		WHERE tenant_id = $1 AND job_id = $2 AND user_id = $3`

	// One row per interested worker: profile and location, the job venue's
	// location, and the worker's most recent completed assignment. Distance
	// is derived in Go from the coordinate pairs.
	interestCandidatesQuery = `
		SELECT
			u.id,
			u.first_name,
			u.last_name,
			u.email,
			u.latitude,
			u.longitude,
			v.latitude,
			v.longitude,
			(
				SELECT MAX(a.completed_at)
				FROM assignments a
				WHERE a.tenant_id = i.tenant_id
					AND a.user_id = u.id
					AND a.completed_at IS NOT NULL
			),
			i.expressed_at
		FROM interests i
		JOIN users u ON u.id = i.user_id AND u.tenant_id = i.tenant_id
		JOIN jobs j ON j.id = i.job_id AND j.tenant_id = i.tenant_id
		LEFT JOIN venues v ON v.id = j.venue_id AND v.tenant_id = i.tenant_id
		WHERE i.tenant_id = $1 AND i.job_id = $2`
)

type PgInterestRepository struct{}

func NewInterestRepository() interest.Repository {
	return &PgInterestRepository{}
}

func (r *PgInterestRepository) GetByJob(ctx context.Context, jobID uuid.UUID) ([]*interest.Interest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := tx.Query(ctx, interestByJobQuery, tenantID, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query interests")
	}
	defer rows.Close()

	var interests []*interest.Interest
	for rows.Next() {
		var dbInterest models.Interest
		if err := rows.Scan(
			&dbInterest.ID,
			&dbInterest.TenantID,
			&dbInterest.JobID,
			&dbInterest.UserID,
			&dbInterest.ExpressedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan interest")
		}
		entity, err := ToDomainInterest(&dbInterest)
		if err != nil {
			return nil, err
		}
		interests = append(interests, entity)
	}
	return interests, rows.Err()
}

func (r *PgInterestRepository) Create(ctx context.Context, data *interest.Interest) (*interest.Interest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	dbInterest := ToDBInterest(data)
	dbInterest.TenantID = tenantID.String()
	_, err = tx.Exec(ctx, interestInsertQuery,
		dbInterest.ID,
		dbInterest.TenantID,
		dbInterest.JobID,
		dbInterest.UserID,
		dbInterest.ExpressedAt,
	)
	if err != nil {
		return nil, translateDBError(err, nil, ErrInterestExists)
	}
	result := *data
	tenantUUID, err := uuid.Parse(dbInterest.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse interest tenant id")
	}
	result.TenantID = tenantUUID
	return &result, nil
}

func (r *PgInterestRepository) Delete(ctx context.Context, jobID, userID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tag, err := tx.Exec(ctx, interestDeleteQuery, tenantID, jobID, userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete interest")
	}
	if tag.RowsAffected() == 0 {
		return ErrInterestNotFound
	}
	return nil
}

func (r *PgInterestRepository) Candidates(ctx context.Context, jobID uuid.UUID) ([]*interest.Candidate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := tx.Query(ctx, interestCandidatesQuery, tenantID, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query candidates")
	}
	defer rows.Close()

	var candidates []*interest.Candidate
	for rows.Next() {
		var row models.CandidateRow
		if err := rows.Scan(
			&row.UserID,
			&row.FirstName,
			&row.LastName,
			&row.Email,
			&row.UserLatitude,
			&row.UserLongitude,
			&row.VenueLatitude,
			&row.VenueLongitude,
			&row.LastAssignmentDate,
			&row.ExpressedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan candidate")
		}
		candidate, err := ToDomainCandidate(&row)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}
