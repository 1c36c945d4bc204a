package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/job"
	"github.com/aisleworks/aisle/modules/staffing/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/repo"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var ErrJobNotFound = serrors.NewNotFound("job not found", "Errors.Job.NotFound")

const (
	jobFindQuery = `
		SELECT
			j.id,
			j.tenant_id,
			j.title,
			j.description,
			j.venue_id,
			j.start_time,
			j.end_time,
			j.status,
			j.travel_pay_amount,
			j.travel_pay_currency,
			j.requirements,
			j.created_by,
			j.created_at,
			j.updated_at,
			j.completed_at,
			j.time_to_fill_seconds,
			j.assignment_to_completion_seconds
		FROM jobs j`

	jobInsertQuery = `
		INSERT INTO jobs (
			id, tenant_id, title, description, venue_id, start_time, end_time,
			status, travel_pay_amount, travel_pay_currency, requirements,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	jobUpdateQuery = `
		UPDATE jobs
		SET title = $3, description = $4, venue_id = $5, start_time = $6,
			end_time = $7, status = $8, travel_pay_amount = $9,
			travel_pay_currency = $10, requirements = $11, updated_at = $12,
			completed_at = $13, time_to_fill_seconds = $14,
			assignment_to_completion_seconds = $15
		WHERE id = $1 AND tenant_id = $2`

	jobDeleteQuery = `DELETE FROM jobs WHERE id = $1 AND tenant_id = $2`

	// Conditional move: only succeeds while the current status is still in
	// the allowed set, so concurrent transitions cannot double-apply.
	jobUpdateStatusQuery = `
		UPDATE jobs
		SET status = $3, updated_at = $4
		WHERE id = $1 AND tenant_id = $2 AND status = ANY($5)`

	jobRoleCapacitiesQuery = `
		SELECT
			req.role,
			req.required,
			COUNT(a.id) AS filled
		FROM jobs j
		CROSS JOIN LATERAL jsonb_to_recordset(j.requirements)
			AS req(role TEXT, required INT)
		LEFT JOIN assignments a
			ON a.job_id = j.id AND a.role = req.role
		WHERE j.id = $1 AND j.tenant_id = $2
		GROUP BY req.role, req.required`

	jobLastSlotFilledQuery = `
		SELECT COALESCE(MAX(a.assigned_at), 'epoch'::timestamptz)
		FROM assignments a
		WHERE a.job_id = $1 AND a.tenant_id = $2`
)

type PgJobRepository struct{}

func NewJobRepository() job.Repository {
	return &PgJobRepository{}
}

func (r *PgJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	jobs, err := r.queryJobs(ctx, repo.JoinWhere("j.tenant_id = $1", "j.id = $2"), id)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrJobNotFound
	}
	return jobs[0], nil
}

func (r *PgJobRepository) GetPaginated(ctx context.Context, params *job.FindParams) ([]*job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"j.tenant_id = $1"}
	args := []interface{}{tenantID}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("j.status = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		index := len(args)
		where = append(where, fmt.Sprintf("(j.title ILIKE $%d OR j.description ILIKE $%d)", index, index))
	}

	query := repo.Join(
		jobFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY j.start_time, j.id",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get paginated jobs")
	}
	defer rows.Close()
	return scanJobs(rows.Next, rows.Scan, rows.Err)
}

func (r *PgJobRepository) Create(ctx context.Context, data *job.Job) (*job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	dbJob, err := ToDBJob(data)
	if err != nil {
		return nil, err
	}
	dbJob.TenantID = tenantID.String()
	_, err = tx.Exec(ctx, jobInsertQuery,
		dbJob.ID,
		dbJob.TenantID,
		dbJob.Title,
		dbJob.Description,
		dbJob.VenueID,
		dbJob.StartTime,
		dbJob.EndTime,
		dbJob.Status,
		dbJob.TravelPayAmount,
		dbJob.TravelPayCurrency,
		dbJob.Requirements,
		dbJob.CreatedBy,
		dbJob.CreatedAt,
		dbJob.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create job")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgJobRepository) Update(ctx context.Context, data *job.Job) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}

	dbJob, err := ToDBJob(data)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, jobUpdateQuery,
		dbJob.ID,
		tenantID,
		dbJob.Title,
		dbJob.Description,
		dbJob.VenueID,
		dbJob.StartTime,
		dbJob.EndTime,
		dbJob.Status,
		dbJob.TravelPayAmount,
		dbJob.TravelPayCurrency,
		dbJob.Requirements,
		dbJob.UpdatedAt,
		dbJob.CompletedAt,
		dbJob.TimeToFillSeconds,
		dbJob.AssignToCompleteSecs,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update job")
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PgJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tag, err := tx.Exec(ctx, jobDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete job")
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PgJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, allowed []job.Status, next job.Status) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get tenant from context")
	}

	allowedValues := make([]string, len(allowed))
	for i, s := range allowed {
		allowedValues[i] = string(s)
	}
	tag, err := tx.Exec(ctx, jobUpdateStatusQuery, id, tenantID, string(next), time.Now(), allowedValues)
	if err != nil {
		return 0, errors.Wrap(err, "failed to update job status")
	}
	return tag.RowsAffected(), nil
}

func (r *PgJobRepository) RoleCapacities(ctx context.Context, jobID uuid.UUID) ([]job.RoleCapacity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := tx.Query(ctx, jobRoleCapacitiesQuery, jobID, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query job role capacities")
	}
	defer rows.Close()

	var capacities []job.RoleCapacity
	for rows.Next() {
		var c job.RoleCapacity
		if err := rows.Scan(&c.Role, &c.Required, &c.Filled); err != nil {
			return nil, errors.Wrap(err, "failed to scan role capacity")
		}
		capacities = append(capacities, c)
	}
	return capacities, rows.Err()
}

func (r *PgJobRepository) LastSlotFilledAt(ctx context.Context, jobID uuid.UUID) (time.Time, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return time.Time{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to get tenant from context")
	}

	var at time.Time
	if err := tx.QueryRow(ctx, jobLastSlotFilledQuery, jobID, tenantID).Scan(&at); err != nil {
		return time.Time{}, errors.Wrap(err, "failed to query last filled slot")
	}
	// The epoch sentinel from COALESCE means the job has no assignments.
	if at.Unix() == 0 {
		return time.Time{}, nil
	}
	return at, nil
}

func (r *PgJobRepository) queryJobs(ctx context.Context, where string, args ...any) ([]*job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	queryArgs := append([]interface{}{tenantID}, args...)
	rows, err := tx.Query(ctx, repo.Join(jobFindQuery, where), queryArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query jobs")
	}
	defer rows.Close()
	return scanJobs(rows.Next, rows.Scan, rows.Err)
}

func scanJobs(next func() bool, scan func(...any) error, rowsErr func() error) ([]*job.Job, error) {
	var jobs []*job.Job
	for next() {
		var dbJob models.Job
		if err := scan(
			&dbJob.ID,
			&dbJob.TenantID,
			&dbJob.Title,
			&dbJob.Description,
			&dbJob.VenueID,
			&dbJob.StartTime,
			&dbJob.EndTime,
			&dbJob.Status,
			&dbJob.TravelPayAmount,
			&dbJob.TravelPayCurrency,
			&dbJob.Requirements,
			&dbJob.CreatedBy,
			&dbJob.CreatedAt,
			&dbJob.UpdatedAt,
			&dbJob.CompletedAt,
			&dbJob.TimeToFillSeconds,
			&dbJob.AssignToCompleteSecs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan job")
		}
		entity, err := ToDomainJob(&dbJob)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, entity)
	}
	return jobs, rowsErr()
}
