package persistence

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/assignment"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/droprequest"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/job"
	"github.com/aisleworks/aisle/modules/staffing/domain/entities/interest"
	"github.com/aisleworks/aisle/modules/staffing/domain/entities/venue"
	"github.com/aisleworks/aisle/modules/staffing/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/geo"
)

func ToDBVenue(v *venue.Venue) *models.Venue {
	dbVenue := &models.Venue{
		ID:        v.ID.String(),
		TenantID:  v.TenantID.String(),
		Name:      v.Name,
		Address:   v.Address,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if p := v.Location; p != nil {
		dbVenue.Latitude = sql.NullFloat64{Float64: p.Latitude(), Valid: true}
		dbVenue.Longitude = sql.NullFloat64{Float64: p.Longitude(), Valid: true}
	}
	return dbVenue
}

func ToDomainVenue(dbVenue *models.Venue) (*venue.Venue, error) {
	id, err := uuid.Parse(dbVenue.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse venue id")
	}
	tenantID, err := uuid.Parse(dbVenue.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse venue tenant id")
	}
	v := &venue.Venue{
		ID:        id,
		TenantID:  tenantID,
		Name:      dbVenue.Name,
		Address:   dbVenue.Address,
		CreatedAt: dbVenue.CreatedAt,
		UpdatedAt: dbVenue.UpdatedAt,
	}
	if dbVenue.Latitude.Valid && dbVenue.Longitude.Valid {
		p := geo.NewPoint(dbVenue.Longitude.Float64, dbVenue.Latitude.Float64)
		v.Location = &p
	}
	return v, nil
}

func ToDBJob(j *job.Job) (*models.Job, error) {
	requirements, err := json.Marshal(j.Requirements())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal job requirements")
	}
	dbJob := &models.Job{
		ID:           j.ID().String(),
		TenantID:     j.TenantID().String(),
		Title:        j.Title(),
		Description:  j.Description(),
		StartTime:    j.StartTime(),
		EndTime:      j.EndTime(),
		Status:       string(j.Status()),
		Requirements: requirements,
		CreatedBy:    j.CreatedBy().String(),
		CreatedAt:    j.CreatedAt(),
		UpdatedAt:    j.UpdatedAt(),
		CompletedAt:  nullTime(j.CompletedAt()),
	}
	if id := j.VenueID(); id != nil {
		dbJob.VenueID = sql.NullString{String: id.String(), Valid: true}
	}
	if pay := j.TravelPay(); pay != nil {
		dbJob.TravelPayAmount = sql.NullInt64{Int64: pay.Amount(), Valid: true}
		dbJob.TravelPayCurrency = sql.NullString{String: pay.Currency().Code, Valid: true}
	}
	if d := j.TimeToFill(); d != nil {
		dbJob.TimeToFillSeconds = sql.NullInt64{Int64: int64(d.Seconds()), Valid: true}
	}
	if d := j.AssignmentToCompletion(); d != nil {
		dbJob.AssignToCompleteSecs = sql.NullInt64{Int64: int64(d.Seconds()), Valid: true}
	}
	return dbJob, nil
}

func ToDomainJob(dbJob *models.Job) (*job.Job, error) {
	id, err := uuid.Parse(dbJob.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse job id")
	}
	tenantID, err := uuid.Parse(dbJob.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse job tenant id")
	}
	createdBy, err := uuid.Parse(dbJob.CreatedBy)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse job created_by")
	}
	status, err := job.NewStatus(dbJob.Status)
	if err != nil {
		return nil, errors.Wrapf(err, "job %s", dbJob.ID)
	}

	var requirements []job.RoleRequirement
	if len(dbJob.Requirements) > 0 {
		if err := json.Unmarshal(dbJob.Requirements, &requirements); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal job requirements")
		}
	}

	opts := []job.Option{
		job.WithID(id),
		job.WithTenantID(tenantID),
		job.WithDescription(dbJob.Description),
		job.WithStatus(status),
		job.WithRequirements(requirements),
		job.WithCreatedBy(createdBy),
		job.WithCreatedAt(dbJob.CreatedAt),
		job.WithUpdatedAt(dbJob.UpdatedAt),
		job.WithCompletedAt(timePtr(dbJob.CompletedAt)),
	}
	if dbJob.VenueID.Valid {
		venueID, err := uuid.Parse(dbJob.VenueID.String)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse job venue id")
		}
		opts = append(opts, job.WithVenueID(&venueID))
	}
	if dbJob.TravelPayAmount.Valid && dbJob.TravelPayCurrency.Valid {
		opts = append(opts, job.WithTravelPay(
			money.New(dbJob.TravelPayAmount.Int64, dbJob.TravelPayCurrency.String),
		))
	}
	if dbJob.TimeToFillSeconds.Valid || dbJob.AssignToCompleteSecs.Valid {
		opts = append(opts, job.WithAnalytics(
			durationPtr(dbJob.TimeToFillSeconds),
			durationPtr(dbJob.AssignToCompleteSecs),
		))
	}
	return job.New(dbJob.Title, dbJob.StartTime, dbJob.EndTime, opts...), nil
}

func ToDBAssignment(a *assignment.Assignment) *models.Assignment {
	return &models.Assignment{
		ID:          a.ID.String(),
		TenantID:    a.TenantID.String(),
		JobID:       a.JobID.String(),
		UserID:      a.UserID.String(),
		Role:        a.Role,
		AssignedBy:  a.AssignedBy.String(),
		AssignedAt:  a.AssignedAt,
		CompletedAt: nullTime(a.CompletedAt),
	}
}

func ToDomainAssignment(dbAssignment *models.Assignment) (*assignment.Assignment, error) {
	id, err := uuid.Parse(dbAssignment.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse assignment id")
	}
	tenantID, err := uuid.Parse(dbAssignment.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse assignment tenant id")
	}
	jobID, err := uuid.Parse(dbAssignment.JobID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse assignment job id")
	}
	userID, err := uuid.Parse(dbAssignment.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse assignment user id")
	}
	assignedBy, err := uuid.Parse(dbAssignment.AssignedBy)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse assignment assigned_by")
	}
	return &assignment.Assignment{
		ID:          id,
		TenantID:    tenantID,
		JobID:       jobID,
		UserID:      userID,
		Role:        dbAssignment.Role,
		AssignedBy:  assignedBy,
		AssignedAt:  dbAssignment.AssignedAt,
		CompletedAt: timePtr(dbAssignment.CompletedAt),
	}, nil
}

func ToDBInterest(i *interest.Interest) *models.Interest {
	return &models.Interest{
		ID:          i.ID.String(),
		TenantID:    i.TenantID.String(),
		JobID:       i.JobID.String(),
		UserID:      i.UserID.String(),
		ExpressedAt: i.ExpressedAt,
	}
}

func ToDomainInterest(dbInterest *models.Interest) (*interest.Interest, error) {
	id, err := uuid.Parse(dbInterest.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse interest id")
	}
	tenantID, err := uuid.Parse(dbInterest.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse interest tenant id")
	}
	jobID, err := uuid.Parse(dbInterest.JobID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse interest job id")
	}
	userID, err := uuid.Parse(dbInterest.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse interest user id")
	}
	return &interest.Interest{
		ID:          id,
		TenantID:    tenantID,
		JobID:       jobID,
		UserID:      userID,
		ExpressedAt: dbInterest.ExpressedAt,
	}, nil
}

// ToDomainCandidate flattens the join row into a ranking candidate. The
// distance is computed here rather than in SQL so the haversine math lives in
// one place; it stays nil unless both the worker and the venue have
// coordinates.
func ToDomainCandidate(row *models.CandidateRow) (*interest.Candidate, error) {
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse candidate user id")
	}
	c := &interest.Candidate{
		UserID:             userID,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		Email:              row.Email,
		LastAssignmentDate: timePtr(row.LastAssignmentDate),
		ExpressedAt:        row.ExpressedAt,
	}
	if row.UserLatitude.Valid && row.UserLongitude.Valid &&
		row.VenueLatitude.Valid && row.VenueLongitude.Valid {
		userPoint := geo.NewPoint(row.UserLongitude.Float64, row.UserLatitude.Float64)
		venuePoint := geo.NewPoint(row.VenueLongitude.Float64, row.VenueLatitude.Float64)
		distance := geo.DistanceKm(userPoint, venuePoint)
		c.DistanceKm = &distance
	}
	return c, nil
}

func ToDBDropRequest(r *droprequest.DropRequest) *models.DropRequest {
	dbRequest := &models.DropRequest{
		ID:           r.ID.String(),
		TenantID:     r.TenantID.String(),
		AssignmentID: r.AssignmentID.String(),
		RequesterID:  r.RequesterID.String(),
		Reason:       r.Reason,
		Status:       string(r.Status),
		RequestedAt:  r.RequestedAt,
		EscalatedAt:  nullTime(r.EscalatedAt),
		ResolvedAt:   nullTime(r.ResolvedAt),
	}
	if r.ResolvedBy != nil {
		dbRequest.ResolvedBy = sql.NullString{String: r.ResolvedBy.String(), Valid: true}
	}
	return dbRequest
}

func ToDomainDropRequest(dbRequest *models.DropRequest) (*droprequest.DropRequest, error) {
	id, err := uuid.Parse(dbRequest.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse drop request id")
	}
	tenantID, err := uuid.Parse(dbRequest.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse drop request tenant id")
	}
	assignmentID, err := uuid.Parse(dbRequest.AssignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse drop request assignment id")
	}
	requesterID, err := uuid.Parse(dbRequest.RequesterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse drop request requester id")
	}
	r := &droprequest.DropRequest{
		ID:           id,
		TenantID:     tenantID,
		AssignmentID: assignmentID,
		RequesterID:  requesterID,
		Reason:       dbRequest.Reason,
		Status:       droprequest.Status(dbRequest.Status),
		RequestedAt:  dbRequest.RequestedAt,
		EscalatedAt:  timePtr(dbRequest.EscalatedAt),
		ResolvedAt:   timePtr(dbRequest.ResolvedAt),
	}
	if dbRequest.ResolvedBy.Valid {
		resolvedBy, err := uuid.Parse(dbRequest.ResolvedBy.String)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse drop request resolved_by")
		}
		r.ResolvedBy = &resolvedBy
	}
	return r, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

func durationPtr(seconds sql.NullInt64) *time.Duration {
	if !seconds.Valid {
		return nil
	}
	d := time.Duration(seconds.Int64) * time.Second
	return &d
}
