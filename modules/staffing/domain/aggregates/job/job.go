package job

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/schedule"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var ErrInvalidTransition = serrors.NewInvalidStateTransition(
	"this job cannot move to the requested status",
	"Errors.Job.InvalidTransition",
)

// Job is a staffed engagement (a gig): a time window at an optional venue
// with a set of role requirements. TravelPay is nil when no travel pay is
// offered.
type Job struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	title        string
	description  string
	venueID      *uuid.UUID
	startTime    time.Time
	endTime      time.Time
	status       Status
	travelPay    *money.Money
	requirements []RoleRequirement
	createdBy    uuid.UUID
	createdAt    time.Time
	updatedAt    time.Time
	completedAt  *time.Time

	// Recorded once at completion; nil before then.
	timeToFill             *time.Duration
	assignmentToCompletion *time.Duration
}

type Option func(*Job)

func WithID(id uuid.UUID) Option {
	return func(j *Job) {
		j.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(j *Job) {
		j.tenantID = tenantID
	}
}

func WithDescription(description string) Option {
	return func(j *Job) {
		j.description = description
	}
}

func WithVenueID(venueID *uuid.UUID) Option {
	return func(j *Job) {
		j.venueID = venueID
	}
}

func WithStatus(status Status) Option {
	return func(j *Job) {
		j.status = status
	}
}

func WithTravelPay(pay *money.Money) Option {
	return func(j *Job) {
		j.travelPay = pay
	}
}

func WithRequirements(requirements []RoleRequirement) Option {
	return func(j *Job) {
		j.requirements = requirements
	}
}

func WithCreatedBy(createdBy uuid.UUID) Option {
	return func(j *Job) {
		j.createdBy = createdBy
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(j *Job) {
		j.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(j *Job) {
		j.updatedAt = updatedAt
	}
}

func WithCompletedAt(completedAt *time.Time) Option {
	return func(j *Job) {
		j.completedAt = completedAt
	}
}

func WithAnalytics(timeToFill, assignmentToCompletion *time.Duration) Option {
	return func(j *Job) {
		j.timeToFill = timeToFill
		j.assignmentToCompletion = assignmentToCompletion
	}
}

func New(title string, startTime, endTime time.Time, opts ...Option) *Job {
	now := time.Now()
	j := &Job{
		id:        uuid.New(),
		title:     title,
		startTime: startTime.UTC(),
		endTime:   endTime.UTC(),
		status:    StatusDraft,
		createdAt: now,
		updatedAt: now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Job) ID() uuid.UUID          { return j.id }
func (j *Job) TenantID() uuid.UUID    { return j.tenantID }
func (j *Job) Title() string          { return j.title }
func (j *Job) Description() string    { return j.description }
func (j *Job) VenueID() *uuid.UUID    { return j.venueID }
func (j *Job) StartTime() time.Time   { return j.startTime }
func (j *Job) EndTime() time.Time     { return j.endTime }
func (j *Job) Status() Status         { return j.status }
func (j *Job) TravelPay() *money.Money {
	return j.travelPay
}
func (j *Job) Requirements() []RoleRequirement { return j.requirements }
func (j *Job) CreatedBy() uuid.UUID            { return j.createdBy }
func (j *Job) CreatedAt() time.Time            { return j.createdAt }
func (j *Job) UpdatedAt() time.Time            { return j.updatedAt }
func (j *Job) CompletedAt() *time.Time         { return j.completedAt }
func (j *Job) TimeToFill() *time.Duration      { return j.timeToFill }
func (j *Job) AssignmentToCompletion() *time.Duration {
	return j.assignmentToCompletion
}

// Window returns the job's half-open scheduling interval.
func (j *Job) Window() schedule.Window {
	return schedule.NewWindow(j.startTime, j.endTime)
}

// RequiredCount returns the headcount for a role, or 0 when the job does not
// need that role.
func (j *Job) RequiredCount(role string) int {
	for _, req := range j.requirements {
		if req.Role == role {
			return req.Required
		}
	}
	return 0
}

// Transition moves the job to next, enforcing the status machine. Completion
// must go through Complete so the analytics get recorded.
func (j *Job) Transition(next Status) error {
	if next == StatusCompleted {
		return ErrInvalidTransition
	}
	if !j.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	j.status = next
	j.updatedAt = time.Now()
	return nil
}

// Complete finishes the job, recording completedAt and the derived analytics.
// lastSlotFilledAt is the assignment timestamp that filled the final required
// slot; zero when the job was never fully staffed, in which case the analytics
// stay nil.
func (j *Job) Complete(now time.Time, lastSlotFilledAt time.Time) error {
	if !j.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	j.status = StatusCompleted
	j.completedAt = &now
	j.updatedAt = now

	if !lastSlotFilledAt.IsZero() {
		fill := lastSlotFilledAt.Sub(j.createdAt)
		run := now.Sub(lastSlotFilledAt)
		j.timeToFill = &fill
		j.assignmentToCompletion = &run
	}
	return nil
}
