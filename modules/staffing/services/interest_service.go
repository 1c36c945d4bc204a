package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/assignment"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/job"
	"github.com/aisleworks/aisle/modules/staffing/domain/entities/interest"
	"github.com/aisleworks/aisle/modules/staffing/domain/events"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/eventbus"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var ErrJobNotOpenForInterest = serrors.NewConflict("the job is not open for interest", "Errors.Interest.JobNotOpen")

type InterestService struct {
	repo        interest.Repository
	jobs        job.Repository
	assignments assignment.Repository
	publisher   eventbus.EventBus
}

func NewInterestService(
	repo interest.Repository,
	jobs job.Repository,
	assignments assignment.Repository,
	publisher eventbus.EventBus,
) *InterestService {
	return &InterestService{
		repo:        repo,
		jobs:        jobs,
		assignments: assignments,
		publisher:   publisher,
	}
}

// Express registers the acting worker's interest in an available job. The
// worker's open commitments are screened against the job's window up front, so
// a worker cannot raise a hand for a shift they could never take.
func (s *InterestService) Express(ctx context.Context, jobID uuid.UUID) (*interest.Interest, error) {
	if err := authorizeStaffing(ctx, InterestsAuthzObject, "create"); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}

	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*interest.Interest, error) {
		target, err := s.jobs.GetByID(txCtx, jobID)
		if err != nil {
			return nil, err
		}
		if target.Status() != job.StatusAvailable {
			return nil, ErrJobNotOpenForInterest
		}
		commitments, err := s.assignments.ActiveCommitments(txCtx, actor.ID())
		if err != nil {
			return nil, err
		}
		window := target.Window()
		for _, c := range commitments {
			if window.Conflicts(c.Window) {
				return nil, ErrScheduleConflict
			}
		}
		return s.repo.Create(txCtx, interest.New(jobID, actor.ID()))
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(created, "expressed")
	return created, nil
}

// Withdraw removes the acting worker's interest in the job.
func (s *InterestService) Withdraw(ctx context.Context, jobID uuid.UUID) error {
	if err := authorizeStaffing(ctx, InterestsAuthzObject, "delete"); err != nil {
		return err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, jobID, actor.ID())
	}); err != nil {
		return err
	}
	s.publishChanged(&interest.Interest{JobID: jobID, UserID: actor.ID()}, "withdrawn")
	return nil
}

func (s *InterestService) GetByJob(ctx context.Context, jobID uuid.UUID) ([]*interest.Interest, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*interest.Interest, error) {
		return s.repo.GetByJob(txCtx, jobID)
	})
}

// RankCandidates returns the job's interested workers ordered by the given
// option, with an optional fuzzy name filter applied before ranking.
func (s *InterestService) RankCandidates(ctx context.Context, jobID uuid.UUID, opt interest.SortOption, search string) ([]*interest.Candidate, error) {
	if err := authorizeStaffing(ctx, InterestsAuthzObject, "list"); err != nil {
		return nil, err
	}
	candidates, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*interest.Candidate, error) {
		if _, err := s.jobs.GetByID(txCtx, jobID); err != nil {
			return nil, err
		}
		return s.repo.Candidates(txCtx, jobID)
	})
	if err != nil {
		return nil, err
	}
	if search != "" {
		filtered := candidates[:0]
		for _, c := range candidates {
			if fuzzy.MatchNormalizedFold(search, c.FullName()) ||
				fuzzy.MatchNormalizedFold(search, c.Email) {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}
	return interest.Rank(candidates, opt), nil
}

func (s *InterestService) publishChanged(entity *interest.Interest, changeType string) {
	s.publisher.Publish(events.TopicInterestChangedV1, events.InterestChangedV1{
		EventID:      uuid.New(),
		EventVersion: events.EventVersionV1,
		TenantID:     entity.TenantID,
		JobID:        entity.JobID,
		UserID:       entity.UserID,
		ChangeType:   changeType,
		OccurredAt:   time.Now(),
	})
}
