package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/core/domain/entities/notification"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/assignment"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/droprequest"
	"github.com/aisleworks/aisle/modules/staffing/domain/events"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/eventbus"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var (
	ErrReasonRequired = serrors.NewValidationError("a drop request needs a reason", "Errors.DropRequest.ReasonRequired")
	ErrNotOwnRequest  = serrors.NewPermissionDenied("workers may only drop their own assignments", "Errors.DropRequest.NotOwnAssignment")
	ErrActiveExists   = serrors.NewConflict("an active drop request already exists for this assignment", "Errors.DropRequest.Exists")
	ErrAlreadyDropped = serrors.NewConflict("the assignment is already completed", "Errors.DropRequest.AssignmentCompleted")
	ErrNotResolvable  = serrors.NewInvalidStateTransition("the drop request is already resolved", "Errors.DropRequest.NotResolvable")
	ErrNotEscalatable = serrors.NewInvalidStateTransition("only pending drop requests can be escalated", "Errors.DropRequest.NotEscalatable")
	ErrNeedsAdmin     = serrors.NewPermissionDenied("escalated drop requests can only be resolved by an admin", "Errors.DropRequest.NeedsAdmin")
)

// Notifier delivers in-app notifications after state changes commit. Satisfied
// by the core notification service.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, body string, metadata map[string]string) (*notification.Notification, error)
}

type DropRequestService struct {
	repo        droprequest.Repository
	assignments assignment.Repository
	publisher   eventbus.EventBus
	notifier    Notifier
}

func NewDropRequestService(
	repo droprequest.Repository,
	assignments assignment.Repository,
	publisher eventbus.EventBus,
	notifier Notifier,
) *DropRequestService {
	return &DropRequestService{
		repo:        repo,
		assignments: assignments,
		publisher:   publisher,
		notifier:    notifier,
	}
}

func (s *DropRequestService) GetByID(ctx context.Context, id uuid.UUID) (*droprequest.DropRequest, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*droprequest.DropRequest, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *DropRequestService) GetPaginated(ctx context.Context, params *droprequest.FindParams) ([]*droprequest.DropRequest, error) {
	if err := authorizeStaffing(ctx, DropRequestsAuthzObject, "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*droprequest.DropRequest, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

// Create opens a drop request on the acting worker's own assignment. At most
// one active request may exist per assignment; the partial unique index backs
// the in-transaction check against races.
func (s *DropRequestService) Create(ctx context.Context, assignmentID uuid.UUID, reason string) (*droprequest.DropRequest, error) {
	if err := authorizeStaffing(ctx, DropRequestsAuthzObject, "create"); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}

	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*droprequest.DropRequest, error) {
		target, err := s.assignments.GetByID(txCtx, assignmentID)
		if err != nil {
			return nil, err
		}
		if target.UserID != actor.ID() {
			return nil, ErrNotOwnRequest
		}
		if target.CompletedAt != nil {
			return nil, ErrAlreadyDropped
		}
		active, err := s.repo.GetActiveByAssignment(txCtx, assignmentID)
		if err != nil {
			return nil, err
		}
		if active != nil {
			return nil, ErrActiveExists
		}
		return s.repo.Create(txCtx, droprequest.New(assignmentID, actor.ID(), reason))
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(created)
	return created, nil
}

// Approve resolves the request in the worker's favor and releases the
// assignment in the same transaction.
func (s *DropRequestService) Approve(ctx context.Context, id uuid.UUID) (*droprequest.DropRequest, error) {
	return s.resolve(ctx, id, droprequest.StatusApproved)
}

// Reject resolves the request and leaves the assignment in place.
func (s *DropRequestService) Reject(ctx context.Context, id uuid.UUID) (*droprequest.DropRequest, error) {
	return s.resolve(ctx, id, droprequest.StatusRejected)
}

func (s *DropRequestService) resolve(ctx context.Context, id uuid.UUID, next droprequest.Status) (*droprequest.DropRequest, error) {
	if err := authorizeStaffing(ctx, DropRequestsAuthzObject, "update"); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}
	now := time.Now()

	resolved, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*droprequest.DropRequest, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == droprequest.StatusEscalated && actor.Role() != user.RoleAdmin {
			return nil, ErrNeedsAdmin
		}

		// Managers resolve pending requests; admins may also resolve
		// escalated ones. The conditional update makes the loser of a
		// concurrent resolution fail instead of overwriting.
		allowed := []droprequest.Status{droprequest.StatusPending}
		if actor.Role() == user.RoleAdmin {
			allowed = droprequest.ResolvableFrom()
		}
		affected, err := s.repo.Resolve(txCtx, id, allowed, next, actor.ID(), now)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			latest, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return nil, err
			}
			if latest.Status == droprequest.StatusEscalated {
				return nil, ErrNeedsAdmin
			}
			return nil, ErrNotResolvable
		}
		if next == droprequest.StatusApproved {
			if err := s.assignments.Delete(txCtx, current.AssignmentID); err != nil {
				return nil, err
			}
		}
		return s.repo.GetByID(txCtx, id)
	})
	if err != nil {
		return nil, err
	}

	s.publishChanged(resolved)
	s.notifyRequester(ctx, resolved)
	return resolved, nil
}

// Escalate flags a pending request for admin attention. Reachable by managers
// and by the SLA sweeper running under a system subject.
func (s *DropRequestService) Escalate(ctx context.Context, id uuid.UUID) (*droprequest.DropRequest, error) {
	if err := authorizeStaffing(ctx, DropRequestsAuthzObject, "escalate"); err != nil {
		return nil, err
	}
	now := time.Now()

	escalated, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*droprequest.DropRequest, error) {
		affected, err := s.repo.Escalate(txCtx, id, now)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			if _, err := s.repo.GetByID(txCtx, id); err != nil {
				return nil, err
			}
			return nil, ErrNotEscalatable
		}
		return s.repo.GetByID(txCtx, id)
	})
	if err != nil {
		return nil, err
	}

	s.publishChanged(escalated)
	s.notifyRequester(ctx, escalated)
	return escalated, nil
}

func (s *DropRequestService) publishChanged(entity *droprequest.DropRequest) {
	s.publisher.Publish(events.TopicDropRequestChangedV1, events.DropRequestChangedV1{
		EventID:       uuid.New(),
		EventVersion:  events.EventVersionV1,
		TenantID:      entity.TenantID,
		DropRequestID: entity.ID,
		AssignmentID:  entity.AssignmentID,
		RequesterID:   entity.RequesterID,
		Status:        string(entity.Status),
		OccurredAt:    time.Now(),
	})
}

// notifyRequester tells the worker what happened to their request. Delivery
// failures are logged and swallowed; the state change already committed.
func (s *DropRequestService) notifyRequester(ctx context.Context, entity *droprequest.DropRequest) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Notify(ctx, entity.RequesterID,
		"Drop request "+string(entity.Status),
		"Your drop request is now "+string(entity.Status)+".",
		map[string]string{
			"drop_request_id": entity.ID.String(),
			"assignment_id":   entity.AssignmentID.String(),
			"status":          string(entity.Status),
		},
	)
	if err != nil {
		if logger, ok := composables.TryUseLogger(ctx); ok {
			logger.WithError(err).
				WithField("drop_request_id", entity.ID).
				Warn("drop request notification failed")
		}
	}
}
