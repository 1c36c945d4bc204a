package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/core/domain/events"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/eventbus"
)

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.GetByEmail(txCtx, email)
	})
}

func (s *UserService) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	if err := authorizeCore(ctx, UsersAuthzObject, "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]user.User, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *UserService) Create(ctx context.Context, data user.User) (user.User, error) {
	if err := authorizeCore(ctx, UsersAuthzObject, "create"); err != nil {
		return nil, err
	}
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.Create(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(created, "created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, data user.User) error {
	if err := authorizeCore(ctx, UsersAuthzObject, "update"); err != nil {
		return err
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return err
	}
	s.publishChanged(data, "updated")
	return nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (user.User, error) {
	if err := authorizeCore(ctx, UsersAuthzObject, "delete"); err != nil {
		return nil, err
	}
	deleted, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return nil, err
		}
		return entity, nil
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(deleted, "deleted")
	return deleted, nil
}

func (s *UserService) publishChanged(entity user.User, changeType string) {
	s.publisher.Publish(events.TopicUserChangedV1, events.UserChangedV1{
		EventID:      uuid.New(),
		EventVersion: events.EventVersionV1,
		TenantID:     entity.TenantID(),
		UserID:       entity.ID(),
		ChangeType:   changeType,
		OccurredAt:   time.Now(),
	})
}
