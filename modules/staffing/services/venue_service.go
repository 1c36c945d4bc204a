package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/entities/venue"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/serrors"
)

type VenueService struct {
	repo venue.Repository
}

func NewVenueService(repo venue.Repository) *VenueService {
	return &VenueService{repo: repo}
}

func (s *VenueService) GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*venue.Venue, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *VenueService) GetPaginated(ctx context.Context, params *venue.FindParams) ([]*venue.Venue, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*venue.Venue, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *VenueService) Create(ctx context.Context, data *venue.Venue) (*venue.Venue, error) {
	if err := authorizeStaffing(ctx, VenuesAuthzObject, "create"); err != nil {
		return nil, err
	}
	if data.Name == "" {
		return nil, serrors.NewValidationError("venue name is required", "Errors.Venue.NameRequired")
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*venue.Venue, error) {
		return s.repo.Create(txCtx, data)
	})
}

func (s *VenueService) Update(ctx context.Context, data *venue.Venue) error {
	if err := authorizeStaffing(ctx, VenuesAuthzObject, "update"); err != nil {
		return err
	}
	if data.Name == "" {
		return serrors.NewValidationError("venue name is required", "Errors.Venue.NameRequired")
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	})
}

func (s *VenueService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeStaffing(ctx, VenuesAuthzObject, "delete"); err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}
