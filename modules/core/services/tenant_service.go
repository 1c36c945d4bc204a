package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/entities/tenant"
	"github.com/aisleworks/aisle/pkg/composables"
)

type TenantService struct {
	repo tenant.Repository
}

func NewTenantService(repo tenant.Repository) *TenantService {
	return &TenantService{repo: repo}
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*tenant.Tenant, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *TenantService) GetByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*tenant.Tenant, error) {
		return s.repo.GetByDomain(txCtx, domain)
	})
}

func (s *TenantService) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*tenant.Tenant, error) {
		return s.repo.Create(txCtx, t)
	})
}

func (s *TenantService) Update(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*tenant.Tenant, error) {
		return s.repo.Update(txCtx, t)
	})
}
