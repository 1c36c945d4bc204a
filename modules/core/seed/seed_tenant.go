package seed

import (
	"context"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/entities/tenant"
	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence"
	"github.com/aisleworks/aisle/pkg/application"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/configuration"
	"github.com/aisleworks/aisle/pkg/serrors"
)

// DefaultTenantID is the fixed identifier of the demo organization.
var DefaultTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func CreateDefaultTenant(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	repo := persistence.NewTenantRepository()

	return composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := repo.GetByID(txCtx, DefaultTenantID)
		if err != nil && !serrors.HasCode(err, serrors.CodeNotFound) {
			return err
		}
		if existing != nil {
			logger.Info("default tenant already exists")
			return nil
		}

		logger.Info("creating default tenant")
		_, err = repo.Create(txCtx, tenant.New(
			"Aisle Demo Events",
			tenant.WithID(DefaultTenantID),
			tenant.WithDomain("demo.localhost"),
		))
		return err
	})
}
