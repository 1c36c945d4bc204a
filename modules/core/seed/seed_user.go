package seed

import (
	"context"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence"
	"github.com/aisleworks/aisle/pkg/application"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/configuration"
	"github.com/aisleworks/aisle/pkg/geo"
	"github.com/aisleworks/aisle/pkg/serrors"
)

// CreateDemoUsers seeds one user per role into the default tenant. Locations
// are scattered around Austin, TX so distance ranking has something to chew on.
func CreateDemoUsers(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	repo := persistence.NewUserRepository()

	downtown := geo.NewPoint(-97.7431, 30.2672)
	roundRock := geo.NewPoint(-97.6789, 30.5083)

	demoUsers := []user.User{
		user.New("admin@demo.localhost", "Ada", "Admin", user.RoleAdmin,
			user.WithTenantID(DefaultTenantID)),
		user.New("manager@demo.localhost", "Morgan", "Reyes", user.RoleManager,
			user.WithTenantID(DefaultTenantID)),
		user.New("worker1@demo.localhost", "Casey", "Nguyen", user.RoleEmployee,
			user.WithTenantID(DefaultTenantID),
			user.WithLocation(&downtown)),
		user.New("worker2@demo.localhost", "Riley", "Okafor", user.RoleEmployee,
			user.WithTenantID(DefaultTenantID),
			user.WithLocation(&roundRock)),
	}

	seedCtx := composables.WithTenantID(ctx, DefaultTenantID)
	return composables.InTenantTx(seedCtx, func(txCtx context.Context) error {
		for _, demoUser := range demoUsers {
			_, err := repo.GetByEmail(txCtx, demoUser.Email())
			if err == nil {
				continue
			}
			if !serrors.HasCode(err, serrors.CodeNotFound) {
				return err
			}
			logger.Infof("creating demo user %s", demoUser.Email())
			if _, err := repo.Create(txCtx, demoUser); err != nil {
				return err
			}
		}
		return nil
	})
}
