package core

import (
	"embed"

	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence"
	"github.com/aisleworks/aisle/modules/core/services"
	"github.com/aisleworks/aisle/pkg/application"
)

//go:embed locales/*.toml
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewTenantService(persistence.NewTenantRepository()),
		services.NewUserService(persistence.NewUserRepository(), app.EventPublisher()),
		services.NewNotificationService(
			persistence.NewNotificationRepository(),
			services.NewEventBusDispatcher(app.EventPublisher()),
		),
		services.NewAnnouncementService(persistence.NewAnnouncementRepository()),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
