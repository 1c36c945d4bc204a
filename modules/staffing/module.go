package staffing

import (
	"embed"

	corepersistence "github.com/aisleworks/aisle/modules/core/infrastructure/persistence"
	coreservices "github.com/aisleworks/aisle/modules/core/services"
	"github.com/aisleworks/aisle/modules/staffing/infrastructure/persistence"
	"github.com/aisleworks/aisle/modules/staffing/services"
	"github.com/aisleworks/aisle/pkg/application"
	"github.com/aisleworks/aisle/pkg/configuration"
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

// Register wires the staffing services. Depends on the core module being
// registered first for the notification service.
func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	jobRepo := persistence.NewJobRepository()
	assignmentRepo := persistence.NewAssignmentRepository()
	interestRepo := persistence.NewInterestRepository()
	dropRequestRepo := persistence.NewDropRequestRepository()

	notifier := app.Service(coreservices.NotificationService{}).(*coreservices.NotificationService)
	dropRequestService := services.NewDropRequestService(
		dropRequestRepo,
		assignmentRepo,
		app.EventPublisher(),
		notifier,
	)

	app.RegisterServices(
		services.NewVenueService(persistence.NewVenueRepository()),
		services.NewJobService(jobRepo, assignmentRepo, app.EventPublisher()),
		services.NewAssignmentService(
			assignmentRepo,
			jobRepo,
			interestRepo,
			corepersistence.NewUserRepository(),
			app.EventPublisher(),
		),
		services.NewInterestService(interestRepo, jobRepo, assignmentRepo, app.EventPublisher()),
		dropRequestService,
		services.NewEscalationSweeper(
			dropRequestRepo,
			dropRequestService,
			corepersistence.NewUserRepository(),
			notifier,
			configuration.Use().Escalation,
			app.Logger(),
		),
	)
	return nil
}

func (m *Module) Name() string {
	return "staffing"
}
