package itf

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	corepersistence "github.com/aisleworks/aisle/modules/core/infrastructure/persistence"
	"github.com/aisleworks/aisle/pkg/application"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/configuration"
	"github.com/aisleworks/aisle/pkg/eventbus"
)

// Env gives repository tests a migrated database and a tenant-pinned
// transaction context. The transaction is rolled back on cleanup so tests
// never leak rows into a shared database.
type Env struct {
	Pool     *pgxpool.Pool
	App      application.Application
	TenantID uuid.UUID
	Ctx      context.Context

	tb testing.TB
	tx pgx.Tx
}

// Setup connects to the configured Postgres instance, registers the given
// modules, runs their migrations, and opens a transaction pinned to a fresh
// tenant. The test is skipped when Postgres is unreachable.
func Setup(tb testing.TB, mods ...application.Module) *Env {
	tb.Helper()

	conf := configuration.Use()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		tb.Skipf("postgres unavailable: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		tb.Skipf("postgres unreachable: %v", err)
	}
	tb.Cleanup(pool.Close)

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		Bundle:   application.LoadBundle(),
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	for _, module := range mods {
		require.NoError(tb, module.Register(app))
	}
	require.NoError(tb, app.Migrations().Run(ctx))

	tx, err := pool.Begin(ctx)
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = tx.Rollback(context.Background()) })

	tenantID := uuid.New()
	short := tenantID.String()[:8]
	_, err = tx.Exec(ctx,
		"INSERT INTO tenants (id, name, domain) VALUES ($1, $2, $3)",
		tenantID, "itf-"+short, short+".test",
	)
	require.NoError(tb, err)

	env := &Env{
		Pool:     pool,
		App:      app,
		TenantID: tenantID,
		tb:       tb,
		tx:       tx,
	}
	env.Ctx = composables.WithTx(
		composables.WithTenantID(composables.WithPool(ctx, pool), tenantID),
		tx,
	)
	return env
}

// WithUser returns the environment context with u as the acting user.
func (e *Env) WithUser(u user.User) context.Context {
	return composables.WithUser(e.Ctx, u)
}

// CreateUser persists a user with the given role in the test tenant.
func (e *Env) CreateUser(role user.Role, opts ...user.Option) user.User {
	e.tb.Helper()
	id := uuid.New()
	opts = append([]user.Option{user.WithID(id), user.WithTenantID(e.TenantID)}, opts...)
	created, err := corepersistence.NewUserRepository().Create(e.Ctx, user.New(
		id.String()[:8]+"@itf.test",
		"Test",
		string(role),
		role,
		opts...,
	))
	require.NoError(e.tb, err)
	return created
}
