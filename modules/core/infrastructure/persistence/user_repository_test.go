package persistence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aisleworks/aisle/modules/core"
	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/core/domain/entities/notification"
	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence"
	"github.com/aisleworks/aisle/pkg/itf"
	"github.com/aisleworks/aisle/pkg/serrors"
)

func TestPgUserRepository_RoundTrip(t *testing.T) {
	env := itf.Setup(t, core.NewModule())
	repo := persistence.NewUserRepository()

	admin := env.CreateUser(user.RoleAdmin)
	env.CreateUser(user.RoleEmployee)
	env.CreateUser(user.RoleEmployee)

	byEmail, err := repo.GetByEmail(env.Ctx, admin.Email())
	require.NoError(t, err)
	require.Equal(t, admin.ID(), byEmail.ID())
	require.Equal(t, user.RoleAdmin, byEmail.Role())

	employees, err := repo.GetPaginated(env.Ctx, &user.FindParams{
		Role:  user.RoleEmployee,
		Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, employees, 2)

	_, err = repo.GetByEmail(env.Ctx, "nobody@itf.test")
	require.Equal(t, serrors.CodeNotFound, serrors.CodeOf(err))
}

func TestPgNotificationRepository_UnreadCount(t *testing.T) {
	env := itf.Setup(t, core.NewModule())
	repo := persistence.NewNotificationRepository()
	worker := env.CreateUser(user.RoleEmployee)

	first, err := repo.Create(env.Ctx,
		notification.New(worker.ID(), "Shift reminder", "Doors open at noon.", nil))
	require.NoError(t, err)
	_, err = repo.Create(env.Ctx,
		notification.New(worker.ID(), "Schedule change", "Start moved to 13:00.", nil))
	require.NoError(t, err)

	unread, err := repo.CountUnread(env.Ctx, worker.ID())
	require.NoError(t, err)
	require.EqualValues(t, 2, unread)

	require.NoError(t, repo.MarkRead(env.Ctx, first.ID, time.Now()))
	unread, err = repo.CountUnread(env.Ctx, worker.ID())
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)
}
