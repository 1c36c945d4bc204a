package authz

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, mode Mode) *Service {
	t.Helper()
	root := filepath.Join("testdata")
	svc, err := NewService(Config{
		ModelPath:    filepath.Join(root, "model.conf"),
		PolicyPath:   filepath.Join(root, "policy.csv"),
		FlagProvider: staticFlagProvider{mode: mode},
	})
	require.NoError(t, err)
	return svc
}

func TestServiceAuthorize(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(
		SubjectForUser(uuid.Nil, uuid.MustParse("f6f8b13e-755f-41e0-af1a-f2671e40c15c")),
		DomainFromTenant(uuid.Nil),
		ObjectName("core", "users"),
		NormalizeAction("list"),
	)
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceAuthorizeRoleSubject(t *testing.T) {
	svc := newTestService(t, ModeEnforce)

	tenantID := uuid.New()
	approve := NewRequest(
		SubjectForRole("Manager"),
		DomainFromTenant(tenantID),
		ObjectName("staffing", "drop_requests"),
		NormalizeAction("approve"),
	)
	require.NoError(t, svc.Authorize(context.Background(), approve))

	create := NewRequest(
		SubjectForRole("Manager"),
		DomainFromTenant(tenantID),
		ObjectName("staffing", "drop_requests"),
		NormalizeAction("create"),
	)
	err := svc.Authorize(context.Background(), create)
	require.Error(t, err)
	require.True(t, IsForbidden(err))
}

func TestServiceAuthorizeDenied(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(
		SubjectForUser(uuid.Nil, uuid.New()),
		DomainFromTenant(uuid.Nil),
		ObjectName("core", "users"),
		NormalizeAction("edit"),
	)
	err := svc.Authorize(context.Background(), req)
	require.Error(t, err)
	require.True(t, IsForbidden(err))
}

func TestServiceAuthorizeShadowMode(t *testing.T) {
	svc := newTestService(t, ModeShadow)

	req := NewRequest(
		SubjectForUser(uuid.Nil, uuid.New()),
		DomainFromTenant(uuid.Nil),
		ObjectName("core", "users"),
		NormalizeAction("edit"),
	)
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceMode(t *testing.T) {
	svc := newTestService(t, ModeDisabled)
	require.Equal(t, ModeDisabled, svc.Mode())
}
