package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/authzutil"
	"github.com/aisleworks/aisle/pkg/authz"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/serrors"
)

const (
	UsersAuthzObject         = "core.users"
	NotificationsAuthzObject = "core.notifications"
	AnnouncementsAuthzObject = "core.announcements"
	coreAuthzDomain          = "core"
)

var authorizeCoreFn = defaultAuthorizeCore

func authorizeCore(ctx context.Context, object, action string) error {
	return authorizeCoreFn(ctx, object, action)
}

func defaultAuthorizeCore(ctx context.Context, object, action string) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		tenantID = uuid.Nil
	}

	if subject, ok := authzutil.SystemSubjectFromContext(ctx); ok {
		req := authz.NewRequest(subject, coreAuthzDomain, object, authz.NormalizeAction(action))
		return authz.Use().Authorize(ctx, req)
	}

	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}
	if currentUser.TenantID() != tenantID {
		return serrors.NewPermissionDenied("actor does not belong to this organization", "Errors.Authorization.TenantMismatch")
	}

	req := authz.NewRequest(
		authzutil.SubjectForUser(tenantID, currentUser),
		coreAuthzDomain,
		object,
		authz.NormalizeAction(action),
	)
	return authz.Use().Authorize(ctx, req)
}
