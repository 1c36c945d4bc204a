package authzutil

import (
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/pkg/authz"
)

// SubjectForUser returns the policy subject for a user. The policy matrix is
// written against role subjects (role:admin, role:manager, role:employee), so
// the user's role decides what the enforcer sees.
func SubjectForUser(tenantID uuid.UUID, u user.User) string {
	if u == nil {
		return authz.SubjectForUser(tenantID, uuid.Nil)
	}
	return authz.SubjectForRole(u.Role().Slug())
}
