package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/core/domain/entities/announcement"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/serrors"
)

type AnnouncementService struct {
	repo announcement.Repository
}

func NewAnnouncementService(repo announcement.Repository) *AnnouncementService {
	return &AnnouncementService{repo: repo}
}

func (s *AnnouncementService) Create(ctx context.Context, title, body string, audience announcement.Audience) (*announcement.Announcement, error) {
	if err := authorizeCore(ctx, AnnouncementsAuthzObject, "create"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, serrors.NewValidationError("title is required", "Errors.Announcement.TitleRequired")
	}
	if !audience.IsValid() {
		return nil, serrors.NewValidationError("invalid audience", "Errors.Announcement.InvalidAudience")
	}
	author, err := composables.UseUser(ctx)
	if err != nil {
		return nil, serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*announcement.Announcement, error) {
		return s.repo.Create(txCtx, announcement.New(author.ID(), title, body, audience))
	})
}

func (s *AnnouncementService) Update(ctx context.Context, data *announcement.Announcement) error {
	if err := authorizeCore(ctx, AnnouncementsAuthzObject, "update"); err != nil {
		return err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}
	// Managers may only edit their own announcements; admins may edit any.
	if actor.Role() != user.RoleAdmin && actor.ID() != data.AuthorID {
		return serrors.NewPermissionDenied("only the author or an admin may edit this announcement", "Errors.Announcement.NotAuthor")
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	})
}

func (s *AnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeCore(ctx, AnnouncementsAuthzObject, "delete"); err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

// GetPaginated returns announcements visible to the caller's role.
func (s *AnnouncementService) GetPaginated(ctx context.Context, limit, offset int) ([]*announcement.Announcement, error) {
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}

	audiences := []announcement.Audience{announcement.AudienceAll}
	if actor.Role().CanManage() {
		audiences = append(audiences, announcement.AudienceManagers)
	}
	if actor.Role() == user.RoleEmployee || actor.Role() == user.RoleAdmin {
		audiences = append(audiences, announcement.AudienceEmployees)
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*announcement.Announcement, error) {
		return s.repo.GetPaginated(txCtx, &announcement.FindParams{
			Audiences: audiences,
			Limit:     limit,
			Offset:    offset,
		})
	})
}
