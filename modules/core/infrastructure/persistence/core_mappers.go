package persistence

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/core/domain/entities/announcement"
	"github.com/aisleworks/aisle/modules/core/domain/entities/notification"
	"github.com/aisleworks/aisle/modules/core/domain/entities/tenant"
	"github.com/aisleworks/aisle/modules/core/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/geo"
)

func ToDBTenant(t *tenant.Tenant) *models.Tenant {
	return &models.Tenant{
		ID:        t.ID().String(),
		Name:      t.Name(),
		Domain:    nullString(t.Domain()),
		IsActive:  t.IsActive(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}

func ToDomainTenant(dbTenant *models.Tenant) (*tenant.Tenant, error) {
	id, err := uuid.Parse(dbTenant.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tenant id")
	}
	return tenant.New(
		dbTenant.Name,
		tenant.WithID(id),
		tenant.WithDomain(dbTenant.Domain.String),
		tenant.WithIsActive(dbTenant.IsActive),
		tenant.WithCreatedAt(dbTenant.CreatedAt),
		tenant.WithUpdatedAt(dbTenant.UpdatedAt),
	), nil
}

func ToDBUser(entity user.User) *models.User {
	dbUser := &models.User{
		ID:        entity.ID().String(),
		TenantID:  entity.TenantID().String(),
		Email:     entity.Email(),
		FirstName: entity.FirstName(),
		LastName:  entity.LastName(),
		Phone:     nullString(entity.Phone()),
		Role:      string(entity.Role()),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
	if p := entity.Location(); p != nil {
		dbUser.Latitude = sql.NullFloat64{Float64: p.Latitude(), Valid: true}
		dbUser.Longitude = sql.NullFloat64{Float64: p.Longitude(), Valid: true}
	}
	return dbUser
}

func ToDomainUser(dbUser *models.User) (user.User, error) {
	id, err := uuid.Parse(dbUser.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse user id")
	}
	tenantID, err := uuid.Parse(dbUser.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse user tenant id")
	}
	role, err := user.NewRole(dbUser.Role)
	if err != nil {
		return nil, errors.Wrapf(err, "user %s", dbUser.ID)
	}

	opts := []user.Option{
		user.WithID(id),
		user.WithTenantID(tenantID),
		user.WithPhone(dbUser.Phone.String),
		user.WithCreatedAt(dbUser.CreatedAt),
		user.WithUpdatedAt(dbUser.UpdatedAt),
	}
	if dbUser.Latitude.Valid && dbUser.Longitude.Valid {
		p := geo.NewPoint(dbUser.Longitude.Float64, dbUser.Latitude.Float64)
		opts = append(opts, user.WithLocation(&p))
	}
	return user.New(dbUser.Email, dbUser.FirstName, dbUser.LastName, role, opts...), nil
}

func ToDBNotification(n *notification.Notification) (*models.Notification, error) {
	var metadata []byte
	if len(n.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(n.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal notification metadata")
		}
	}
	return &models.Notification{
		ID:        n.ID.String(),
		TenantID:  n.TenantID.String(),
		UserID:    n.UserID.String(),
		Title:     n.Title,
		Body:      n.Body,
		Metadata:  metadata,
		ReadAt:    nullTime(n.ReadAt),
		CreatedAt: n.CreatedAt,
	}, nil
}

func ToDomainNotification(dbNotification *models.Notification) (*notification.Notification, error) {
	id, err := uuid.Parse(dbNotification.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse notification id")
	}
	tenantID, err := uuid.Parse(dbNotification.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse notification tenant id")
	}
	userID, err := uuid.Parse(dbNotification.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse notification user id")
	}

	var metadata map[string]string
	if len(dbNotification.Metadata) > 0 {
		if err := json.Unmarshal(dbNotification.Metadata, &metadata); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal notification metadata")
		}
	}
	return &notification.Notification{
		ID:        id,
		TenantID:  tenantID,
		UserID:    userID,
		Title:     dbNotification.Title,
		Body:      dbNotification.Body,
		Metadata:  metadata,
		ReadAt:    timePtr(dbNotification.ReadAt),
		CreatedAt: dbNotification.CreatedAt,
	}, nil
}

func ToDBAnnouncement(a *announcement.Announcement) *models.Announcement {
	return &models.Announcement{
		ID:          a.ID.String(),
		TenantID:    a.TenantID.String(),
		AuthorID:    a.AuthorID.String(),
		Title:       a.Title,
		Body:        a.Body,
		Audience:    string(a.Audience),
		PublishedAt: nullTime(a.PublishedAt),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func ToDomainAnnouncement(dbAnnouncement *models.Announcement) (*announcement.Announcement, error) {
	id, err := uuid.Parse(dbAnnouncement.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse announcement id")
	}
	tenantID, err := uuid.Parse(dbAnnouncement.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse announcement tenant id")
	}
	authorID, err := uuid.Parse(dbAnnouncement.AuthorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse announcement author id")
	}
	audience, err := announcement.NewAudience(dbAnnouncement.Audience)
	if err != nil {
		return nil, errors.Wrapf(err, "announcement %s", dbAnnouncement.ID)
	}
	return &announcement.Announcement{
		ID:          id,
		TenantID:    tenantID,
		AuthorID:    authorID,
		Title:       dbAnnouncement.Title,
		Body:        dbAnnouncement.Body,
		Audience:    audience,
		PublishedAt: timePtr(dbAnnouncement.PublishedAt),
		CreatedAt:   dbAnnouncement.CreatedAt,
		UpdatedAt:   dbAnnouncement.UpdatedAt,
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
