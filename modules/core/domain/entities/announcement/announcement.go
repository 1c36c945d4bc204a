package announcement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Audience limits who sees an announcement.
type Audience string

const (
	AudienceAll       Audience = "all"
	AudienceManagers  Audience = "managers"
	AudienceEmployees Audience = "employees"
)

func NewAudience(a string) (Audience, error) {
	audience := Audience(a)
	if !audience.IsValid() {
		return "", errors.New("invalid audience")
	}
	return audience, nil
}

func (a Audience) IsValid() bool {
	switch a {
	case AudienceAll, AudienceManagers, AudienceEmployees:
		return true
	}
	return false
}

type Announcement struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Audience    Audience   `json:"audience"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func New(authorID uuid.UUID, title, body string, audience Audience) *Announcement {
	now := time.Now()
	return &Announcement{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		Audience:  audience,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type FindParams struct {
	// Audiences visible to the caller; empty means no audience filter.
	Audiences []Audience
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, a *Announcement) (*Announcement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Announcement, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}
