package venue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/pkg/geo"
)

// Venue is an event location. Location is optional; jobs at venues without
// coordinates simply rank candidates without a distance.
type Venue struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Location  *geo.Point `json:"location,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func New(name, address string, location *geo.Point) *Venue {
	now := time.Now()
	return &Venue{
		ID:        uuid.New(),
		Name:      name,
		Address:   address,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Venue, error)
	Create(ctx context.Context, v *Venue) (*Venue, error)
	Update(ctx context.Context, v *Venue) error
	Delete(ctx context.Context, id uuid.UUID) error
}
