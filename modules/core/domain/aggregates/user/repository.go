package user

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Limit  int
	Offset int
	Search string
	Role   Role
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]User, error)
	Create(ctx context.Context, data User) (User, error)
	Update(ctx context.Context, data User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
