package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/pkg/geo"
)

// User is a member of a tenant organization. Location is the worker's
// registered home base; it is optional and only consulted when ranking
// candidates by distance.
type User interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	Email() string
	FirstName() string
	LastName() string
	Phone() string
	Role() Role
	Location() *geo.Point
	CreatedAt() time.Time
	UpdatedAt() time.Time

	SetName(firstName, lastName string) User
	SetPhone(phone string) User
	SetRole(role Role) User
	SetLocation(p *geo.Point) User
}

type Option func(*u)

func WithID(id uuid.UUID) Option {
	return func(user *u) {
		user.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(user *u) {
		user.tenantID = tenantID
	}
}

func WithPhone(phone string) Option {
	return func(user *u) {
		user.phone = phone
	}
}

func WithLocation(p *geo.Point) Option {
	return func(user *u) {
		user.location = p
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(user *u) {
		user.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(user *u) {
		user.updatedAt = updatedAt
	}
}

func New(email, firstName, lastName string, role Role, opts ...Option) User {
	now := time.Now()
	user := &u{
		id:        uuid.New(),
		email:     email,
		firstName: firstName,
		lastName:  lastName,
		role:      role,
		createdAt: now,
		updatedAt: now,
	}
	for _, opt := range opts {
		opt(user)
	}
	return user
}

type u struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	email     string
	firstName string
	lastName  string
	phone     string
	role      Role
	location  *geo.Point
	createdAt time.Time
	updatedAt time.Time
}

func (user *u) ID() uuid.UUID       { return user.id }
func (user *u) TenantID() uuid.UUID { return user.tenantID }
func (user *u) Email() string       { return user.email }
func (user *u) FirstName() string   { return user.firstName }
func (user *u) LastName() string    { return user.lastName }
func (user *u) Phone() string       { return user.phone }
func (user *u) Role() Role          { return user.role }
func (user *u) Location() *geo.Point {
	return user.location
}
func (user *u) CreatedAt() time.Time { return user.createdAt }
func (user *u) UpdatedAt() time.Time { return user.updatedAt }

func (user *u) SetName(firstName, lastName string) User {
	clone := *user
	clone.firstName = firstName
	clone.lastName = lastName
	clone.updatedAt = time.Now()
	return &clone
}

func (user *u) SetPhone(phone string) User {
	clone := *user
	clone.phone = phone
	clone.updatedAt = time.Now()
	return &clone
}

func (user *u) SetRole(role Role) User {
	clone := *user
	clone.role = role
	clone.updatedAt = time.Now()
	return &clone
}

func (user *u) SetLocation(p *geo.Point) User {
	clone := *user
	clone.location = p
	clone.updatedAt = time.Now()
	return &clone
}
