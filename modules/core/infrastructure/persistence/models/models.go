package models

import (
	"database/sql"
	"time"
)

type Tenant struct {
	ID        string
	Name      string
	Domain    sql.NullString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID        string
	TenantID  string
	Email     string
	FirstName string
	LastName  string
	Phone     sql.NullString
	Role      string
	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Notification struct {
	ID        string
	TenantID  string
	UserID    string
	Title     string
	Body      string
	Metadata  []byte
	ReadAt    sql.NullTime
	CreatedAt time.Time
}

type Announcement struct {
	ID          string
	TenantID    string
	AuthorID    string
	Title       string
	Body        string
	Audience    string
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
