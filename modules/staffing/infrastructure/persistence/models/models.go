package models

import (
	"database/sql"
	"time"
)

type Venue struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Job struct {
	ID                   string
	TenantID             string
	Title                string
	Description          string
	VenueID              sql.NullString
	StartTime            time.Time
	EndTime              time.Time
	Status               string
	TravelPayAmount      sql.NullInt64
	TravelPayCurrency    sql.NullString
	Requirements         []byte
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CompletedAt          sql.NullTime
	TimeToFillSeconds    sql.NullInt64
	AssignToCompleteSecs sql.NullInt64
}

type Assignment struct {
	ID          string
	TenantID    string
	JobID       string
	UserID      string
	Role        string
	AssignedBy  string
	AssignedAt  time.Time
	CompletedAt sql.NullTime
}

type Interest struct {
	ID          string
	TenantID    string
	JobID       string
	UserID      string
	ExpressedAt time.Time
}

// CandidateRow is the flat join used to build ranking candidates: the
// interest row, the worker's profile and location, the job venue's location
// and the worker's most recent completed assignment.
type CandidateRow struct {
	UserID             string
	FirstName          string
	LastName           string
	Email              string
	UserLatitude       sql.NullFloat64
	UserLongitude      sql.NullFloat64
	VenueLatitude      sql.NullFloat64
	VenueLongitude     sql.NullFloat64
	LastAssignmentDate sql.NullTime
	ExpressedAt        time.Time
}

type DropRequest struct {
	ID           string
	TenantID     string
	AssignmentID string
	RequesterID  string
	Reason       string
	Status       string
	RequestedAt  time.Time
	EscalatedAt  sql.NullTime
	ResolvedAt   sql.NullTime
	ResolvedBy   sql.NullString
}
