package job

import "errors"

// Status is the lifecycle state of a job. Transitions are manager-driven
// except the analytics recorded when a job completes.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusAvailable  Status = "available"
	StatusUpcoming   Status = "upcoming"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errors.New("invalid job status")
	}
	return status, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusAvailable, StatusUpcoming, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Assignable reports whether workers can still be assigned into the job.
func (s Status) Assignable() bool {
	return s == StatusAvailable || s == StatusUpcoming
}

var statusTransitions = map[Status][]Status{
	StatusDraft:      {StatusAvailable, StatusCancelled},
	StatusAvailable:  {StatusUpcoming, StatusInProgress, StatusCancelled},
	StatusUpcoming:   {StatusInProgress, StatusAvailable, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether the status machine permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RoleRequirement is a named role a job needs staffed, with a headcount.
type RoleRequirement struct {
	Role     string `json:"role"`
	Required int    `json:"required"`
}

// RoleCapacity is a requirement joined with the current assignment count.
// Derived per request, never persisted.
type RoleCapacity struct {
	Role     string `json:"role"`
	Required int    `json:"required"`
	Filled   int    `json:"filled"`
}

func (c RoleCapacity) Remaining() int {
	if c.Required < c.Filled {
		return 0
	}
	return c.Required - c.Filled
}

func (c RoleCapacity) IsFull() bool {
	return c.Filled >= c.Required
}
