package application

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusShortlisted Status = "SHORTLISTED"
	StatusAccepted    Status = "ACCEPTED"
	StatusRejected    Status = "REJECTED"
)

type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	ApplicantID uuid.UUID
	Status      Status
	Proposal    string
	ResumeRef   *string
	MatchScore  *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// transitions maps a target status to the statuses it may be entered from.
// ACCEPTED is terminal: it appears as a target but never as a source.
var transitions = map[Status][]Status{
	StatusShortlisted: {StatusPending},
	StatusAccepted:    {StatusPending, StatusShortlisted},
	StatusRejected:    {StatusPending, StatusShortlisted},
	StatusPending:     {StatusShortlisted, StatusRejected},
}

// AllowedFrom returns the set of source statuses from which target is
// reachable. The returned slice doubles as the conditional-update guard in
// the repository, so the legality check and the write stay atomic.
func AllowedFrom(target Status) []Status {
	return transitions[target]
}

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusShortlisted, StatusAccepted, StatusRejected:
		return true
	}
	return false
}
