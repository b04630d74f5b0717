package call

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

type Request struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	ApplicationID *uuid.UUID
	RequesterID   uuid.UUID
	ReceiverID    uuid.UUID
	Status        Status
	Message       string
	RequestedTime *time.Time
	ScheduledTime *time.Time
	RoomID        *uuid.UUID
	RejectReason  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Open requests block a new request for the same (job, requester, receiver)
// triple.
func (r Request) Open() bool {
	return r.Status == StatusPending || r.Status == StatusAccepted
}

func (r Request) Party(userID uuid.UUID) bool {
	return r.RequesterID == userID || r.ReceiverID == userID
}
