package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeJobApproved          Type = "JOB_APPROVED"
	TypeJobRejected          Type = "JOB_REJECTED"
	TypeJobFilled            Type = "JOB_FILLED"
	TypeApplicationReceived  Type = "APPLICATION_RECEIVED"
	TypeApplicationStatus    Type = "APPLICATION_STATUS_CHANGED"
	TypeCallRequestReceived  Type = "CALL_REQUEST_RECEIVED"
	TypeCallRequestAccepted  Type = "CALL_REQUEST_ACCEPTED"
	TypeCallRequestRejected  Type = "CALL_REQUEST_REJECTED"
	TypeCallRequestCancelled Type = "CALL_REQUEST_CANCELLED"
)

type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Type        Type
	Title       string
	Body        string
	Link        *string
	IsRead      bool
	CreatedAt   time.Time
}
