package dto

import (
	"time"

	"campus-connect/internal/domain/call"

	"github.com/google/uuid"
)

type CallRequestResponse struct {
	ID            uuid.UUID  `json:"id"`
	JobID         uuid.UUID  `json:"job_id"`
	ApplicationID *uuid.UUID `json:"application_id,omitempty"`
	RequesterID   uuid.UUID  `json:"requester_id"`
	ReceiverID    uuid.UUID  `json:"receiver_id"`
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	RequestedTime *time.Time `json:"requested_time,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	RoomID        *uuid.UUID `json:"room_id,omitempty"`
	RejectReason  *string    `json:"reject_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewCallRequestResponse(cr call.Request) CallRequestResponse {
	return CallRequestResponse{
		ID:            cr.ID,
		JobID:         cr.JobID,
		ApplicationID: cr.ApplicationID,
		RequesterID:   cr.RequesterID,
		ReceiverID:    cr.ReceiverID,
		Status:        string(cr.Status),
		Message:       cr.Message,
		RequestedTime: cr.RequestedTime,
		ScheduledTime: cr.ScheduledTime,
		RoomID:        cr.RoomID,
		RejectReason:  cr.RejectReason,
		CreatedAt:     cr.CreatedAt,
		UpdatedAt:     cr.UpdatedAt,
	}
}

type CallJoinResponse struct {
	RoomID uuid.UUID `json:"room_id"`
	Token  string    `json:"token"`
	Link   string    `json:"link"`
}
