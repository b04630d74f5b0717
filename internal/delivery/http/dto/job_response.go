package dto

import (
	"time"

	"campus-connect/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Tags             []string  `json:"tags"`
	ModerationStatus string    `json:"moderation_status"`
	IsDraft          bool      `json:"is_draft"`
	IsPublished      bool      `json:"is_published"`
	IsFilled         bool      `json:"is_filled"`
	RejectionReason  *string   `json:"rejection_reason,omitempty"`
	ViewCount        int64     `json:"view_count"`
	ApplicationCount int64     `json:"application_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:               j.ID,
		OwnerID:          j.OwnerID,
		Title:            j.Title,
		Description:      j.Description,
		Tags:             j.Tags,
		ModerationStatus: string(j.ModerationStatus),
		IsDraft:          j.IsDraft,
		IsPublished:      j.IsPublished,
		IsFilled:         j.IsFilled,
		RejectionReason:  j.RejectionReason,
		ViewCount:        j.ViewCount,
		ApplicationCount: j.ApplicationCount,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

type JobListItemResponse struct {
	JobResponse
	MatchScore int `json:"match_score"`
}
