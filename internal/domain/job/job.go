package job

import (
	"time"

	"github.com/google/uuid"
)

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "PENDING"
	ModerationApproved ModerationStatus = "APPROVED"
	ModerationRejected ModerationStatus = "REJECTED"
)

type ModerationDecision string

const (
	DecisionApprove ModerationDecision = "APPROVE"
	DecisionReject  ModerationDecision = "REJECT"
)

type Job struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Title            string
	Description      string
	Tags             []string
	ModerationStatus ModerationStatus
	IsDraft          bool
	IsPublished      bool
	IsFilled         bool
	RejectionReason  *string
	ViewCount        int64
	ApplicationCount int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Submittable reports whether the owner may move the posting into the
// moderation queue: fresh drafts and rejected postings only.
func (j Job) Submittable() bool {
	return j.IsDraft || j.ModerationStatus == ModerationRejected
}

// AcceptsApplications gates application intake. Visibility and intake are
// both keyed on the published flag, which itself can only be true for an
// approved, non-draft posting.
func (j Job) AcceptsApplications() bool {
	return j.IsPublished && !j.IsFilled
}

func ValidModerationStatus(s string) bool {
	switch ModerationStatus(s) {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}
