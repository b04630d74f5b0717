package dto

import (
	"time"

	"campus-connect/internal/domain/user"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	Headline  string    `json:"headline"`
	IsSeeker  bool      `json:"is_seeker"`
	IsFinder  bool      `json:"is_finder"`
	Skills    []string  `json:"skills"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewProfileResponse(p user.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Headline:  p.Headline,
		IsSeeker:  p.IsSeeker,
		IsFinder:  p.IsFinder,
		Skills:    p.Skills,
		Interests: p.Interests,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
