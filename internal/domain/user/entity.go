package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the marketplace-facing identity. It references the auth users
// row by foreign key and is never hard-deleted, so jobs and applications can
// keep soft references to it.
type Profile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FullName  string
	Headline  string
	IsSeeker  bool
	IsFinder  bool
	Skills    []string
	Interests []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
