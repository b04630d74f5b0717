package usecase

import (
	"context"
	"errors"
	"strings"

	"campus-connect/internal/domain/user"
	"campus-connect/internal/repository"
)

type ProfileInput struct {
	FullName  string
	Headline  string
	IsSeeker  bool
	IsFinder  bool
	Skills    []string
	Interests []string
}

type ProfileUsecase interface {
	GetMe(ctx context.Context, actor Actor) (user.Profile, error)
	UpdateMe(ctx context.Context, actor Actor, in ProfileInput) (user.Profile, error)
}

type Profiles struct {
	profiles repository.ProfileRepository
}

func NewProfileUsecase(profiles repository.ProfileRepository) *Profiles {
	return &Profiles{profiles: profiles}
}

func (u *Profiles) GetMe(ctx context.Context, actor Actor) (user.Profile, error) {
	p, err := u.profiles.GetByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return user.Profile{}, ErrNotFound
		}
		return user.Profile{}, ErrInternal
	}
	return p, nil
}

func (u *Profiles) UpdateMe(ctx context.Context, actor Actor, in ProfileInput) (user.Profile, error) {
	p := user.Profile{
		UserID:    actor.ID,
		FullName:  strings.TrimSpace(in.FullName),
		Headline:  strings.TrimSpace(in.Headline),
		IsSeeker:  in.IsSeeker,
		IsFinder:  in.IsFinder,
		Skills:    cleanTags(in.Skills),
		Interests: cleanTags(in.Interests),
	}

	if err := u.profiles.UpdateProfile(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return user.Profile{}, ErrNotFound
		}
		return user.Profile{}, ErrInternal
	}
	return u.profiles.GetByUserID(ctx, actor.ID)
}
