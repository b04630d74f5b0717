package usecase

import (
	"context"
	"errors"
	"log"

	"campus-connect/internal/domain/job"
	"campus-connect/internal/domain/matching"
	"campus-connect/internal/infrastructure/cache"
	"campus-connect/internal/repository"
)

// JobListItem is a published posting annotated with the viewer's own
// compatibility score.
type JobListItem struct {
	Job        job.Job
	MatchScore int
}

type JobListUsecase interface {
	Browse(ctx context.Context, actor Actor, limit, offset int) ([]JobListItem, error)
}

type JobList struct {
	jobs     repository.JobRepository
	profiles repository.ProfileRepository
	cache    *cache.Redis
	logger   *log.Logger
}

func NewJobListUsecase(jobs repository.JobRepository, profiles repository.ProfileRepository, c *cache.Redis, logger *log.Logger) *JobList {
	return &JobList{jobs: jobs, profiles: profiles, cache: c, logger: logger}
}

// Browse serves the published listing. The raw page is cached shared across
// viewers; the per-viewer match score is computed on top, so the cache never
// leaks one user's score to another. Scoring is the synchronous fallback
// scorer and must never block the listing: an absent profile scores as empty
// sets.
func (u *JobList) Browse(ctx context.Context, actor Actor, limit, offset int) ([]JobListItem, error) {
	if limit < 0 || offset < 0 {
		return nil, ErrInvalidInput
	}

	key := cache.ListingKey(limit, offset)

	var page []job.Job
	hit, err := u.cache.GetJSON(ctx, key, &page)
	if err != nil || !hit {
		page, err = u.jobs.ListPublished(ctx, limit, offset)
		if err != nil {
			return nil, ErrInternal
		}
		if cacheErr := u.cache.SetJSON(ctx, key, page, cache.DefaultTTL); cacheErr != nil && u.logger != nil {
			u.logger.Printf("Listing cache write failed | error=%v", cacheErr)
		}
	}

	var skills, interests []string
	if p, err := u.profiles.GetByUserID(ctx, actor.ID); err == nil {
		skills, interests = p.Skills, p.Interests
	} else if !errors.Is(err, repository.ErrProfileNotFound) && u.logger != nil {
		u.logger.Printf("Profile lookup failed during browse | user=%s error=%v", actor.ID, err)
	}

	out := make([]JobListItem, 0, len(page))
	for _, j := range page {
		out = append(out, JobListItem{
			Job:        j,
			MatchScore: matching.Score(skills, interests, j.Tags),
		})
	}
	return out, nil
}
