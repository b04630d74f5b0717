package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/job"
	"campus-connect/internal/domain/notification"
	"campus-connect/internal/mail"
	"campus-connect/internal/repository"
	"campus-connect/internal/usecase/notify"

	"github.com/google/uuid"
)

type JobUsecase interface {
	CreateDraft(ctx context.Context, actor Actor, title, description string, tags []string) (job.Job, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (job.Job, error)
	UpdateContent(ctx context.Context, actor Actor, id uuid.UUID, title, description string, tags []string) (job.Job, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error

	ListMine(ctx context.Context, actor Actor) ([]job.Job, error)
	ListPendingModeration(ctx context.Context, actor Actor, limit, offset int) ([]job.Job, error)

	Submit(ctx context.Context, actor Actor, id uuid.UUID) (job.Job, error)
	Moderate(ctx context.Context, actor Actor, id uuid.UUID, decision job.ModerationDecision, reason string) (job.Job, error)
	SetPublished(ctx context.Context, actor Actor, id uuid.UUID, published bool) (job.Job, error)
	SetFilled(ctx context.Context, actor Actor, id uuid.UUID, filled bool) (job.Job, error)
}

type Jobs struct {
	db           database.DB
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	users        repository.UserRepository
	dispatcher   *notify.Dispatcher
	logger       *log.Logger
}

func NewJobUsecase(db database.DB, jobs repository.JobRepository, applications repository.ApplicationRepository, users repository.UserRepository, dispatcher *notify.Dispatcher, logger *log.Logger) *Jobs {
	return &Jobs{db: db, jobs: jobs, applications: applications, users: users, dispatcher: dispatcher, logger: logger}
}

func (u *Jobs) CreateDraft(ctx context.Context, actor Actor, title, description string, tags []string) (job.Job, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return job.Job{}, ErrInvalidInput
	}

	j := job.Job{
		ID:               uuid.New(),
		OwnerID:          actor.ID,
		Title:            title,
		Description:      strings.TrimSpace(description),
		Tags:             cleanTags(tags),
		ModerationStatus: job.ModerationPending,
		IsDraft:          true,
	}
	if err := u.jobs.Create(ctx, j); err != nil {
		return job.Job{}, ErrInternal
	}
	return u.reload(ctx, j.ID)
}

func (u *Jobs) Get(ctx context.Context, actor Actor, id uuid.UUID) (job.Job, error) {
	j, err := u.getJob(ctx, id)
	if err != nil {
		return job.Job{}, err
	}

	// Drafts and unpublished postings are visible to the owner and to
	// moderators only.
	if !j.IsPublished && j.OwnerID != actor.ID && !actor.IsAdmin {
		return job.Job{}, ErrNotFound
	}

	if j.IsPublished && j.OwnerID != actor.ID {
		if err := u.jobs.IncrementViews(ctx, id); err != nil && u.logger != nil {
			u.logger.Printf("View count increment failed | job=%s error=%v", id, err)
		}
	}

	return j, nil
}

func (u *Jobs) UpdateContent(ctx context.Context, actor Actor, id uuid.UUID, title, description string, tags []string) (job.Job, error) {
	j, err := u.getJob(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if j.OwnerID != actor.ID {
		return job.Job{}, ErrForbidden
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return job.Job{}, ErrInvalidInput
	}

	if err := u.jobs.UpdateContent(ctx, id, title, strings.TrimSpace(description), cleanTags(tags)); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, ErrInternal
	}
	return u.reload(ctx, id)
}

func (u *Jobs) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	j, err := u.getJob(ctx, id)
	if err != nil {
		return err
	}
	if j.OwnerID != actor.ID {
		return ErrForbidden
	}

	if err := u.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *Jobs) ListMine(ctx context.Context, actor Actor) ([]job.Job, error) {
	out, err := u.jobs.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Jobs) ListPendingModeration(ctx context.Context, actor Actor, limit, offset int) ([]job.Job, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	out, err := u.jobs.ListPendingModeration(ctx, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// Submit moves a draft or rejected posting into the moderation queue and
// clears any stored rejection reason. Silent on purpose: moderation is
// pending, nobody is notified.
func (u *Jobs) Submit(ctx context.Context, actor Actor, id uuid.UUID) (job.Job, error) {
	j, err := u.getJob(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if j.OwnerID != actor.ID {
		return job.Job{}, ErrForbidden
	}

	affected, err := u.jobs.Submit(ctx, u.db, id)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	if affected == 0 {
		return job.Job{}, ErrInvalidTransition
	}
	return u.reload(ctx, id)
}

func (u *Jobs) Moderate(ctx context.Context, actor Actor, id uuid.UUID, decision job.ModerationDecision, reason string) (job.Job, error) {
	if !actor.IsAdmin {
		return job.Job{}, ErrForbidden
	}

	j, err := u.getJob(ctx, id)
	if err != nil {
		return job.Job{}, err
	}

	reason = strings.TrimSpace(reason)

	var status job.ModerationStatus
	var reasonPtr *string
	switch decision {
	case job.DecisionApprove:
		status = job.ModerationApproved
	case job.DecisionReject:
		if reason == "" {
			return job.Job{}, ErrInvalidInput
		}
		status = job.ModerationRejected
		reasonPtr = &reason
	default:
		return job.Job{}, ErrInvalidInput
	}

	owner, err := u.users.GetUserByID(ctx, j.OwnerID)
	if err != nil {
		return job.Job{}, ErrInternal
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	defer func() { _ = tx.Rollback(ctx) }()

	affected, err := u.jobs.Moderate(ctx, tx, id, status, reasonPtr)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	if affected == 0 {
		return job.Job{}, ErrInvalidTransition
	}

	staged, err := u.dispatcher.Stage(ctx, tx, moderationEvent(j, owner.Email, status, reason))
	if err != nil {
		return job.Job{}, ErrServiceUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return job.Job{}, ErrInternal
	}
	u.dispatcher.Deliver(staged)

	return u.reload(ctx, id)
}

func (u *Jobs) SetPublished(ctx context.Context, actor Actor, id uuid.UUID, published bool) (job.Job, error) {
	j, err := u.getJob(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if j.OwnerID != actor.ID {
		return job.Job{}, ErrForbidden
	}

	affected, err := u.jobs.SetPublished(ctx, u.db, id, published)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	if affected == 0 {
		return job.Job{}, ErrInvalidTransition
	}
	return u.reload(ctx, id)
}

// SetFilled marks a published posting filled and fans out to every applicant
// whose application is still open; decided applicants already know their
// outcome. Reopening is silent.
func (u *Jobs) SetFilled(ctx context.Context, actor Actor, id uuid.UUID, filled bool) (job.Job, error) {
	j, err := u.getJob(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if j.OwnerID != actor.ID {
		return job.Job{}, ErrForbidden
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	defer func() { _ = tx.Rollback(ctx) }()

	affected, err := u.jobs.SetFilled(ctx, tx, id, filled)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	if affected == 0 {
		return job.Job{}, ErrInvalidTransition
	}

	var staged []notify.DispatchResult
	if filled {
		open, err := u.applications.ListOpenByJob(ctx, tx, id)
		if err != nil {
			return job.Job{}, ErrInternal
		}
		for _, oa := range open {
			res, err := u.dispatcher.Stage(ctx, tx, notify.Event{
				Type:           notification.TypeJobFilled,
				RecipientID:    oa.ApplicantID,
				RecipientEmail: oa.Email,
				Title:          "Position filled",
				Body:           fmt.Sprintf("The posting %q has been filled.", j.Title),
				EmailKind:      mail.KindJobFilled,
				EmailData:      map[string]string{"job_title": j.Title},
			})
			if err != nil {
				return job.Job{}, ErrServiceUnavailable
			}
			staged = append(staged, res)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return job.Job{}, ErrInternal
	}
	for _, res := range staged {
		u.dispatcher.Deliver(res)
	}

	return u.reload(ctx, id)
}

func (u *Jobs) getJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func (u *Jobs) reload(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func moderationEvent(j job.Job, ownerEmail string, status job.ModerationStatus, reason string) notify.Event {
	if status == job.ModerationApproved {
		return notify.Event{
			Type:           notification.TypeJobApproved,
			RecipientID:    j.OwnerID,
			RecipientEmail: ownerEmail,
			Title:          "Posting approved",
			Body:           fmt.Sprintf("Your posting %q was approved. You can publish it now.", j.Title),
			EmailKind:      mail.KindJobApproved,
			EmailData:      map[string]string{"job_title": j.Title},
		}
	}
	return notify.Event{
		Type:           notification.TypeJobRejected,
		RecipientID:    j.OwnerID,
		RecipientEmail: ownerEmail,
		Title:          "Posting rejected",
		Body:           fmt.Sprintf("Your posting %q was rejected: %s", j.Title, reason),
		EmailKind:      mail.KindJobRejected,
		EmailData:      map[string]string{"job_title": j.Title, "reason": reason},
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
