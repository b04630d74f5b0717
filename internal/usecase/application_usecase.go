package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"campus-connect/internal/ai"
	"campus-connect/internal/database"
	"campus-connect/internal/domain/application"
	"campus-connect/internal/domain/matching"
	"campus-connect/internal/domain/notification"
	"campus-connect/internal/mail"
	"campus-connect/internal/repository"
	"campus-connect/internal/usecase/notify"

	"github.com/google/uuid"
)

const minProposalLength = 30

type ApplicationUsecase interface {
	Apply(ctx context.Context, actor Actor, jobID uuid.UUID, proposal string, resumeRef *string) (application.Application, error)
	SetStatus(ctx context.Context, actor Actor, id uuid.UUID, newStatus application.Status) (application.Application, error)
	RecalculateScore(ctx context.Context, actor Actor, id uuid.UUID) (int, error)

	ListForJob(ctx context.Context, actor Actor, jobID uuid.UUID) ([]application.Application, error)
	ListMine(ctx context.Context, actor Actor) ([]application.Application, error)
}

type Applications struct {
	db           database.DB
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	profiles     repository.ProfileRepository
	users        repository.UserRepository
	dispatcher   *notify.Dispatcher
	rescorer     ai.Rescorer
	logger       *log.Logger
}

func NewApplicationUsecase(
	db database.DB,
	applications repository.ApplicationRepository,
	jobs repository.JobRepository,
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	dispatcher *notify.Dispatcher,
	rescorer ai.Rescorer,
	logger *log.Logger,
) *Applications {
	return &Applications{
		db:           db,
		applications: applications,
		jobs:         jobs,
		profiles:     profiles,
		users:        users,
		dispatcher:   dispatcher,
		rescorer:     rescorer,
		logger:       logger,
	}
}

// Apply creates the one application a seeker may hold against a posting. The
// initial match score comes from the synchronous scorer so listings can rank
// immediately; the AI collaborator may overwrite it later.
func (u *Applications) Apply(ctx context.Context, actor Actor, jobID uuid.UUID, proposal string, resumeRef *string) (application.Application, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, ErrInternal
	}

	if j.OwnerID == actor.ID {
		return application.Application{}, ErrForbidden
	}
	if !j.AcceptsApplications() {
		return application.Application{}, ErrInvalidTransition
	}

	proposal = strings.TrimSpace(proposal)
	if len(proposal) < minProposalLength {
		return application.Application{}, ErrInvalidInput
	}

	var skills, interests []string
	if p, err := u.profiles.GetByUserID(ctx, actor.ID); err == nil {
		skills, interests = p.Skills, p.Interests
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return application.Application{}, ErrInternal
	}
	score := matching.Score(skills, interests, j.Tags)

	owner, err := u.users.GetUserByID(ctx, j.OwnerID)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	applicant, err := u.users.GetUserByID(ctx, actor.ID)
	if err != nil {
		return application.Application{}, ErrInternal
	}

	a := application.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		ApplicantID: actor.ID,
		Status:      application.StatusPending,
		Proposal:    proposal,
		ResumeRef:   resumeRef,
		MatchScore:  &score,
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := u.applications.Create(ctx, tx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return application.Application{}, ErrDuplicateRequest
		}
		return application.Application{}, ErrInternal
	}

	if err := u.jobs.IncrementApplications(ctx, tx, jobID); err != nil {
		return application.Application{}, ErrInternal
	}

	staged, err := u.dispatcher.Stage(ctx, tx, notify.Event{
		Type:           notification.TypeApplicationReceived,
		RecipientID:    j.OwnerID,
		RecipientEmail: owner.Email,
		Title:          "New application",
		Body:           fmt.Sprintf("%s applied to your posting %q.", applicant.Email, j.Title),
		EmailKind:      mail.KindApplicationReceived,
		EmailData:      map[string]string{"job_title": j.Title, "applicant": applicant.Email},
	})
	if err != nil {
		return application.Application{}, ErrServiceUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return application.Application{}, ErrInternal
	}
	u.dispatcher.Deliver(staged)

	u.rescoreAsync(a.ID, proposal, skills, j.Tags)

	created, err := u.applications.GetByID(ctx, a.ID)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	return created, nil
}

// SetStatus is the applicant's only feedback channel, so the fan-out here is
// never optional. The terminal guard on ACCEPTED rides the conditional
// update rather than a read-then-write.
func (u *Applications) SetStatus(ctx context.Context, actor Actor, id uuid.UUID, newStatus application.Status) (application.Application, error) {
	a, err := u.getApplication(ctx, id)
	if err != nil {
		return application.Application{}, err
	}

	j, err := u.jobs.GetByID(ctx, a.JobID)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if j.OwnerID != actor.ID {
		return application.Application{}, ErrForbidden
	}

	from := application.AllowedFrom(newStatus)
	if len(from) == 0 || newStatus == a.Status {
		return application.Application{}, ErrInvalidTransition
	}

	applicant, err := u.users.GetUserByID(ctx, a.ApplicantID)
	if err != nil {
		return application.Application{}, ErrInternal
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	defer func() { _ = tx.Rollback(ctx) }()

	affected, err := u.applications.UpdateStatus(ctx, tx, id, newStatus, from)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if affected == 0 {
		return application.Application{}, ErrInvalidTransition
	}

	staged, err := u.dispatcher.Stage(ctx, tx, notify.Event{
		Type:           notification.TypeApplicationStatus,
		RecipientID:    a.ApplicantID,
		RecipientEmail: applicant.Email,
		Title:          "Application update",
		Body:           fmt.Sprintf("Your application to %q is now %s.", j.Title, newStatus),
		EmailKind:      mail.KindApplicationStatus,
		EmailData:      map[string]string{"job_title": j.Title, "status": string(newStatus)},
	})
	if err != nil {
		return application.Application{}, ErrServiceUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return application.Application{}, ErrInternal
	}
	u.dispatcher.Deliver(staged)

	updated, err := u.applications.GetByID(ctx, id)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	return updated, nil
}

// RecalculateScore re-runs the synchronous scorer. Idempotent, no fan-out.
func (u *Applications) RecalculateScore(ctx context.Context, actor Actor, id uuid.UUID) (int, error) {
	a, err := u.getApplication(ctx, id)
	if err != nil {
		return 0, err
	}

	j, err := u.jobs.GetByID(ctx, a.JobID)
	if err != nil {
		return 0, ErrInternal
	}
	if actor.ID != j.OwnerID && actor.ID != a.ApplicantID {
		return 0, ErrForbidden
	}

	var skills, interests []string
	if p, err := u.profiles.GetByUserID(ctx, a.ApplicantID); err == nil {
		skills, interests = p.Skills, p.Interests
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return 0, ErrInternal
	}

	score := matching.Score(skills, interests, j.Tags)
	if err := u.applications.UpdateMatchScore(ctx, id, score); err != nil {
		return 0, ErrInternal
	}
	return score, nil
}

func (u *Applications) ListForJob(ctx context.Context, actor Actor, jobID uuid.UUID) ([]application.Application, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	if j.OwnerID != actor.ID {
		return nil, ErrForbidden
	}

	out, err := u.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Applications) ListMine(ctx context.Context, actor Actor) ([]application.Application, error) {
	out, err := u.applications.ListByApplicant(ctx, actor.ID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Applications) getApplication(ctx context.Context, id uuid.UUID) (application.Application, error) {
	a, err := u.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, ErrInternal
	}
	return a, nil
}

// rescoreAsync hands the application to the optional AI collaborator. The
// core works identically with it absent; any failure leaves the synchronous
// score in place.
func (u *Applications) rescoreAsync(id uuid.UUID, proposal string, skills, tags []string) {
	if u.rescorer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		score, err := u.rescorer.Score(ctx, proposal, skills, tags)
		if err != nil {
			if u.logger != nil {
				u.logger.Printf("AI rescore failed | application=%s error=%v", id, err)
			}
			return
		}
		if err := u.applications.UpdateMatchScore(ctx, id, score); err != nil && u.logger != nil {
			u.logger.Printf("AI rescore write failed | application=%s error=%v", id, err)
		}
	}()
}
