package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-connect/internal/domain/application"
	"campus-connect/internal/domain/job"
	"campus-connect/internal/domain/notification"
	"campus-connect/internal/domain/user"
	"campus-connect/internal/repository"
	"campus-connect/internal/usecase/notify"

	"github.com/google/uuid"
)

const testProposal = "I have two years of barista experience and a flexible class schedule."

func newApplicationsHarness(jobs *mockJobRepo, apps *mockApplicationRepo, profiles *mockProfileRepo, users *mockUserRepo) (*Applications, *fakeDB, *mockNotificationRepo) {
	db := &fakeDB{}
	nrepo := &mockNotificationRepo{}
	dispatcher := notify.NewDispatcher(nrepo, nil, nil, nil, time.Second)
	return NewApplicationUsecase(db, apps, jobs, profiles, users, dispatcher, nil, nil), db, nrepo
}

func publishedJob(ownerID uuid.UUID, tags ...string) job.Job {
	return job.Job{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Title:            "Campus barista",
		Tags:             tags,
		ModerationStatus: job.ModerationApproved,
		IsPublished:      true,
	}
}

func TestApplications_Apply_Success(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	applicant := user.User{ID: uuid.New(), Email: "student@campus.edu"}
	j := publishedJob(owner.ID, "coffee", "customer-service")
	jobs := newMockJobRepo(j)
	apps := newMockApplicationRepo()
	profiles := newMockProfileRepo(user.Profile{UserID: applicant.ID, Skills: []string{"coffee"}, Interests: []string{"music"}})
	uc, db, nrepo := newApplicationsHarness(jobs, apps, profiles, newMockUserRepo(owner, applicant))

	a, err := uc.Apply(context.Background(), Actor{ID: applicant.ID}, j.ID, testProposal, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Status != application.StatusPending {
		t.Fatalf("expected PENDING, got %s", a.Status)
	}
	if a.MatchScore == nil || *a.MatchScore != 50 {
		t.Fatalf("expected initial match score 50, got %v", a.MatchScore)
	}
	if jobs.appIncrements != 1 {
		t.Fatalf("expected application counter bumped")
	}
	if len(nrepo.created) != 1 || nrepo.created[0].Type != notification.TypeApplicationReceived {
		t.Fatalf("expected an APPLICATION_RECEIVED notification")
	}
	if nrepo.created[0].RecipientID != owner.ID {
		t.Fatalf("notification must target the posting owner")
	}
	if len(db.txs) != 1 || !db.txs[0].committed {
		t.Fatalf("expected a committed transaction")
	}
}

func TestApplications_Apply_OwnJob(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := publishedJob(owner.ID)
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockProfileRepo(), newMockUserRepo(owner))

	if _, err := uc.Apply(context.Background(), Actor{ID: owner.ID}, j.ID, testProposal, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestApplications_Apply_FilledJob(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := publishedJob(owner.ID)
	j.IsFilled = true
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockProfileRepo(), newMockUserRepo(owner))

	if _, err := uc.Apply(context.Background(), Actor{ID: uuid.New()}, j.ID, testProposal, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplications_Apply_ShortProposal(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := publishedJob(owner.ID)
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockProfileRepo(), newMockUserRepo(owner))

	if _, err := uc.Apply(context.Background(), Actor{ID: uuid.New()}, j.ID, "hire me", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestApplications_Apply_Duplicate(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	applicant := user.User{ID: uuid.New(), Email: "student@campus.edu"}
	j := publishedJob(owner.ID)
	apps := newMockApplicationRepo()
	apps.createErr = repository.ErrDuplicateApplication
	uc, db, nrepo := newApplicationsHarness(newMockJobRepo(j), apps, newMockProfileRepo(), newMockUserRepo(owner, applicant))

	if _, err := uc.Apply(context.Background(), Actor{ID: applicant.ID}, j.ID, testProposal, nil); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
	if len(nrepo.created) != 0 {
		t.Fatalf("duplicate apply must not notify")
	}
	if len(db.txs) != 1 || !db.txs[0].rolledBack {
		t.Fatalf("expected the transaction rolled back")
	}
}

func TestApplications_SetStatus_ShortlistNotifiesApplicant(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	applicant := user.User{ID: uuid.New(), Email: "student@campus.edu"}
	j := publishedJob(owner.ID)
	a := application.Application{ID: uuid.New(), JobID: j.ID, ApplicantID: applicant.ID, Status: application.StatusPending}
	uc, _, nrepo := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(a), newMockProfileRepo(), newMockUserRepo(owner, applicant))

	out, err := uc.SetStatus(context.Background(), Actor{ID: owner.ID}, a.ID, application.StatusShortlisted)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Status != application.StatusShortlisted {
		t.Fatalf("expected SHORTLISTED, got %s", out.Status)
	}
	if len(nrepo.created) != 1 || nrepo.created[0].Type != notification.TypeApplicationStatus {
		t.Fatalf("expected an APPLICATION_STATUS_CHANGED notification")
	}
	if nrepo.created[0].RecipientID != applicant.ID {
		t.Fatalf("notification must target the applicant")
	}
}

func TestApplications_SetStatus_NotOwner(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	a := application.Application{ID: uuid.New(), JobID: uuid.New(), ApplicantID: uuid.New(), Status: application.StatusPending}
	j := publishedJob(owner.ID)
	j.ID = a.JobID
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(a), newMockProfileRepo(), newMockUserRepo(owner))

	if _, err := uc.SetStatus(context.Background(), Actor{ID: a.ApplicantID}, a.ID, application.StatusRejected); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestApplications_SetStatus_AcceptedIsTerminal(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	applicant := user.User{ID: uuid.New(), Email: "student@campus.edu"}
	j := publishedJob(owner.ID)
	a := application.Application{ID: uuid.New(), JobID: j.ID, ApplicantID: applicant.ID, Status: application.StatusShortlisted}
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(a), newMockProfileRepo(), newMockUserRepo(owner, applicant))

	if _, err := uc.SetStatus(context.Background(), Actor{ID: owner.ID}, a.ID, application.StatusAccepted); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, target := range []application.Status{application.StatusRejected, application.StatusShortlisted, application.StatusPending} {
		if _, err := uc.SetStatus(context.Background(), Actor{ID: owner.ID}, a.ID, target); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition moving ACCEPTED to %s, got %v", target, err)
		}
	}
}

func TestApplications_SetStatus_SameStatus(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	applicant := user.User{ID: uuid.New(), Email: "student@campus.edu"}
	j := publishedJob(owner.ID)
	a := application.Application{ID: uuid.New(), JobID: j.ID, ApplicantID: applicant.ID, Status: application.StatusPending}
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(a), newMockProfileRepo(), newMockUserRepo(owner, applicant))

	if _, err := uc.SetStatus(context.Background(), Actor{ID: owner.ID}, a.ID, application.StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplications_SetStatus_ReconsiderRejected(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	applicant := user.User{ID: uuid.New(), Email: "student@campus.edu"}
	j := publishedJob(owner.ID)
	a := application.Application{ID: uuid.New(), JobID: j.ID, ApplicantID: applicant.ID, Status: application.StatusRejected}
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(a), newMockProfileRepo(), newMockUserRepo(owner, applicant))

	out, err := uc.SetStatus(context.Background(), Actor{ID: owner.ID}, a.ID, application.StatusPending)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Status != application.StatusPending {
		t.Fatalf("expected PENDING, got %s", out.Status)
	}
}

func TestApplications_RecalculateScore(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	applicant := user.User{ID: uuid.New(), Email: "student@campus.edu"}
	j := publishedJob(owner.ID, "go", "sql")
	a := application.Application{ID: uuid.New(), JobID: j.ID, ApplicantID: applicant.ID, Status: application.StatusPending}
	profiles := newMockProfileRepo(user.Profile{UserID: applicant.ID, Skills: []string{"go", "sql"}})
	apps := newMockApplicationRepo(a)
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), apps, profiles, newMockUserRepo(owner, applicant))

	score, err := uc.RecalculateScore(context.Background(), Actor{ID: applicant.ID}, a.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if score != 100 {
		t.Fatalf("expected 100, got %d", score)
	}

	if _, err := uc.RecalculateScore(context.Background(), Actor{ID: uuid.New()}, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a third party, got %v", err)
	}
}

func TestApplications_ListForJob_OwnerOnly(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := publishedJob(owner.ID)
	a := application.Application{ID: uuid.New(), JobID: j.ID, ApplicantID: uuid.New(), Status: application.StatusPending}
	uc, _, _ := newApplicationsHarness(newMockJobRepo(j), newMockApplicationRepo(a), newMockProfileRepo(), newMockUserRepo(owner))

	items, err := uc.ListForJob(context.Background(), Actor{ID: owner.ID}, j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 application, got %d", len(items))
	}

	if _, err := uc.ListForJob(context.Background(), Actor{ID: a.ApplicantID}, j.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
