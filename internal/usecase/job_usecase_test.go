package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-connect/internal/domain/job"
	"campus-connect/internal/domain/notification"
	"campus-connect/internal/domain/user"
	"campus-connect/internal/repository"
	"campus-connect/internal/usecase/notify"

	"github.com/google/uuid"
)

func newJobsHarness(jobs *mockJobRepo, apps *mockApplicationRepo, users *mockUserRepo) (*Jobs, *fakeDB, *mockNotificationRepo) {
	db := &fakeDB{}
	nrepo := &mockNotificationRepo{}
	dispatcher := notify.NewDispatcher(nrepo, nil, nil, nil, time.Second)
	return NewJobUsecase(db, jobs, apps, users, dispatcher, nil), db, nrepo
}

func TestJobs_Submit_DraftEntersModerationQueue(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), OwnerID: owner, Title: "Research assistant", IsDraft: true, ModerationStatus: job.ModerationPending}
	repo := newMockJobRepo(j)
	uc, _, _ := newJobsHarness(repo, newMockApplicationRepo(), newMockUserRepo())

	out, err := uc.Submit(context.Background(), Actor{ID: owner}, j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.IsDraft {
		t.Fatalf("expected draft flag cleared")
	}
	if out.ModerationStatus != job.ModerationPending {
		t.Fatalf("expected PENDING, got %s", out.ModerationStatus)
	}
}

func TestJobs_Submit_NotOwner(t *testing.T) {
	j := job.Job{ID: uuid.New(), OwnerID: uuid.New(), IsDraft: true}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo())

	if _, err := uc.Submit(context.Background(), Actor{ID: uuid.New()}, j.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestJobs_Submit_AlreadyPending(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), OwnerID: owner, IsDraft: false, ModerationStatus: job.ModerationPending}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo())

	if _, err := uc.Submit(context.Background(), Actor{ID: owner}, j.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestJobs_Submit_ResubmitAfterRejectionClearsReason(t *testing.T) {
	owner := uuid.New()
	reason := "too vague"
	j := job.Job{ID: uuid.New(), OwnerID: owner, IsDraft: false, ModerationStatus: job.ModerationRejected, RejectionReason: &reason}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo())

	out, err := uc.Submit(context.Background(), Actor{ID: owner}, j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.ModerationStatus != job.ModerationPending {
		t.Fatalf("expected PENDING, got %s", out.ModerationStatus)
	}
	if out.RejectionReason != nil {
		t.Fatalf("expected rejection reason cleared")
	}
}

func TestJobs_Moderate_RequiresAdmin(t *testing.T) {
	j := job.Job{ID: uuid.New(), OwnerID: uuid.New(), ModerationStatus: job.ModerationPending}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo())

	_, err := uc.Moderate(context.Background(), Actor{ID: uuid.New()}, j.ID, job.DecisionApprove, "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestJobs_Moderate_ApproveNotifiesOwner(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := job.Job{ID: uuid.New(), OwnerID: owner.ID, Title: "Lab tutor", ModerationStatus: job.ModerationPending}
	repo := newMockJobRepo(j)
	uc, db, nrepo := newJobsHarness(repo, newMockApplicationRepo(), newMockUserRepo(owner))

	out, err := uc.Moderate(context.Background(), Actor{ID: uuid.New(), IsAdmin: true}, j.ID, job.DecisionApprove, "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.ModerationStatus != job.ModerationApproved {
		t.Fatalf("expected APPROVED, got %s", out.ModerationStatus)
	}
	if len(nrepo.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(nrepo.created))
	}
	if nrepo.created[0].Type != notification.TypeJobApproved {
		t.Fatalf("unexpected notification type %s", nrepo.created[0].Type)
	}
	if nrepo.created[0].RecipientID != owner.ID {
		t.Fatalf("notification went to the wrong recipient")
	}
	if len(db.txs) != 1 || !db.txs[0].committed {
		t.Fatalf("expected a committed transaction")
	}
}

func TestJobs_Moderate_RejectRequiresReason(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := job.Job{ID: uuid.New(), OwnerID: owner.ID, ModerationStatus: job.ModerationPending}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo(owner))

	_, err := uc.Moderate(context.Background(), Actor{ID: uuid.New(), IsAdmin: true}, j.ID, job.DecisionReject, "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestJobs_Moderate_RejectStoresReasonAndUnpublishes(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := job.Job{ID: uuid.New(), OwnerID: owner.ID, Title: "Lab tutor", ModerationStatus: job.ModerationPending}
	uc, _, nrepo := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo(owner))

	out, err := uc.Moderate(context.Background(), Actor{ID: uuid.New(), IsAdmin: true}, j.ID, job.DecisionReject, "missing pay range")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.ModerationStatus != job.ModerationRejected {
		t.Fatalf("expected REJECTED, got %s", out.ModerationStatus)
	}
	if out.RejectionReason == nil || *out.RejectionReason != "missing pay range" {
		t.Fatalf("expected stored rejection reason")
	}
	if out.IsPublished {
		t.Fatalf("rejected posting must not stay published")
	}
	if len(nrepo.created) != 1 || nrepo.created[0].Type != notification.TypeJobRejected {
		t.Fatalf("expected a JOB_REJECTED notification")
	}
}

func TestJobs_Moderate_DecidedJobIsTerminal(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := job.Job{ID: uuid.New(), OwnerID: owner.ID, ModerationStatus: job.ModerationApproved}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo(owner))

	_, err := uc.Moderate(context.Background(), Actor{ID: uuid.New(), IsAdmin: true}, j.ID, job.DecisionApprove, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestJobs_Moderate_NotificationWriteAbortsTransition(t *testing.T) {
	owner := user.User{ID: uuid.New(), Email: "owner@campus.edu"}
	j := job.Job{ID: uuid.New(), OwnerID: owner.ID, ModerationStatus: job.ModerationPending}
	db := &fakeDB{}
	nrepo := &mockNotificationRepo{createErr: errors.New("insert failed")}
	dispatcher := notify.NewDispatcher(nrepo, nil, nil, nil, time.Second)
	uc := NewJobUsecase(db, newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo(owner), dispatcher, nil)

	_, err := uc.Moderate(context.Background(), Actor{ID: uuid.New(), IsAdmin: true}, j.ID, job.DecisionApprove, "")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if len(db.txs) != 1 || !db.txs[0].rolledBack {
		t.Fatalf("expected the transaction rolled back")
	}
}

func TestJobs_SetPublished_RequiresApproval(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), OwnerID: owner, ModerationStatus: job.ModerationPending}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo())

	if _, err := uc.SetPublished(context.Background(), Actor{ID: owner}, j.ID, true); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestJobs_SetPublished_ApprovedJob(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), OwnerID: owner, ModerationStatus: job.ModerationApproved}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo())

	out, err := uc.SetPublished(context.Background(), Actor{ID: owner}, j.ID, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !out.IsPublished {
		t.Fatalf("expected published")
	}
}

func TestJobs_SetFilled_FansOutToOpenApplicantsOnly(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), OwnerID: owner, Title: "Barista", ModerationStatus: job.ModerationApproved, IsPublished: true}
	apps := newMockApplicationRepo()
	openA := repository.OpenApplicant{ApplicationID: uuid.New(), ApplicantID: uuid.New(), Email: "a@campus.edu"}
	openB := repository.OpenApplicant{ApplicationID: uuid.New(), ApplicantID: uuid.New(), Email: "b@campus.edu"}
	apps.open = []repository.OpenApplicant{openA, openB}
	uc, db, nrepo := newJobsHarness(newMockJobRepo(j), apps, newMockUserRepo())

	out, err := uc.SetFilled(context.Background(), Actor{ID: owner}, j.ID, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !out.IsFilled {
		t.Fatalf("expected filled")
	}
	if len(nrepo.created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(nrepo.created))
	}
	recipients := map[uuid.UUID]bool{}
	for _, n := range nrepo.created {
		if n.Type != notification.TypeJobFilled {
			t.Fatalf("unexpected notification type %s", n.Type)
		}
		recipients[n.RecipientID] = true
	}
	if !recipients[openA.ApplicantID] || !recipients[openB.ApplicantID] {
		t.Fatalf("fan-out missed an open applicant")
	}
	if len(db.txs) != 1 || !db.txs[0].committed {
		t.Fatalf("expected a committed transaction")
	}
}

func TestJobs_SetFilled_SameValueIsInvalid(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), OwnerID: owner, ModerationStatus: job.ModerationApproved, IsPublished: true, IsFilled: true}
	uc, _, nrepo := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo())

	if _, err := uc.SetFilled(context.Background(), Actor{ID: owner}, j.ID, true); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(nrepo.created) != 0 {
		t.Fatalf("no notifications expected on a no-op fill")
	}
}

func TestJobs_SetFilled_ReopenIsSilent(t *testing.T) {
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), OwnerID: owner, ModerationStatus: job.ModerationApproved, IsPublished: true, IsFilled: true}
	apps := newMockApplicationRepo()
	apps.open = []repository.OpenApplicant{{ApplicationID: uuid.New(), ApplicantID: uuid.New(), Email: "a@campus.edu"}}
	uc, _, nrepo := newJobsHarness(newMockJobRepo(j), apps, newMockUserRepo())

	out, err := uc.SetFilled(context.Background(), Actor{ID: owner}, j.ID, false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.IsFilled {
		t.Fatalf("expected reopened")
	}
	if len(nrepo.created) != 0 {
		t.Fatalf("reopening must not notify anyone")
	}
}

func TestJobs_Get_UnpublishedHiddenFromStrangers(t *testing.T) {
	j := job.Job{ID: uuid.New(), OwnerID: uuid.New(), ModerationStatus: job.ModerationApproved}
	uc, _, _ := newJobsHarness(newMockJobRepo(j), newMockApplicationRepo(), newMockUserRepo())

	if _, err := uc.Get(context.Background(), Actor{ID: uuid.New()}, j.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobs_Get_PublishedViewCountsForStrangers(t *testing.T) {
	j := job.Job{ID: uuid.New(), OwnerID: uuid.New(), ModerationStatus: job.ModerationApproved, IsPublished: true}
	repo := newMockJobRepo(j)
	uc, _, _ := newJobsHarness(repo, newMockApplicationRepo(), newMockUserRepo())

	if _, err := uc.Get(context.Background(), Actor{ID: uuid.New()}, j.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.viewIncrements != 1 {
		t.Fatalf("expected 1 view increment, got %d", repo.viewIncrements)
	}

	if _, err := uc.Get(context.Background(), Actor{ID: j.OwnerID}, j.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.viewIncrements != 1 {
		t.Fatalf("owner views must not count")
	}
}
