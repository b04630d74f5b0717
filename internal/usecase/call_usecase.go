package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/call"
	"campus-connect/internal/domain/notification"
	"campus-connect/internal/mail"
	"campus-connect/internal/repository"
	"campus-connect/internal/usecase/notify"
	"campus-connect/internal/video"

	"github.com/google/uuid"
)

type CallJoin struct {
	RoomID uuid.UUID
	Token  string
}

type CallUsecase interface {
	Request(ctx context.Context, actor Actor, jobID uuid.UUID, receiverID uuid.UUID, applicationID *uuid.UUID, requestedTime *time.Time, message string) (call.Request, error)
	Accept(ctx context.Context, actor Actor, id uuid.UUID, scheduledTime *time.Time) (call.Request, error)
	Reject(ctx context.Context, actor Actor, id uuid.UUID, reason string) (call.Request, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (call.Request, error)
	Complete(ctx context.Context, actor Actor, id uuid.UUID) (call.Request, error)
	Join(ctx context.Context, actor Actor, id uuid.UUID) (CallJoin, error)

	ListMine(ctx context.Context, actor Actor) ([]call.Request, error)
}

type Calls struct {
	db         database.DB
	calls      repository.CallRequestRepository
	jobs       repository.JobRepository
	users      repository.UserRepository
	dispatcher *notify.Dispatcher
	video      video.Service
	logger     *log.Logger
}

func NewCallUsecase(db database.DB, calls repository.CallRequestRepository, jobs repository.JobRepository, users repository.UserRepository, dispatcher *notify.Dispatcher, videoSvc video.Service, logger *log.Logger) *Calls {
	return &Calls{db: db, calls: calls, jobs: jobs, users: users, dispatcher: dispatcher, video: videoSvc, logger: logger}
}

// Request opens an interview request between the two parties of a posting.
// At most one open request may exist per (job, requester, receiver) triple;
// the partial unique index enforces that without a read-then-write race.
func (u *Calls) Request(ctx context.Context, actor Actor, jobID, receiverID uuid.UUID, applicationID *uuid.UUID, requestedTime *time.Time, message string) (call.Request, error) {
	if receiverID == uuid.Nil || receiverID == actor.ID {
		return call.Request{}, ErrInvalidInput
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return call.Request{}, ErrNotFound
		}
		return call.Request{}, ErrInternal
	}

	// One side of the call must be the posting's owner.
	if actor.ID != j.OwnerID && receiverID != j.OwnerID {
		return call.Request{}, ErrForbidden
	}

	receiver, err := u.users.GetUserByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return call.Request{}, ErrNotFound
		}
		return call.Request{}, ErrInternal
	}

	cr := call.Request{
		ID:            uuid.New(),
		JobID:         jobID,
		ApplicationID: applicationID,
		RequesterID:   actor.ID,
		ReceiverID:    receiverID,
		Status:        call.StatusPending,
		Message:       strings.TrimSpace(message),
		RequestedTime: requestedTime,
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := u.calls.Create(ctx, tx, cr); err != nil {
		if errors.Is(err, repository.ErrOpenCallExists) {
			return call.Request{}, ErrDuplicateRequest
		}
		return call.Request{}, ErrInternal
	}

	staged, err := u.dispatcher.Stage(ctx, tx, notify.Event{
		Type:           notification.TypeCallRequestReceived,
		RecipientID:    receiverID,
		RecipientEmail: receiver.Email,
		Title:          "Interview call requested",
		Body:           fmt.Sprintf("You received a call request about %q.", j.Title),
		EmailKind:      mail.KindCallReceived,
		EmailData:      map[string]string{"job_title": j.Title},
	})
	if err != nil {
		return call.Request{}, ErrServiceUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return call.Request{}, ErrInternal
	}
	u.dispatcher.Deliver(staged)

	return u.reload(ctx, cr.ID)
}

// Accept allocates a room from the transport collaborator before touching
// request state, so a transport outage leaves the request untouched and
// retryable.
func (u *Calls) Accept(ctx context.Context, actor Actor, id uuid.UUID, scheduledTime *time.Time) (call.Request, error) {
	cr, err := u.getRequest(ctx, id)
	if err != nil {
		return call.Request{}, err
	}
	if cr.ReceiverID != actor.ID {
		return call.Request{}, ErrForbidden
	}
	if cr.Status != call.StatusPending {
		return call.Request{}, ErrInvalidTransition
	}

	roomID, err := u.video.AllocateRoom()
	if err != nil {
		return call.Request{}, ErrServiceUnavailable
	}

	requester, err := u.users.GetUserByID(ctx, cr.RequesterID)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	j, err := u.jobs.GetByID(ctx, cr.JobID)
	if err != nil {
		return call.Request{}, ErrInternal
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	defer func() { _ = tx.Rollback(ctx) }()

	affected, err := u.calls.Accept(ctx, tx, id, roomID, scheduledTime)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	if affected == 0 {
		return call.Request{}, ErrInvalidTransition
	}

	link := u.video.JoinLink(roomID)
	staged, err := u.dispatcher.Stage(ctx, tx, notify.Event{
		Type:           notification.TypeCallRequestAccepted,
		RecipientID:    cr.RequesterID,
		RecipientEmail: requester.Email,
		Title:          "Interview call accepted",
		Body:           fmt.Sprintf("Your call request about %q was accepted.", j.Title),
		Link:           &link,
		EmailKind:      mail.KindCallAccepted,
		EmailData:      map[string]string{"job_title": j.Title, "link": link},
	})
	if err != nil {
		return call.Request{}, ErrServiceUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return call.Request{}, ErrInternal
	}
	u.dispatcher.Deliver(staged)

	return u.reload(ctx, id)
}

func (u *Calls) Reject(ctx context.Context, actor Actor, id uuid.UUID, reason string) (call.Request, error) {
	cr, err := u.getRequest(ctx, id)
	if err != nil {
		return call.Request{}, err
	}
	if cr.ReceiverID != actor.ID {
		return call.Request{}, ErrForbidden
	}

	requester, err := u.users.GetUserByID(ctx, cr.RequesterID)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	j, err := u.jobs.GetByID(ctx, cr.JobID)
	if err != nil {
		return call.Request{}, ErrInternal
	}

	reason = strings.TrimSpace(reason)
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	defer func() { _ = tx.Rollback(ctx) }()

	affected, err := u.calls.Reject(ctx, tx, id, reasonPtr)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	if affected == 0 {
		return call.Request{}, ErrInvalidTransition
	}

	staged, err := u.dispatcher.Stage(ctx, tx, notify.Event{
		Type:           notification.TypeCallRequestRejected,
		RecipientID:    cr.RequesterID,
		RecipientEmail: requester.Email,
		Title:          "Interview call declined",
		Body:           fmt.Sprintf("Your call request about %q was declined.", j.Title),
		EmailKind:      mail.KindCallRejected,
		EmailData:      map[string]string{"job_title": j.Title, "reason": reason},
	})
	if err != nil {
		return call.Request{}, ErrServiceUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return call.Request{}, ErrInternal
	}
	u.dispatcher.Deliver(staged)

	return u.reload(ctx, id)
}

// Cancel is available to either party while the request is still open. The
// other party is told; the room grant, if any, dies with the request.
func (u *Calls) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (call.Request, error) {
	cr, err := u.getRequest(ctx, id)
	if err != nil {
		return call.Request{}, err
	}
	if !cr.Party(actor.ID) {
		return call.Request{}, ErrForbidden
	}

	otherID := cr.RequesterID
	if actor.ID == cr.RequesterID {
		otherID = cr.ReceiverID
	}
	other, err := u.users.GetUserByID(ctx, otherID)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	j, err := u.jobs.GetByID(ctx, cr.JobID)
	if err != nil {
		return call.Request{}, ErrInternal
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	defer func() { _ = tx.Rollback(ctx) }()

	affected, err := u.calls.Cancel(ctx, tx, id)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	if affected == 0 {
		return call.Request{}, ErrInvalidTransition
	}

	staged, err := u.dispatcher.Stage(ctx, tx, notify.Event{
		Type:           notification.TypeCallRequestCancelled,
		RecipientID:    otherID,
		RecipientEmail: other.Email,
		Title:          "Interview call cancelled",
		Body:           fmt.Sprintf("The call about %q was cancelled.", j.Title),
		EmailKind:      mail.KindCallCancelled,
		EmailData:      map[string]string{"job_title": j.Title},
	})
	if err != nil {
		return call.Request{}, ErrServiceUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return call.Request{}, ErrInternal
	}
	u.dispatcher.Deliver(staged)

	return u.reload(ctx, id)
}

func (u *Calls) Complete(ctx context.Context, actor Actor, id uuid.UUID) (call.Request, error) {
	cr, err := u.getRequest(ctx, id)
	if err != nil {
		return call.Request{}, err
	}
	if !cr.Party(actor.ID) {
		return call.Request{}, ErrForbidden
	}

	affected, err := u.calls.Complete(ctx, u.db, id)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	if affected == 0 {
		return call.Request{}, ErrInvalidTransition
	}
	return u.reload(ctx, id)
}

// Join issues a short-lived room token. Token issuance failure is a
// retryable outage, distinct from the caller not being allowed in.
func (u *Calls) Join(ctx context.Context, actor Actor, id uuid.UUID) (CallJoin, error) {
	cr, err := u.getRequest(ctx, id)
	if err != nil {
		return CallJoin{}, err
	}
	if !cr.Party(actor.ID) {
		return CallJoin{}, ErrForbidden
	}
	if cr.Status != call.StatusAccepted || cr.RoomID == nil {
		return CallJoin{}, ErrInvalidTransition
	}

	token, err := u.video.IssueToken(*cr.RoomID, actor.ID)
	if err != nil {
		return CallJoin{}, ErrServiceUnavailable
	}
	return CallJoin{RoomID: *cr.RoomID, Token: token}, nil
}

func (u *Calls) ListMine(ctx context.Context, actor Actor) ([]call.Request, error) {
	out, err := u.calls.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Calls) getRequest(ctx context.Context, id uuid.UUID) (call.Request, error) {
	cr, err := u.calls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCallRequestNotFound) {
			return call.Request{}, ErrNotFound
		}
		return call.Request{}, ErrInternal
	}
	return cr, nil
}

func (u *Calls) reload(ctx context.Context, id uuid.UUID) (call.Request, error) {
	cr, err := u.calls.GetByID(ctx, id)
	if err != nil {
		return call.Request{}, ErrInternal
	}
	return cr, nil
}
