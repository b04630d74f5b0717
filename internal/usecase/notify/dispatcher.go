package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/notification"
	"campus-connect/internal/mail"
	"campus-connect/internal/repository"
	"campus-connect/internal/ws"

	"github.com/google/uuid"
)

// Event is one fan-out triggered by a lifecycle transition. The caller
// resolves the recipient's address up front so delivery never has to read
// entity state again.
type Event struct {
	Type           notification.Type
	RecipientID    uuid.UUID
	RecipientEmail string
	Title          string
	Body           string
	Link           *string
	EmailKind      mail.Kind
	EmailData      map[string]string
}

// DispatchResult tags the two effects separately: the in-app write is part
// of the transition's durable record, the email is not. Callers branch only
// on NotificationWritten; email failure surfaces as a logged warning.
type DispatchResult struct {
	NotificationWritten bool
	Notification        notification.Notification

	event Event
}

type Dispatcher struct {
	notifications repository.NotificationRepository
	mailer        mail.Mailer
	hub           *ws.Hub
	logger        *log.Logger
	emailTimeout  time.Duration
}

func NewDispatcher(notifications repository.NotificationRepository, mailer mail.Mailer, hub *ws.Hub, logger *log.Logger, emailTimeout time.Duration) *Dispatcher {
	if emailTimeout <= 0 {
		emailTimeout = 5 * time.Second
	}
	return &Dispatcher{
		notifications: notifications,
		mailer:        mailer,
		hub:           hub,
		logger:        logger,
		emailTimeout:  emailTimeout,
	}
}

// Stage writes the in-app notification row on the caller's transaction. An
// error here must abort the whole transition: the row is considered part of
// the transition itself. Email and push happen in Deliver, after commit.
func (d *Dispatcher) Stage(ctx context.Context, q database.Queryer, ev Event) (DispatchResult, error) {
	n := notification.Notification{
		ID:          uuid.New(),
		RecipientID: ev.RecipientID,
		Type:        ev.Type,
		Title:       ev.Title,
		Body:        ev.Body,
		Link:        ev.Link,
		CreatedAt:   time.Now().UTC(),
	}

	if err := d.notifications.CreateIn(ctx, q, n); err != nil {
		return DispatchResult{}, err
	}

	return DispatchResult{NotificationWritten: true, Notification: n, event: ev}, nil
}

// Deliver runs the best-effort side of the fan-out: a websocket push to the
// recipient and a fire-and-forget email with a bounded timeout. Neither can
// fail the transition that staged the result; failures are logged.
func (d *Dispatcher) Deliver(res DispatchResult) {
	if !res.NotificationWritten {
		return
	}

	d.push(res.Notification)

	ev := res.event
	if d.mailer == nil || ev.RecipientEmail == "" || ev.EmailKind == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.emailTimeout)
		defer cancel()

		if err := d.mailer.Send(ctx, ev.RecipientEmail, ev.EmailKind, ev.EmailData); err != nil {
			if d.logger != nil {
				d.logger.Printf("Email send failed | type=%s recipient=%s error=%v", ev.Type, ev.RecipientID, err)
			}
		}
	}()
}

type pushPayload struct {
	ID        uuid.UUID         `json:"id"`
	Type      notification.Type `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Link      *string           `json:"link,omitempty"`
	CreatedAt string            `json:"created_at"`
}

func (d *Dispatcher) push(n notification.Notification) {
	if d.hub == nil {
		return
	}
	b, err := json.Marshal(pushPayload{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Link:      n.Link,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	d.hub.SendToUser(n.RecipientID, b)
}
