package repository

import (
	"context"
	"errors"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/notification"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	// CreateIn takes a Queryer so the insert can ride the same transaction
	// as the state transition that triggered it.
	CreateIn(ctx context.Context, q database.Queryer, n notification.Notification) error

	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	Delete(ctx context.Context, id, recipientID uuid.UUID) error
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateIn(ctx context.Context, q database.Queryer, n notification.Notification) error {
	_, err := q.Exec(ctx,
		`INSERT INTO notifications (id, recipient_id, type, title, body, link)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.RecipientID, n.Type, n.Title, n.Body, n.Link,
	)
	return err
}

func (r *PostgresNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, recipient_id, type, title, body, link, is_read, created_at
		 FROM notifications
		 WHERE recipient_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		recipientID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Body, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, id, recipientID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
