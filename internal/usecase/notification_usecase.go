package usecase

import (
	"context"
	"errors"

	"campus-connect/internal/domain/notification"
	"campus-connect/internal/repository"

	"github.com/google/uuid"
)

type NotificationUsecase interface {
	List(ctx context.Context, actor Actor, limit, offset int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, actor Actor, id uuid.UUID) error
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type Notifications struct {
	notifications repository.NotificationRepository
}

func NewNotificationUsecase(notifications repository.NotificationRepository) *Notifications {
	return &Notifications{notifications: notifications}
}

func (u *Notifications) List(ctx context.Context, actor Actor, limit, offset int) ([]notification.Notification, error) {
	out, err := u.notifications.ListByRecipient(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// MarkRead and Delete are scoped to the recipient by the repository query,
// so a foreign notification id simply does not resolve.
func (u *Notifications) MarkRead(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := u.notifications.MarkRead(ctx, id, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *Notifications) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := u.notifications.Delete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}
