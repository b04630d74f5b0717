package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/call"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCallRequestNotFound = errors.New("call request not found")
	ErrOpenCallExists      = errors.New("open call request already exists")
)

type CallRequestRepository interface {
	Create(ctx context.Context, q database.Queryer, r call.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (call.Request, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]call.Request, error)

	Accept(ctx context.Context, q database.Queryer, id, roomID uuid.UUID, scheduledTime *time.Time) (int64, error)
	Reject(ctx context.Context, q database.Queryer, id uuid.UUID, reason *string) (int64, error)
	Cancel(ctx context.Context, q database.Queryer, id uuid.UUID) (int64, error)
	Complete(ctx context.Context, q database.Queryer, id uuid.UUID) (int64, error)
}

type PostgresCallRequestRepository struct {
	db database.DB
}

func NewPostgresCallRequestRepository(db database.DB) *PostgresCallRequestRepository {
	return &PostgresCallRequestRepository{db: db}
}

const callColumns = `id, job_id, application_id, requester_id, receiver_id, status, message,
	requested_time, scheduled_time, room_id, reject_reason, created_at, updated_at`

func (r *PostgresCallRequestRepository) Create(ctx context.Context, q database.Queryer, cr call.Request) error {
	_, err := q.Exec(ctx,
		`INSERT INTO call_requests (id, job_id, application_id, requester_id, receiver_id, status, message, requested_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cr.ID, cr.JobID, cr.ApplicationID, cr.RequesterID, cr.ReceiverID, cr.Status, cr.Message, cr.RequestedTime,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrOpenCallExists
		}
		return err
	}
	return nil
}

func (r *PostgresCallRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (call.Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+callColumns+` FROM call_requests WHERE id = $1`, id)

	var cr call.Request
	err := row.Scan(&cr.ID, &cr.JobID, &cr.ApplicationID, &cr.RequesterID, &cr.ReceiverID, &cr.Status,
		&cr.Message, &cr.RequestedTime, &cr.ScheduledTime, &cr.RoomID, &cr.RejectReason,
		&cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return call.Request{}, ErrCallRequestNotFound
		}
		return call.Request{}, err
	}
	return cr, nil
}

func (r *PostgresCallRequestRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]call.Request, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+callColumns+` FROM call_requests
		 WHERE requester_id = $1 OR receiver_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]call.Request, 0)
	for rows.Next() {
		var cr call.Request
		if err := rows.Scan(&cr.ID, &cr.JobID, &cr.ApplicationID, &cr.RequesterID, &cr.ReceiverID, &cr.Status,
			&cr.Message, &cr.RequestedTime, &cr.ScheduledTime, &cr.RoomID, &cr.RejectReason,
			&cr.CreatedAt, &cr.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCallRequestRepository) Accept(ctx context.Context, q database.Queryer, id, roomID uuid.UUID, scheduledTime *time.Time) (int64, error) {
	return q.Exec(ctx,
		`UPDATE call_requests
		 SET status = 'ACCEPTED', room_id = $2, scheduled_time = $3, updated_at = now()
		 WHERE id = $1 AND status = 'PENDING'`,
		id, roomID, scheduledTime,
	)
}

func (r *PostgresCallRequestRepository) Reject(ctx context.Context, q database.Queryer, id uuid.UUID, reason *string) (int64, error) {
	return q.Exec(ctx,
		`UPDATE call_requests
		 SET status = 'REJECTED', reject_reason = $2, updated_at = now()
		 WHERE id = $1 AND status = 'PENDING'`,
		id, reason,
	)
}

func (r *PostgresCallRequestRepository) Cancel(ctx context.Context, q database.Queryer, id uuid.UUID) (int64, error) {
	// The room grant dies with the request.
	return q.Exec(ctx,
		`UPDATE call_requests
		 SET status = 'CANCELLED', room_id = NULL, updated_at = now()
		 WHERE id = $1 AND status IN ('PENDING', 'ACCEPTED')`,
		id,
	)
}

func (r *PostgresCallRequestRepository) Complete(ctx context.Context, q database.Queryer, id uuid.UUID) (int64, error) {
	return q.Exec(ctx,
		`UPDATE call_requests
		 SET status = 'COMPLETED', room_id = NULL, updated_at = now()
		 WHERE id = $1 AND status = 'ACCEPTED'`,
		id,
	)
}
