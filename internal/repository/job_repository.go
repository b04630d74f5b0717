package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(ctx context.Context, j job.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	UpdateContent(ctx context.Context, id uuid.UUID, title, description string, tags []string) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListPublished(ctx context.Context, limit, offset int) ([]job.Job, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]job.Job, error)
	ListPendingModeration(ctx context.Context, limit, offset int) ([]job.Job, error)

	// Transition writes. Each is a single conditional UPDATE guarded on the
	// current state; zero rows affected means the guard did not hold.
	Submit(ctx context.Context, q database.Queryer, id uuid.UUID) (int64, error)
	Moderate(ctx context.Context, q database.Queryer, id uuid.UUID, status job.ModerationStatus, reason *string) (int64, error)
	SetPublished(ctx context.Context, q database.Queryer, id uuid.UUID, published bool) (int64, error)
	SetFilled(ctx context.Context, q database.Queryer, id uuid.UUID, filled bool) (int64, error)

	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementApplications(ctx context.Context, q database.Queryer, id uuid.UUID) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, owner_id, title, description, tags, moderation_status, is_draft,
	is_published, is_filled, rejection_reason, view_count, application_count, created_at, updated_at`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, owner_id, title, description, tags, moderation_status, is_draft)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		j.ID, j.OwnerID, j.Title, j.Description, j.Tags, j.ModerationStatus, j.IsDraft,
	)
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *PostgresJobRepository) UpdateContent(ctx context.Context, id uuid.UUID, title, description string, tags []string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE jobs SET title = $2, description = $3, tags = $4, updated_at = now() WHERE id = $1`,
		id, title, description, tags,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListPublished(ctx context.Context, limit, offset int) ([]job.Job, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE is_published
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanJobs(rows)
}

func (r *PostgresJobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	return scanJobs(rows)
}

func (r *PostgresJobRepository) ListPendingModeration(ctx context.Context, limit, offset int) ([]job.Job, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE moderation_status = 'PENDING' AND NOT is_draft
		 ORDER BY created_at ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanJobs(rows)
}

func (r *PostgresJobRepository) Submit(ctx context.Context, q database.Queryer, id uuid.UUID) (int64, error) {
	return q.Exec(ctx,
		`UPDATE jobs
		 SET is_draft = FALSE, moderation_status = 'PENDING', rejection_reason = NULL, updated_at = now()
		 WHERE id = $1 AND (is_draft OR moderation_status = 'REJECTED')`,
		id,
	)
}

func (r *PostgresJobRepository) Moderate(ctx context.Context, q database.Queryer, id uuid.UUID, status job.ModerationStatus, reason *string) (int64, error) {
	return q.Exec(ctx,
		`UPDATE jobs
		 SET moderation_status = $2,
		     rejection_reason = $3,
		     is_published = CASE WHEN $2 = 'REJECTED' THEN FALSE ELSE is_published END,
		     updated_at = now()
		 WHERE id = $1 AND moderation_status = 'PENDING' AND NOT is_draft`,
		id, status, reason,
	)
}

func (r *PostgresJobRepository) SetPublished(ctx context.Context, q database.Queryer, id uuid.UUID, published bool) (int64, error) {
	return q.Exec(ctx,
		`UPDATE jobs
		 SET is_published = $2, updated_at = now()
		 WHERE id = $1 AND moderation_status = 'APPROVED' AND NOT is_draft`,
		id, published,
	)
}

func (r *PostgresJobRepository) SetFilled(ctx context.Context, q database.Queryer, id uuid.UUID, filled bool) (int64, error) {
	return q.Exec(ctx,
		`UPDATE jobs
		 SET is_filled = $2, updated_at = now()
		 WHERE id = $1 AND is_published AND is_filled <> $2`,
		id, filled,
	)
}

func (r *PostgresJobRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func (r *PostgresJobRepository) IncrementApplications(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	_, err := q.Exec(ctx, `UPDATE jobs SET application_count = application_count + 1 WHERE id = $1`, id)
	return err
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(&j.ID, &j.OwnerID, &j.Title, &j.Description, &j.Tags, &j.ModerationStatus,
		&j.IsDraft, &j.IsPublished, &j.IsFilled, &j.RejectionReason,
		&j.ViewCount, &j.ApplicationCount, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func scanJobs(rows database.Rows) ([]job.Job, error) {
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(&j.ID, &j.OwnerID, &j.Title, &j.Description, &j.Tags, &j.ModerationStatus,
			&j.IsDraft, &j.IsPublished, &j.IsFilled, &j.RejectionReason,
			&j.ViewCount, &j.ApplicationCount, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}
