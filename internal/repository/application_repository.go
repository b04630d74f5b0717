package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/application"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("duplicate application")
)

// OpenApplicant is an applicant whose application is still undecided,
// targeted by the fill fan-out.
type OpenApplicant struct {
	ApplicationID uuid.UUID
	ApplicantID   uuid.UUID
	Email         string
}

type ApplicationRepository interface {
	Create(ctx context.Context, q database.Queryer, a application.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]application.Application, error)

	// UpdateStatus moves the application to target only when the current
	// status is one of from; the guard makes the terminal-state check atomic.
	UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, target application.Status, from []application.Status) (int64, error)

	UpdateMatchScore(ctx context.Context, id uuid.UUID, score int) error
	ListOpenByJob(ctx context.Context, q database.Queryer, jobID uuid.UUID) ([]OpenApplicant, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, applicant_id, status, proposal, resume_ref, match_score, created_at, updated_at`

func (r *PostgresApplicationRepository) Create(ctx context.Context, q database.Queryer, a application.Application) error {
	_, err := q.Exec(ctx,
		`INSERT INTO applications (id, job_id, applicant_id, status, proposal, resume_ref, match_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.JobID, a.ApplicantID, a.Status, a.Proposal, a.ResumeRef, a.MatchScore,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	var a application.Application
	err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.Proposal, &a.ResumeRef,
		&a.MatchScore, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY match_score DESC NULLS LAST, created_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	return scanApplications(rows)
}

func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`,
		applicantID,
	)
	if err != nil {
		return nil, err
	}
	return scanApplications(rows)
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, target application.Status, from []application.Status) (int64, error) {
	states := make([]string, 0, len(from))
	for _, s := range from {
		states = append(states, string(s))
	}
	return q.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = now() WHERE id = $1 AND status = ANY($3)`,
		id, target, states,
	)
}

func (r *PostgresApplicationRepository) UpdateMatchScore(ctx context.Context, id uuid.UUID, score int) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE applications SET match_score = $2, updated_at = now() WHERE id = $1`,
		id, score,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) ListOpenByJob(ctx context.Context, q database.Queryer, jobID uuid.UUID) ([]OpenApplicant, error) {
	rows, err := q.Query(ctx,
		`SELECT a.id, a.applicant_id, u.email
		 FROM applications a
		 JOIN users u ON u.id = a.applicant_id
		 WHERE a.job_id = $1 AND a.status IN ('PENDING', 'SHORTLISTED')`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OpenApplicant, 0)
	for rows.Next() {
		var oa OpenApplicant
		if err := rows.Scan(&oa.ApplicationID, &oa.ApplicantID, &oa.Email); err != nil {
			return nil, err
		}
		out = append(out, oa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplications(rows database.Rows) ([]application.Application, error) {
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		var a application.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.Proposal, &a.ResumeRef,
			&a.MatchScore, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
