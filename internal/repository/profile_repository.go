package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	CreateProfile(ctx context.Context, p user.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	UpdateProfile(ctx context.Context, p user.Profile) error
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, p user.Profile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, user_id, full_name, headline, is_seeker, is_finder, skills, interests)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.FullName, p.Headline, p.IsSeeker, p.IsFinder, p.Skills, p.Interests,
	)
	return err
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, full_name, headline, is_seeker, is_finder, skills, interests, created_at, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	)

	var p user.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Headline, &p.IsSeeker, &p.IsFinder,
		&p.Skills, &p.Interests, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, ErrProfileNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) UpdateProfile(ctx context.Context, p user.Profile) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET full_name = $2, headline = $3, is_seeker = $4, is_finder = $5, skills = $6, interests = $7, updated_at = now()
		 WHERE user_id = $1`,
		p.UserID, p.FullName, p.Headline, p.IsSeeker, p.IsFinder, p.Skills, p.Interests,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
