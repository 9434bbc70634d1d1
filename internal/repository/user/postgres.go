package user

import (
	"context"
	"errors"
	"io"
	"log"

	"driphorizon/internal/db"
	"driphorizon/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, password, profile_image_ref)
VALUES ($1, $2, $3)
RETURNING id, username, password, profile_image_ref, created_at
`
	return r.scanUser(r.pool.QueryRow(ctx, q, u.Username, u.Password, u.ProfileImageRef))
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
SELECT id, username, password, profile_image_ref, created_at
FROM users
WHERE username = $1
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, username))
}

func (r *postgresRepo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, password, profile_image_ref)
VALUES ($1, $2, $3)
ON CONFLICT (username) DO UPDATE SET password = EXCLUDED.password
RETURNING id, username, password, profile_image_ref, created_at
`
	return r.scanUser(r.pool.QueryRow(ctx, q, u.Username, u.Password, u.ProfileImageRef))
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.ProfileImageRef, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	return &u, nil
}
