package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const uniqueViolation = "23505"

// Create inserts a new user.
func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		normalizeEmail(user.Email),
		user.FullName,
		user.PasswordHash,
		user.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// GetByEmail returns the user registered under email.
func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, full_name, password_hash, created_at
FROM users WHERE email = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, normalizeEmail(email)))
}

// GetByID returns a user by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (User, error) {
	const query = `
SELECT id, email, full_name, password_hash, created_at
FROM users WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}
