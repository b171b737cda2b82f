package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ferdiebergado/tokenkit/internal/platform/db"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

const uniqueViolation = "23505"

var _ Repository = (*SQLRepository)(nil)

type SQLRepository struct {
	db db.Executor
}

func NewRepository(conn db.Executor) *SQLRepository {
	return &SQLRepository{db: conn}
}

type CreateParams struct {
	Email        string
	PasswordHash string
	Role         string
}

const queryCreate = `
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id, email, role, created_at, updated_at`

func (r *SQLRepository) Create(ctx context.Context, params CreateParams) (User, error) {
	var u User
	err := db.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, queryCreate, params.Email, params.PasswordHash, params.Role).
		Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return u, ErrDuplicateEmail
		}
		return u, fmt.Errorf("create user with email %s: %w", params.Email, err)
	}
	u.PasswordHash = params.PasswordHash
	return u, nil
}

const queryFind = `
SELECT id, email, role, created_at, updated_at
FROM users
WHERE id = $1`

func (r *SQLRepository) Find(ctx context.Context, userID string) (*User, error) {
	var u User
	err := db.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, queryFind, userID).
		Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user with id %s: %w", userID, err)
	}
	return &u, nil
}

const queryFindByEmail = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM users
WHERE email = $1
LIMIT 1`

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := db.ExecutorFromContext(ctx, r.db).
		QueryRowContext(ctx, queryFindByEmail, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user with email %s: %w", email, err)
	}
	return &u, nil
}

const queryList = `
SELECT id, email, role, created_at, updated_at
FROM users
ORDER BY created_at`

func (r *SQLRepository) List(ctx context.Context) ([]User, error) {
	rows, err := db.ExecutorFromContext(ctx, r.db).QueryContext(ctx, queryList)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	//nolint:prealloc //Cannot identify the length of the rows without running another query.
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over user rows: %w", err)
	}

	return users, nil
}
