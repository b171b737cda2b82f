package user_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ferdiebergado/tokenkit/internal/user"
)

func newMockRepo(t *testing.T) (*user.SQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() = %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = conn.Close()
	})

	return user.NewRepository(conn), mock
}

func TestRepository_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 9, 10, 0, 0, 0, time.UTC)
	insert := regexp.QuoteMeta("INSERT INTO users")
	params := user.CreateParams{Email: "alice@example.com", PasswordHash: "$argon2id$hash", Role: user.RoleUser}

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "created",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insert).
					WithArgs(params.Email, params.PasswordHash, params.Role).
					WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "created_at", "updated_at"}).
						AddRow("1", params.Email, params.Role, now, now))
			},
		},
		{
			name: "duplicate email",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insert).
					WithArgs(params.Email, params.PasswordHash, params.Role).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
			},
			wantErr: user.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepo(t)
			tt.setup(mock)

			u, err := repo.Create(context.Background(), params)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("repo.Create() = %v, want: %v", err, tt.wantErr)
			}

			if tt.wantErr == nil && (u.ID != "1" || u.PasswordHash != params.PasswordHash) {
				t.Errorf("repo.Create() = %+v, want id 1 with the password hash", u)
			}
		})
	}
}

func TestRepository_FindByEmail(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 9, 10, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM users")

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(query).WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow("1", "alice@example.com", "hash", user.RoleAdmin, now, now))
	mock.ExpectQuery(query).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

	u, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("repo.FindByEmail() = %v", err)
	}
	if u.PasswordHash != "hash" || u.Role != user.RoleAdmin {
		t.Errorf("repo.FindByEmail() = %+v", u)
	}

	if _, err := repo.FindByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("repo.FindByEmail() = %v, want: %v", err, user.ErrNotFound)
	}
}

func TestRepository_Find(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	if _, err := repo.Find(context.Background(), "missing"); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("repo.Find() = %v, want: %v", err, user.ErrNotFound)
	}
}

func TestRepository_List(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 9, 10, 0, 0, 0, time.UTC)

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "created_at", "updated_at"}).
			AddRow("1", "a@example.com", user.RoleAdmin, now, now).
			AddRow("2", "b@example.com", user.RoleUser, now, now))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("repo.List() = %v", err)
	}

	if got, want := len(users), 2; got != want {
		t.Errorf("len(users) = %d, want: %d", got, want)
	}
}
