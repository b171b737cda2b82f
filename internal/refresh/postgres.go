package refresh

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/platform/db"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps records in the refresh_tokens table. Every method
// joins the transaction carried by ctx, if any.
type PostgresStore struct {
	db  db.Executor
	now func() time.Time
}

func NewPostgresStore(conn db.Executor, opts ...Option) *PostgresStore {
	o := newOptions(opts)
	return &PostgresStore{
		db:  conn,
		now: o.now,
	}
}

func (s *PostgresStore) exec(ctx context.Context) db.Executor {
	return db.ExecutorFromContext(ctx, s.db)
}

const insertQuery = `
INSERT INTO refresh_tokens (token, owner_id, expires_at, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (token) DO NOTHING`

func (s *PostgresStore) Insert(ctx context.Context, token, ownerID string, expiresAt time.Time) error {
	now := s.now().UTC()
	if !expiresAt.After(now) {
		return ErrExpired
	}

	res, err := s.exec(ctx).ExecContext(ctx, insertQuery, token, ownerID, expiresAt.UTC(), now)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert refresh token rows affected: %w", err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

const findActiveQuery = `
SELECT token, owner_id, expires_at, created_at, revoked
FROM refresh_tokens
WHERE token = $1 AND revoked = false AND expires_at > $2`

func (s *PostgresStore) FindActive(ctx context.Context, token string) (*Record, error) {
	var rec Record
	err := s.exec(ctx).QueryRowContext(ctx, findActiveQuery, token, s.now().UTC()).
		Scan(&rec.Token, &rec.OwnerID, &rec.ExpiresAt, &rec.CreatedAt, &rec.Revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find active refresh token: %w", err)
	}
	return &rec, nil
}

const consumeQuery = `
UPDATE refresh_tokens
SET revoked = true, revoked_at = $2
WHERE token = $1 AND revoked = false AND expires_at > $2
RETURNING token, owner_id, expires_at, created_at`

const statusQuery = `
SELECT revoked, expires_at
FROM refresh_tokens
WHERE token = $1`

func (s *PostgresStore) Consume(ctx context.Context, token string) (*Record, error) {
	exec := s.exec(ctx)
	now := s.now().UTC()

	var rec Record
	err := exec.QueryRowContext(ctx, consumeQuery, token, now).
		Scan(&rec.Token, &rec.OwnerID, &rec.ExpiresAt, &rec.CreatedAt)
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}

	var (
		revoked   bool
		expiresAt time.Time
	)
	err = exec.QueryRowContext(ctx, statusQuery, token).Scan(&revoked, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("read refresh token status: %w", err)
	case revoked:
		return nil, ErrRevoked
	default:
		return nil, ErrExpired
	}
}

const revokeQuery = `
UPDATE refresh_tokens
SET revoked = true, revoked_at = COALESCE(revoked_at, $2)
WHERE token = $1`

func (s *PostgresStore) Revoke(ctx context.Context, token string) error {
	res, err := s.exec(ctx).ExecContext(ctx, revokeQuery, token, s.now().UTC())
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke refresh token rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const revokeOwnerQuery = `
UPDATE refresh_tokens
SET revoked = true, revoked_at = $2
WHERE owner_id = $1 AND revoked = false`

func (s *PostgresStore) RevokeOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := s.exec(ctx).ExecContext(ctx, revokeOwnerQuery, ownerID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens of owner %s: %w", ownerID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("revoke owner rows affected: %w", err)
	}
	return n, nil
}

const deleteExpiredOrRevokedQuery = `
DELETE FROM refresh_tokens
WHERE revoked = true OR expires_at <= $1`

func (s *PostgresStore) DeleteExpiredOrRevoked(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx).ExecContext(ctx, deleteExpiredOrRevokedQuery, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired or revoked refresh tokens: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete rows affected: %w", err)
	}
	return n, nil
}
