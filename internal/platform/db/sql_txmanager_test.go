package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ferdiebergado/tokenkit/internal/platform/db"
)

func TestSQLTxManager_RunInTx(t *testing.T) {
	t.Parallel()

	errFn := errors.New("consume failed")

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		fn      func(ctx context.Context) error
		wantErr bool
	}{
		{
			name: "Commits on success",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context) error {
				if db.TxFromContext(ctx) == nil {
					return errors.New("no transaction in context")
				}
				return nil
			},
		},
		{
			name: "Rolls back on error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:      func(context.Context) error { return errFn },
			wantErr: true,
		},
		{
			name: "Reports commit failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			fn:      func(context.Context) error { return nil },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			conn, mock, err := sqlmock.New()
			if err != nil {
				t.Fatal(err)
			}
			defer conn.Close()

			tc.setup(mock)

			err = db.NewSQLTxManager(conn).RunInTx(context.Background(), tc.fn)
			if (err != nil) != tc.wantErr {
				t.Errorf("RunInTx() error = %v, wantErr: %v", err, tc.wantErr)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSQLTxManager_NestedJoinsOuterTx(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	txMgr := db.NewSQLTxManager(conn)
	err = txMgr.RunInTx(context.Background(), func(ctx context.Context) error {
		outer := db.TxFromContext(ctx)
		return txMgr.RunInTx(ctx, func(inner context.Context) error {
			if db.TxFromContext(inner) != outer {
				return errors.New("nested call started a new transaction")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestExecutorFromContext(t *testing.T) {
	t.Parallel()

	conn, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if got := db.ExecutorFromContext(context.Background(), conn); got != conn {
		t.Errorf("db.ExecutorFromContext() = %v, want: fallback", got)
	}
}
