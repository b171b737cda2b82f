package db

import "context"

type StubTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ TxManager = (*StubTxManager)(nil)

// RunInTx calls fn directly when RunInTxFunc is not set.
func (tm *StubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tm.RunInTxFunc == nil {
		return fn(ctx)
	}
	return tm.RunInTxFunc(ctx, fn)
}
