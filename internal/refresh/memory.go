package refresh

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps records in a map. It is meant for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	o := newOptions(opts)
	return &MemoryStore{
		records: make(map[string]Record),
		now:     o.now,
	}
}

func (s *MemoryStore) Insert(_ context.Context, token, ownerID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !expiresAt.After(now) {
		return ErrExpired
	}
	if _, ok := s.records[token]; ok {
		return ErrDuplicate
	}

	s.records[token] = Record{
		Token:     token,
		OwnerID:   ownerID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	return nil
}

func (s *MemoryStore) FindActive(_ context.Context, token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[token]
	if !ok || !rec.Active(s.now()) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Consume(_ context.Context, token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[token]
	switch {
	case !ok:
		return nil, ErrNotFound
	case rec.Revoked:
		return nil, ErrRevoked
	case !s.now().Before(rec.ExpiresAt):
		return nil, ErrExpired
	}

	consumed := rec
	rec.Revoked = true
	s.records[token] = rec
	return &consumed, nil
}

func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[token]
	if !ok {
		return ErrNotFound
	}
	rec.Revoked = true
	s.records[token] = rec
	return nil
}

func (s *MemoryStore) RevokeOwner(_ context.Context, ownerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for token, rec := range s.records {
		if rec.OwnerID != ownerID || rec.Revoked {
			continue
		}
		rec.Revoked = true
		s.records[token] = rec
		n++
	}
	return n, nil
}

func (s *MemoryStore) DeleteExpiredOrRevoked(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for token, rec := range s.records {
		if rec.Active(now) {
			continue
		}
		delete(s.records, token)
		n++
	}
	return n, nil
}
