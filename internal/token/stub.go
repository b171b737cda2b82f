package token

import "time"

type StubSigner struct {
	IssueFunc      func(claims *Claims, typ Type) (string, time.Time, error)
	DecodeFunc     func(token string) (*Claims, error)
	AccessTTLFunc  func() time.Duration
	RefreshTTLFunc func() time.Duration
}

var _ Signer = (*StubSigner)(nil)

func (s *StubSigner) Issue(claims *Claims, typ Type) (string, time.Time, error) {
	if s.IssueFunc == nil {
		panic("Issue not implemented by stub")
	}
	return s.IssueFunc(claims, typ)
}

func (s *StubSigner) Decode(token string) (*Claims, error) {
	if s.DecodeFunc == nil {
		panic("Decode not implemented by stub")
	}
	return s.DecodeFunc(token)
}

func (s *StubSigner) AccessTTL() time.Duration {
	if s.AccessTTLFunc == nil {
		return DefaultAccessTTL
	}
	return s.AccessTTLFunc()
}

func (s *StubSigner) RefreshTTL() time.Duration {
	if s.RefreshTTLFunc == nil {
		return DefaultRefreshTTL
	}
	return s.RefreshTTLFunc()
}
