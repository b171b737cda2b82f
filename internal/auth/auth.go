// Package auth issues token pairs for users and guards routes with access tokens.
package auth

import (
	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/refresh"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

type Provider struct {
	Cfg       *config.Config
	Hasher    security.Hasher
	Digester  security.ShortHasher
	Signer    token.Signer
	Store     refresh.Store
	TxMgr     db.TxManager
	UserSvc   user.Service
	CSRFBaker web.Baker
}

type Module struct {
	svc     *Service
	handler *Handler
}

func (m *Module) Handler() *Handler {
	return m.handler
}

func (m *Module) Service() *Service {
	return m.svc
}

func NewModule(provider *Provider, opts ...ServiceOption) *Module {
	svc := NewService(provider, opts...)
	handler := NewHandler(svc, provider)
	return &Module{
		handler: handler,
		svc:     svc,
	}
}
