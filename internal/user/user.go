// Package user stores the credentials that tokens are issued for.
package user

import (
	"github.com/ferdiebergado/tokenkit/internal/model"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	model.Model

	Email        string
	PasswordHash string
	Role         string
}

type Module struct {
	svc     *service
	handler *Handler
}

func (m *Module) Handler() *Handler {
	return m.handler
}

//nolint:ireturn //Consumers depend on the Service interface.
func (m *Module) Service() Service {
	return m.svc
}

func NewModule(dbExec db.Executor) *Module {
	repo := NewRepository(dbExec)
	svc := NewService(repo)
	handler := NewHandler(svc)
	return &Module{
		svc:     svc,
		handler: handler,
	}
}
