package app

import (
	"github.com/ferdiebergado/tokenkit/internal/auth"
	"github.com/ferdiebergado/tokenkit/internal/middleware"
	"github.com/ferdiebergado/tokenkit/internal/platform/router"
	"github.com/ferdiebergado/tokenkit/internal/platform/validation"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

func mountUserRoutes(r router.Router, handler *user.Handler, signer token.Signer, accessCookie string) {
	r.Group("/users", func(gr router.Router) {
		gr.Get("/me", handler.Me)
		gr.Get("/", handler.List, auth.RequireRole(user.RoleAdmin))
	}, auth.RequireToken(signer, accessCookie))
}

// Refresh and logout accept a cookie-only request, so they skip payload decoding.
func mountAuthRoutes(r router.Router, handler *auth.Handler, validator validation.Validator, signer token.Signer, accessCookie string, maxBodySize int64) {
	r.Group("/auth", func(gr router.Router) {
		gr.Post("/register", handler.RegisterUser,
			middleware.CheckContentType,
			middleware.DecodePayload[auth.RegisterUserRequest](maxBodySize),
			middleware.ValidateInput[auth.RegisterUserRequest](validator))
		gr.Post("/login", handler.LoginUser,
			middleware.CheckContentType,
			middleware.DecodePayload[auth.UserLoginRequest](maxBodySize),
			middleware.ValidateInput[auth.UserLoginRequest](validator))
		gr.Post("/refresh", handler.RefreshToken)
		gr.Post("/logout", handler.LogoutUser)
		gr.Post("/logout-all", handler.LogoutAll, auth.RequireToken(signer, accessCookie))
	})
}
