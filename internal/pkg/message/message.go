package message

const (
	InvalidUser      = "Invalid email/password."
	InvalidInput     = "Invalid input."
	EnvErrFmt        = "environment variable is not set: %s"
	Unauthorized     = "Unauthorized."
	Forbidden        = "Forbidden."
	TokenMissing     = "Missing access token."
	TokenMalformed   = "Malformed token."
	TokenBadSig      = "Invalid token signature."
	TokenExpired     = "Token has expired."
	TokenBadClaims   = "Invalid token claims."
	TokenWrongType   = "Wrong token type."
	RefreshInvalid   = "Invalid refresh token."
	RefreshReused    = "Refresh token reuse detected. All sessions have been revoked."
	CSRFInvalid      = "Invalid CSRF token."
	RegisterSuccess  = "Registration successful."
	LoginSuccess     = "Logged in successfully."
	RefreshSuccess   = "Token refreshed."
	LogoutSuccess    = "Logged out successfully."
	LogoutAllSuccess = "Logged out of all sessions."
	DuplicateEmail   = "Email is already registered."
	UserNotFound     = "User not found."
)
