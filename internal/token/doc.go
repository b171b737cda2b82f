// Package token encodes and verifies compact HS256 signed tokens.
//
// A token is three unpadded Base64URL segments joined by dots:
//
//	base64url(header) "." base64url(payload) "." base64url(HMAC-SHA256(secret, header "." payload))
//
// The header is always {"alg":"HS256","typ":"JWT"} and the payload uses the
// registered JWT claim names (sub, iss, aud, exp, iat, jti), so tokens are
// readable by any standard JWT library holding the same secret.
//
// Decode verifies the signature over the transmitted segments before it
// parses anything, then checks expiry (with clock skew tolerance), issuer
// and audience. Every failure wraps one of ErrMalformedToken,
// ErrInvalidSignature, ErrTokenExpired or ErrInvalidClaims.
//
// A Codec holds no mutable state after New and is safe for concurrent use.
package token
