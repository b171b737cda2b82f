package security

import (
	"net/http"
	"time"
)

// HardenedCookie returns a Secure, HttpOnly, SameSite=Strict cookie.
func HardenedCookie(name, val string, duration time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    val,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		Expires:  time.Now().Add(duration),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredCookie returns a cookie that instructs the browser to drop name.
func ExpiredCookie(name string) *http.Cookie {
	c := HardenedCookie(name, "", 0)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
