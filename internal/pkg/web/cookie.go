package web

import (
	"errors"
	"net/http"
	"strings"
)

var ErrCookieNotSet = errors.New("cookie not set")

// FindCookie returns a copy of the named cookie.
func FindCookie(cookies []*http.Cookie, name string) (*http.Cookie, error) {
	for _, c := range cookies {
		if c.Name == name {
			found := *c
			return &found, nil
		}
	}
	return nil, ErrCookieNotSet
}

var browserKeywords = []string{
	"Mozilla",
	"Chrome",
	"Safari",
	"Firefox",
	"Edge",
	"Opera",
}

// IsBrowser guesses from the User-Agent whether the client is a web browser.
func IsBrowser(r *http.Request) bool {
	userAgent := r.Header.Get("User-Agent")
	for _, keyword := range browserKeywords {
		if strings.Contains(userAgent, keyword) {
			return true
		}
	}
	return false
}
