// Package router hides the HTTP router behind a small interface.
package router

import "net/http"

type Middleware = func(next http.Handler) http.Handler

type Router interface {
	http.Handler
	Use(mw Middleware)
	Get(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Post(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Put(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Patch(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Delete(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Options(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	// Group mounts the routes registered by fn under prefix, wrapped with the
	// router's middlewares followed by middlewares.
	Group(prefix string, fn func(r Router), middlewares ...Middleware)
}
