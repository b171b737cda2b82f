package router

import (
	"net/http"
	"slices"

	"github.com/ferdiebergado/goexpress"
)

var _ Router = (*GoexpressRouter)(nil)

// GoexpressRouter adapts goexpress to Router. A group shares the root's
// mux and registers its routes under its prefix, wrapped with the group
// middlewares. Global middlewares stay on the root.
type GoexpressRouter struct {
	handler     *goexpress.Router
	group       bool
	prefix      string
	middlewares []Middleware
}

// NewGoexpressRouter returns a router with the given global middlewares installed.
func NewGoexpressRouter(middlewares ...Middleware) *GoexpressRouter {
	r := &GoexpressRouter{
		handler: goexpress.New(),
	}
	for _, mw := range middlewares {
		r.handler.Use(mw)
	}
	return r
}

// Use installs a global middleware on the root, or a group middleware on a group.
func (r *GoexpressRouter) Use(mw Middleware) {
	if r.group {
		r.middlewares = append(r.middlewares, mw)
		return
	}
	r.handler.Use(mw)
}

func (r *GoexpressRouter) route(pattern string, middlewares []Middleware) (string, []Middleware) {
	return r.prefix + pattern, append(slices.Clone(r.middlewares), middlewares...)
}

func (r *GoexpressRouter) Get(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	path, mws := r.route(pattern, middlewares)
	r.handler.Get(path, handler, mws...)
}

func (r *GoexpressRouter) Post(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	path, mws := r.route(pattern, middlewares)
	r.handler.Post(path, handler, mws...)
}

func (r *GoexpressRouter) Put(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	path, mws := r.route(pattern, middlewares)
	r.handler.Put(path, handler, mws...)
}

func (r *GoexpressRouter) Patch(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	path, mws := r.route(pattern, middlewares)
	r.handler.Patch(path, handler, mws...)
}

func (r *GoexpressRouter) Delete(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	path, mws := r.route(pattern, middlewares)
	r.handler.Delete(path, handler, mws...)
}

func (r *GoexpressRouter) Options(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	path, mws := r.route(pattern, middlewares)
	r.handler.Options(path, handler, mws...)
}

func (r *GoexpressRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// Group registers the routes added by fn under prefix. Groups nest: the
// prefixes concatenate and the outer group middlewares run first.
func (r *GoexpressRouter) Group(prefix string, fn func(r Router), middlewares ...Middleware) {
	_, mws := r.route("", middlewares)
	fn(&GoexpressRouter{
		handler:     r.handler,
		group:       true,
		prefix:      r.prefix + prefix,
		middlewares: mws,
	})
}
