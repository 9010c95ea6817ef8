package router

import (
	"net/http"
	"strings"
)

type Middleware func(http.Handler) http.Handler

type Router struct {
	prefix     string
	mux        *http.ServeMux
	middleware []Middleware
}

func New() *Router {
	return &Router{
		prefix: "",
		mux:    http.NewServeMux(),
	}
}

// Use appends middleware applied to every request served by the router.
func (rt *Router) Use(mw ...Middleware) {
	rt.middleware = append(rt.middleware, mw...)
}

// Handle registers handler for pattern. Pattern follows http.ServeMux syntax and
// may carry a method ("POST /lessons"). Route middleware wraps only this handler.
func (rt *Router) Handle(pattern string, handler http.Handler, mw ...Middleware) {
	rt.mux.Handle(normalize(pattern), chain(handler, mw))
}

func (rt *Router) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request), mw ...Middleware) {
	rt.Handle(pattern, http.HandlerFunc(handler), mw...)
}

// SubRouter mounts a new router under prefix. Middleware registered on the parent
// still runs for the sub router; middleware registered on the sub router does not
// leak to the parent.
func (rt *Router) SubRouter(prefix string) *Router {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		panic("empty subrouter prefix")
	}

	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	s := &Router{
		prefix: rt.prefix + prefix,
		mux:    http.NewServeMux(),
	}

	rt.mux.Handle(prefix+"/", http.StripPrefix(prefix, s))
	return s
}

// Prefix returns the full path prefix the router is mounted under.
func (rt *Router) Prefix() string {
	return rt.prefix
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	chain(rt.mux, rt.middleware).ServeHTTP(w, r)
}

func chain(h http.Handler, mw []Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}

	return h
}

func normalize(pattern string) string {
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		method, path = "", pattern
	}

	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if method == "" {
		return path
	}

	return method + " " + path
}
