package auth

import "net/http"

// Middleware guards net/http handlers behind a role-gated access
// decision derived from the request's session cookie.
type Middleware struct {
	access       *AccessControl
	required     []Role
	skipper      MiddlewareSkipper
	errorHandler MiddlewareErrorHandler
}

// NewMiddleware builds a middleware requiring one of the given roles.
func NewMiddleware(access *AccessControl, required []Role, opts ...MiddlewareOption) (*Middleware, error) {
	cfg, err := newMiddlewareConfig(access, required, opts...)
	if err != nil {
		return nil, err
	}
	return &Middleware{
		access:       cfg.access,
		required:     cfg.required,
		skipper:      cfg.skipper,
		errorHandler: cfg.errorHandler,
	}, nil
}

// Handler wraps next, denying any request whose cookie does not resolve
// to a subject holding one of the required roles.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	if m == nil {
		panic("auth: middleware is nil")
	}
	if next == nil {
		next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		decision := m.access.DecideForCookie(r.Context(), r.Header.Get("Cookie"), m.required)
		if !decision.Granted() {
			m.errorHandler(w, r, decision)
			return
		}

		next.ServeHTTP(w, r)
	})
}
