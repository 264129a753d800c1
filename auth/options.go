package auth

import (
	"errors"
	"net/http"
)

// MiddlewareSkipper exempts a request from the access check.
type MiddlewareSkipper func(*http.Request) bool

// MiddlewareErrorHandler writes the response for a denied request.
type MiddlewareErrorHandler func(http.ResponseWriter, *http.Request, Decision)

// MiddlewareOption configures Middleware construction.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	access       *AccessControl
	required     []Role
	skipper      MiddlewareSkipper
	errorHandler MiddlewareErrorHandler
}

func newMiddlewareConfig(access *AccessControl, required []Role, opts ...MiddlewareOption) (middlewareConfig, error) {
	if access == nil {
		return middlewareConfig{}, errors.New("auth: middleware requires an access control")
	}
	if len(required) == 0 {
		return middlewareConfig{}, errors.New("auth: middleware requires at least one role")
	}
	cfg := middlewareConfig{
		access:       access,
		required:     append([]Role(nil), required...),
		skipper:      defaultSkipper,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.skipper == nil {
		cfg.skipper = defaultSkipper
	}
	if cfg.errorHandler == nil {
		cfg.errorHandler = defaultErrorHandler
	}
	return cfg, nil
}

// WithSkipper overrides the request skipper.
func WithSkipper(skipper MiddlewareSkipper) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if skipper != nil {
			cfg.skipper = skipper
		}
	}
}

// WithErrorHandler overrides the denial response writer.
func WithErrorHandler(handler MiddlewareErrorHandler) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if handler != nil {
			cfg.errorHandler = handler
		}
	}
}

func defaultSkipper(*http.Request) bool { return false }

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ Decision) {
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
