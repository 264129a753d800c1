package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNoCookieHeader  = errors.New("auth: cookie header is not set")
	ErrNoSessionCookie = errors.New("auth: session cookie is not set")
)

// Cookie names on the wire.
const (
	SessionCookieName = "Authorization"
	CSRFCookieName    = "XSRF-TOKEN"
)

// CSRFCookieTTL is the lifetime of an issued anti-forgery cookie.
const CSRFCookieTTL = 24 * time.Hour

// ExtractSessionToken recovers the raw session token from a Cookie
// request header. Segments are split on ';' and matched by exact cookie
// name, so a cookie whose name merely contains "Authorization" is not
// mistaken for the session cookie.
func ExtractSessionToken(rawCookieHeader string) (string, error) {
	if rawCookieHeader == "" {
		return "", ErrNoCookieHeader
	}

	for _, segment := range strings.Split(rawCookieHeader, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(segment), "=")
		if !ok {
			continue
		}
		if name == SessionCookieName {
			return strings.TrimSpace(value), nil
		}
	}

	return "", ErrNoSessionCookie
}

// NewSessionCookie builds the session cookie carrying a signed token.
// Expiry mirrors the token lifetime.
func NewSessionCookie(token string, now time.Time) *http.Cookie {
	return sessionCookie(token, now.Add(SessionTTL))
}

// ExpiredSessionCookie builds an already-expired session cookie. Setting
// it forces client-side deletion on logout; no server-side revocation
// store exists.
func ExpiredSessionCookie(now time.Time) *http.Cookie {
	return sessionCookie("", now)
}

// NewCSRFCookie builds the XSRF-TOKEN cookie for an anti-forgery token.
func NewCSRFCookie(token string, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(CSRFCookieTTL),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
