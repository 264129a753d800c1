package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

var ErrMissingCSRFSecret = errors.New("auth: missing csrf secret")

// CSRFGenerator produces time-derived anti-forgery tokens. A token is a
// one-way digest of the current second-granularity timestamp and the
// server secret: two calls within the same second yield identical
// tokens, calls in different seconds differ.
type CSRFGenerator struct {
	secret []byte
	now    func() time.Time
}

// NewCSRFGenerator creates a generator for the given secret. An empty
// secret is a configuration error, not a per-call condition.
func NewCSRFGenerator(secret []byte) (*CSRFGenerator, error) {
	if len(secret) == 0 {
		return nil, ErrMissingCSRFSecret
	}
	return &CSRFGenerator{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}, nil
}

// SetNowFunc allows injecting a deterministic clock (useful for tests).
func (g *CSRFGenerator) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		fn = time.Now
	}
	g.now = fn
}

// Generate returns the hex-encoded SHA-256 digest of timestamp+secret.
func (g *CSRFGenerator) Generate() (string, error) {
	if len(g.secret) == 0 {
		return "", ErrMissingCSRFSecret
	}

	input := strconv.FormatInt(g.now().Unix(), 10)
	digest := sha256.Sum256(append([]byte(input), g.secret...))
	return hex.EncodeToString(digest[:]), nil
}
