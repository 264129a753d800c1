package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"errors"
	"hash"
	"strings"
	"time"
)

var (
	ErrInvalidSubject    = errors.New("auth: token subject must not be empty")
	ErrTokenMalformed    = errors.New("auth: malformed session token")
	ErrSignatureMismatch = errors.New("auth: session token signature mismatch")
	ErrTokenExpired      = errors.New("auth: session token expired")
	ErrUnsupportedAlgo   = errors.New("auth: unsupported signing algorithm")
	ErrMissingSigningKey = errors.New("auth: missing signing key")
)

// SessionTTL is the fixed lifetime of an issued session token.
const SessionTTL = 20 * 24 * time.Hour

// SessionClaims is the payload embedded inside a signed session token.
// A claims value is trusted only when signature verification succeeded
// and ExpiresAt is in the future.
type SessionClaims struct {
	Subject   string
	ExpiresAt time.Time
}

type jwtHeader struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

type jwtPayload struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService signs and verifies compact session tokens using a
// symmetric HMAC scheme. The signing key comes from required runtime
// configuration; an empty key fails construction, not per-call.
type TokenService struct {
	secret      []byte
	allowedAlgs map[string]struct{}
	defaultAlg  string
	now         func() time.Time
}

// NewTokenService creates a token service for the given secret.
// Algorithms defaults to HS256 when none are supplied; verification
// rejects any token whose header names an algorithm outside this set.
func NewTokenService(secret []byte, algorithms ...string) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSigningKey
	}
	if len(algorithms) == 0 {
		algorithms = []string{"HS256"}
	}

	allowed := make(map[string]struct{}, len(algorithms))
	for _, alg := range algorithms {
		if _, err := signingHasher(alg); err != nil {
			return nil, err
		}
		allowed[alg] = struct{}{}
	}

	return &TokenService{
		secret:      append([]byte(nil), secret...),
		allowedAlgs: allowed,
		defaultAlg:  algorithms[0],
		now:         time.Now,
	}, nil
}

// SetNowFunc allows injecting a deterministic clock (useful for tests).
func (s *TokenService) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		fn = time.Now
	}
	s.now = fn
}

// Issue signs a session token for the subject expiring SessionTTL from now.
func (s *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", ErrInvalidSubject
	}

	header := jwtHeader{Algorithm: s.defaultAlg, Type: "JWT"}
	headerSeg, err := encodeSegment(header)
	if err != nil {
		return "", err
	}

	payload := jwtPayload{
		Subject:   subject,
		ExpiresAt: s.now().Add(SessionTTL).Unix(),
	}
	payloadSeg, err := encodeSegment(payload)
	if err != nil {
		return "", err
	}

	signingInput := headerSeg + "." + payloadSeg
	signature, err := s.sign(signingInput, s.defaultAlg)
	if err != nil {
		return "", err
	}

	return signingInput + "." + signature, nil
}

// Verify checks the token's structure, signature, and expiry, returning
// the decoded claims on success. A header naming an algorithm outside
// the allow-list is rejected before any signature work, so a token
// cannot downgrade the scheme it was issued under.
func (s *TokenService) Verify(raw string) (SessionClaims, error) {
	if raw == "" {
		return SessionClaims{}, ErrTokenMalformed
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return SessionClaims{}, ErrTokenMalformed
	}

	var header jwtHeader
	if err := decodeSegment(parts[0], &header); err != nil {
		return SessionClaims{}, ErrTokenMalformed
	}

	if err := s.verifySignature(parts[0]+"."+parts[1], parts[2], header.Algorithm); err != nil {
		return SessionClaims{}, err
	}

	var payload jwtPayload
	if err := decodeSegment(parts[1], &payload); err != nil {
		return SessionClaims{}, ErrTokenMalformed
	}

	claims := SessionClaims{
		Subject:   payload.Subject,
		ExpiresAt: time.Unix(payload.ExpiresAt, 0).UTC(),
	}
	if !s.now().Before(claims.ExpiresAt) {
		return SessionClaims{}, ErrTokenExpired
	}

	return claims, nil
}

func (s *TokenService) sign(input, alg string) (string, error) {
	hasher, err := signingHasher(alg)
	if err != nil {
		return "", err
	}
	mac := hmac.New(hasher, s.secret)
	_, _ = mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

func (s *TokenService) verifySignature(input, signature, alg string) error {
	if _, ok := s.allowedAlgs[alg]; !ok {
		return ErrUnsupportedAlgo
	}

	hasher, err := signingHasher(alg)
	if err != nil {
		return err
	}

	provided, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return ErrSignatureMismatch
	}

	mac := hmac.New(hasher, s.secret)
	_, _ = mac.Write([]byte(input))
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return ErrSignatureMismatch
	}

	return nil
}

func signingHasher(alg string) (func() hash.Hash, error) {
	switch alg {
	case "HS256":
		return sha256.New, nil
	case "HS384":
		return sha512.New384, nil
	case "HS512":
		return sha512.New, nil
	default:
		return nil, ErrUnsupportedAlgo
	}
}

func encodeSegment(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeSegment(segment string, dest any) error {
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
