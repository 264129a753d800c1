package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T, secret string, algs ...string) *TokenService {
	t.Helper()
	svc, err := NewTokenService([]byte(secret), algs...)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return svc
}

func TestTokenServiceIssueVerify(t *testing.T) {
	svc := newTestTokenService(t, "unit-test-secret")

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetNowFunc(func() time.Time { return issuedAt })

	token, err := svc.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("Issue() = %q, want three dot-separated segments", token)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "user@example.com" {
		t.Fatalf("Verify() subject = %q, want user@example.com", claims.Subject)
	}
	if want := issuedAt.Add(SessionTTL); !claims.ExpiresAt.Equal(want) {
		t.Fatalf("Verify() expiresAt = %s, want %s", claims.ExpiresAt, want)
	}
}

func TestTokenServiceEmptySecret(t *testing.T) {
	if _, err := NewTokenService(nil); !errors.Is(err, ErrMissingSigningKey) {
		t.Fatalf("NewTokenService(nil) error = %v, want ErrMissingSigningKey", err)
	}
}

func TestTokenServiceUnknownAlgorithm(t *testing.T) {
	if _, err := NewTokenService([]byte("secret"), "none"); !errors.Is(err, ErrUnsupportedAlgo) {
		t.Fatalf("NewTokenService(none) error = %v, want ErrUnsupportedAlgo", err)
	}
}

func TestTokenServiceIssueEmptySubject(t *testing.T) {
	svc := newTestTokenService(t, "unit-test-secret")
	if _, err := svc.Issue(""); !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("Issue(\"\") error = %v, want ErrInvalidSubject", err)
	}
}

func TestTokenServiceVerifyMalformed(t *testing.T) {
	svc := newTestTokenService(t, "unit-test-secret")

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "single segment", raw: "justonesegment"},
		{name: "two segments", raw: "a.b"},
		{name: "four segments", raw: "a.b.c.d"},
		{name: "bad header encoding", raw: "!!!.payload.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.raw); !errors.Is(err, ErrTokenMalformed) {
				t.Fatalf("Verify(%q) error = %v, want ErrTokenMalformed", tt.raw, err)
			}
		})
	}
}

func TestTokenServiceVerifyTamperedPayload(t *testing.T) {
	svc := newTestTokenService(t, "unit-test-secret")

	token, err := svc.Issue("victim@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	parts := strings.Split(token, ".")
	forged, err := encodeSegment(jwtPayload{Subject: "attacker@example.com", ExpiresAt: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("encodeSegment() error = %v", err)
	}
	tampered := parts[0] + "." + forged + "." + parts[2]

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("Verify(tampered) error = %v, want ErrSignatureMismatch", err)
	}
}

func TestTokenServiceSecretRotation(t *testing.T) {
	// A token issued under an old secret must fail verification after the
	// secret changes. There is no revocation store; rotation is the lever.
	oldSvc := newTestTokenService(t, "old-secret")
	token, err := oldSvc.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	newSvc := newTestTokenService(t, "new-secret")
	if _, err := newSvc.Verify(token); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("Verify() after rotation error = %v, want ErrSignatureMismatch", err)
	}
}

func TestTokenServiceExpiry(t *testing.T) {
	svc := newTestTokenService(t, "unit-test-secret")

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetNowFunc(func() time.Time { return issuedAt })

	token, err := svc.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	t.Run("just before expiry", func(t *testing.T) {
		svc.SetNowFunc(func() time.Time { return issuedAt.Add(SessionTTL - time.Second) })
		if _, err := svc.Verify(token); err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
	})

	t.Run("at expiry", func(t *testing.T) {
		svc.SetNowFunc(func() time.Time { return issuedAt.Add(SessionTTL) })
		if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("after expiry", func(t *testing.T) {
		svc.SetNowFunc(func() time.Time { return issuedAt.Add(SessionTTL + time.Hour) })
		if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
		}
	})
}

func TestTokenServiceAlgorithmDowngrade(t *testing.T) {
	svc := newTestTokenService(t, "unit-test-secret") // HS256 only

	token, err := svc.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	parts := strings.Split(token, ".")

	for _, alg := range []string{"none", "HS512", "RS256", ""} {
		t.Run("alg "+alg, func(t *testing.T) {
			headerSeg, err := encodeSegment(jwtHeader{Algorithm: alg, Type: "JWT"})
			if err != nil {
				t.Fatalf("encodeSegment() error = %v", err)
			}
			forged := headerSeg + "." + parts[1] + "." + parts[2]
			if _, err := svc.Verify(forged); !errors.Is(err, ErrUnsupportedAlgo) {
				t.Fatalf("Verify() error = %v, want ErrUnsupportedAlgo", err)
			}
		})
	}
}

func TestTokenServiceMultipleAlgorithms(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			svc := newTestTokenService(t, "unit-test-secret", alg)
			token, err := svc.Issue("user@example.com")
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			claims, err := svc.Verify(token)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if claims.Subject != "user@example.com" {
				t.Fatalf("subject = %q", claims.Subject)
			}
		})
	}
}

func TestTokenServiceBadSignatureEncoding(t *testing.T) {
	svc := newTestTokenService(t, "unit-test-secret")

	token, err := svc.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	parts := strings.Split(token, ".")

	broken := parts[0] + "." + parts[1] + "." + "%%%not-base64%%%"
	if _, err := svc.Verify(broken); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("Verify() error = %v, want ErrSignatureMismatch", err)
	}
}

func FuzzTokenServiceVerify(f *testing.F) {
	f.Add("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJ1c2VyIiwiZXhwIjoxNzAwMDAwMDAwfQ.sig")
	f.Add("")
	f.Add("a.b.c")
	f.Add(".......")
	f.Add(strings.Repeat("a", 10000))

	svc, err := NewTokenService([]byte("fuzz-secret"))
	if err != nil {
		f.Fatalf("NewTokenService() error = %v", err)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		// Must never panic, whatever the input.
		_, _ = svc.Verify(raw)
	})
}

func FuzzDecodeSegment(f *testing.F) {
	f.Add("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9")
	f.Add("")
	f.Add("!!invalid-base64!!")
	f.Add(base64.RawURLEncoding.EncodeToString([]byte("{}")))

	f.Fuzz(func(t *testing.T, input string) {
		var header jwtHeader
		_ = decodeSegment(input, &header)

		var payload jwtPayload
		_ = decodeSegment(input, &payload)
	})
}
