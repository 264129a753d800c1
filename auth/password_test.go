package auth

import (
	"errors"
	"strings"
	"testing"
)

// Fast parameters keep the hashing tests well under a second.
func newTestHasher() *Argon2idHasher {
	return NewArgon2idHasher(
		WithArgon2Time(1),
		WithArgon2Memory(16*1024),
		WithArgon2Threads(1),
	)
}

func TestArgon2idHasherHashVerify(t *testing.T) {
	hasher := newTestHasher()

	encoded, err := hasher.Hash("SecurePass123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("Hash() = %q, want PHC argon2id prefix", encoded)
	}

	ok, err := hasher.Verify("SecurePass123", encoded)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Fatal("Verify() = false for the original password")
	}

	ok, err = hasher.Verify("WrongPass123", encoded)
	if err != nil {
		t.Fatalf("Verify() wrong password error = %v", err)
	}
	if ok {
		t.Fatal("Verify() = true for a wrong password")
	}
}

func TestArgon2idHasherSaltUniqueness(t *testing.T) {
	hasher := newTestHasher()

	first, err := hasher.Hash("SamePassword1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("SamePassword1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password are identical, salt is not random")
	}

	for _, encoded := range []string{first, second} {
		ok, err := hasher.Verify("SamePassword1", encoded)
		if err != nil || !ok {
			t.Fatalf("Verify() = (%v, %v) for %q", ok, err, encoded)
		}
	}
}

func TestArgon2idHasherEmptyInput(t *testing.T) {
	hasher := newTestHasher()

	if _, err := hasher.Hash(""); !errors.Is(err, ErrPasswordEmpty) {
		t.Fatalf("Hash(\"\") error = %v, want ErrPasswordEmpty", err)
	}
	if _, err := hasher.Verify("", "$argon2id$v=19$m=16,t=1,p=1$c2FsdA$aGFzaA"); !errors.Is(err, ErrPasswordEmpty) {
		t.Fatalf("Verify with empty password error = %v, want ErrPasswordEmpty", err)
	}
	if _, err := hasher.Verify("password", ""); !errors.Is(err, ErrPasswordEmpty) {
		t.Fatalf("Verify with empty hash error = %v, want ErrPasswordEmpty", err)
	}
}

func TestArgon2idHasherVerifyMalformed(t *testing.T) {
	hasher := newTestHasher()

	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{name: "not a hash", encoded: "plainly-not-a-hash", wantErr: ErrHashMalformed},
		{name: "too few segments", encoded: "$argon2id$v=19$m=16,t=1,p=1$c2FsdA", wantErr: ErrHashMalformed},
		{name: "wrong algorithm", encoded: "$bcrypt$v=19$m=16,t=1,p=1$c2FsdA$aGFzaA", wantErr: ErrHashAlgorithm},
		{name: "bad version", encoded: "$argon2id$vx$m=16,t=1,p=1$c2FsdA$aGFzaA", wantErr: ErrHashMalformed},
		{name: "bad params", encoded: "$argon2id$v=19$m=oops$c2FsdA$aGFzaA", wantErr: ErrHashMalformed},
		{name: "bad salt encoding", encoded: "$argon2id$v=19$m=16,t=1,p=1$!!!$aGFzaA", wantErr: ErrHashMalformed},
		{name: "bad digest encoding", encoded: "$argon2id$v=19$m=16,t=1,p=1$c2FsdA$!!!", wantErr: ErrHashMalformed},
		{name: "empty digest", encoded: "$argon2id$v=19$m=16,t=1,p=1$c2FsdA$", wantErr: ErrHashMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hasher.Verify("password", tt.encoded)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestArgon2idHasherVerifyForeignParams(t *testing.T) {
	// A hash produced under different cost parameters must still verify,
	// because the parameters ride along inside the encoded string.
	strong := NewArgon2idHasher(WithArgon2Time(2), WithArgon2Memory(32*1024), WithArgon2Threads(2))
	encoded, err := strong.Hash("CrossParamPass1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	weak := newTestHasher()
	ok, err := weak.Verify("CrossParamPass1", encoded)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Fatal("Verify() = false for hash with embedded foreign parameters")
	}
}

func BenchmarkArgon2idHash(b *testing.B) {
	hasher := newTestHasher()
	for i := 0; i < b.N; i++ {
		_, _ = hasher.Hash("SecurePassword123")
	}
}

func BenchmarkArgon2idVerify(b *testing.B) {
	hasher := newTestHasher()
	encoded, _ := hasher.Hash("SecurePassword123")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = hasher.Verify("SecurePassword123", encoded)
	}
}
