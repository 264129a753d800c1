package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrPasswordEmpty = errors.New("auth: password must not be empty")
	ErrHashMalformed = errors.New("auth: malformed password hash")
	ErrHashAlgorithm = errors.New("auth: unsupported password hash algorithm")
)

// Default Argon2id parameters, sized for an interactive login path.
const (
	DefaultArgon2Time    = 3
	DefaultArgon2Memory  = 64 * 1024 // KiB
	DefaultArgon2Threads = 4
	DefaultArgon2KeyLen  = 32
	DefaultSaltLength    = 16
)

// Argon2idHasher derives memory-hard password hashes in the PHC string
// format. The zero value is not usable; construct with NewArgon2idHasher.
type Argon2idHasher struct {
	time       uint32
	memory     uint32
	threads    uint8
	keyLen     uint32
	saltLength int
}

// Argon2idHasherOption configures Argon2idHasher.
type Argon2idHasherOption func(*Argon2idHasher)

// WithArgon2Time sets the time parameter (iterations).
func WithArgon2Time(t uint32) Argon2idHasherOption {
	return func(h *Argon2idHasher) {
		if t > 0 {
			h.time = t
		}
	}
}

// WithArgon2Memory sets the memory parameter in KiB.
func WithArgon2Memory(m uint32) Argon2idHasherOption {
	return func(h *Argon2idHasher) {
		if m > 0 {
			h.memory = m
		}
	}
}

// WithArgon2Threads sets the parallelism parameter.
func WithArgon2Threads(t uint8) Argon2idHasherOption {
	return func(h *Argon2idHasher) {
		if t > 0 {
			h.threads = t
		}
	}
}

// WithArgon2KeyLen sets the derived key length.
func WithArgon2KeyLen(l uint32) Argon2idHasherOption {
	return func(h *Argon2idHasher) {
		if l > 0 {
			h.keyLen = l
		}
	}
}

// WithArgon2SaltLength sets the random salt length in bytes.
func WithArgon2SaltLength(n int) Argon2idHasherOption {
	return func(h *Argon2idHasher) {
		if n > 0 {
			h.saltLength = n
		}
	}
}

// NewArgon2idHasher creates a password hasher with secure defaults.
func NewArgon2idHasher(opts ...Argon2idHasherOption) *Argon2idHasher {
	h := &Argon2idHasher{
		time:       DefaultArgon2Time,
		memory:     DefaultArgon2Memory,
		threads:    DefaultArgon2Threads,
		keyLen:     DefaultArgon2KeyLen,
		saltLength: DefaultSaltLength,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Hash derives a fresh Argon2id hash for the password. Each call draws a
// new random salt, so hashing the same password twice yields different
// encoded strings that both verify.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordEmpty
	}

	salt := make([]byte, h.saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("auth: failed to generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)
	return encodeHash(salt, digest, h.memory, h.time, h.threads), nil
}

// Verify recomputes the hash using the parameters and salt embedded in
// the encoded string and compares in constant time. A clean mismatch is
// (false, nil), never an error.
func (h *Argon2idHasher) Verify(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, ErrPasswordEmpty
	}

	params, salt, digest, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(digest)))
	return subtle.ConstantTimeCompare(computed, digest) == 1, nil
}

type argon2Params struct {
	time    uint32
	memory  uint32
	threads uint8
}

// encodeHash renders the PHC form: $argon2id$v=19$m=M,t=T,p=P$SALT$HASH
func encodeHash(salt, digest []byte, memory, time uint32, threads uint8) string {
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Digest := base64.RawStdEncoding.EncodeToString(digest)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, time, threads, b64Salt, b64Digest)
}

func decodeHash(encoded string) (argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return argon2Params{}, nil, nil, ErrHashMalformed
	}

	if parts[1] != "argon2id" {
		return argon2Params{}, nil, nil, ErrHashAlgorithm
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argon2Params{}, nil, nil, ErrHashMalformed
	}

	var params argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return argon2Params{}, nil, nil, ErrHashMalformed
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Params{}, nil, nil, ErrHashMalformed
	}

	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argon2Params{}, nil, nil, ErrHashMalformed
	}
	if len(digest) == 0 {
		return argon2Params{}, nil, nil, ErrHashMalformed
	}

	return params, salt, digest, nil
}
