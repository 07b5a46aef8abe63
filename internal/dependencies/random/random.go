package random

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// Random provides identifier and credential generation that can be
// mocked for testing
type Random interface {
	// Token returns an unpredictable opaque credential. Guessing a
	// token must not be feasible: equality with it is the entire
	// authorization check on a submitted move.
	Token() string

	// ID returns a new unique identifier for challenges
	ID() string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns 128 bits of crypto/rand entropy, URL-safe encoded
func (r *CryptoRandom) Token() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// ID returns a random UUID string
func (r *CryptoRandom) ID() string {
	return uuid.NewString()
}
