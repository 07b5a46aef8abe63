package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edagames/arena/internal/model"
)

// ErrInvalidCredential is returned for any credential that does not
// verify to an identity
var ErrInvalidCredential = errors.New("invalid credential")

// identityClaim is the JWT claim carrying the client identity
const identityClaim = "user"

// Config holds configuration for the auth service
type Config struct {
	// TokenKey is the shared HMAC key credentials are signed with
	TokenKey string
}

// Service verifies connection credentials. The only contract the rest
// of the system relies on is "credential in, identity or rejection
// out"; the JWT mechanics stay behind this boundary.
type Service struct {
	key []byte
}

// New creates a new auth service
func New(cfg Config) *Service {
	return &Service{key: []byte(cfg.TokenKey)}
}

// Verify parses and validates a credential and returns the identity it
// carries. Unparseable, unsigned, wrongly-signed or claimless
// credentials all collapse into ErrInvalidCredential.
func (s *Service) Verify(credential string) (model.ClientID, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidCredential
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredential
	}

	identity, ok := claims[identityClaim].(string)
	if !ok || identity == "" {
		return "", ErrInvalidCredential
	}

	return model.ClientID(identity), nil
}

// Issue signs a credential for the given identity. Used by the CLI and
// by tests; the server itself only verifies.
func (s *Service) Issue(identity model.ClientID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		identityClaim: string(identity),
	})
	return token.SignedString(s.key)
}
