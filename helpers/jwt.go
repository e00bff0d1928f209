package helpers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v5"
)

const issuer = "https://discover.sadaora.com"

// ErrInvalidTime is returned for an expired or not yet valid token
var ErrInvalidTime = errors.New("invalid time")

// Auth checks the bearer tokens sent to the feed service
type Auth struct {
	secret []byte
}

// NewAuth creates an Auth using a HS512 shared secret
func NewAuth(secret string) *Auth {
	if secret == "" {
		secret = "secret"
	}

	return &Auth{secret: []byte(secret)}
}

// CreateToken allows to create JWT tokens.
// Only used to mint development tokens, real ones come from the auth service
func (a *Auth) CreateToken(subject string, ttl time.Duration) (string, error) {
	signer, err := jwt.NewSignerHS(jwt.HS512, a.secret)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	token, err := jwt.NewBuilder(signer).Build(&jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    issuer,
	})
	if err != nil {
		return "", err
	}

	return token.String(), nil
}

// CheckToken verifies the token and returns its subject.
// A "Bearer " prefix is accepted
func (a *Auth) CheckToken(token string) (string, error) {
	token = strings.TrimPrefix(token, "Bearer ")

	verifier, err := jwt.NewVerifierHS(jwt.HS512, a.secret)
	if err != nil {
		return "", err
	}

	tokenBytes := []byte(token)
	newToken, err := jwt.Parse(tokenBytes, verifier)
	if err != nil {
		return "", err
	}

	// get Registered claims
	var newClaims jwt.RegisteredClaims
	err = json.Unmarshal(newToken.Claims(), &newClaims)
	if err != nil {
		return "", err
	}

	if !newClaims.IsValidAt(time.Now()) {
		return "", ErrInvalidTime
	}

	if newClaims.Subject == "" {
		return "", errors.New("missing subject")
	}

	return newClaims.Subject, nil
}
