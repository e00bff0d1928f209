// Package session holds the bearer credential of a signed-in user.
//
// A Session is created at login with a token issued by the external auth
// service and destroyed with Close at logout. Clients read the credential
// from it on every request instead of from process-wide state.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cristalhq/jwt/v5"
)

var (
	// ErrClosed is returned once the user logged out
	ErrClosed = errors.New("session closed")
	// ErrExpired is returned when the token expiry has passed
	ErrExpired = errors.New("session expired")
	// ErrEmptyToken is returned by New for a blank token
	ErrEmptyToken = errors.New("empty token")
)

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	token     string
	subject   string
	expiresAt time.Time
	closed    bool

	now func() time.Time
}

// New opens a session around a token. Claims are read without verifying
// the signature: verification is the server's business.
func New(token string) (*Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrEmptyToken
	}

	parsed, err := jwt.ParseNoVerify([]byte(token))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	var claims jwt.RegisteredClaims
	if err := json.Unmarshal(parsed.Claims(), &claims); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}

	s := &Session{
		token:   token,
		subject: claims.Subject,
		now:     time.Now,
	}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}

	return s, nil
}

// Subject is the user id the token was issued for
func (s *Session) Subject() string {
	return s.subject
}

// ExpiresAt is zero when the token carries no expiry
func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// Token returns the raw credential while the session is usable
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrClosed
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return "", ErrExpired
	}

	return s.token, nil
}

// Authorize sets the Authorization header of req
func (s *Session) Authorize(req *http.Request) error {
	token, err := s.Token()
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.token = ""
	s.mu.Unlock()
}
