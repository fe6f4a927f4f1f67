package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed access token")
	ErrTokenExpired   = errors.New("access token expired")
	ErrNoUserID       = errors.New("access token carries no user id")
)

// Claims mirrors the backend's access token payload. The client only reads
// identity out of it; signature verification is the backend's job.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Session holds the storefront's view of "who is logged in": a user id and
// the bearer credential to attach to remote calls. Token acquisition and
// refresh live in the host app's auth layer.
type Session struct {
	mu     sync.RWMutex
	userID string
	token  string
}

func New() *Session {
	return &Session{}
}

// Login installs an access token, recovering the user id from its claims.
func (s *Session) Login(token string) (string, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.userID = claims.UserID
	s.token = token
	s.mu.Unlock()

	return claims.UserID, nil
}

// LoginAs installs an externally established identity, for hosts whose
// auth layer already resolved the user id.
func (s *Session) LoginAs(userID, token string) {
	s.mu.Lock()
	s.userID = userID
	s.token = token
	s.mu.Unlock()
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.userID = ""
	s.token = ""
	s.mu.Unlock()
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) IsAuthenticated() bool {
	return s.UserID() != ""
}

// Token returns the current bearer credential; empty when logged out.
// Matches remote.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ParseClaims decodes the token payload without verifying the signature;
// the device has no signing secret, and the server rejects bad tokens
// anyway. Expired tokens are rejected so the engine never starts a merge
// it cannot finish.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, ErrMalformedToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrNoUserID
	}

	return claims, nil
}
