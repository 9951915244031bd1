// Package admin holds the operator gate and the product edit form.
//
// The gate is a client-side check only: the server does not authenticate
// mutating product endpoints.
package admin

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionKey is the storage key of the session expiry.
const SessionKey = "admin-auth"

// DefaultSessionTTL bounds how long a login is remembered.
const DefaultSessionTTL = 12 * time.Hour

var (
	// ErrNotAuthenticated is returned when an admin action runs without a login.
	ErrNotAuthenticated = errors.New("admin session not authenticated")

	// ErrWrongSecret is returned by Login for a mismatched secret.
	ErrWrongSecret = errors.New("wrong admin secret")
)

// Gate compares input against a fixed secret and remembers a match for the session.
// The session expiry is stored as the value, so it holds on drivers that ignore
// per-key expiration.
type Gate struct {
	secret  string
	storage fiber.Storage
	ttl     time.Duration
	now     func() time.Time
}

// NewGate creates a gate. A non-positive ttl selects DefaultSessionTTL.
func NewGate(secret string, storage fiber.Storage, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Gate{secret: secret, storage: storage, ttl: ttl, now: time.Now}
}

// Login starts a session when input matches the secret.
// An unconfigured secret never matches.
func (g *Gate) Login(input string) error {
	if g.secret == "" || subtle.ConstantTimeCompare([]byte(input), []byte(g.secret)) != 1 {
		return ErrWrongSecret
	}
	expires := strconv.FormatInt(g.now().Add(g.ttl).Unix(), 10)
	if err := g.storage.Set(SessionKey, []byte(expires), g.ttl); err != nil {
		return fmt.Errorf("failed to store admin session: %w", err)
	}
	return nil
}

// Authenticated reports whether a session is stored and unexpired.
func (g *Gate) Authenticated() bool {
	v, err := g.storage.Get(SessionKey)
	if err != nil || len(v) == 0 {
		return false
	}
	expires, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return false
	}
	return g.now().Unix() < expires
}

// Require returns ErrNotAuthenticated unless a login is active.
func (g *Gate) Require() error {
	if !g.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Logout drops the session.
func (g *Gate) Logout() error {
	return g.storage.Delete(SessionKey)
}
