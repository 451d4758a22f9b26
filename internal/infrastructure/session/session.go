// Package session holds server-side session state keyed by an opaque id.
// The client only ever sees the id, signed so it cannot be forged; all user
// data stays on the server.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storefront/internal/domain/entities"
)

// CookieName is the cookie the signed session id travels in.
const CookieName = "storefront_session"

var ErrInvalidToken = errors.New("invalid session token")

// Data is what the server remembers about an authenticated session.
type Data struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
}

// Store persists session state. Get returns (nil, nil) for a missing or
// expired session.
type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Set(ctx context.Context, id string, data Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Manager issues and resolves sessions. The cookie value is the session id
// wrapped in an HS256-signed token.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session for the user and returns the signed cookie value.
func (m *Manager) Issue(ctx context.Context, user *entities.User) (string, error) {
	id := uuid.NewString()
	data := Data{UserID: user.ID, Username: user.Username}
	if err := m.store.Set(ctx, id, data, m.ttl); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sid": id,
		"exp": time.Now().Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		// The session record is useless without a cookie to reach it.
		_ = m.store.Delete(ctx, id)
		return "", err
	}
	return signed, nil
}

// Resolve verifies a cookie value and loads the session behind it. A valid
// signature over a session that no longer exists yields (id, nil, nil).
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (string, *Data, error) {
	id, err := m.verify(cookieValue)
	if err != nil {
		return "", nil, ErrInvalidToken
	}
	data, err := m.store.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, data, nil
}

// Destroy removes the server-side session state.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

func (m *Manager) verify(cookieValue string) (string, error) {
	token, err := jwt.Parse(cookieValue, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	id, ok := claims["sid"].(string)
	if !ok || id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}
