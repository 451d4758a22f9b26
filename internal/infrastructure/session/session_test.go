package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entities"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("MissingSession", func(t *testing.T) {
		data, err := store.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("SetGetDelete", func(t *testing.T) {
		user := entities.NewUser("admin@example.com", "pw")
		require.NoError(t, store.Set(ctx, "sid-1", Data{UserID: user.ID, Username: user.Username}, time.Hour))

		data, err := store.Get(ctx, "sid-1")
		require.NoError(t, err)
		require.NotNil(t, data)
		assert.Equal(t, user.ID, data.UserID)
		assert.Equal(t, "admin@example.com", data.Username)

		require.NoError(t, store.Delete(ctx, "sid-1"))
		data, err = store.Get(ctx, "sid-1")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "sid-2", Data{Username: "x"}, 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		data, err := store.Get(ctx, "sid-2")
		require.NoError(t, err)
		assert.Nil(t, data)
	})
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	user := entities.NewUser("admin@example.com", "pw")

	newManager := func() *Manager {
		return NewManager(NewMemoryStore(), "test-secret", time.Hour)
	}

	t.Run("IssueAndResolve", func(t *testing.T) {
		m := newManager()
		cookieValue, err := m.Issue(ctx, user)
		require.NoError(t, err)
		require.NotEmpty(t, cookieValue)

		id, data, err := m.Resolve(ctx, cookieValue)
		require.NoError(t, err)
		require.NotNil(t, data)
		assert.NotEmpty(t, id)
		assert.Equal(t, user.ID, data.UserID)
		assert.Equal(t, "admin@example.com", data.Username)
	})

	t.Run("DestroyedSessionResolvesToNothing", func(t *testing.T) {
		m := newManager()
		cookieValue, err := m.Issue(ctx, user)
		require.NoError(t, err)

		id, _, err := m.Resolve(ctx, cookieValue)
		require.NoError(t, err)
		require.NoError(t, m.Destroy(ctx, id))

		// Signature is still valid but the server-side state is gone.
		_, data, err := m.Resolve(ctx, cookieValue)
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("TamperedCookieRejected", func(t *testing.T) {
		m := newManager()
		cookieValue, err := m.Issue(ctx, user)
		require.NoError(t, err)

		_, _, err = m.Resolve(ctx, cookieValue+"x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ForeignSecretRejected", func(t *testing.T) {
		m := newManager()
		cookieValue, err := m.Issue(ctx, user)
		require.NoError(t, err)

		other := NewManager(NewMemoryStore(), "other-secret", time.Hour)
		_, _, err = other.Resolve(ctx, cookieValue)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("GarbageRejected", func(t *testing.T) {
		m := newManager()
		_, _, err := m.Resolve(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
