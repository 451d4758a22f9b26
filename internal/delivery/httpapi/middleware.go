package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/infrastructure/session"
)

// userContextKey is where RequireAuth stores the authenticated user.
const userContextKey = "storefront.user"

// resolveSession reads and verifies the session cookie. A missing cookie or
// an unverifiable token is not an error, just an absent session.
func (h *Handler) resolveSession(c echo.Context) (string, *session.Data, error) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return "", nil, nil
	}

	id, data, err := h.sessions.Resolve(c.Request().Context(), cookie.Value)
	if errors.Is(err, session.ErrInvalidToken) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return id, data, nil
}

// RequireAuth refuses the request before any store access when no valid
// session exists. Sessions referencing a deleted user are destroyed on the
// spot.
func (h *Handler) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, data, err := h.resolveSession(c)
		if err != nil {
			return h.internalError(c, "session lookup", err)
		}
		if data == nil {
			return h.jsonError(c, http.StatusUnauthorized, "Authentication required")
		}

		user, err := h.storage.GetUser(ctx, data.UserID)
		if err != nil {
			return h.internalError(c, "session user lookup", err)
		}
		if user == nil {
			_ = h.sessions.Destroy(ctx, id)
			c.SetCookie(clearSessionCookie())
			return h.jsonError(c, http.StatusUnauthorized, "Invalid session")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}
