package httpapi

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/entities"
	"storefront/internal/infrastructure/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() []string {
	var details []string
	if _, err := mail.ParseAddress(r.Username); err != nil {
		details = append(details, "Invalid email format")
	}
	if r.Password == "" {
		details = append(details, "Password is required")
	}
	return details
}

type userResponse struct {
	User entities.PublicUser `json:"user"`
}

type loginResponse struct {
	User    entities.PublicUser `json:"user"`
	Message string              `json:"message"`
}

// Login throttles per client address before touching the credential store,
// then trades valid credentials for a session cookie.
func (h *Handler) Login(c echo.Context) error {
	if !h.loginLimiter.Allow(c.RealIP()) {
		return h.jsonError(c, http.StatusTooManyRequests, "Too many login attempts, please try again later.")
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.jsonError(c, http.StatusBadRequest, "Invalid input")
	}
	if details := req.validate(); len(details) > 0 {
		return h.jsonError(c, http.StatusBadRequest, "Invalid input", details...)
	}

	ctx := c.Request().Context()
	user, err := h.storage.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return h.internalError(c, "login", err)
	}
	if user == nil {
		// One message for unknown user and wrong password alike.
		return h.jsonError(c, http.StatusUnauthorized, "Invalid credentials")
	}

	cookieValue, err := h.sessions.Issue(ctx, user)
	if err != nil {
		return h.internalError(c, "create session", err)
	}
	c.SetCookie(sessionCookie(cookieValue, h.sessions.TTL()))

	return c.JSON(http.StatusOK, loginResponse{
		User:    user.Public(),
		Message: "Login successful",
	})
}

// Logout destroys the session, if any, and tells the client to drop the
// cookie. It succeeds even without a session.
func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		id, _, err := h.sessions.Resolve(ctx, cookie.Value)
		if err != nil && !errors.Is(err, session.ErrInvalidToken) {
			return h.jsonError(c, http.StatusInternalServerError, "Failed to logout")
		}
		if id != "" {
			if err := h.sessions.Destroy(ctx, id); err != nil {
				return h.jsonError(c, http.StatusInternalServerError, "Failed to logout")
			}
		}
	}

	c.SetCookie(clearSessionCookie())
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// Me reports the currently authenticated user.
func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	id, data, err := h.resolveSession(c)
	if err != nil {
		return h.internalError(c, "session lookup", err)
	}
	if data == nil {
		return h.jsonError(c, http.StatusUnauthorized, "Not authenticated")
	}

	user, err := h.storage.GetUser(ctx, data.UserID)
	if err != nil {
		return h.internalError(c, "session user lookup", err)
	}
	if user == nil {
		// The session points at a user that no longer exists.
		_ = h.sessions.Destroy(ctx, id)
		c.SetCookie(clearSessionCookie())
		return h.jsonError(c, http.StatusUnauthorized, "User not found")
	}

	return c.JSON(http.StatusOK, userResponse{User: user.Public()})
}
