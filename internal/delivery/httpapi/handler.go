// Package httpapi exposes the storefront over an HTTP JSON API: public
// store reads, session-authenticated admin catalog management, and the
// login/logout/me flow.
package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain/repositories"
	"storefront/internal/infrastructure/ratelimit"
	"storefront/internal/infrastructure/session"
)

type Handler struct {
	storage      repositories.Storage
	sessions     *session.Manager
	loginLimiter *ratelimit.Limiter
	log          *logrus.Logger
}

func NewHandler(storage repositories.Storage, sessions *session.Manager, loginLimiter *ratelimit.Limiter, log *logrus.Logger) *Handler {
	return &Handler{
		storage:      storage,
		sessions:     sessions,
		loginLimiter: loginLimiter,
		log:          log,
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) jsonError(c echo.Context, status int, message string, details ...string) error {
	return c.JSON(status, errorResponse{Error: message, Details: details})
}

// internalError logs the cause and hides it behind a generic message.
func (h *Handler) internalError(c echo.Context, operation string, err error) error {
	h.log.WithError(err).WithField("operation", operation).Error("internal error")
	return h.jsonError(c, http.StatusInternalServerError, "Internal server error")
}

func sessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	}
}

func clearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
