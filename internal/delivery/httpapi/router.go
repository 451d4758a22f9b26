package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// NewRouter builds the echo instance with the full route table. The rate
// limit here is a coarse whole-API throttle; login has its own per-address
// limiter.
func NewRouter(h *Handler, logger *logrus.Logger, rps float64, burst int) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(throttle(rate.NewLimiter(rate.Limit(rps), burst)))

	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me)

	admin := api.Group("", h.RequireAuth)
	admin.GET("/categories", h.ListCategories)
	admin.POST("/categories", h.CreateCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)
	admin.GET("/products", h.ListProducts)
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)

	store := api.Group("/store")
	store.GET("/products", h.StoreProducts)
	store.GET("/categories", h.StoreCategories)

	return e
}

func throttle(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "Too many requests"})
			}
			return next(c)
		}
	}
}

func requestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"remoteAddr": c.RealIP(),
				"durationMs": time.Since(start).Milliseconds(),
			}).Info("request")
			return err
		}
	}
}
