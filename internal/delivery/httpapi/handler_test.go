package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/delivery/httpapi"
	"storefront/internal/domain/entities"
	"storefront/internal/infrastructure/memory"
	"storefront/internal/infrastructure/ratelimit"
	"storefront/internal/infrastructure/session"
)

const (
	adminUsername = "corsinhastore@gmail.com"
	adminPassword = "01042011"
)

type testServer struct {
	e        *echo.Echo
	store    *memory.Storage
	sessions *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStorage()
	require.NoError(t, store.Seed(context.Background(), adminUsername, adminPassword))

	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour)
	limiter := ratelimit.New(15*time.Minute, 5)
	handler := httpapi.NewHandler(store, sessions, limiter, logger)
	e := httpapi.NewRouter(handler, logger, 1000, 1000)

	return &testServer{e: e, store: store, sessions: sessions}
}

func (s *testServer) request(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()

	rec := s.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": adminUsername,
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestPublicStore(t *testing.T) {
	s := newTestServer(t)

	t.Run("Categories", func(t *testing.T) {
		rec := s.request(t, http.MethodGet, "/api/store/categories", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var categories []entities.Category
		decodeBody(t, rec, &categories)
		require.Len(t, categories, 3)
		assert.Equal(t, "Casa e Jardim", categories[0].Name)
		assert.Equal(t, "Eletrônicos", categories[1].Name)
		assert.Equal(t, "Roupas", categories[2].Name)
	})

	t.Run("Products", func(t *testing.T) {
		rec := s.request(t, http.MethodGet, "/api/store/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var products []entities.ProductWithCategory
		decodeBody(t, rec, &products)
		require.Len(t, products, 6)
		for _, product := range products {
			assert.True(t, product.IsActive)
			assert.NotEmpty(t, product.CategoryName)
			assert.NotEmpty(t, product.Price)
		}
	})
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/categories", "/api/products"} {
		rec := s.request(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "Authentication required", body["error"])
	}
}

func TestLogin(t *testing.T) {
	t.Run("RejectsNonEmailUsername", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.request(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "not-an-email",
			"password": "pw",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, "Invalid input", body.Error)
		assert.Contains(t, body.Details, "Invalid email format")
	})

	t.Run("RejectsEmptyPassword", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.request(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": adminUsername,
			"password": "",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("SameAnswerForUnknownUserAndWrongPassword", func(t *testing.T) {
		s := newTestServer(t)

		wrongPassword := s.request(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": adminUsername,
			"password": "wrong",
		})
		unknownUser := s.request(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "ghost@example.com",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
		assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
	})

	t.Run("Success", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.request(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": adminUsername,
			"password": adminPassword,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			User    entities.PublicUser `json:"user"`
			Message string              `json:"message"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, adminUsername, body.User.Username)
		assert.Equal(t, "Login successful", body.Message)

		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, session.CookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 5; i++ {
		rec := s.request(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": adminUsername,
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	// The sixth attempt is refused before credentials are even checked,
	// correct password or not.
	rec := s.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": adminUsername,
		"password": adminPassword,
	})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestMeAndLogout(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := s.login(t)

	rec = s.request(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		User entities.PublicUser `json:"user"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, adminUsername, body.User.Username)

	rec = s.request(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, session.CookieName, cleared[0].Name)
	assert.Less(t, cleared[0].MaxAge, 0, "logout must instruct the client to drop the cookie")

	// The old cookie no longer resolves to a session.
	rec = s.request(t, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaleSessionSelfHeals(t *testing.T) {
	s := newTestServer(t)

	// A validly signed session for a user the credential store has never
	// heard of.
	ghost := &entities.User{ID: uuid.New(), Username: "ghost@example.com"}
	cookieValue, err := s.sessions.Issue(context.Background(), ghost)
	require.NoError(t, err)
	cookie := &http.Cookie{Name: session.CookieName, Value: cookieValue}

	rec := s.request(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "User not found", body["error"])

	// The session was destroyed, so the same cookie is now just absent.
	rec = s.request(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "Not authenticated", body["error"])
}

func TestAdminCatalog(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	t.Run("ListIncludesInactive", func(t *testing.T) {
		rec := s.request(t, http.MethodGet, "/api/products", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var products []entities.ProductWithCategory
		decodeBody(t, rec, &products)
		assert.Len(t, products, 6)
	})

	t.Run("DeactivateHidesFromStore", func(t *testing.T) {
		rec := s.request(t, http.MethodGet, "/api/products", nil, cookie)
		var products []entities.ProductWithCategory
		decodeBody(t, rec, &products)
		require.NotEmpty(t, products)
		target := products[0]

		rec = s.request(t, http.MethodPut, "/api/products/"+target.ID.String(),
			map[string]interface{}{"isActive": false}, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		storeRec := s.request(t, http.MethodGet, "/api/store/products", nil)
		var storeProducts []entities.ProductWithCategory
		decodeBody(t, storeRec, &storeProducts)
		assert.Len(t, storeProducts, 5)
		for _, product := range storeProducts {
			assert.NotEqual(t, target.ID, product.ID)
		}

		adminRec := s.request(t, http.MethodGet, "/api/products", nil, cookie)
		var adminProducts []entities.ProductWithCategory
		decodeBody(t, adminRec, &adminProducts)
		assert.Len(t, adminProducts, 6, "admin still sees inactive products")
	})

	t.Run("CreateProductValidation", func(t *testing.T) {
		rec := s.request(t, http.MethodPost, "/api/products",
			map[string]interface{}{"name": "", "price": "not-a-price"}, cookie)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		decodeBody(t, rec, &body)
		assert.Contains(t, body.Details, "Name is required")
		assert.Contains(t, body.Details, "Price must be a valid decimal amount")
	})

	t.Run("CategoryLifecycle", func(t *testing.T) {
		rec := s.request(t, http.MethodPost, "/api/categories",
			map[string]string{"name": "Livros"}, cookie)
		require.Equal(t, http.StatusCreated, rec.Code)
		var category entities.Category
		decodeBody(t, rec, &category)

		rec = s.request(t, http.MethodPost, "/api/products", map[string]interface{}{
			"name":       "Dom Casmurro",
			"price":      "39.90",
			"categoryId": category.ID,
		}, cookie)
		require.Equal(t, http.StatusCreated, rec.Code)
		var product entities.Product
		decodeBody(t, rec, &product)

		// Blocked while a product references the category.
		rec = s.request(t, http.MethodDelete, "/api/categories/"+category.ID.String(), nil, cookie)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = s.request(t, http.MethodDelete, "/api/products/"+product.ID.String(), nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.request(t, http.MethodDelete, "/api/categories/"+category.ID.String(), nil, cookie)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UpdateMissingProduct", func(t *testing.T) {
		rec := s.request(t, http.MethodPut, "/api/products/"+uuid.NewString(),
			map[string]interface{}{"name": "x"}, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		rec := s.request(t, http.MethodDelete, "/api/products/not-a-uuid", nil, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
