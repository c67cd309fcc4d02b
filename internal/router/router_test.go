package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/engagement/backend/internal/middleware"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories/memory"
	"github.com/anonto42/engagement/backend/internal/validators"
	"github.com/anonto42/engagement/backend/pkg/config"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-test-secret"

func newServer(t *testing.T, rps float64) (*echo.Echo, *memory.Store, string, string) {
	t.Helper()
	store := memory.NewStore()
	user := store.AddUser(models.User{Name: "Alice", Email: "alice@example.com"})
	post := &models.Post{AuthorID: user.ID, Title: "t", Description: "d", Visibility: true}
	require.NoError(t, store.CreatePost(context.Background(), post))

	e := echo.New()
	e.Validator = validators.NewValidator()
	cfg := &config.Config{ToggleMaxAttempts: 3, RateLimitRPS: rps, DBTimeout: time.Second}
	SetupRoutes(e, MemoryStores(store), middleware.JWTAuthMiddleware(secret, store), cfg)

	claims := &models.JwtCustomClaims{
		UserID:           user.ID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return e, store, post.ID.Hex(), token
}

func toggle(e *echo.Echo, postID, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/"+postID+"/reactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSetupRoutes_Health(t *testing.T) {
	e, _, _, _ := newServer(t, 0)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupRoutes_ToggleRequiresAuth(t *testing.T) {
	e, store, postID, token := newServer(t, 0)

	assert.Equal(t, http.StatusUnauthorized, toggle(e, postID, "", `{"type":"LIKE"}`).Code)

	assert.Equal(t, http.StatusCreated, toggle(e, postID, token, `{"type":"LIKE"}`).Code)
	p, err := store.GetPostByID(context.Background(), postID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.LikeCount)
}

func TestSetupRoutes_ToggleRateLimit(t *testing.T) {
	e, _, postID, token := newServer(t, 1)

	assert.Equal(t, http.StatusCreated, toggle(e, postID, token, `{"type":"LIKE"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, toggle(e, postID, token, `{"type":"LIKE"}`).Code)
}
