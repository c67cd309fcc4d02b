package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/anonto42/engagement/backend/internal/middleware"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories/memory"
	"github.com/anonto42/engagement/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

type testServer struct {
	e      *echo.Echo
	store  *memory.Store
	alice  models.User
	bob    models.User
	public string
	hidden string
}

// asTestUser stands in for the auth middleware.
func asTestUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if raw := c.Request().Header.Get(testUserHeader); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return err
			}
			c.Set(middleware.UserIDKey, uint(id))
		}
		return next(c)
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	ts := &testServer{
		e:     echo.New(),
		store: store,
		alice: store.AddUser(models.User{Name: "Alice", Email: "alice@example.com"}),
		bob:   store.AddUser(models.User{Name: "Bob", Email: "bob@example.com"}),
	}
	ts.e.Validator = validators.NewValidator()

	public := &models.Post{AuthorID: ts.alice.ID, Title: "public", Description: "d", Visibility: true}
	require.NoError(t, store.CreatePost(ctx, public))
	hidden := &models.Post{AuthorID: ts.alice.ID, Title: "hidden", Description: "d"}
	require.NoError(t, store.CreatePost(ctx, hidden))
	ts.public, ts.hidden = public.ID.Hex(), hidden.ID.Hex()

	engine := engagement.NewReactionEngine(store, store, store, store, store)
	api := ts.e.Group("/api/v1", asTestUser)
	NewPostHandler(store, engine).RegisterPostRoutes(api)
	NewReactionHandler(engine, store, 3).RegisterReactionRoutes(api)
	NewCommentHandler(store, store, store, engagement.NewCommentCounter(store, store)).RegisterCommentRoutes(api)
	return ts
}

func (ts *testServer) do(method, path string, userID uint, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != 0 {
		req.Header.Set(testUserHeader, fmt.Sprint(userID))
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) post(t *testing.T, id string) *models.Post {
	t.Helper()
	p, err := ts.store.GetPostByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
