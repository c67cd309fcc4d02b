package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/anonto42/engagement/backend/internal/middleware"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the caller's user ID set by the auth middleware.
func getUserIDFromContext(c echo.Context) (uint, error) {
	id, ok := c.Get(middleware.UserIDKey).(uint)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated")
	}
	return id, nil
}

// pageFromQuery reads ?page= (1-based) and ?size=; bad values fall back to
// the defaults.
func pageFromQuery(c echo.Context) models.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return models.NewPageRequest(page, size)
}

// findVisiblePost loads a post the caller may see. Private posts of other
// authors answer 404 so their existence does not leak.
func findVisiblePost(c echo.Context, posts engagement.PostFinder, postID string, userID uint) (*models.Post, error) {
	post, err := posts.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return nil, toHTTPError(err)
	}
	if !post.VisibleTo(userID) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return post, nil
}
