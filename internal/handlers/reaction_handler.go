package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ReactionHandler handles HTTP requests related to reactions
type ReactionHandler struct {
	engine      *engagement.ReactionEngine
	posts       engagement.PostFinder // Private posts are hidden from everyone but their author
	maxAttempts int
}

// NewReactionHandler creates a new ReactionHandler. A toggle that loses a
// race is retried up to maxAttempts times in total.
func NewReactionHandler(engine *engagement.ReactionEngine, posts engagement.PostFinder, maxAttempts int) *ReactionHandler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &ReactionHandler{
		engine:      engine,
		posts:       posts,
		maxAttempts: maxAttempts,
	}
}

// RegisterReactionRoutes registers reaction-related routes. toggleMiddleware
// applies to the toggle route only.
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group, toggleMiddleware ...echo.MiddlewareFunc) {
	g.POST("/posts/:post_id/reactions", h.ToggleReaction, toggleMiddleware...)
	g.GET("/posts/:post_id/reactions", h.GetReactions)
	g.GET("/posts/:post_id/reactions/me", h.GetMyReaction)
}

// ToggleReaction likes, dislikes, switches or withdraws the caller's reaction
func (h *ReactionHandler) ToggleReaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	var req models.ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := findVisiblePost(c, h.posts, postID, userID); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var outcome engagement.ReactionOutcome
	for attempt := 1; ; attempt++ {
		outcome, err = h.engine.ToggleReaction(ctx, postID, userID, models.ReactionType(req.Type))
		if err == nil || !engagement.IsRetryable(err) || attempt >= h.maxAttempts {
			break
		}
		logs.LogJSON("WARN", "reaction toggle conflict, retrying", map[string]interface{}{
			"post_id": postID,
			"user_id": userID,
			"attempt": attempt,
		})
	}
	if err != nil && !(errors.Is(err, engagement.ErrCounterDrift) && outcome != nil) {
		return toHTTPError(err)
	}
	// On drift the reaction write committed; the engine has already logged
	// and recorded the missing counter delta.

	switch o := outcome.(type) {
	case engagement.Created:
		return c.JSON(http.StatusCreated, o.Reaction)
	case engagement.Updated:
		return c.JSON(http.StatusCreated, o.Reaction)
	case engagement.Removed:
		return c.NoContent(http.StatusNoContent)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Unexpected reaction outcome")
	}
}

// GetReactions returns a page of a post's reactions, newest first
func (h *ReactionHandler) GetReactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")
	if _, err := findVisiblePost(c, h.posts, postID, userID); err != nil {
		return err
	}

	var typeFilter *models.ReactionType
	if raw := c.QueryParam("type"); raw != "" {
		t, err := models.ParseReactionType(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		typeFilter = &t
	}

	page, err := h.engine.GetReactions(c.Request().Context(), postID, typeFilter, pageFromQuery(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetMyReaction returns the caller's reaction type on a post, or null
func (h *ReactionHandler) GetMyReaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")
	if _, err := findVisiblePost(c, h.posts, postID, userID); err != nil {
		return err
	}

	typ, ok, err := h.engine.GetUserReaction(c.Request().Context(), postID, userID)
	if err != nil {
		return toHTTPError(err)
	}

	var reaction *models.ReactionType
	if ok {
		reaction = &typ
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "user_id": userID, "type": reaction})
}
