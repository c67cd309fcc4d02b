package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ownerMe selects the caller's own posts, private ones included.
const ownerMe = "me"

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	reactions      engagement.ReactionLookup // To show the viewer's own reaction
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, reactions engagement.ReactionLookup) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		reactions:      reactions,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts) // Public feed, or the caller's posts with ?owner=me
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post with zeroed counters
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		Visibility:  *req.Visibility,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID along with the caller's reaction
func (h *PostHandler) GetPost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	post, err := findVisiblePost(c, h.postRepository, c.Param("id"), userID)
	if err != nil {
		return err
	}

	view, err := h.viewOf(c, post, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// GetPosts returns a page of public posts, newest first. With ?owner=me it
// returns the caller's own posts instead, private ones included.
func (h *PostHandler) GetPosts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	filter := models.PostFilter{PublicOnly: true}
	if strings.EqualFold(c.QueryParam("owner"), ownerMe) {
		filter = models.PostFilter{AuthorID: userID}
	}

	page := pageFromQuery(c)
	posts, total, err := h.postRepository.ListPosts(c.Request().Context(), filter, page)
	if err != nil {
		return toHTTPError(err)
	}

	views := make([]models.PostView, len(posts))
	for i := range posts {
		view, err := h.viewOf(c, &posts[i], userID)
		if err != nil {
			return err
		}
		views[i] = view
	}
	return c.JSON(http.StatusOK, models.NewPage(views, page, total))
}

// UpdatePost replaces the title, description, tech stack and visibility of
// the caller's post. Counters are left untouched.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.ownedPost(c, postID, userID, "update"); err != nil {
		return err
	}

	updated, err := h.postRepository.UpdatePost(c.Request().Context(), postID, models.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		Visibility:  *req.Visibility,
	})
	if err != nil {
		return toHTTPError(err)
	}

	view, err := h.viewOf(c, updated, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// DeletePost deletes the caller's post
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	if _, err := h.ownedPost(c, postID, userID, "delete"); err != nil {
		return err
	}
	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ownedPost loads a post the caller authored. action names the attempted
// change in the 403 message.
func (h *PostHandler) ownedPost(c echo.Context, postID string, userID uint, action string) (*models.Post, error) {
	post, err := findVisiblePost(c, h.postRepository, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not authorized to "+action+" this post")
	}
	return post, nil
}

func (h *PostHandler) viewOf(c echo.Context, post *models.Post, userID uint) (models.PostView, error) {
	view := models.PostView{Post: *post}
	typ, ok, err := h.reactions.GetUserReaction(c.Request().Context(), post.ID.Hex(), userID)
	if err != nil {
		return view, toHTTPError(err)
	}
	if ok {
		view.UserReaction = &typ
	}
	return view, nil
}
