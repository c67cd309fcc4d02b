package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository // To fetch author names for comments
	counter           *engagement.CommentCounter  // Keeps comment_count in step
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, counter *engagement.CommentCounter) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		counter:           counter,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a public post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")
	ctx := c.Request().Context()

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return toHTTPError(err)
	}
	if !post.Visibility {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot comment on private posts")
	}

	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return toHTTPError(err)
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  user.ID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return toHTTPError(err)
	}

	// The comment is saved; a failed count update is logged and recorded as drift.
	_ = h.counter.OnCommentCreated(ctx, postID)

	return c.JSON(http.StatusCreated, models.CommentView{Comment: *comment, UserName: models.DisplayName(user)})
}

// GetCommentsByPostID returns a page of a public post's comments, newest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return toHTTPError(err)
	}
	if !post.Visibility {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot view comments on private posts")
	}

	page := pageFromQuery(c)
	comments, total, err := h.commentRepository.GetCommentsByPostID(ctx, postID, page)
	if err != nil {
		return toHTTPError(err)
	}

	ids := make([]uint, 0, len(comments))
	for _, cm := range comments {
		ids = append(ids, cm.UserID)
	}
	users, err := h.userRepository.GetUsersByIDs(ctx, ids)
	if err != nil {
		return toHTTPError(err)
	}

	views := make([]models.CommentView, len(comments))
	for i, cm := range comments {
		var author *models.User
		if u, ok := users[cm.UserID]; ok {
			author = &u
		}
		views[i] = models.CommentView{Comment: cm, UserName: models.DisplayName(author)}
	}

	return c.JSON(http.StatusOK, models.NewPage(views, page, total))
}

// DeleteComment deletes a comment; only its author may do so
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID := c.Param("id")
	if _, err := uuid.Parse(commentID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}
	ctx := c.Request().Context()

	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return toHTTPError(err)
	}

	// Ensure the user deleting the comment is the owner
	if comment.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// deleted by a concurrent request, which also took the count down
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return toHTTPError(err)
	}

	_ = h.counter.OnCommentDeleted(ctx, comment.PostID)

	return c.NoContent(http.StatusNoContent)
}
