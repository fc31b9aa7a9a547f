package handlers

import (
	"net/http"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/posts/:id/comments", h.CreateComment, requireAuth)
	g.DELETE("/posts/:id/comments/:commentId", h.DeleteComment, requireAuth)
	g.POST("/posts/:id/comments/:commentId/upvote", h.UpvoteComment, requireAuth)
}

// CreateComment adds a comment, or a reply when parentId is given
func (h *CommentHandler) CreateComment(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	detail, err := h.comments.Add(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, detail)
}

// DeleteComment removes a comment together with its direct replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	detail, err := h.comments.Delete(c.Request().Context(), actor, c.Param("id"), c.Param("commentId"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// UpvoteComment toggles the caller's upvote
func (h *CommentHandler) UpvoteComment(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.comments.ToggleUpvote(c.Request().Context(), actor, c.Param("id"), c.Param("commentId"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
