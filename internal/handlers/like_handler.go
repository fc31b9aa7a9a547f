package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	posts PostService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(posts PostService) *LikeHandler {
	return &LikeHandler{posts: posts}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/posts/:id/like", h.LikePost, requireAuth)
	g.DELETE("/posts/:id/like", h.UnlikePost, requireAuth)
}

// LikePost likes a post. Liking twice is not an error.
func (h *LikeHandler) LikePost(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	post, err := h.posts.Like(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// UnlikePost removes the caller's like
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	post, err := h.posts.Unlike(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}
