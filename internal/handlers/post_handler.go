package handlers

import (
	"net/http"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts", h.CreatePost, requireAuth)
	g.GET("/my-posts", h.GetMyPosts, requireAuth)
	g.DELETE("/posts/:id", h.DeletePost, requireAuth)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.posts.Create(c.Request().Context(), actor, req.Text)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPosts returns the feed, ordered by ?sort=latest (default) or popular
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.posts.List(c.Request().Context(), c.QueryParam("sort"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetMyPosts(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	posts, err := h.posts.Mine(c.Request().Context(), actor)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost returns a post with its comments and reply thread
func (h *PostHandler) GetPost(c echo.Context) error {
	detail, err := h.posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// DeletePost deletes a post and everything attached to it
func (h *PostHandler) DeletePost(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")
	if err := h.posts.Delete(c.Request().Context(), actor, postID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Post deleted successfully", "postId": postID})
}
