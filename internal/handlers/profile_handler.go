package handlers

import (
	"net/http"

	"github.com/anonto42/pulse/backend/internal/middleware"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles profile lookups, hearts and visibility
type ProfileHandler struct {
	profiles ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterProfileRoutes registers profile routes. requireAuth guards the
// mutating ones; optionalAuth lets owners read their own private posts.
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/profiles/check-username", h.CheckUsername)
	g.PATCH("/profiles/me/visibility", h.UpdateVisibility, requireAuth)
	g.GET("/profiles/:username", h.GetProfile)
	g.GET("/profiles/:username/posts", h.GetProfilePosts, optionalAuth)
	g.POST("/profiles/:username/heart", h.ToggleHeart, requireAuth)
}

func (h *ProfileHandler) CheckUsername(c echo.Context) error {
	exists, err := h.profiles.UsernameExists(c.Request().Context(), c.QueryParam("username"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"exists": exists})
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profiles.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetProfilePosts(c echo.Context) error {
	posts, err := h.profiles.PostsOf(c.Request().Context(), middleware.Username(c), c.Param("username"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *ProfileHandler) ToggleHeart(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.profiles.ToggleHeart(c.Request().Context(), actor, c.Param("username"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) UpdateVisibility(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.VisibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.profiles.SetVisibility(c.Request().Context(), actor, *req.IsPublic)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
