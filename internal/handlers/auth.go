package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	profiles  ProfileService
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(profiles ProfileService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		profiles:  profiles,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *models.Profile `json:"user"`
	Token string          `json:"token"`
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// Register creates an account and signs the caller in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.profiles.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(c, err)
	}
	return h.respondWithToken(c, http.StatusCreated, profile)
}

// Login exchanges a username and password for a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.profiles.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(c, err)
	}
	return h.respondWithToken(c, http.StatusOK, profile)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, profile *models.Profile) error {
	token, err := h.generateJWT(profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(status, AuthResponse{User: profile, Token: token})
}

// generateJWT creates a new JWT token for the given profile
func (h *AuthHandler) generateJWT(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		Username: profile.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   profile.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
