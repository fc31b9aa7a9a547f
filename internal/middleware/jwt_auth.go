package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// ContextKeyUser is where authenticated claims are stored on the echo context.
const ContextKeyUser = "user"

var (
	errMissingHeader = echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	errBadHeader     = echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	errInvalidToken  = echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
)

// JWTAuthMiddleware checks for a valid JWT and extracts user claims.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c.Request().Header.Get("Authorization"))
			if err != nil {
				return err
			}
			claims, err := ParseToken(tokenString, secret)
			if err != nil {
				return errInvalidToken
			}
			c.Set(ContextKeyUser, claims)
			return next(c)
		}
	}
}

// OptionalJWTAuth stores claims when a valid token is presented and lets
// anonymous requests through untouched.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tokenString, err := bearerToken(c.Request().Header.Get("Authorization")); err == nil {
				if claims, err := ParseToken(tokenString, secret); err == nil {
					c.Set(ContextKeyUser, claims)
				}
			}
			return next(c)
		}
	}
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(tokenString, secret string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Username == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Username returns the authenticated username, or "" for anonymous requests.
func Username(c echo.Context) string {
	claims, ok := c.Get(ContextKeyUser).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return ""
	}
	return claims.Username
}

// Expecting "Bearer <token>"
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errBadHeader
	}
	return parts[1], nil
}
