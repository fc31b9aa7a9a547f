package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/pulse/backend/internal/logger"
	"github.com/anonto42/pulse/backend/internal/middleware"
	apperrors "github.com/anonto42/pulse/backend/pkg/errors"
	"github.com/labstack/echo/v4"
)

var errNotAuthenticated = echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")

// httpError converts a service error into the HTTP error echo renders.
// Internal failures are logged here and reach the client without detail.
func httpError(c echo.Context, err error) error {
	status := statusFor(apperrors.CodeOf(err))
	if status == http.StatusInternalServerError {
		logger.L().Error("request failed",
			"method", c.Request().Method,
			"route", c.Path(),
			"user", middleware.Username(c),
			"error", err,
		)
		return echo.NewHTTPError(status, "internal server error")
	}

	var appErr *apperrors.AppError
	errors.As(err, &appErr)
	body := map[string]string{"message": appErr.Message}
	if appErr.Reason != "" {
		body["reason"] = appErr.Reason
	}
	return echo.NewHTTPError(status, body)
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.CodePermissionDenied:
		return http.StatusForbidden
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// currentUser returns the authenticated username or a 401.
func currentUser(c echo.Context) (string, error) {
	username := middleware.Username(c)
	if username == "" {
		return "", errNotAuthenticated
	}
	return username, nil
}
