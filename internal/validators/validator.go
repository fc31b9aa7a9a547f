package validators

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// CustomValidator adapts go-playground/validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator with the project's custom tags registered.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator. Failures come back as 400s.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
