// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator wraps a validator.Validate instance for Echo.
type requestValidator struct {
	validate *validator.Validate
}

// New builds the Echo request validator.
func New() echo.Validator {
	return &requestValidator{validate: validator.New()}
}

// Validate runs struct validation and converts failures into 400 responses.
func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
