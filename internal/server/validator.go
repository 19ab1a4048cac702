package server

import (
	"github.com/go-playground/validator/v10"
)

// selfValidating is implemented by request types that produce their own
// readable validation message.
type selfValidating interface {
	Validate() error
}

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	if v, ok := i.(selfValidating); ok {
		return v.Validate()
	}
	return cv.validator.Struct(i)
}
