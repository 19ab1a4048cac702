package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common failures when talking to the portfolio API.
var (
	ErrNotFound          = errors.New("requested resource not found")
	ErrUnauthorized      = errors.New("not authenticated")
	ErrInvalidTechnology = errors.New("unknown technology")
)
