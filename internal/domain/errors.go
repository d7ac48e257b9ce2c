package domain

import "errors"

// Error kinds. Concrete errors in other packages wrap one of these,
// so callers can branch on errors.Is(err, domain.ErrBadRequest).
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
