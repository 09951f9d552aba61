package meal

import "errors"

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrCutoffExceeded       = errors.New("cutoff exceeded")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrForbidden            = errors.New("not allowed to modify this registration")
	ErrInvalidRange         = errors.New("invalid date range")
	ErrRangeTooLarge        = errors.New("date range too large")
)
