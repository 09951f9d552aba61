package accounting

import "errors"

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidCount  = errors.New("count must be positive")
	ErrInsufficient  = errors.New("insufficient egg balance")
)
