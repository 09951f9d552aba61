package member

import "errors"

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvalidRiceType    = errors.New("invalid rice type")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidPeriodBound = errors.New("invalid accounting period bound")
)
