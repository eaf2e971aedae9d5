package treatment

import "errors"

var (
	ErrNotFound        = errors.New("treatment not found")
	ErrInvalidDuration = errors.New("treatment duration out of range")
)
