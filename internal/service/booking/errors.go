package booking

import "errors"

var (
	ErrNotFound         = errors.New("booking not found")
	ErrSlotTaken        = errors.New("slot already reserved")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrTenantMismatch   = errors.New("booking belongs to another tenant")
	ErrInvalidStartTime = errors.New("invalid start time")
)
