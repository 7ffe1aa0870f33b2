package domain

import "errors"

var (
	ErrEventNotFound            = errors.New("event not found")
	ErrEventExists              = errors.New("event already exists")
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrDuplicateReservation     = errors.New("duplicate reservation id")
	ErrInsufficientCapacity     = errors.New("not enough seats left")
	ErrContention               = errors.New("too many concurrent updates")
	ErrAlreadyCancelled         = errors.New("reservation already cancelled")
	ErrInconsistentCancellation = errors.New("seats credited but reservation not marked cancelled")
	ErrVersionConflict          = errors.New("inventory version conflict")
	ErrPartnerRequired          = errors.New("partner id required")
	ErrInvalidSeats             = errors.New("seats must be between 1 and 10")
	ErrEventNameRequired        = errors.New("event name required")
	ErrInvalidCapacity          = errors.New("total seats must be positive")
)
