package domain

import "errors"

// Error kinds surfaced to callers. Lower layers wrap them with %w.
var (
	ErrInvalidReference = errors.New("invalid reference")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConflict         = errors.New("conflict")
	ErrStorage          = errors.New("storage error")
	ErrValidation       = errors.New("validation error")
)

// Item types a review may target.
const (
	ItemTypeService = "service"
	ItemTypeProduct = "product"
)

const (
	BookingPending    = "pending"
	PurchaseCompleted = "completed"
)
