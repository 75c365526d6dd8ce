package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Farm errors
	ErrInvalidFarmID   = errors.New("invalid farm ID")
	ErrInvalidFarmName = errors.New("farm name must not be empty")
	ErrFarmNotFound    = errors.New("farm not found")
	ErrNotFarmOwner    = errors.New("player is not the farm owner")

	// Presence errors
	ErrPresenceNotFound = errors.New("presence record not found")

	// Object errors
	ErrObjectNotFound = errors.New("placed object not found")

	// Inventory errors
	ErrItemNotFound         = errors.New("inventory item not found")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInsufficientQuantity = errors.New("insufficient item quantity")
)
