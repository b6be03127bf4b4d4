package errors

import "errors"

// Discrete failure reasons surfaced to callers in error details. The UI
// switches on these, never on message text.
const (
	ReasonInvalidParameters    = "invalid_parameters"
	ReasonRoomUnavailable      = "room_unavailable"
	ReasonPropertyUnavailable  = "property_unavailable"
	ReasonInsufficientCapacity = "insufficient_capacity"
	ReasonStaleInventory       = "stale_inventory"
	ReasonQuotaExceeded        = "quota_exceeded"
	ReasonPricingUnavailable   = "pricing_unavailable"
	ReasonRuleViolation        = "rule_violation"
	ReasonLockTimeout          = "lock_timeout"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrInvalidParameters = errors.New("invalid booking parameters")

	ErrRoomUnavailable = errors.New("one or more requested rooms are no longer available")

	ErrPropertyUnavailable = errors.New("property is not available for buyout")

	ErrInsufficientCapacity = errors.New("selected rooms cannot hold the requested guests")

	ErrStaleInventory = errors.New("inventory changed since availability was displayed")

	ErrQuotaExceeded = errors.New("membership room quota exceeded")

	ErrPricingUnavailable = errors.New("no pricing rule resolves for this stay")

	ErrRuleViolation = errors.New("stay rules violated")

	ErrLockTimeout = errors.New("timed out acquiring inventory lock")
)
