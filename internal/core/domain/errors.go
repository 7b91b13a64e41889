// internal/core/domain/errors.go
package domain

import "errors"

// Error kinds surfaced by the store and cart services. Callers classify
// failures with errors.Is and map them to user-facing reasons.
var (
	// ErrRemoteUnavailable marks a transport-level failure talking to the
	// remote inventory service. It triggers the permanent offline downgrade.
	ErrRemoteUnavailable = errors.New("remote inventory service unavailable")

	// ErrRemoteRejected marks a structured failure reported by the remote
	// service. The server-supplied reason is surfaced verbatim.
	ErrRemoteRejected = errors.New("remote inventory service rejected request")

	// ErrNotFound marks an update or delete whose target id is absent.
	ErrNotFound = errors.New("item not found")

	// ErrValidation marks missing or invalid caller input.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock marks a cart request exceeding on-hand quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCartEmpty marks a purchase attempted against an empty cart.
	ErrCartEmpty = errors.New("cart is empty")
)
