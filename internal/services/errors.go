package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// them so the transport layer can pick a status with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
)

var (
	ErrOrderNotFound     = fmt.Errorf("order %w", ErrNotFound)
	ErrOrderItemNotFound = fmt.Errorf("order item %w", ErrNotFound)
	ErrVariantNotFound   = fmt.Errorf("variant %w", ErrNotFound)
	ErrAddressNotFound   = fmt.Errorf("address %w", ErrNotFound)
	ErrVoucherNotFound   = fmt.Errorf("voucher %w", ErrNotFound)
	ErrPaymentNotFound   = fmt.Errorf("payment %w", ErrNotFound)
	ErrShipmentNotFound  = fmt.Errorf("shipment %w", ErrNotFound)
	ErrCartNotFound      = fmt.Errorf("cart %w", ErrNotFound)
	ErrCartItemNotFound  = fmt.Errorf("cart item %w", ErrNotFound)

	ErrOrderAccessDenied  = fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	ErrActForOtherUser    = fmt.Errorf("%w: cannot create orders for another user", ErrForbidden)
	ErrAddressNotOwned    = fmt.Errorf("%w: address does not belong to the order owner", ErrForbidden)
	ErrAdminOnly          = fmt.Errorf("%w: admin role required", ErrForbidden)
	ErrCustomerCancelOnly = fmt.Errorf("%w: customers may only cancel an order", ErrForbidden)
	ErrCartAccessDenied   = fmt.Errorf("%w: cart belongs to another user", ErrForbidden)

	ErrEmptyItems      = fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	ErrStockExceeded   = fmt.Errorf("%w: quantity exceeds variant stock", ErrValidation)
	ErrInvalidAmount   = fmt.Errorf("%w: amount must not be negative", ErrValidation)
	ErrInvalidDiscount = fmt.Errorf("%w: discount must be within [0,1]", ErrValidation)
	ErrInvalidExpiry   = fmt.Errorf("%w: expiresAt must be in the future", ErrValidation)
	ErrInvalidCode     = fmt.Errorf("%w: voucher code must be 1-50 characters", ErrValidation)

	ErrVoucherInactive   = fmt.Errorf("%w: voucher is not active", ErrInvalidState)
	ErrVoucherExpired    = fmt.Errorf("%w: voucher has expired", ErrInvalidState)
	ErrOrderTerminal     = fmt.Errorf("%w: order is delivered or cancelled", ErrInvalidState)
	ErrIllegalTransition = fmt.Errorf("%w: order status transition not allowed", ErrInvalidState)
	ErrPaymentSettled    = fmt.Errorf("%w: payment is already paid", ErrInvalidState)
	ErrPaymentGatewayOff = fmt.Errorf("%w: online payment gateway is not configured", ErrInvalidState)

	ErrPaymentExists    = fmt.Errorf("%w: order already has a payment", ErrConflict)
	ErrShipmentExists   = fmt.Errorf("%w: order already has a shipment", ErrConflict)
	ErrVoucherCodeTaken = fmt.Errorf("%w: voucher code already exists", ErrConflict)
	ErrConcurrentUpdate = fmt.Errorf("%w: order was modified by another request, retry", ErrConflict)
	ErrCartItemExists   = fmt.Errorf("%w: variant is already in the cart", ErrConflict)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
