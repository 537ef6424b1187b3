package domain

// IsTerminal reports whether payment and shipment records of an order in this
// status are frozen.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

var forwardTransitions = map[OrderStatus]OrderStatus{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusShipped,
	StatusShipped:   StatusDelivered,
}

// CanTransition reports whether an order may move from one status to another
// through an explicit status change. Staying in place is always allowed.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() || !to.Valid() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return forwardTransitions[from] == to
}

// StatusAfterPayment returns the order status once a payment reaches the given
// status. The boolean is false when the order does not change.
func StatusAfterPayment(current OrderStatus, payment PaymentStatus) (OrderStatus, bool) {
	if payment != PaymentPaid || current != StatusPending {
		return current, false
	}
	return StatusConfirmed, true
}

// StatusAfterShipment maps a shipment status to the order status it drives.
func StatusAfterShipment(current OrderStatus, shipment ShipmentStatus) (OrderStatus, bool) {
	if current.IsTerminal() {
		return current, false
	}

	var next OrderStatus
	switch shipment {
	case ShipmentInTransit:
		next = StatusShipped
	case ShipmentDelivered:
		next = StatusDelivered
	case ShipmentReturned:
		next = StatusCancelled
	default:
		return current, false
	}
	return next, next != current
}
