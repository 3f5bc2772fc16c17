package orders

import "github.com/afigueroa/mailprov-backend/pkg/enums"

// CanTransition reports whether an order may move from one status to another.
// Setting the current status again is a no-op and always allowed; terminal
// states are immovable.
func CanTransition(from, to enums.OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}

	switch from {
	case enums.OrderStatusPending:
		return true
	case enums.OrderStatusProcessing:
		return to != enums.OrderStatusPending
	default:
		return false
	}
}

// Deliverable reports whether the order may still receive credentials.
func Deliverable(status enums.OrderStatus) bool {
	return status == enums.OrderStatusPending || status == enums.OrderStatusProcessing
}
