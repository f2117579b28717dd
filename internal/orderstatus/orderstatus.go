// Package orderstatus holds the seller-facing table of order status changes.
// The marketplace backend enforces the real rules and may still refuse a
// change offered here.
package orderstatus

import (
	"errors"
	"slices"
	"strings"

	"autoparts-storefront/internal/domain"
)

// ErrIllegalTransition is returned when a change is not offered for the
// order's current status.
var ErrIllegalTransition = errors.New("status transition not allowed")

var transitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPendingPayment: {
		domain.OrderStatusPaymentCompleted,
		domain.OrderStatusCancelled,
	},
	domain.OrderStatusPaymentCompleted: {
		domain.OrderStatusProcessing,
		domain.OrderStatusRefunded,
		domain.OrderStatusCancelled,
	},
	domain.OrderStatusProcessing: {
		domain.OrderStatusShipped,
		domain.OrderStatusCancelled,
		domain.OrderStatusRefunded,
	},
	domain.OrderStatusShipped: {
		domain.OrderStatusDelivered,
		domain.OrderStatusCancelled,
		domain.OrderStatusRefunded,
	},
	domain.OrderStatusDelivered: {
		domain.OrderStatusRefunded,
	},
	domain.OrderStatusCancelled: {},
	domain.OrderStatusRefunded:  {},
}

// AvailableTransitions lists the statuses a seller may move an order to from
// status. The result is a fresh slice; unknown statuses have none.
func AvailableTransitions(status domain.OrderStatus) []domain.OrderStatus {
	return slices.Clone(transitions[status])
}

// CanTransition reports whether to is offered from from.
func CanTransition(from, to domain.OrderStatus) bool {
	return slices.Contains(transitions[from], to)
}

// IsTerminal reports whether status offers no further changes.
func IsTerminal(status domain.OrderStatus) bool {
	return len(transitions[status]) == 0
}

// Label turns PAYMENT_COMPLETED into "Payment Completed".
func Label(status domain.OrderStatus) string {
	words := strings.Split(strings.ToLower(string(status)), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ConfirmPrompt is the question put to the seller before a change is sent.
func ConfirmPrompt(to domain.OrderStatus) string {
	return "Are you sure you want to mark this order as " + Label(to) + "?"
}
