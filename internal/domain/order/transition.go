package order

import (
	"fmt"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
)

// predecessors maps each vendor-driven target status to the only status it may follow
var predecessors = map[OrderStatus]struct {
	from    OrderStatus
	message string
}{
	OrderStatusProcessing: {OrderStatusPending, "Can only set to processing from pending status"},
	OrderStatusShipped:    {OrderStatusProcessing, "Can only ship orders that are being processed"},
	OrderStatusDelivered:  {OrderStatusShipped, "Can only mark as delivered orders that have been shipped"},
}

// CheckTransition validates a vendor moving an order from one status to the next
func CheckTransition(from, to OrderStatus) error {
	if from.IsTerminal() {
		return shared.TerminalState("Cannot update cancelled or refunded orders")
	}

	rule, ok := predecessors[to]
	if !ok {
		return shared.FieldError("status", "Status must be one of processing, shipped, delivered")
	}
	if from != rule.from {
		return shared.InvalidTransition(rule.message)
	}
	return nil
}

// CheckCancel validates a customer cancelling an order in status from
func CheckCancel(from OrderStatus) error {
	if from.IsTerminal() {
		return shared.TerminalState("Cannot update cancelled or refunded orders")
	}
	if from != OrderStatusPending {
		return shared.InvalidTransition(fmt.Sprintf("Cannot cancel order. Order is already %s", from))
	}
	return nil
}
