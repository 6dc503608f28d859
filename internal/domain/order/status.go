package order

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("order: invalid status transition")

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// InvalidTransitionError carries the status the order was in when the
// transition was rejected.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order: cannot transition from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// allowedTransitions is the full lifecycle graph:
// pending -> confirmed | cancelled, confirmed -> shipped | cancelled,
// shipped -> delivered. Cancelled and delivered are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

func (o *Order) transition(to Status) error {
	for _, next := range allowedTransitions[o.Status] {
		if next == to {
			o.Status = to
			o.touch()
			return nil
		}
	}
	return &InvalidTransitionError{From: o.Status, To: to}
}

// Confirm moves a pending order to confirmed.
func (o *Order) Confirm() error {
	return o.transition(StatusConfirmed)
}

// Cancel is legal from pending or confirmed. Shipped and delivered orders
// cannot be cancelled, and a cancelled order cannot be cancelled again.
func (o *Order) Cancel() error {
	return o.transition(StatusCancelled)
}

// Ship moves a confirmed order to shipped.
func (o *Order) Ship() error {
	return o.transition(StatusShipped)
}

// Deliver moves a shipped order to delivered.
func (o *Order) Deliver() error {
	return o.transition(StatusDelivered)
}
