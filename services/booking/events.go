package booking

import (
	"time"

	"stayhub/models"
)

// TransitionEvent is emitted on every booking status transition.
type TransitionEvent struct {
	BookingID string               `json:"booking_id"`
	From      models.BookingStatus `json:"from"`
	To        models.BookingStatus `json:"to"`
	Actor     models.Actor         `json:"actor"`
	At        time.Time            `json:"at"`
}

func (e TransitionEvent) EventName() string   { return "booking." + string(e.To) }
func (e TransitionEvent) AggregateID() string { return e.BookingID }

// PaymentRecordedEvent is emitted when a ledger entry settles.
type PaymentRecordedEvent struct {
	BookingID string                    `json:"booking_id"`
	Amount    int64                     `json:"amount"`
	Method    models.PaymentEventMethod `json:"method"`
	Remaining int64                     `json:"remaining"`
	Status    models.PaymentState       `json:"status"`
	At        time.Time                 `json:"at"`
}

func (e PaymentRecordedEvent) EventName() string   { return "booking.payment_recorded" }
func (e PaymentRecordedEvent) AggregateID() string { return e.BookingID }

// ExtensionEvent is emitted when an extension request is created or resolved.
type ExtensionEvent struct {
	BookingID string                 `json:"booking_id"`
	Index     int                    `json:"index"`
	Status    models.ExtensionStatus `json:"status"`
	Actor     models.Actor           `json:"actor"`
	At        time.Time              `json:"at"`
}

func (e ExtensionEvent) EventName() string   { return "booking.extension_" + string(e.Status) }
func (e ExtensionEvent) AggregateID() string { return e.BookingID }

// BalanceDueEvent is emitted at check-out when a balance is still outstanding.
type BalanceDueEvent struct {
	BookingID string    `json:"booking_id"`
	Remaining int64     `json:"remaining"`
	DueDate   time.Time `json:"due_date"`
}

func (e BalanceDueEvent) EventName() string   { return "booking.balance_due" }
func (e BalanceDueEvent) AggregateID() string { return e.BookingID }

// CheckInDueEvent is emitted on the start date of an approved booking.
type CheckInDueEvent struct {
	BookingID string    `json:"booking_id"`
	StartDate time.Time `json:"start_date"`
}

func (e CheckInDueEvent) EventName() string   { return "booking.checkin_due" }
func (e CheckInDueEvent) AggregateID() string { return e.BookingID }
