package models

import "time"

// PaymentEventType classifies what a ledger entry settles.
type PaymentEventType string

const (
	PaymentEventDeposit   PaymentEventType = "deposit"
	PaymentEventFull      PaymentEventType = "full"
	PaymentEventRemaining PaymentEventType = "remaining"
	PaymentEventPartial   PaymentEventType = "partial"
)

// PaymentEventMethod is how the money moved.
type PaymentEventMethod string

const (
	PaymentViaVNPay        PaymentEventMethod = "vnpay"
	PaymentViaCash         PaymentEventMethod = "cash"
	PaymentViaBankTransfer PaymentEventMethod = "bank_transfer"
)

// PaymentEventStatus is the settlement outcome of a ledger entry.
type PaymentEventStatus string

const (
	PaymentEventPaid     PaymentEventStatus = "paid"
	PaymentEventPending  PaymentEventStatus = "pending"
	PaymentEventFailed   PaymentEventStatus = "failed"
	PaymentEventRefunded PaymentEventStatus = "refunded"
)

// PaymentEvent is an append-only ledger entry against a booking.
// Entries are immutable once created.
type PaymentEvent struct {
	ID            string             `bson:"id" json:"id"`
	Type          PaymentEventType   `bson:"type" json:"type"`
	Amount        int64              `bson:"amount" json:"amount"` // positive integer VND
	Method        PaymentEventMethod `bson:"method" json:"method"`
	Status        PaymentEventStatus `bson:"status" json:"status"`
	TransactionID string             `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"` // set for online payments
	PaidAt        time.Time          `bson:"paid_at" json:"paid_at"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// PaymentCallback carries the provider's asynchronous payment result.
// Delivery is at-least-once; processing must be idempotent on TransactionNo.
type PaymentCallback struct {
	BookingID     string `json:"booking_id"`
	TransactionNo string `json:"transaction_no"`
	Amount        int64  `json:"amount"`
	Success       bool   `json:"success"`
	ResponseCode  string `json:"response_code"`
}
