package models

import "time"

// BookingStatus enumerates the booking lifecycle states.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingApproved   BookingStatus = "approved"
	BookingRejected   BookingStatus = "rejected"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingExpired    BookingStatus = "expired"
)

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingRejected, BookingCancelled, BookingCompleted, BookingExpired:
		return true
	}
	return false
}

// PaymentMethod is the payment plan chosen at booking time.
type PaymentMethod string

const (
	PayVNPayFull    PaymentMethod = "vnpay_full"
	PayVNPayDeposit PaymentMethod = "vnpay_deposit"
	PayCash         PaymentMethod = "cash"
)

// PaymentState is the derived reconciliation state of a booking.
type PaymentState string

const (
	PaymentUnpaid        PaymentState = "unpaid"
	PaymentPartiallyPaid PaymentState = "partially_paid"
	PaymentPaid          PaymentState = "paid"
)

// Booking is a rental booking record. Payment events and extension requests
// are embedded sub-collections owned exclusively by this document.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	ListingID  string `bson:"listing_id" json:"listing_id"`
	CustomerID string `bson:"customer_id" json:"customer_id"`
	HostID     string `bson:"host_id" json:"host_id"` // creator of the listing

	StartDate    time.Time  `bson:"start_date" json:"start_date"`
	EndDate      time.Time  `bson:"end_date" json:"end_date"`
	FinalEndDate *time.Time `bson:"final_end_date,omitempty" json:"final_end_date,omitempty"` // set once an extension is approved

	TotalPrice      int64  `bson:"total_price" json:"total_price"` // integer VND
	FinalTotalPrice *int64 `bson:"final_total_price,omitempty" json:"final_total_price,omitempty"`

	Status BookingStatus `bson:"status" json:"status"`

	PaymentMethod     PaymentMethod `bson:"payment_method" json:"payment_method"`
	PaymentStatus     PaymentState  `bson:"payment_status" json:"payment_status"`
	DepositAmount     int64         `bson:"deposit_amount" json:"deposit_amount"`
	DepositPercentage int           `bson:"deposit_percentage" json:"deposit_percentage"`
	RemainingAmount   int64         `bson:"remaining_amount" json:"remaining_amount"`
	RemainingDueDate  *time.Time    `bson:"remaining_due_date,omitempty" json:"remaining_due_date,omitempty"`

	PaymentHistory    []PaymentEvent     `bson:"payment_history" json:"payment_history"`
	ExtensionRequests []ExtensionRequest `bson:"extension_requests" json:"extension_requests"`

	RejectionReason string `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`

	// Boundary snapshots captured at creation; listing and identity services
	// stay external.
	Listing  ListingSummary `bson:"listing" json:"listing"`
	Customer UserSummary    `bson:"customer" json:"customer"`

	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	CheckedOutAt *time.Time `bson:"checked_out_at,omitempty" json:"checked_out_at,omitempty"`
}

// AuthoritativeTotal returns the price the ledger reconciles against:
// finalTotalPrice once an extension is approved, else the requested total.
func (b *Booking) AuthoritativeTotal() int64 {
	if b.FinalTotalPrice != nil {
		return *b.FinalTotalPrice
	}
	return b.TotalPrice
}

// AuthoritativeEndDate returns finalEndDate once set, else the requested end date.
func (b *Booking) AuthoritativeEndDate() time.Time {
	if b.FinalEndDate != nil {
		return *b.FinalEndDate
	}
	return b.EndDate
}

// PaidAmount sums ledger entries that settled successfully.
func (b *Booking) PaidAmount() int64 {
	var paid int64
	for _, e := range b.PaymentHistory {
		if e.Status == PaymentEventPaid {
			paid += e.Amount
		}
	}
	return paid
}

// PendingExtensionIndex returns the index of the pending extension request,
// or -1 when none is pending.
func (b *Booking) PendingExtensionIndex() int {
	for i, r := range b.ExtensionRequests {
		if r.Status == ExtensionPending {
			return i
		}
	}
	return -1
}
