package models

import "time"

// ExtensionStatus is the resolution state of a stay-extension request.
type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionRejected ExtensionStatus = "rejected"
)

// ExtensionRequest is a guest request to extend an active stay.
// Requests are addressed by their position in Booking.ExtensionRequests;
// indices are stable and never reused.
type ExtensionRequest struct {
	AdditionalDays   int             `bson:"additional_days" json:"additional_days"`
	RequestedEndDate time.Time       `bson:"requested_end_date" json:"requested_end_date"`
	AdditionalPrice  int64           `bson:"additional_price" json:"additional_price"` // integer VND
	Status           ExtensionStatus `bson:"status" json:"status"`
	RequestedAt      time.Time       `bson:"requested_at" json:"requested_at"`
	RejectionReason  string          `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
}
