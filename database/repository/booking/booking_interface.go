package bookingRepo

import (
	"context"
	"errors"
	"time"

	"stayhub/models"
)

// ErrNoMatch is returned when a guarded update matched no document: either the
// booking does not exist or its stored state no longer satisfies the guard.
// Callers re-read the document to tell the two apart.
var ErrNoMatch = errors.New("booking repo: guarded update matched no document")

// StatusChange describes a guarded status transition write.
type StatusChange struct {
	To              models.BookingStatus
	RejectionReason string     // set for host rejections
	CheckedOutAt    *time.Time // set on check-out
}

// HistoryScope selects whose bookings a history query covers.
// Exactly one of HostID/CustomerID is set.
type HistoryScope struct {
	HostID     string
	CustomerID string
}

// HistoryPage is one page of booking records plus the total match count.
type HistoryPage struct {
	Bookings []models.Booking
	Total    int64
}

// BookingRepository is the data-access boundary for booking documents.
// All mutating methods are single-document atomic writes whose filters encode
// the transition guard, so concurrent actors cannot interleave illegally.
type BookingRepository interface {
	Insert(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByHost(ctx context.Context, hostID string) ([]models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)

	// UpdateStatus moves a booking to change.To only when its current status
	// is one of from. ErrNoMatch on guard failure.
	UpdateStatus(ctx context.Context, id string, from []models.BookingStatus, change StatusChange) error

	// AppendPaidPayment appends a settled ledger entry and atomically
	// recomputes remaining_amount and payment_status. The write is guarded on
	// remaining_amount >= event.Amount, on the booking status being one of
	// allowed, and (for online payments) on event.TransactionID not already
	// appearing in the ledger.
	AppendPaidPayment(ctx context.Context, id string, event models.PaymentEvent, allowed []models.BookingStatus) error

	// AppendInfoPayment appends a non-settling entry (failed or refunded)
	// without touching the reconciliation aggregates.
	AppendInfoPayment(ctx context.Context, id string, event models.PaymentEvent) error

	// SetRemainingDueDate records when the outstanding balance falls due.
	SetRemainingDueDate(ctx context.Context, id string, due time.Time) error

	// AppendExtension appends a pending extension request, guarded on the
	// booking status being one of allowed and on no other pending request.
	AppendExtension(ctx context.Context, id string, req models.ExtensionRequest, allowed []models.BookingStatus) error

	// ApproveExtension resolves the pending request at index, sets the final
	// end date, raises the authoritative total and remaining amount by
	// additionalPrice, and downgrades payment_status from paid when a new
	// balance appears. Guarded on the request still being pending.
	ApproveExtension(ctx context.Context, id string, index int, finalEndDate time.Time, additionalPrice int64) error

	// RejectExtension resolves the pending request at index with a reason.
	RejectExtension(ctx context.Context, id string, index int, reason string) error

	History(ctx context.Context, scope HistoryScope, filter models.HistoryFilter) (*HistoryPage, error)
	Statistics(ctx context.Context, scope HistoryScope, now time.Time) (*models.BookingStatistics, error)
}
