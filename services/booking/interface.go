package booking

import (
	"context"
	"time"

	bookingRepo "stayhub/database/repository/booking"
	"stayhub/models"
	"stayhub/services/notification"
)

// ListingDirectory is the read-only boundary to the external listing service.
type ListingDirectory interface {
	GetListing(ctx context.Context, id string) (*models.ListingSummary, error)
}

// UserDirectory is the read-only boundary to the external identity service.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*models.UserSummary, error)
}

// LifecycleScheduler enqueues the time-driven tasks: hold-window expiry, the
// start-date check-in reminder, end-of-stay check-out and post-stay
// completion.
type LifecycleScheduler interface {
	ScheduleExpiry(bookingID string, at time.Time) error
	ScheduleCheckInReminder(bookingID string, at time.Time) error
	ScheduleCheckout(bookingID string, at time.Time) error
	ScheduleCompletion(bookingID string, at time.Time) error
}

// CreateBookingInput is the request to open a new booking.
type CreateBookingInput struct {
	ListingID     string               `json:"listing_id"`
	StartDate     time.Time            `json:"start_date"`
	EndDate       time.Time            `json:"end_date"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// ManualPaymentInput is a host-recorded cash or bank-transfer payment.
type ManualPaymentInput struct {
	Amount int64                     `json:"amount"`
	Method models.PaymentEventMethod `json:"method"`
	Notes  string                    `json:"notes"`
}

// ExtensionInput is a guest request to extend a stay.
type ExtensionInput struct {
	AdditionalDays   int       `json:"additional_days"`
	RequestedEndDate time.Time `json:"requested_end_date"`
}

// HistoryResult is a page of history rows plus statistics and pagination.
type HistoryResult struct {
	Bookings   []models.BookingHistoryItem `json:"bookings"`
	Statistics models.BookingStatistics    `json:"statistics"`
	Pagination models.Pagination           `json:"pagination"`
}

// BookingService owns the booking lifecycle: status transitions, the payment
// ledger and the extension workflow. Every operation takes the request-scoped
// actor; there is no ambient session state.
type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, input CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListForHost(ctx context.Context, hostID string) ([]models.Booking, error)
	ListForCustomer(ctx context.Context, customerID string) ([]models.Booking, error)

	AcceptBooking(ctx context.Context, id string, actor models.Actor) (*models.Booking, error)
	RejectBooking(ctx context.Context, id string, actor models.Actor, reasonCode, otherText string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string, actor models.Actor) (*models.Booking, error)
	CheckInBooking(ctx context.Context, id string, actor models.Actor) (*models.Booking, error)
	CheckOutBooking(ctx context.Context, id string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, id string) (*models.Booking, error)
	ExpireBooking(ctx context.Context, id string) error
	RemindCheckIn(ctx context.Context, id string) error

	RecordManualPayment(ctx context.Context, id string, actor models.Actor, input ManualPaymentInput) (*models.Booking, error)
	RecordOnlinePayment(ctx context.Context, callback models.PaymentCallback) (*models.Booking, error)

	RequestExtension(ctx context.Context, id string, actor models.Actor, input ExtensionInput) (*models.Booking, error)
	ApproveExtension(ctx context.Context, id string, actor models.Actor, index int) (*models.Booking, error)
	RejectExtension(ctx context.Context, id string, actor models.Actor, index int, reason string) (*models.Booking, error)

	GuestHistory(ctx context.Context, userID string, filter models.HistoryFilter) (*HistoryResult, error)
	HostHistory(ctx context.Context, hostID string, filter models.HistoryFilter) (*HistoryResult, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo              bookingRepo.BookingRepository
	Listings          ListingDirectory
	Users             UserDirectory
	Scheduler         LifecycleScheduler
	Notifier          notification.NotificationService
	HoldWindow        time.Duration
	DepositPercentage int
}
