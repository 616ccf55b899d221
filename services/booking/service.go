package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "stayhub/database/repository/booking"
	"stayhub/models"
	"stayhub/utils"
)

// settlementWindow is how long after check-out the post-stay settlement runs
// before the booking completes.
const settlementWindow = 24 * time.Hour

// CreateBooking opens a new booking in pending and arms the hold-window
// expiry. No money moves here.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, input CreateBookingInput) (*models.Booking, error) {
	if input.ListingID == "" {
		return nil, NewValidationError("listing id is required")
	}
	switch input.PaymentMethod {
	case models.PayVNPayFull, models.PayVNPayDeposit, models.PayCash:
	default:
		return nil, NewValidationError("unsupported payment method %q", input.PaymentMethod)
	}
	nights := NightCount(input.StartDate, input.EndDate)
	if nights <= 0 {
		return nil, NewValidationError("end date must be after start date")
	}
	if input.StartDate.Before(startOfDay(time.Now().UTC())) {
		return nil, NewValidationError("start date is in the past")
	}

	listing, err := s.Listings.GetListing(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, NewNotFound("listing %s not found", input.ListingID)
	}
	if listing.HostID == actor.ID {
		return nil, NewValidationError("hosts cannot book their own listing")
	}

	customer, err := s.Users.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, NewNotFound("user %s not found", actor.ID)
	}

	total := StayTotal(*listing, input.StartDate, input.EndDate)
	if total <= 0 {
		return nil, NewValidationError("listing %s has no usable rate", listing.ID)
	}

	depositPct := 0
	var deposit int64
	if input.PaymentMethod == models.PayVNPayDeposit {
		depositPct = s.DepositPercentage
		deposit = DepositFor(total, depositPct)
	}

	now := time.Now().UTC()
	b := &models.Booking{
		ID:                uuid.New().String(),
		ListingID:         listing.ID,
		CustomerID:        actor.ID,
		HostID:            listing.HostID,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		TotalPrice:        total,
		Status:            models.BookingPending,
		PaymentMethod:     input.PaymentMethod,
		PaymentStatus:     models.PaymentUnpaid,
		DepositAmount:     deposit,
		DepositPercentage: depositPct,
		RemainingAmount:   total,
		PaymentHistory:    []models.PaymentEvent{},
		ExtensionRequests: []models.ExtensionRequest{},
		Listing:           *listing,
		Customer:          *customer,
		CreatedAt:         now,
	}

	if err := s.Repo.Insert(ctx, b); err != nil {
		return nil, err
	}

	if err := s.Scheduler.ScheduleExpiry(b.ID, now.Add(s.HoldWindow)); err != nil {
		utils.GetLogger().Error("failed to schedule hold-window expiry",
			zap.String("booking_id", b.ID), zap.Error(err))
	}

	s.emit(ctx, TransitionEvent{BookingID: b.ID, To: models.BookingPending, Actor: actor, At: now})
	return b, nil
}

// GetBooking fetches a single booking.
func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.load(ctx, id)
}

// ListForHost returns all bookings against the host's listings.
func (s *DefaultBookingService) ListForHost(ctx context.Context, hostID string) ([]models.Booking, error) {
	return s.Repo.ListByHost(ctx, hostID)
}

// ListForCustomer returns all bookings made by the customer.
func (s *DefaultBookingService) ListForCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.Repo.ListByCustomer(ctx, customerID)
}

// AcceptBooking moves pending to approved. Accepting authorizes payment
// recording; it does not move money.
func (s *DefaultBookingService) AcceptBooking(ctx context.Context, id string, actor models.Actor) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireHost(b, actor); err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, id, actor,
		[]models.BookingStatus{models.BookingPending},
		bookingRepo.StatusChange{To: models.BookingApproved}, b.Status)
	if err != nil {
		return nil, err
	}

	if err := s.Scheduler.ScheduleCheckInReminder(id, startOfDay(updated.StartDate)); err != nil {
		utils.GetLogger().Error("failed to schedule check-in reminder",
			zap.String("booking_id", id), zap.Error(err))
	}
	if err := s.Scheduler.ScheduleCheckout(id, updated.AuthoritativeEndDate()); err != nil {
		utils.GetLogger().Error("failed to schedule checkout",
			zap.String("booking_id", id), zap.Error(err))
	}
	return updated, nil
}

// RejectBooking moves pending to rejected. A reason is a hard input contract:
// a predefined code or free text under "other".
func (s *DefaultBookingService) RejectBooking(ctx context.Context, id string, actor models.Actor, reasonCode, otherText string) (*models.Booking, error) {
	reason, err := ValidateRejectReason(reasonCode, otherText)
	if err != nil {
		return nil, err
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireHost(b, actor); err != nil {
		return nil, err
	}

	return s.transition(ctx, id, actor,
		[]models.BookingStatus{models.BookingPending},
		bookingRepo.StatusChange{To: models.BookingRejected, RejectionReason: reason}, b.Status)
}

// CancelBooking lets the guest withdraw from pending or approved. Cancelling
// an approved booking forfeits the deposit; anything paid beyond it is flagged
// for refund on the ledger.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, id string, actor models.Actor) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireGuest(b, actor); err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, id, actor,
		[]models.BookingStatus{models.BookingPending, models.BookingApproved},
		bookingRepo.StatusChange{To: models.BookingCancelled}, b.Status)
	if err != nil {
		return nil, err
	}

	if refundable := updated.PaidAmount() - updated.DepositAmount; refundable > 0 {
		event := models.PaymentEvent{
			ID:     uuid.New().String(),
			Type:   models.PaymentEventPartial,
			Amount: refundable,
			Method: models.PaymentViaVNPay,
			Status: models.PaymentEventRefunded,
			PaidAt: time.Now().UTC(),
			Notes:  "cancellation refund, deposit forfeited",
		}
		if err := s.Repo.AppendInfoPayment(ctx, id, event); err != nil {
			utils.GetLogger().Error("failed to record cancellation refund",
				zap.String("booking_id", id), zap.Error(err))
		} else {
			updated, err = s.load(ctx, id)
			if err != nil {
				return nil, err
			}
		}
	}
	return updated, nil
}

// CheckInBooking moves approved to checked_in once the start date is reached.
func (s *DefaultBookingService) CheckInBooking(ctx context.Context, id string, actor models.Actor) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleSystem {
		if actor.ID != b.CustomerID && actor.ID != b.HostID {
			return nil, NewValidationError("actor %s is not a party to booking %s", actor.ID, id)
		}
	}
	if time.Now().UTC().Before(startOfDay(b.StartDate)) {
		return nil, NewValidationError("stay has not started yet")
	}

	return s.transition(ctx, id, actor,
		[]models.BookingStatus{models.BookingApproved},
		bookingRepo.StatusChange{To: models.BookingCheckedIn}, b.Status)
}

// CheckOutBooking moves checked_in to checked_out when the authoritative end
// date is reached, then arms post-stay settlement.
func (s *DefaultBookingService) CheckOutBooking(ctx context.Context, id string) (*models.Booking, error) {
	now := time.Now().UTC()
	updated, err := s.transition(ctx, id, models.System,
		[]models.BookingStatus{models.BookingCheckedIn},
		bookingRepo.StatusChange{To: models.BookingCheckedOut, CheckedOutAt: &now}, models.BookingCheckedIn)
	if err != nil {
		return nil, err
	}

	if updated.RemainingAmount > 0 {
		due := updated.AuthoritativeEndDate()
		if updated.RemainingDueDate != nil {
			due = *updated.RemainingDueDate
		}
		s.emit(ctx, BalanceDueEvent{BookingID: id, Remaining: updated.RemainingAmount, DueDate: due})
	}

	if err := s.Scheduler.ScheduleCompletion(id, now.Add(settlementWindow)); err != nil {
		utils.GetLogger().Error("failed to schedule completion",
			zap.String("booking_id", id), zap.Error(err))
	}
	return updated, nil
}

// CompleteBooking finalizes post-stay settlement.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.transition(ctx, id, models.System,
		[]models.BookingStatus{models.BookingCheckedOut},
		bookingRepo.StatusChange{To: models.BookingCompleted}, models.BookingCheckedOut)
}

// ExpireBooking retires a pending booking whose hold window lapsed without a
// host response.
func (s *DefaultBookingService) ExpireBooking(ctx context.Context, id string) error {
	_, err := s.transition(ctx, id, models.System,
		[]models.BookingStatus{models.BookingPending},
		bookingRepo.StatusChange{To: models.BookingExpired}, models.BookingPending)
	return err
}

// RemindCheckIn nudges the guest on the start date. It moves nothing; the
// guest still checks in through CheckInBooking.
func (s *DefaultBookingService) RemindCheckIn(ctx context.Context, id string) error {
	b, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != models.BookingApproved {
		return NewStateConflict("booking %s is %s, no check-in due", id, b.Status)
	}
	s.emit(ctx, CheckInDueEvent{BookingID: id, StartDate: startOfDay(b.StartDate)})
	return nil
}

// transition runs a guarded status update, classifies a guard miss into
// NotFound or StateConflict, and emits the transition event. observed is the
// prior status as last read by the caller (used for the event only; the guard
// re-validates against the stored status).
func (s *DefaultBookingService) transition(ctx context.Context, id string, actor models.Actor, from []models.BookingStatus, change bookingRepo.StatusChange, observed models.BookingStatus) (*models.Booking, error) {
	err := s.Repo.UpdateStatus(ctx, id, from, change)
	if errors.Is(err, bookingRepo.ErrNoMatch) {
		current, ferr := s.Repo.GetByID(ctx, id)
		if ferr != nil {
			return nil, ferr
		}
		if current == nil {
			return nil, NewNotFound("booking %s not found", id)
		}
		if current.Status.IsTerminal() {
			return nil, NewStateConflict("booking %s is closed in status %s", id, current.Status)
		}
		return nil, NewStateConflict("cannot move booking %s from %s to %s", id, current.Status, change.To)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, TransitionEvent{
		BookingID: id,
		From:      observed,
		To:        change.To,
		Actor:     actor,
		At:        time.Now().UTC(),
	})
	return updated, nil
}

func (s *DefaultBookingService) load(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, NewNotFound("booking %s not found", id)
	}
	return b, nil
}

func (s *DefaultBookingService) emit(ctx context.Context, event interface {
	EventName() string
	AggregateID() string
}) {
	if s.Notifier != nil {
		s.Notifier.Publish(ctx, event)
	}
}

func requireHost(b *models.Booking, actor models.Actor) error {
	if actor.Role == models.RoleSystem {
		return nil
	}
	if actor.ID != b.HostID {
		return NewValidationError("actor %s is not the host of booking %s", actor.ID, b.ID)
	}
	return nil
}

func requireGuest(b *models.Booking, actor models.Actor) error {
	if actor.Role == models.RoleSystem {
		return nil
	}
	if actor.ID != b.CustomerID {
		return NewValidationError("actor %s is not the guest of booking %s", actor.ID, b.ID)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
