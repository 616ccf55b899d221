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

// payableStatuses are the states under which money may be recorded. Acceptance
// authorizes recording; terminal states never take payments.
var payableStatuses = []models.BookingStatus{
	models.BookingApproved,
	models.BookingCheckedIn,
	models.BookingCheckedOut,
}

// onlinePayableStatuses additionally allow pending: a guest pays the gateway
// right after requesting, before the host responds.
var onlinePayableStatuses = append([]models.BookingStatus{models.BookingPending}, payableStatuses...)

// RecordManualPayment records a host-collected cash or bank-transfer payment.
// The amount cap against the remaining balance is re-validated inside the
// atomic ledger append and retried once on an optimistic conflict.
func (s *DefaultBookingService) RecordManualPayment(ctx context.Context, id string, actor models.Actor, input ManualPaymentInput) (*models.Booking, error) {
	if input.Method != models.PaymentViaCash && input.Method != models.PaymentViaBankTransfer {
		return nil, NewValidationError("unsupported manual payment method %q", input.Method)
	}
	if input.Amount <= 0 {
		return nil, NewInvalidAmount("payment amount must be positive")
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireHost(b, actor); err != nil {
		return nil, err
	}
	if input.Amount > b.RemainingAmount {
		return nil, NewInvalidAmount("amount %d exceeds remaining balance %d", input.Amount, b.RemainingAmount)
	}

	event := models.PaymentEvent{
		ID:     uuid.New().String(),
		Type:   manualEventType(input.Amount, b.RemainingAmount),
		Amount: input.Amount,
		Method: input.Method,
		Status: models.PaymentEventPaid,
		PaidAt: time.Now().UTC(),
		Notes:  input.Notes,
	}

	err = s.Repo.AppendPaidPayment(ctx, id, event, payableStatuses)
	if errors.Is(err, bookingRepo.ErrNoMatch) {
		// Optimistic conflict: another recording may have shrunk the balance
		// between our read and the guarded write. Re-read and retry once.
		b, err = s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if !statusIn(b.Status, payableStatuses) {
			return nil, NewStateConflict("booking %s does not take payments in status %s", id, b.Status)
		}
		if input.Amount > b.RemainingAmount {
			return nil, NewInvalidAmount("amount %d exceeds remaining balance %d", input.Amount, b.RemainingAmount)
		}
		event.Type = manualEventType(input.Amount, b.RemainingAmount)
		if err = s.Repo.AppendPaidPayment(ctx, id, event, payableStatuses); errors.Is(err, bookingRepo.ErrNoMatch) {
			return nil, NewInvalidAmount("amount %d no longer covered by the remaining balance", input.Amount)
		}
	}
	if err != nil {
		return nil, err
	}

	return s.afterPayment(ctx, id, event)
}

// RecordOnlinePayment applies a payment-provider callback to the ledger.
// Callbacks are delivered at least once; a transaction already on the ledger
// is acknowledged without crediting again.
func (s *DefaultBookingService) RecordOnlinePayment(ctx context.Context, callback models.PaymentCallback) (*models.Booking, error) {
	if callback.TransactionNo == "" {
		return nil, NewValidationError("transaction number is required")
	}

	b, err := s.load(ctx, callback.BookingID)
	if err != nil {
		return nil, err
	}

	if !callback.Success {
		event := models.PaymentEvent{
			ID:            uuid.New().String(),
			Type:          models.PaymentEventFull,
			Amount:        callback.Amount,
			Method:        models.PaymentViaVNPay,
			Status:        models.PaymentEventFailed,
			TransactionID: callback.TransactionNo,
			PaidAt:        time.Now().UTC(),
			Notes:         "provider response code " + callback.ResponseCode,
		}
		if err := s.Repo.AppendInfoPayment(ctx, callback.BookingID, event); err != nil && !errors.Is(err, bookingRepo.ErrNoMatch) {
			utils.GetLogger().Error("failed to record failed payment",
				zap.String("booking_id", callback.BookingID), zap.Error(err))
		}
		return nil, NewUpstreamPaymentError("provider reported failure, code %s", callback.ResponseCode)
	}

	if callback.Amount <= 0 {
		return nil, NewInvalidAmount("payment amount must be positive")
	}

	event := models.PaymentEvent{
		ID:            uuid.New().String(),
		Type:          onlineEventType(b, callback.Amount),
		Amount:        callback.Amount,
		Method:        models.PaymentViaVNPay,
		Status:        models.PaymentEventPaid,
		TransactionID: callback.TransactionNo,
		PaidAt:        time.Now().UTC(),
	}

	err = s.Repo.AppendPaidPayment(ctx, callback.BookingID, event, onlinePayableStatuses)
	if errors.Is(err, bookingRepo.ErrNoMatch) {
		b, err = s.load(ctx, callback.BookingID)
		if err != nil {
			return nil, err
		}
		if hasTransaction(b, callback.TransactionNo) {
			// Duplicate callback: already credited.
			return b, nil
		}
		if callback.Amount > b.RemainingAmount {
			return nil, NewInvalidAmount("amount %d exceeds remaining balance %d", callback.Amount, b.RemainingAmount)
		}
		return nil, NewStateConflict("booking %s does not take payments in status %s", b.ID, b.Status)
	}
	if err != nil {
		return nil, err
	}

	// A settled deposit fixes when the balance falls due: at check-in.
	if event.Type == models.PaymentEventDeposit {
		if err := s.Repo.SetRemainingDueDate(ctx, callback.BookingID, startOfDay(b.StartDate)); err != nil {
			utils.GetLogger().Error("failed to set remaining due date",
				zap.String("booking_id", callback.BookingID), zap.Error(err))
		}
	}

	return s.afterPayment(ctx, callback.BookingID, event)
}

func (s *DefaultBookingService) afterPayment(ctx context.Context, id string, event models.PaymentEvent) (*models.Booking, error) {
	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, PaymentRecordedEvent{
		BookingID: id,
		Amount:    event.Amount,
		Method:    event.Method,
		Remaining: updated.RemainingAmount,
		Status:    updated.PaymentStatus,
		At:        event.PaidAt,
	})
	return updated, nil
}

// manualEventType labels an entry that clears the balance as "remaining".
func manualEventType(amount, remaining int64) models.PaymentEventType {
	if amount == remaining {
		return models.PaymentEventRemaining
	}
	return models.PaymentEventPartial
}

// onlineEventType classifies a gateway payment against the plan: the full
// authoritative total, the agreed deposit, or a partial amount.
func onlineEventType(b *models.Booking, amount int64) models.PaymentEventType {
	switch {
	case amount == b.AuthoritativeTotal():
		return models.PaymentEventFull
	case b.PaymentMethod == models.PayVNPayDeposit && amount == b.DepositAmount:
		return models.PaymentEventDeposit
	case amount == b.RemainingAmount:
		return models.PaymentEventRemaining
	default:
		return models.PaymentEventPartial
	}
}

func hasTransaction(b *models.Booking, txn string) bool {
	for _, e := range b.PaymentHistory {
		if e.TransactionID == txn && e.Status == models.PaymentEventPaid {
			return true
		}
	}
	return false
}

func statusIn(s models.BookingStatus, set []models.BookingStatus) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}
