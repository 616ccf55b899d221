package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingRepo "stayhub/database/repository/booking"
	"stayhub/models"
	"stayhub/utils"
)

// extendableStatuses are the states under which a guest may ask to stay longer.
var extendableStatuses = []models.BookingStatus{
	models.BookingApproved,
	models.BookingCheckedIn,
}

// RequestExtension opens a pending extension request. Only one request may be
// pending per booking; the constraint is enforced inside the atomic append.
func (s *DefaultBookingService) RequestExtension(ctx context.Context, id string, actor models.Actor, input ExtensionInput) (*models.Booking, error) {
	if input.AdditionalDays <= 0 {
		return nil, NewValidationError("additional days must be positive")
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireGuest(b, actor); err != nil {
		return nil, err
	}
	if !statusIn(b.Status, extendableStatuses) {
		return nil, NewStateConflict("booking %s cannot be extended in status %s", id, b.Status)
	}

	requestedEnd := b.AuthoritativeEndDate().AddDate(0, 0, input.AdditionalDays)
	if !input.RequestedEndDate.IsZero() && !sameDay(input.RequestedEndDate, requestedEnd) {
		return nil, NewValidationError("requested end date does not match %d additional days", input.AdditionalDays)
	}

	nightly := NightlyRate(b.Listing)
	additionalPrice := ExtensionPrice(nightly, input.AdditionalDays)
	if additionalPrice <= 0 {
		return nil, NewValidationError("listing %s has no usable rate", b.ListingID)
	}

	req := models.ExtensionRequest{
		AdditionalDays:   input.AdditionalDays,
		RequestedEndDate: requestedEnd,
		AdditionalPrice:  additionalPrice,
		Status:           models.ExtensionPending,
		RequestedAt:      time.Now().UTC(),
	}

	err = s.Repo.AppendExtension(ctx, id, req, extendableStatuses)
	if errors.Is(err, bookingRepo.ErrNoMatch) {
		b, err = s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if b.PendingExtensionIndex() >= 0 {
			return nil, NewStateConflict("booking %s already has a pending extension", id)
		}
		return nil, NewStateConflict("booking %s cannot be extended in status %s", id, b.Status)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, ExtensionEvent{
		BookingID: id,
		Index:     len(updated.ExtensionRequests) - 1,
		Status:    models.ExtensionPending,
		Actor:     actor,
		At:        req.RequestedAt,
	})
	return updated, nil
}

// ApproveExtension grants the pending request at index: the final end date and
// final total become authoritative and the remaining balance grows by the
// additional price, all in one atomic write.
func (s *DefaultBookingService) ApproveExtension(ctx context.Context, id string, actor models.Actor, index int) (*models.Booking, error) {
	b, req, err := s.loadExtension(ctx, id, actor, index)
	if err != nil {
		return nil, err
	}

	err = s.Repo.ApproveExtension(ctx, id, index, req.RequestedEndDate, req.AdditionalPrice)
	if errors.Is(err, bookingRepo.ErrNoMatch) {
		return nil, NewStateConflict("extension %d on booking %s is no longer pending", index, id)
	}
	if err != nil {
		return nil, err
	}

	// The stay now ends later; push the scheduled check-out along.
	if statusIn(b.Status, extendableStatuses) {
		if err := s.Scheduler.ScheduleCheckout(id, req.RequestedEndDate); err != nil {
			utils.GetLogger().Error("failed to reschedule checkout",
				zap.String("booking_id", id), zap.Error(err))
		}
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, ExtensionEvent{
		BookingID: id,
		Index:     index,
		Status:    models.ExtensionApproved,
		Actor:     actor,
		At:        time.Now().UTC(),
	})
	return updated, nil
}

// RejectExtension declines the pending request at index. An omitted reason
// falls back to the explicit domain default.
func (s *DefaultBookingService) RejectExtension(ctx context.Context, id string, actor models.Actor, index int, reason string) (*models.Booking, error) {
	if _, _, err := s.loadExtension(ctx, id, actor, index); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultExtensionRejectReason
	}

	err := s.Repo.RejectExtension(ctx, id, index, reason)
	if errors.Is(err, bookingRepo.ErrNoMatch) {
		return nil, NewStateConflict("extension %d on booking %s is no longer pending", index, id)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, ExtensionEvent{
		BookingID: id,
		Index:     index,
		Status:    models.ExtensionRejected,
		Actor:     actor,
		At:        time.Now().UTC(),
	})
	return updated, nil
}

func (s *DefaultBookingService) loadExtension(ctx context.Context, id string, actor models.Actor, index int) (*models.Booking, *models.ExtensionRequest, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := requireHost(b, actor); err != nil {
		return nil, nil, err
	}
	if index < 0 || index >= len(b.ExtensionRequests) {
		return nil, nil, NewNotFound("booking %s has no extension request %d", id, index)
	}
	req := b.ExtensionRequests[index]
	if req.Status != models.ExtensionPending {
		return nil, nil, NewStateConflict("extension %d on booking %s is already %s", index, id, req.Status)
	}
	return b, &req, nil
}

func sameDay(a, b time.Time) bool {
	return startOfDay(a).Equal(startOfDay(b))
}
