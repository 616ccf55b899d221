package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/models"
)

func TestRequestExtension(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	b := seed(t, repo, makeBooking(models.BookingCheckedIn, models.PayCash))

	updated, err := svc.RequestExtension(context.Background(), b.ID, guestActor, ExtensionInput{
		AdditionalDays: 2,
	})
	require.NoError(t, err)

	require.Len(t, updated.ExtensionRequests, 1)
	req := updated.ExtensionRequests[0]
	assert.Equal(t, models.ExtensionPending, req.Status)
	assert.Equal(t, 2, req.AdditionalDays)
	assert.Equal(t, int64(400_000), req.AdditionalPrice)
	assert.WithinDuration(t, b.EndDate.AddDate(0, 0, 2), req.RequestedEndDate, time.Second)

	// The request alone changes no money or dates.
	assert.Equal(t, int64(1_000_000), updated.AuthoritativeTotal())
	assert.WithinDuration(t, b.EndDate, updated.AuthoritativeEndDate(), time.Second)

	assert.Contains(t, notifier.eventNames(), "booking.extension_pending")
}

func TestRequestExtensionValidation(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	b := seed(t, repo, makeBooking(models.BookingApproved, models.PayCash))

	_, err := svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 0})
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = svc.RequestExtension(ctx, b.ID, hostActor, ExtensionInput{AdditionalDays: 2})
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{
		AdditionalDays:   2,
		RequestedEndDate: b.EndDate.AddDate(0, 0, 5),
	})
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestRequestExtensionWrongStatus(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	for _, status := range []models.BookingStatus{
		models.BookingPending, models.BookingCheckedOut, models.BookingCompleted,
		models.BookingCancelled,
	} {
		b := seed(t, repo, makeBooking(status, models.PayCash))
		_, err := svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 2})
		assert.Equal(t, CodeStateConflict, CodeOf(err), "extension from %s", status)
	}
}

func TestRequestExtensionSinglePending(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	b := seed(t, repo, makeBooking(models.BookingCheckedIn, models.PayCash))

	_, err := svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 2})
	require.NoError(t, err)

	_, err = svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 3})
	assert.Equal(t, CodeStateConflict, CodeOf(err))
}

func TestApproveExtension(t *testing.T) {
	svc, repo, scheduler, notifier := newTestService()
	ctx := context.Background()
	b := seed(t, repo, makeBooking(models.BookingCheckedIn, models.PayCash))

	// The stay is already fully paid before the extension.
	_, err := svc.RecordManualPayment(ctx, b.ID, hostActor, ManualPaymentInput{
		Amount: 1_000_000,
		Method: models.PaymentViaCash,
	})
	require.NoError(t, err)

	_, err = svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 2})
	require.NoError(t, err)

	updated, err := svc.ApproveExtension(ctx, b.ID, hostActor, 0)
	require.NoError(t, err)

	assert.Equal(t, models.ExtensionApproved, updated.ExtensionRequests[0].Status)
	assert.Equal(t, int64(1_400_000), updated.AuthoritativeTotal())
	assert.WithinDuration(t, b.EndDate.AddDate(0, 0, 2), updated.AuthoritativeEndDate(), time.Second)
	assert.Equal(t, int64(400_000), updated.RemainingAmount)
	assert.Equal(t, models.PaymentPartiallyPaid, updated.PaymentStatus,
		"a settled booking owes again once the extension is granted")
	assertLedgerInvariant(t, updated)

	call, ok := scheduler.lastCall()
	require.True(t, ok)
	assert.Equal(t, "checkout", call.op)
	assert.WithinDuration(t, updated.AuthoritativeEndDate(), call.at, time.Second)

	assert.Contains(t, notifier.eventNames(), "booking.extension_approved")
}

func TestApproveExtensionGuards(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	b := seed(t, repo, makeBooking(models.BookingCheckedIn, models.PayCash))

	_, err := svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 2})
	require.NoError(t, err)

	_, err = svc.ApproveExtension(ctx, b.ID, guestActor, 0)
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = svc.ApproveExtension(ctx, b.ID, hostActor, 3)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	_, err = svc.ApproveExtension(ctx, b.ID, hostActor, 0)
	require.NoError(t, err)

	// Resolving twice is a conflict.
	_, err = svc.ApproveExtension(ctx, b.ID, hostActor, 0)
	assert.Equal(t, CodeStateConflict, CodeOf(err))
}

func TestRejectExtension(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	ctx := context.Background()
	b := seed(t, repo, makeBooking(models.BookingApproved, models.PayCash))

	_, err := svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 2})
	require.NoError(t, err)

	updated, err := svc.RejectExtension(ctx, b.ID, hostActor, 0, "dates no longer free")
	require.NoError(t, err)

	req := updated.ExtensionRequests[0]
	assert.Equal(t, models.ExtensionRejected, req.Status)
	assert.Equal(t, "dates no longer free", req.RejectionReason)

	// Nothing authoritative moved.
	assert.Equal(t, int64(1_000_000), updated.AuthoritativeTotal())
	assert.WithinDuration(t, b.EndDate, updated.AuthoritativeEndDate(), time.Second)
	assert.Equal(t, int64(1_000_000), updated.RemainingAmount)

	assert.Contains(t, notifier.eventNames(), "booking.extension_rejected")
}

func TestRejectExtensionDefaultReason(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	b := seed(t, repo, makeBooking(models.BookingApproved, models.PayCash))

	_, err := svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 1})
	require.NoError(t, err)

	updated, err := svc.RejectExtension(ctx, b.ID, hostActor, 0, "   ")
	require.NoError(t, err)
	assert.Equal(t, DefaultExtensionRejectReason, updated.ExtensionRequests[0].RejectionReason)
}

func TestExtensionAfterRejectionAllowed(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	b := seed(t, repo, makeBooking(models.BookingCheckedIn, models.PayCash))

	_, err := svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 2})
	require.NoError(t, err)
	_, err = svc.RejectExtension(ctx, b.ID, hostActor, 0, "")
	require.NoError(t, err)

	updated, err := svc.RequestExtension(ctx, b.ID, guestActor, ExtensionInput{AdditionalDays: 1})
	require.NoError(t, err)
	require.Len(t, updated.ExtensionRequests, 2)
	assert.Equal(t, models.ExtensionPending, updated.ExtensionRequests[1].Status)
}
