package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "stayhub/database/repository/booking"
	"stayhub/models"
	"stayhub/services/notification"
)

// fakeRepo is an in-memory BookingRepository that mirrors the guard semantics
// of the mongo implementation: every mutating call checks its filter under the
// lock and reports ErrNoMatch when the stored document no longer qualifies.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[string]*models.Booking)}
}

func copyBooking(b *models.Booking) *models.Booking {
	cp := *b
	cp.PaymentHistory = append([]models.PaymentEvent(nil), b.PaymentHistory...)
	cp.ExtensionRequests = append([]models.ExtensionRequest(nil), b.ExtensionRequests...)
	if b.FinalEndDate != nil {
		v := *b.FinalEndDate
		cp.FinalEndDate = &v
	}
	if b.FinalTotalPrice != nil {
		v := *b.FinalTotalPrice
		cp.FinalTotalPrice = &v
	}
	if b.RemainingDueDate != nil {
		v := *b.RemainingDueDate
		cp.RemainingDueDate = &v
	}
	if b.CheckedOutAt != nil {
		v := *b.CheckedOutAt
		cp.CheckedOutAt = &v
	}
	return &cp
}

func (r *fakeRepo) Insert(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (r *fakeRepo) ListByHost(_ context.Context, hostID string) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.HostID == hostID }), nil
}

func (r *fakeRepo) ListByCustomer(_ context.Context, customerID string) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.CustomerID == customerID }), nil
}

func (r *fakeRepo) list(match func(*models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, *copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, from []models.BookingStatus, change bookingRepo.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || !containsStatus(from, b.Status) {
		return bookingRepo.ErrNoMatch
	}
	b.Status = change.To
	if change.RejectionReason != "" {
		b.RejectionReason = change.RejectionReason
	}
	if change.CheckedOutAt != nil {
		v := *change.CheckedOutAt
		b.CheckedOutAt = &v
	}
	return nil
}

func (r *fakeRepo) AppendPaidPayment(_ context.Context, id string, event models.PaymentEvent, allowed []models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || !containsStatus(allowed, b.Status) || b.RemainingAmount < event.Amount {
		return bookingRepo.ErrNoMatch
	}
	if event.TransactionID != "" {
		for _, e := range b.PaymentHistory {
			if e.TransactionID == event.TransactionID && e.Status == models.PaymentEventPaid {
				return bookingRepo.ErrNoMatch
			}
		}
	}
	b.PaymentHistory = append(b.PaymentHistory, event)
	b.RemainingAmount -= event.Amount
	if b.RemainingAmount <= 0 {
		b.PaymentStatus = models.PaymentPaid
	} else {
		b.PaymentStatus = models.PaymentPartiallyPaid
	}
	return nil
}

func (r *fakeRepo) AppendInfoPayment(_ context.Context, id string, event models.PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNoMatch
	}
	if event.TransactionID != "" {
		for _, e := range b.PaymentHistory {
			if e.TransactionID == event.TransactionID && e.Status == event.Status {
				return bookingRepo.ErrNoMatch
			}
		}
	}
	b.PaymentHistory = append(b.PaymentHistory, event)
	return nil
}

func (r *fakeRepo) SetRemainingDueDate(_ context.Context, id string, due time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNoMatch
	}
	b.RemainingDueDate = &due
	return nil
}

func (r *fakeRepo) AppendExtension(_ context.Context, id string, req models.ExtensionRequest, allowed []models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || !containsStatus(allowed, b.Status) || b.PendingExtensionIndex() >= 0 {
		return bookingRepo.ErrNoMatch
	}
	b.ExtensionRequests = append(b.ExtensionRequests, req)
	return nil
}

func (r *fakeRepo) ApproveExtension(_ context.Context, id string, index int, finalEndDate time.Time, additionalPrice int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || index < 0 || index >= len(b.ExtensionRequests) || b.ExtensionRequests[index].Status != models.ExtensionPending {
		return bookingRepo.ErrNoMatch
	}
	b.ExtensionRequests[index].Status = models.ExtensionApproved
	b.FinalEndDate = &finalEndDate
	total := b.AuthoritativeTotal() + additionalPrice
	b.FinalTotalPrice = &total
	b.RemainingAmount += additionalPrice
	if b.PaymentStatus == models.PaymentPaid {
		b.PaymentStatus = models.PaymentPartiallyPaid
	}
	return nil
}

func (r *fakeRepo) RejectExtension(_ context.Context, id string, index int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || index < 0 || index >= len(b.ExtensionRequests) || b.ExtensionRequests[index].Status != models.ExtensionPending {
		return bookingRepo.ErrNoMatch
	}
	b.ExtensionRequests[index].Status = models.ExtensionRejected
	b.ExtensionRequests[index].RejectionReason = reason
	return nil
}

func (r *fakeRepo) History(_ context.Context, scope bookingRepo.HistoryScope, filter models.HistoryFilter) (*bookingRepo.HistoryPage, error) {
	matches := r.list(func(b *models.Booking) bool {
		if scope.HostID != "" && b.HostID != scope.HostID {
			return false
		}
		if scope.CustomerID != "" && b.CustomerID != scope.CustomerID {
			return false
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, b.Status) {
			return false
		}
		if !filter.From.IsZero() && b.StartDate.Before(filter.From) {
			return false
		}
		if !filter.To.IsZero() && b.StartDate.After(filter.To) {
			return false
		}
		return true
	})

	total := int64(len(matches))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matches) {
		start = len(matches)
	}
	end := start + filter.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return &bookingRepo.HistoryPage{Bookings: matches[start:end], Total: total}, nil
}

func (r *fakeRepo) Statistics(_ context.Context, scope bookingRepo.HistoryScope, _ time.Time) (*models.BookingStatistics, error) {
	matches := r.list(func(b *models.Booking) bool {
		if scope.HostID != "" && b.HostID != scope.HostID {
			return false
		}
		if scope.CustomerID != "" && b.CustomerID != scope.CustomerID {
			return false
		}
		return true
	})

	stats := &models.BookingStatistics{
		TotalBookings: int64(len(matches)),
		StatusCounts:  make(map[string]int64),
	}
	for _, b := range matches {
		stats.StatusCounts[string(b.Status)]++
		if b.Status == models.BookingCompleted {
			stats.TotalAmount += b.AuthoritativeTotal()
		}
	}
	return stats, nil
}

func containsStatus(set []models.BookingStatus, s models.BookingStatus) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

// fakeListings serves listing snapshots from a map.
type fakeListings struct {
	listings map[string]models.ListingSummary
}

func (f *fakeListings) GetListing(_ context.Context, id string) (*models.ListingSummary, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// fakeUsers serves user snapshots from a map.
type fakeUsers struct {
	users map[string]models.UserSummary
}

func (f *fakeUsers) GetUser(_ context.Context, id string) (*models.UserSummary, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// fakeScheduler records scheduled lifecycle tasks.
type fakeScheduler struct {
	mu    sync.Mutex
	calls []schedulerCall
}

type schedulerCall struct {
	op        string
	bookingID string
	at        time.Time
}

func (f *fakeScheduler) ScheduleExpiry(bookingID string, at time.Time) error {
	return f.record("expiry", bookingID, at)
}

func (f *fakeScheduler) ScheduleCheckInReminder(bookingID string, at time.Time) error {
	return f.record("checkin_reminder", bookingID, at)
}

func (f *fakeScheduler) ScheduleCheckout(bookingID string, at time.Time) error {
	return f.record("checkout", bookingID, at)
}

func (f *fakeScheduler) ScheduleCompletion(bookingID string, at time.Time) error {
	return f.record("completion", bookingID, at)
}

func (f *fakeScheduler) record(op, bookingID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, schedulerCall{op: op, bookingID: bookingID, at: at})
	return nil
}

func (f *fakeScheduler) lastCall() (schedulerCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return schedulerCall{}, false
	}
	return f.calls[len(f.calls)-1], true
}

// conflictRepo forces guarded ledger appends to miss, simulating a concurrent
// writer slipping between the caller's read and the guarded write. The
// optional beforeMiss hook runs on each forced miss so a test can move the
// balance underneath the caller.
type conflictRepo struct {
	*fakeRepo
	remainingMisses int
	beforeMiss      func()
}

func (r *conflictRepo) AppendPaidPayment(ctx context.Context, id string, event models.PaymentEvent, allowed []models.BookingStatus) error {
	if r.remainingMisses > 0 {
		r.remainingMisses--
		if r.beforeMiss != nil {
			r.beforeMiss()
		}
		return bookingRepo.ErrNoMatch
	}
	return r.fakeRepo.AppendPaidPayment(ctx, id, event, allowed)
}

func (f *fakeScheduler) callsOf(op string) []schedulerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []schedulerCall
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// fakeNotifier collects published domain events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (f *fakeNotifier) Publish(_ context.Context, event notification.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) eventNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.events))
	for _, e := range f.events {
		names = append(names, e.EventName())
	}
	return names
}
