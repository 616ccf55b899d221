package booking

import (
	"context"
	"time"

	bookingRepo "stayhub/database/repository/booking"
	"stayhub/models"
)

// GuestHistory returns the guest-side history projection: a filtered page of
// the guest's bookings plus spend statistics.
func (s *DefaultBookingService) GuestHistory(ctx context.Context, userID string, filter models.HistoryFilter) (*HistoryResult, error) {
	return s.history(ctx, bookingRepo.HistoryScope{CustomerID: userID}, filter)
}

// HostHistory returns the host-side history projection with earnings
// statistics.
func (s *DefaultBookingService) HostHistory(ctx context.Context, hostID string, filter models.HistoryFilter) (*HistoryResult, error) {
	return s.history(ctx, bookingRepo.HistoryScope{HostID: hostID}, filter)
}

func (s *DefaultBookingService) history(ctx context.Context, scope bookingRepo.HistoryScope, filter models.HistoryFilter) (*HistoryResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	page, err := s.Repo.History(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.Repo.Statistics(ctx, scope, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	items := make([]models.BookingHistoryItem, 0, len(page.Bookings))
	for _, b := range page.Bookings {
		items = append(items, models.BookingHistoryItem{
			Booking:        b,
			Nights:         NightCount(b.StartDate, b.AuthoritativeEndDate()),
			EffectiveTotal: b.AuthoritativeTotal(),
			EffectiveEnd:   b.AuthoritativeEndDate(),
		})
	}

	totalPages := page.Total / int64(filter.Limit)
	if page.Total%int64(filter.Limit) != 0 {
		totalPages++
	}

	return &HistoryResult{
		Bookings:   items,
		Statistics: *stats,
		Pagination: models.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      page.Total,
			TotalPages: totalPages,
		},
	}, nil
}
