package models

import "time"

// HistoryFilter narrows a booking-history query. Zero values mean "no filter".
type HistoryFilter struct {
	Statuses []BookingStatus
	From     time.Time
	To       time.Time
	Page     int
	Limit    int
}

// BookingHistoryItem is one row of the history projection, with the derived
// authoritative values resolved.
type BookingHistoryItem struct {
	Booking
	Nights         int       `json:"nights"`
	EffectiveTotal int64     `json:"effective_total"`
	EffectiveEnd   time.Time `json:"effective_end"`
}

// MonthlyAmount is one point of the trailing-12-month earnings/spend series.
type MonthlyAmount struct {
	Month  string `bson:"month" json:"month"` // "2006-01"
	Amount int64  `bson:"amount" json:"amount"`
	Count  int64  `bson:"count" json:"count"`
}

// BookingStatistics aggregates an actor's booking history.
type BookingStatistics struct {
	TotalBookings int64            `json:"total_bookings"`
	TotalAmount   int64            `json:"total_amount"` // spent (guest) or earned (host)
	StatusCounts  map[string]int64 `json:"status_counts"`
	Monthly       []MonthlyAmount  `json:"monthly"`
}

// Pagination describes one page of a history result.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}
