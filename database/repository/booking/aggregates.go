package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"stayhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func scopeFilter(scope HistoryScope) bson.M {
	if scope.HostID != "" {
		return bson.M{"host_id": scope.HostID}
	}
	return bson.M{"customer_id": scope.CustomerID}
}

// History returns one page of booking records for the scope, newest first.
func (repo *MongoBookingRepo) History(ctx context.Context, scope HistoryScope, filter models.HistoryFilter) (*HistoryPage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	match := scopeFilter(scope)
	if len(filter.Statuses) > 0 {
		match["status"] = bson.M{"$in": filter.Statuses}
	}
	dateRange := bson.M{}
	if !filter.From.IsZero() {
		dateRange["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		dateRange["$lte"] = filter.To
	}
	if len(dateRange) > 0 {
		match["start_date"] = dateRange
	}

	total, err := repo.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("error counting history: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := repo.coll.Find(ctx, match, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching history page: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding history page: %w", err)
	}

	return &HistoryPage{Bookings: bookings, Total: total}, nil
}

// authoritativeTotalExpr resolves finalTotalPrice over totalPrice in a pipeline.
var authoritativeTotalExpr = bson.D{{Key: "$ifNull", Value: bson.A{"$final_total_price", "$total_price"}}}

// Statistics aggregates per-status counts, the completed-booking money total
// and a trailing-12-month monthly series for the scope. An actor with no
// bookings gets zeroed statistics, never an error.
func (repo *MongoBookingRepo) Statistics(ctx context.Context, scope HistoryScope, now time.Time) (*models.BookingStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	stats := &models.BookingStatistics{
		StatusCounts: map[string]int64{},
	}

	// Per-status counts.
	countPipeline := []bson.M{
		{"$match": scopeFilter(scope)},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := repo.coll.Aggregate(ctx, countPipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating status counts: %w", err)
	}
	var counts []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("error decoding status counts: %w", err)
	}
	for _, c := range counts {
		stats.StatusCounts[c.Status] = c.Count
		stats.TotalBookings += c.Count
	}

	// Money realized by completed stays, grouped by check-out month.
	since := now.AddDate(0, -11, 0)
	since = time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)

	match := scopeFilter(scope)
	match["status"] = models.BookingCompleted

	totalPipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": nil, "amount": bson.M{"$sum": authoritativeTotalExpr}}},
	}
	cursor, err = repo.coll.Aggregate(ctx, totalPipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating totals: %w", err)
	}
	var totals []struct {
		Amount int64 `bson:"amount"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("error decoding totals: %w", err)
	}
	if len(totals) > 0 {
		stats.TotalAmount = totals[0].Amount
	}

	monthMatch := scopeFilter(scope)
	monthMatch["status"] = models.BookingCompleted
	monthMatch["checked_out_at"] = bson.M{"$gte": since}

	monthPipeline := []bson.M{
		{"$match": monthMatch},
		{"$group": bson.M{
			"_id":    bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$checked_out_at"}},
			"amount": bson.M{"$sum": authoritativeTotalExpr},
			"count":  bson.M{"$sum": 1},
		}},
	}
	cursor, err = repo.coll.Aggregate(ctx, monthPipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating monthly series: %w", err)
	}
	var months []struct {
		Month  string `bson:"_id"`
		Amount int64  `bson:"amount"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &months); err != nil {
		return nil, fmt.Errorf("error decoding monthly series: %w", err)
	}

	byMonth := map[string]models.MonthlyAmount{}
	for _, m := range months {
		byMonth[m.Month] = models.MonthlyAmount{Month: m.Month, Amount: m.Amount, Count: m.Count}
	}

	// Dense trailing-12-month series, oldest first, zero-filled.
	series := make([]models.MonthlyAmount, 0, 12)
	for i := 0; i < 12; i++ {
		key := since.AddDate(0, i, 0).Format("2006-01")
		if m, ok := byMonth[key]; ok {
			series = append(series, m)
		} else {
			series = append(series, models.MonthlyAmount{Month: key})
		}
	}
	stats.Monthly = series

	return stats, nil
}
