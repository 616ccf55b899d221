package booking

import (
	"math"
	"time"

	"stayhub/models"
)

// Pricing is pure and side-effect free. All amounts are integer VND; rounding
// to whole dong happens here, display grouping lives in utils/currency.go.

// NightCount returns the number of nights between start and end, any partial
// day counting as a full night.
func NightCount(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// RoundVND rounds a fractional amount half-up to whole dong.
func RoundVND(amount float64) int64 {
	return int64(math.Round(amount))
}

// DailyFromMonthly converts a monthly room rate to its per-day equivalent.
func DailyFromMonthly(monthly int64) int64 {
	return RoundVND(float64(monthly) / 30)
}

// MonthlyFromDaily converts a daily rate to its monthly equivalent.
func MonthlyFromDaily(daily int64) int64 {
	return daily * 30
}

// NightlyRate resolves the per-night rate of a listing: entire places carry
// one directly, monthly rooms derive it from the monthly rate.
func NightlyRate(listing models.ListingSummary) int64 {
	if listing.Kind == models.RentalRoomMonthly {
		return DailyFromMonthly(listing.MonthlyRate)
	}
	return listing.NightlyRate
}

// StayTotal computes the contracted price of a stay.
func StayTotal(listing models.ListingSummary, start, end time.Time) int64 {
	return NightlyRate(listing) * int64(NightCount(start, end))
}

// DepositFor computes the upfront deposit under a percentage split.
func DepositFor(total int64, percentage int) int64 {
	return RoundVND(float64(total) * float64(percentage) / 100)
}

// RemainingAfterDeposit is the balance left after the deposit settles.
func RemainingAfterDeposit(total, deposit int64) int64 {
	return total - deposit
}

// ExtensionPrice computes the surcharge for extending a stay.
func ExtensionPrice(nightlyRate int64, additionalDays int) int64 {
	return nightlyRate * int64(additionalDays)
}
