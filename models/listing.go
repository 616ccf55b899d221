package models

// RentalKind distinguishes entire-place bookings from monthly room rentals.
type RentalKind string

const (
	RentalEntirePlace RentalKind = "entire_place"
	RentalRoomMonthly RentalKind = "room_monthly"
)

// ListingSummary is the display snapshot of a listing as served by the
// external listing service. Only the fields the booking engine needs are kept.
type ListingSummary struct {
	ID          string     `bson:"id" json:"id"`
	HostID      string     `bson:"host_id" json:"host_id"`
	Title       string     `bson:"title" json:"title"`
	Kind        RentalKind `bson:"kind" json:"kind"`
	NightlyRate int64      `bson:"nightly_rate" json:"nightly_rate"` // integer VND per night
	MonthlyRate int64      `bson:"monthly_rate" json:"monthly_rate"` // integer VND per month, room rentals
	ImageURL    string     `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Address     string     `bson:"address,omitempty" json:"address,omitempty"`
}
