package models

// UserSummary is the display snapshot of a platform user as served by the
// external identity service.
type UserSummary struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
}
