package models

// ActorRole identifies who is driving a booking operation.
type ActorRole string

const (
	RoleGuest  ActorRole = "guest"
	RoleHost   ActorRole = "host"
	RoleSystem ActorRole = "system"
)

// Actor is the request-scoped caller identity passed into every booking
// operation. There is no ambient session state.
type Actor struct {
	ID   string    `json:"id"`
	Role ActorRole `json:"role"`
}

// System is the actor used for time-driven transitions.
var System = Actor{ID: "system", Role: RoleSystem}
