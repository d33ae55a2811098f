package model

import "time"

type UserRole string

const (
	RoleDriver    UserRole = "driver"
	RolePassenger UserRole = "passenger"
)

// Location is a geographic point supplied at registration time. The engine
// ignores it (only seat capacity is modeled) but the UI needs it back.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CarpoolUser is a role-partitioned driver/passenger record owned by an
// account. Capacity is meaningful only for drivers, SeatsRequired only for
// passengers; Role discriminates the two.
type CarpoolUser struct {
	UserID        string   `json:"userId"`
	AccountID     string   `json:"-"`
	Name          string   `json:"name"`
	Role          UserRole `json:"role"`
	Location      Location `json:"location"`
	Capacity      int      `json:"capacity,omitempty"`
	SeatsRequired int      `json:"seatsRequired,omitempty"`
	UpdatedAt     time.Time
}

// AsDriver converts a driver-role user to an engine input.
func (u *CarpoolUser) AsDriver() Driver {
	return Driver{UserID: u.UserID, Name: u.Name, Capacity: u.Capacity}
}

// AsPassenger converts a passenger-role user to an engine input.
func (u *CarpoolUser) AsPassenger() Passenger {
	return Passenger{UserID: u.UserID, SeatsRequired: u.SeatsRequired}
}
