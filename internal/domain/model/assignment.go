package model

// Driver is one optimization input with seats to offer. Inputs are ephemeral:
// they live for a single Assign call and are not persisted by the engine.
type Driver struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Passenger is one optimization input requesting seats.
type Passenger struct {
	UserID        string `json:"userId"`
	SeatsRequired int    `json:"seatsRequired"`
}

// Route is the per-driver output of an assignment. One Route is emitted for
// every input driver, in input order, even when it carries no passengers.
type Route struct {
	DriverID      string   `json:"driverId"`
	DriverName    string   `json:"driverName"`
	PassengerIDs  []string `json:"passengerIds"`
	UnfilledSeats int      `json:"unfilledSeats"`
}

// Assignment is the full output of one engine run.
type Assignment struct {
	Routes                 []Route  `json:"routes"`
	UnassignedPassengerIDs []string `json:"unassignedPassengerIds"`
}

// Assign packs passengers onto driver seats using a first-fit greedy scan in
// driver-major order: for each driver (input order) it walks the remaining
// passengers (input order) and takes every one whose seat requirement still
// fits. It never backtracks or reorders to improve the packing.
//
// The function is pure and deterministic. It assumes callers have already
// validated the inputs (non-empty ids, capacity and seatsRequired >= 1).
func Assign(drivers []Driver, passengers []Passenger) Assignment {
	remaining := make([]Passenger, len(passengers))
	copy(remaining, passengers)

	routes := make([]Route, 0, len(drivers))
	for _, driver := range drivers {
		assigned := []string{}
		seatsRemaining := driver.Capacity

		for i := 0; i < len(remaining); {
			p := remaining[i]
			if p.SeatsRequired <= seatsRemaining {
				assigned = append(assigned, p.UserID)
				seatsRemaining -= p.SeatsRequired
				remaining = append(remaining[:i], remaining[i+1:]...)
			} else {
				i++
			}
		}

		routes = append(routes, Route{
			DriverID:      driver.UserID,
			DriverName:    driver.Name,
			PassengerIDs:  assigned,
			UnfilledSeats: seatsRemaining,
		})
	}

	unassigned := make([]string, 0, len(remaining))
	for _, p := range remaining {
		unassigned = append(unassigned, p.UserID)
	}

	return Assignment{Routes: routes, UnassignedPassengerIDs: unassigned}
}
