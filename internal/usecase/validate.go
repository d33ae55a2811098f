package usecase

import (
	"fmt"
	"strings"

	"carpool-matching-service/internal/domain/model"
)

func isNonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ValidateDrivers collects per-field messages for an optimize driver list.
func ValidateDrivers(drivers []model.Driver) []string {
	var details []string
	for i, d := range drivers {
		if !isNonEmpty(d.UserID) {
			details = append(details, fmt.Sprintf("drivers[%d].userId must be a non-empty string", i))
		}
		if !isNonEmpty(d.Name) {
			details = append(details, fmt.Sprintf("drivers[%d].name must be a non-empty string", i))
		}
		if d.Capacity < 1 {
			details = append(details, fmt.Sprintf("drivers[%d].capacity must be an integer >= 1", i))
		}
	}
	return details
}

// ValidatePassengers collects per-field messages for an optimize passenger list.
func ValidatePassengers(passengers []model.Passenger) []string {
	var details []string
	for i, p := range passengers {
		if !isNonEmpty(p.UserID) {
			details = append(details, fmt.Sprintf("passengers[%d].userId must be a non-empty string", i))
		}
		if p.SeatsRequired < 1 {
			details = append(details, fmt.Sprintf("passengers[%d].seatsRequired must be an integer >= 1", i))
		}
	}
	return details
}
