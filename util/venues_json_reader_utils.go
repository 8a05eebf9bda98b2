package util

import (
	"encoding/json"
	"fmt"
	"os"

	"holidaze-server/models/venue"
)

// ReadVenuesFromJSON loads a list of venues from JSON on disk. Both a bare array and the
// API's {"data": [...]} envelope are accepted.
func ReadVenuesFromJSON(filePath string) ([]venue.Venue, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var venues []venue.Venue
	if err := json.Unmarshal(data, &venues); err == nil {
		return venues, nil
	}
	var envelope struct {
		Data []venue.Venue `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venues: %w", err)
	}
	return envelope.Data, nil
}

// PrintVenuePartially prints key fields of a venue.
func PrintVenuePartially(v *venue.Venue) {
	fmt.Printf("Venue ID: %s\n", v.ID)
	fmt.Printf("Name: %s\n", v.Name)
	fmt.Printf("Price per night: %.2f\n", v.Price)
	fmt.Printf("Location: %s, %s\n", v.Location.Address, v.Location.City)
	fmt.Printf("Bookings: %d\n", len(v.Bookings))
}
