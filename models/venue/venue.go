package venue

import (
	"fmt"

	"holidaze-server/availability"
)

// Media is an image attached to a venue.
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Meta holds the venue's amenity flags.
type Meta struct {
	Wifi      bool `json:"wifi"`
	Parking   bool `json:"parking"`
	Breakfast bool `json:"breakfast"`
	Pets      bool `json:"pets"`
}

// Location is where the venue is. Lat/Lng are 0 when the owner left them blank.
type Location struct {
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	Zip       string  `json:"zip,omitempty"`
	Country   string  `json:"country,omitempty"`
	Continent string  `json:"continent,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// Owner is the venue manager profile embedded with ?_owner=true.
type Owner struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Bio    string `json:"bio,omitempty"`
	Avatar *Media `json:"avatar,omitempty"`
}

// Venue mirrors the Holidaze venue resource.
type Venue struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Media       []Media   `json:"media"`
	Price       float64   `json:"price"`
	MaxGuests   int       `json:"maxGuests"`
	Rating      float64   `json:"rating"`
	Created     string    `json:"created,omitempty"`
	Updated     string    `json:"updated,omitempty"`
	Meta        Meta      `json:"meta"`
	Location    Location  `json:"location"`
	Owner       *Owner    `json:"owner,omitempty"`
	Bookings    []Booking `json:"bookings,omitempty"`
}

// HasCoordinates reports whether the venue can be geo indexed.
func (v *Venue) HasCoordinates() bool {
	return v.Location.Lat != 0 || v.Location.Lng != 0
}

func (v *Venue) ToString() string {
	return fmt.Sprintf("Venue(id=%s, name=%s, city=%s, price=%.2f, bookings=%d)",
		v.ID, v.Name, v.Location.City, v.Price, len(v.Bookings))
}

// BookedIntervals converts the embedded bookings into availability intervals.
// Bookings whose dates cannot be parsed are returned in skipped.
func (v *Venue) BookedIntervals() (intervals []availability.BookedInterval, skipped []error) {
	for _, b := range v.Bookings {
		iv, err := availability.IntervalFromStrings(b.DateFrom, b.DateTo)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("booking %s: %w", b.ID, err))
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals, skipped
}
