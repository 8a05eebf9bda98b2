package venue

// Customer is the guest embedded in a venue's booking list.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Booking mirrors the Holidaze booking resource. DateFrom/DateTo are ISO date-time strings
// as returned by the API; availability.IntervalFromStrings normalizes them.
type Booking struct {
	ID       string    `json:"id"`
	DateFrom string    `json:"dateFrom"`
	DateTo   string    `json:"dateTo"`
	Guests   int       `json:"guests"`
	Created  string    `json:"created,omitempty"`
	Updated  string    `json:"updated,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
	Venue    *Venue    `json:"venue,omitempty"`
}
