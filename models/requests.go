package models

import "holidaze-server/models/venue"

// CreateBookingRequest is the body of POST /holidaze/bookings.
type CreateBookingRequest struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Guests   int    `json:"guests"`
	VenueID  string `json:"venueId"`
}

// VenueRequest is the body of POST/PUT /holidaze/venues used by venue managers.
type VenueRequest struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Media       []venue.Media  `json:"media,omitempty"`
	Price       float64        `json:"price" validate:"gt=0"`
	MaxGuests   int            `json:"maxGuests" validate:"min=1,max=100"`
	Rating      float64        `json:"rating,omitempty" validate:"min=0,max=5"`
	Meta        venue.Meta     `json:"meta"`
	Location    venue.Location `json:"location"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	VenueManager bool   `json:"venueManager"`
}

// AuthData is the payload returned by login.
type AuthData struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	AccessToken  string       `json:"accessToken"`
	VenueManager bool         `json:"venueManager"`
	Avatar       *venue.Media `json:"avatar,omitempty"`
}

// Profile is GET /holidaze/profiles/{name} with ?_bookings=true&_venues=true.
type Profile struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Bio          string          `json:"bio,omitempty"`
	Avatar       *venue.Media    `json:"avatar,omitempty"`
	Banner       *venue.Media    `json:"banner,omitempty"`
	VenueManager bool            `json:"venueManager"`
	Venues       []venue.Venue   `json:"venues,omitempty"`
	Bookings     []venue.Booking `json:"bookings,omitempty"`
}
