package holidaze

import (
	"context"
	"net/url"
	"strconv"

	"holidaze-server/models"
	"holidaze-server/models/venue"
)

// HolidazeAPI defines the interface for interacting with the Holidaze API
type HolidazeAPI interface {
	ListVenues(ctx context.Context, params ListVenuesParams) (*models.Response[[]venue.Venue], error)
	SearchVenues(ctx context.Context, query string, params ListVenuesParams) (*models.Response[[]venue.Venue], error)
	GetVenue(ctx context.Context, venueID string) (*venue.Venue, error)
	CreateBooking(ctx context.Context, token string, req models.CreateBookingRequest) (*venue.Booking, error)
	CreateVenue(ctx context.Context, token string, req models.VenueRequest) (*venue.Venue, error)
	UpdateVenue(ctx context.Context, token, venueID string, req models.VenueRequest) (*venue.Venue, error)
	DeleteVenue(ctx context.Context, token, venueID string) error
	GetProfile(ctx context.Context, token, name string) (*models.Profile, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthData, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error)
}

// ListVenuesParams mirrors the list endpoints' query args. Use zero-values to omit.
type ListVenuesParams struct {
	Page      int
	Limit     int
	Sort      string // e.g. "created"
	SortOrder string // "asc" | "desc"
}

func (p ListVenuesParams) ToValues() url.Values {
	q := url.Values{}
	q.Set("_bookings", "true")
	q.Set("_owner", "true")
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	return q
}
