package holidaze

import (
	"context"
	"net/http"
	"net/url"

	"holidaze-server/api"
	"holidaze-server/models"
	"holidaze-server/models/venue"
)

const (
	VENUES_ENDPOINT   = "/holidaze/venues"
	BOOKINGS_ENDPOINT = "/holidaze/bookings"
	PROFILES_ENDPOINT = "/holidaze/profiles"
	LOGIN_ENDPOINT    = "/auth/login"
	REGISTER_ENDPOINT = "/auth/register"
)

// HolidazeApiClient embeds the common HTTPClient
type HolidazeApiClient struct {
	*api.HTTPClient // Embed HTTPClient to reuse its methods and properties
}

// NewHolidazeApiClient creates a new instance of HolidazeApiClient
func NewHolidazeApiClient(httpClient *api.HTTPClient) *HolidazeApiClient {
	return &HolidazeApiClient{
		HTTPClient: httpClient,
	}
}

// ListVenues retrieves one page of venues with their bookings and owner.
func (c *HolidazeApiClient) ListVenues(ctx context.Context, params ListVenuesParams) (*models.Response[[]venue.Venue], error) {
	var response models.Response[[]venue.Venue]
	err := c.Request(ctx, http.MethodGet, VENUES_ENDPOINT+"?"+params.ToValues().Encode(), nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// SearchVenues runs a free-text search over venue names and descriptions.
func (c *HolidazeApiClient) SearchVenues(ctx context.Context, query string, params ListVenuesParams) (*models.Response[[]venue.Venue], error) {
	q := params.ToValues()
	q.Set("q", query)
	var response models.Response[[]venue.Venue]
	err := c.Request(ctx, http.MethodGet, VENUES_ENDPOINT+"/search?"+q.Encode(), nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetVenue retrieves a venue given a venue id, including its bookings.
func (c *HolidazeApiClient) GetVenue(ctx context.Context, venueID string) (*venue.Venue, error) {
	var response models.Response[venue.Venue]
	endpoint := VENUES_ENDPOINT + "/" + url.PathEscape(venueID) + "?_bookings=true&_owner=true"
	err := c.Request(ctx, http.MethodGet, endpoint, nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// CreateBooking books a stay on behalf of the token's owner.
func (c *HolidazeApiClient) CreateBooking(ctx context.Context, token string, req models.CreateBookingRequest) (*venue.Booking, error) {
	var response models.Response[venue.Booking]
	err := c.Request(ctx, http.MethodPost, BOOKINGS_ENDPOINT, api.BearerHeaders(token), req, &response)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

func (c *HolidazeApiClient) CreateVenue(ctx context.Context, token string, req models.VenueRequest) (*venue.Venue, error) {
	var response models.Response[venue.Venue]
	err := c.Request(ctx, http.MethodPost, VENUES_ENDPOINT, api.BearerHeaders(token), req, &response)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

func (c *HolidazeApiClient) UpdateVenue(ctx context.Context, token, venueID string, req models.VenueRequest) (*venue.Venue, error) {
	var response models.Response[venue.Venue]
	err := c.Request(ctx, http.MethodPut, VENUES_ENDPOINT+"/"+url.PathEscape(venueID), api.BearerHeaders(token), req, &response)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// DeleteVenue removes a venue. The API answers 204 with no body.
func (c *HolidazeApiClient) DeleteVenue(ctx context.Context, token, venueID string) error {
	return c.Request(ctx, http.MethodDelete, VENUES_ENDPOINT+"/"+url.PathEscape(venueID), api.BearerHeaders(token), nil, nil)
}

// GetProfile retrieves a profile with its bookings and, for managers, its venues.
func (c *HolidazeApiClient) GetProfile(ctx context.Context, token, name string) (*models.Profile, error) {
	var response models.Response[models.Profile]
	endpoint := PROFILES_ENDPOINT + "/" + url.PathEscape(name) + "?_bookings=true&_venues=true"
	err := c.Request(ctx, http.MethodGet, endpoint, api.BearerHeaders(token), nil, &response)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

func (c *HolidazeApiClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthData, error) {
	var response models.Response[models.AuthData]
	err := c.Request(ctx, http.MethodPost, LOGIN_ENDPOINT, nil, req, &response)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

func (c *HolidazeApiClient) Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error) {
	var response models.Response[models.Profile]
	err := c.Request(ctx, http.MethodPost, REGISTER_ENDPOINT, nil, req, &response)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}
