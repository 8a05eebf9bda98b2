package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"holidaze-server/api"
	"holidaze-server/api/holidaze"
	"holidaze-server/availability"
	"holidaze-server/dao/redis"
	"holidaze-server/models"
	"holidaze-server/models/venue"
)

// ErrVenueNotFound is returned when neither the cache nor the API know the venue.
var ErrVenueNotFound = errors.New("venue not found")

// VenueAvailability is a venue's booked dates laid over the booking horizon starting today.
type VenueAvailability struct {
	Venue   *venue.Venue
	Horizon []availability.DateOnly
	Taken   availability.DateSet
}

// AvailabilityView is what the calendar surface renders for one stay length.
type AvailabilityView struct {
	VenueID       string                     `json:"venueId"`
	VenueName     string                     `json:"venueName"`
	Nights        int                        `json:"nights"`
	PricePerNight float64                    `json:"pricePerNight"`
	From          availability.DateOnly      `json:"from"`
	To            availability.DateOnly      `json:"to"`
	Available     []availability.DateOnly    `json:"available"`
	Taken         []availability.DateOnly    `json:"taken"`
	Days          []availability.CalendarDay `json:"days"`
}

type VenueService struct {
	venueDao    *redis.RedisVenueDAO
	holidazeApi holidaze.HolidazeAPI
	log         logrus.FieldLogger

	horizonDays int
	policy      availability.CheckoutPolicy
	now         func() time.Time
}

// NewVenueService constructs a VenueService reading through the Redis cache.
func NewVenueService(
	venueDao *redis.RedisVenueDAO,
	holidazeApi holidaze.HolidazeAPI,
	logger logrus.FieldLogger,
	horizonDays int,
	policy availability.CheckoutPolicy) *VenueService {

	return &VenueService{
		venueDao:    venueDao,
		holidazeApi: holidazeApi,
		log:         logger.WithField("component", "VenueService"),
		horizonDays: horizonDays,
		policy:      policy,
		now:         time.Now,
	}
}

// WithClock replaces the clock "today" is taken from.
func (vs *VenueService) WithClock(now func() time.Time) *VenueService {
	vs.now = now
	return vs
}

// Today is the first day of the booking horizon, in UTC.
func (vs *VenueService) Today() availability.DateOnly {
	return availability.FromTime(vs.now())
}

// GetVenue serves the venue from the cache, falling back to the API and caching the result.
func (vs *VenueService) GetVenue(ctx context.Context, venueID string) (*venue.Venue, error) {
	cached, err := vs.venueDao.GetVenue(ctx, venueID)
	if err != nil {
		vs.log.WithError(err).WithField("venue_id", venueID).Warn("cache read failed, falling back to api")
	}
	if cached != nil {
		return cached, nil
	}

	mark := vs.venueDao.Mark()
	v, err := vs.holidazeApi.GetVenue(ctx, venueID)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrVenueNotFound, venueID)
		}
		return nil, fmt.Errorf("failed to fetch venue %s: %w", venueID, err)
	}

	vs.cache(ctx, *v, mark)
	return v, nil
}

func (vs *VenueService) ListVenues(ctx context.Context, params holidaze.ListVenuesParams) (*models.Response[[]venue.Venue], error) {
	mark := vs.venueDao.Mark()
	resp, err := vs.holidazeApi.ListVenues(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	for _, v := range resp.Data {
		vs.cache(ctx, v, mark)
	}
	return resp, nil
}

func (vs *VenueService) SearchVenues(ctx context.Context, query string, params holidaze.ListVenuesParams) (*models.Response[[]venue.Venue], error) {
	resp, err := vs.holidazeApi.SearchVenues(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}
	return resp, nil
}

// GetNearbyVenues only sees venues that are cached, which the refresher keeps populated.
func (vs *VenueService) GetNearbyVenues(ctx context.Context, lat, lng, radiusKm float64) ([]venue.Venue, error) {
	return vs.venueDao.GetNearbyVenues(ctx, lat, lng, radiusKm)
}

// InvalidateVenue drops the cached copy so the next read sees fresh bookings.
func (vs *VenueService) InvalidateVenue(ctx context.Context, venueID string) error {
	if err := vs.venueDao.DeleteVenue(ctx, venueID); err != nil {
		return err
	}
	vs.log.WithField("venue_id", venueID).Debug("venue cache invalidated")
	return nil
}

// LoadAvailability builds the horizon and the taken days inside it for a venue. Bookings
// with malformed dates or reversed ranges are logged and left out.
func (vs *VenueService) LoadAvailability(ctx context.Context, venueID string) (*VenueAvailability, error) {
	v, err := vs.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	intervals, skipped := v.BookedIntervals()
	for _, err := range skipped {
		vs.log.WithError(err).WithField("venue_id", v.ID).Warn("skipping booking with unreadable dates")
	}

	horizon, err := availability.ComputeHorizon(vs.Today(), vs.horizonDays)
	if err != nil {
		return nil, err
	}

	// Only horizon days matter, so upstream intervals are clipped before expanding.
	clipped, err := availability.ClipIntervals(intervals, vs.policy, horizon[0], horizon[len(horizon)-1])
	for _, err := range unjoin(err) {
		vs.log.WithError(err).WithField("venue_id", v.ID).Warn("skipping invalid booked interval")
	}
	taken, err := availability.BuildTakenSet(clipped)
	if err != nil {
		return nil, err
	}
	return &VenueAvailability{Venue: v, Horizon: horizon, Taken: taken}, nil
}

// GetAvailability computes the selectable check-ins for a stay of nights.
func (vs *VenueService) GetAvailability(ctx context.Context, venueID string, nights int) (*AvailabilityView, error) {
	va, err := vs.LoadAvailability(ctx, venueID)
	if err != nil {
		return nil, err
	}
	available, err := availability.ComputeAvailableCheckIns(va.Horizon, va.Taken, nights)
	if err != nil {
		return nil, err
	}

	view := &AvailabilityView{
		VenueID:       va.Venue.ID,
		VenueName:     va.Venue.Name,
		Nights:        nights,
		PricePerNight: va.Venue.Price,
		Available:     available.Sorted(),
		Taken:         va.Taken.Sorted(),
		Days:          availability.CalendarDays(va.Horizon, available, va.Taken),
	}
	if len(va.Horizon) > 0 {
		view.From = va.Horizon[0]
		view.To = va.Horizon[len(va.Horizon)-1]
	}
	return view, nil
}

// GetOccupancy returns the venue and its free/taken day counts per month of the horizon.
func (vs *VenueService) GetOccupancy(ctx context.Context, venueID string) (*venue.Venue, []availability.MonthOccupancy, error) {
	va, err := vs.LoadAvailability(ctx, venueID)
	if err != nil {
		return nil, nil, err
	}
	return va.Venue, availability.Occupancy(va.Horizon, va.Taken), nil
}

// cache stores v unless it was invalidated after mark.
func (vs *VenueService) cache(ctx context.Context, v venue.Venue, mark uint64) {
	if _, err := vs.venueDao.UpsertVenueSince(ctx, v, mark); err != nil {
		vs.log.WithError(err).WithField("venue_id", v.ID).Warn("failed to cache venue")
	}
}

// unjoin flattens an errors.Join result; nil gives nil.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
