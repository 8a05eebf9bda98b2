// Package booking coordinates a guest's check-in selection with the booking API for one
// venue-viewing session.
package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"holidaze-server/api"
	"holidaze-server/availability"
	"holidaze-server/models"
	"holidaze-server/models/venue"
)

const DEFAULT_GUESTS = 1

type State string

const (
	NoSelection      State = "no_selection"
	DateSelected     State = "date_selected"
	Submitting       State = "submitting"
	Confirmed        State = "confirmed"
	SubmissionFailed State = "submission_failed"
)

// Booker is the booking write API the controller submits to.
type Booker interface {
	CreateBooking(ctx context.Context, token string, req models.CreateBookingRequest) (*venue.Booking, error)
}

// VenueInfo is what the controller needs to know about the venue being viewed.
type VenueInfo struct {
	ID            string
	PricePerNight float64
}

type PendingBooking struct {
	CheckIn    availability.DateOnly `json:"checkIn"`
	CheckOut   availability.DateOnly `json:"checkOut"`
	Nights     int                   `json:"nights"`
	TotalPrice float64               `json:"totalPrice"`
	VenueID    string                `json:"venueId"`
}

type BookingConfirmation struct {
	BookingID string         `json:"bookingId"`
	Booking   PendingBooking `json:"booking"`
}

// SelectionController owns the single pending selection for one venue. It is safe for
// concurrent use; Confirm performs its network call without holding the lock so other
// calls observe Submitting instead of blocking.
type SelectionController struct {
	mu sync.Mutex

	venue   VenueInfo
	horizon []availability.DateOnly
	taken   availability.DateSet
	booker  Booker

	nights    int
	available availability.DateSet

	state        State
	pending      *PendingBooking
	lastErr      error
	confirmation *BookingConfirmation

	// generation is bumped by Reset so a late failure does not overwrite the new state.
	generation int
	// inFlight is set from the start of a CreateBooking call until it returns, across Resets.
	inFlight bool
}

// NewSelectionController computes the window set for nights over horizon and taken.
func NewSelectionController(v VenueInfo, horizon []availability.DateOnly, taken availability.DateSet, nights int, booker Booker) (*SelectionController, error) {
	available, err := availability.ComputeAvailableCheckIns(horizon, taken, nights)
	if err != nil {
		return nil, err
	}
	return &SelectionController{
		venue:     v,
		horizon:   horizon,
		taken:     taken,
		booker:    booker,
		nights:    nights,
		available: available,
		state:     NoSelection,
	}, nil
}

func (c *SelectionController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *SelectionController) Nights() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nights
}

func (c *SelectionController) Venue() VenueInfo { return c.venue }

// Pending returns a copy of the current selection, or nil.
func (c *SelectionController) Pending() *PendingBooking {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// LastError is the cause of the most recent SubmissionFailed, if any.
func (c *SelectionController) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *SelectionController) Confirmation() *BookingConfirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmation
}

// Available returns the current window set. Callers must not mutate it.
func (c *SelectionController) Available() availability.DateSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

func (c *SelectionController) Horizon() []availability.DateOnly { return c.horizon }
func (c *SelectionController) Taken() availability.DateSet      { return c.taken }

// SetNights recomputes the window set for a new stay length and clears any selection.
func (c *SelectionController) SetNights(nights int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting || c.state == Confirmed {
		return &InvalidStateError{Op: "change nights", State: c.state}
	}
	available, err := availability.ComputeAvailableCheckIns(c.horizon, c.taken, nights)
	if err != nil {
		return err
	}
	c.nights = nights
	c.available = available
	c.clearLocked()
	return nil
}

// SelectCheckIn moves to DateSelected when d starts a free stay of the current length.
// On error the state is left unchanged.
func (c *SelectionController) SelectCheckIn(d availability.DateOnly) (PendingBooking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting || c.state == Confirmed {
		return PendingBooking{}, &InvalidStateError{Op: "select a date", State: c.state}
	}
	if !c.available.Contains(d) {
		return PendingBooking{}, &DateNotAvailableError{Date: d, Nights: c.nights}
	}

	p := PendingBooking{
		CheckIn:    d,
		CheckOut:   d.AddDays(c.nights),
		Nights:     c.nights,
		TotalPrice: float64(c.nights) * c.venue.PricePerNight,
		VenueID:    c.venue.ID,
	}
	c.pending = &p
	c.lastErr = nil
	c.state = DateSelected
	return p, nil
}

// Confirm submits the pending selection with the caller's access token. An empty token
// fails with ErrAuthenticationRequired before any request is made. A Confirm issued while
// another one is in flight fails with *InvalidStateError. API and network failures move
// the controller to SubmissionFailed and are returned as *BookingError; Confirm may be
// called again from there.
func (c *SelectionController) Confirm(ctx context.Context, token string) (*BookingConfirmation, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, &InvalidStateError{Op: "confirm", State: Submitting}
	}
	if c.state != DateSelected && c.state != SubmissionFailed {
		state := c.state
		c.mu.Unlock()
		return nil, &InvalidStateError{Op: "confirm", State: state}
	}
	if token == "" {
		c.mu.Unlock()
		return nil, ErrAuthenticationRequired
	}
	pending := *c.pending
	generation := c.generation
	c.state = Submitting
	c.inFlight = true
	c.mu.Unlock()

	created, err := c.booker.CreateBooking(ctx, token, models.CreateBookingRequest{
		DateFrom: pending.CheckIn.Time().Format(time.RFC3339),
		DateTo:   pending.CheckOut.Time().Format(time.RFC3339),
		Guests:   DEFAULT_GUESTS,
		VenueID:  pending.VenueID,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	current := c.generation == generation

	if err != nil {
		bookingErr := toBookingError(err)
		if current {
			c.state = SubmissionFailed
			c.lastErr = bookingErr
		}
		return nil, bookingErr
	}

	confirmation := &BookingConfirmation{Booking: pending}
	if created != nil {
		confirmation.BookingID = created.ID
	}
	// The booking exists upstream, so it lands even after a Reset.
	c.state = Confirmed
	c.pending = &pending
	c.lastErr = nil
	c.confirmation = confirmation
	return confirmation, nil
}

// Reset returns to NoSelection from any state. A Confirm still in flight keeps blocking
// new submissions; its success still lands as Confirmed, its failure is dropped.
func (c *SelectionController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.clearLocked()
}

func (c *SelectionController) clearLocked() {
	c.state = NoSelection
	c.pending = nil
	c.lastErr = nil
	c.confirmation = nil
}

func toBookingError(err error) *BookingError {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		return &BookingError{Message: apiErr.Error(), Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &BookingError{Message: "the booking request timed out, please try again", Err: err}
	case errors.Is(err, context.Canceled):
		return &BookingError{Message: "the booking request was cancelled", Err: err}
	default:
		return &BookingError{Message: "could not reach the booking service: " + err.Error(), Err: err}
	}
}
