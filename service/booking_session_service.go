package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"holidaze-server/availability"
	"holidaze-server/booking"
)

var ErrSessionNotFound = errors.New("booking session not found")

// SessionView is the client-facing snapshot of one booking session.
type SessionView struct {
	ID           string                       `json:"id"`
	VenueID      string                       `json:"venueId"`
	State        booking.State                `json:"state"`
	Nights       int                          `json:"nights"`
	Pending      *booking.PendingBooking      `json:"pending,omitempty"`
	Confirmation *booking.BookingConfirmation `json:"confirmation,omitempty"`
	LastError    string                       `json:"lastError,omitempty"`
	Available    []availability.DateOnly      `json:"available"`
	Days         []availability.CalendarDay   `json:"days"`
}

type bookingSession struct {
	id         string
	controller *booking.SelectionController
	lastSeen   time.Time
}

// BookingSessionService keeps one SelectionController per guest viewing a venue.
type BookingSessionService struct {
	venueService *VenueService
	booker       booking.Booker
	log          logrus.FieldLogger
	ttl          time.Duration
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*bookingSession
}

// NewBookingSessionService creates the registry. Sessions untouched for ttl are swept.
func NewBookingSessionService(venueService *VenueService, booker booking.Booker, logger logrus.FieldLogger, ttl time.Duration) *BookingSessionService {
	return &BookingSessionService{
		venueService: venueService,
		booker:       booker,
		log:          logger.WithField("component", "BookingSessionService"),
		ttl:          ttl,
		now:          time.Now,
		sessions:     make(map[string]*bookingSession),
	}
}

func (s *BookingSessionService) WithClock(now func() time.Time) *BookingSessionService {
	s.now = now
	return s
}

// StartSession loads the venue's availability and opens a session for a stay of nights.
func (s *BookingSessionService) StartSession(ctx context.Context, venueID string, nights int) (*SessionView, error) {
	va, err := s.venueService.LoadAvailability(ctx, venueID)
	if err != nil {
		return nil, err
	}
	controller, err := booking.NewSelectionController(
		booking.VenueInfo{ID: va.Venue.ID, PricePerNight: va.Venue.Price},
		va.Horizon, va.Taken, nights, s.booker)
	if err != nil {
		return nil, err
	}

	sess := &bookingSession{id: uuid.NewString(), controller: controller, lastSeen: s.now()}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"session_id": sess.id, "venue_id": venueID, "nights": nights}).Info("booking session started")
	return s.view(sess), nil
}

func (s *BookingSessionService) lookup(sessionID string) (*bookingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	sess.lastSeen = s.now()
	return sess, nil
}

func (s *BookingSessionService) Get(sessionID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *BookingSessionService) SetNights(sessionID string, nights int) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.controller.SetNights(nights); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *BookingSessionService) Select(sessionID string, checkIn availability.DateOnly) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := sess.controller.SelectCheckIn(checkIn); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Confirm submits the session's selection. A successful booking invalidates the cached
// venue so the new dates show as taken on the next read; the session stays readable in
// Confirmed until it is closed or swept.
func (s *BookingSessionService) Confirm(ctx context.Context, sessionID, token string) (*booking.BookingConfirmation, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	log := s.log.WithField("session_id", sessionID)

	confirmation, err := sess.controller.Confirm(ctx, token)
	if err != nil {
		var bookingErr *booking.BookingError
		if errors.As(err, &bookingErr) {
			log.WithError(bookingErr.Err).Warn("booking submission failed")
		}
		return nil, err
	}

	venueID := sess.controller.Venue().ID
	log.WithFields(logrus.Fields{"venue_id": venueID, "booking_id": confirmation.BookingID}).Info("booking confirmed")
	if err := s.venueService.InvalidateVenue(ctx, venueID); err != nil {
		log.WithError(err).Warn("failed to invalidate venue after booking")
	}
	return confirmation, nil
}

func (s *BookingSessionService) Reset(sessionID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.controller.Reset()
	return s.view(sess), nil
}

func (s *BookingSessionService) Close(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len is the number of open sessions.
func (s *BookingSessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes sessions idle for longer than the TTL, except ones mid-submission.
func (s *BookingSessionService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	swept := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) && sess.controller.State() != booking.Submitting {
			delete(s.sessions, id)
			swept++
		}
	}
	if swept > 0 {
		s.log.WithField("swept", swept).Debug("swept idle booking sessions")
	}
	return swept
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (s *BookingSessionService) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

func (s *BookingSessionService) view(sess *bookingSession) *SessionView {
	c := sess.controller
	available := c.Available()
	v := &SessionView{
		ID:           sess.id,
		VenueID:      c.Venue().ID,
		State:        c.State(),
		Nights:       c.Nights(),
		Pending:      c.Pending(),
		Confirmation: c.Confirmation(),
		Available:    available.Sorted(),
		Days:         availability.CalendarDays(c.Horizon(), available, c.Taken()),
	}
	if err := c.LastError(); err != nil {
		v.LastError = err.Error()
	}
	return v
}
