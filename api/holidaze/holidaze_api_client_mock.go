package holidaze

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"holidaze-server/api"
	"holidaze-server/availability"
	"holidaze-server/models"
	"holidaze-server/models/venue"
	"holidaze-server/util"
)

const MOCK_SIGNING_KEY = "holidaze-mock"

// HolidazeApiClientMock is an in-memory stand-in for the Holidaze API used outside prod
// and in tests. It rejects bookings that overlap existing ones, like the real API.
type HolidazeApiClientMock struct {
	mu       sync.Mutex
	venues   map[string]*venue.Venue
	profiles map[string]*models.Profile

	// CreateBookingFunc, when set, replaces the default booking behavior.
	CreateBookingFunc func(ctx context.Context, token string, req models.CreateBookingRequest) (*venue.Booking, error)

	BookingRequests []models.CreateBookingRequest
}

// NewHolidazeApiClientMock creates a mock seeded with venues.
func NewHolidazeApiClientMock(venues ...venue.Venue) *HolidazeApiClientMock {
	m := &HolidazeApiClientMock{
		venues:   make(map[string]*venue.Venue),
		profiles: make(map[string]*models.Profile),
	}
	for i := range venues {
		v := venues[i]
		m.venues[v.ID] = &v
	}
	return m
}

// NewHolidazeApiClientMockFromFile seeds the mock from a JSON list of venues.
func NewHolidazeApiClientMockFromFile(path string) (*HolidazeApiClientMock, error) {
	venues, err := util.ReadVenuesFromJSON(path)
	if err != nil {
		return nil, fmt.Errorf("could not seed mock holidaze api: %w", err)
	}
	return NewHolidazeApiClientMock(venues...), nil
}

func notFound(what string) error {
	return &api.APIError{StatusCode: http.StatusNotFound, Status: "404 Not Found", Message: what + " not found"}
}

func unauthorized() error {
	return &api.APIError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized", Message: "No authorization header was found"}
}

func (m *HolidazeApiClientMock) sortedVenues() []venue.Venue {
	out := make([]venue.Venue, 0, len(m.venues))
	for _, v := range m.venues {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func paginate(all []venue.Venue, params ListVenuesParams) *models.Response[[]venue.Venue] {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	pageCount := (len(all) + limit - 1) / limit
	meta := models.PageMeta{
		IsFirstPage: page == 1,
		IsLastPage:  page >= pageCount,
		CurrentPage: page,
		PageCount:   pageCount,
		TotalCount:  len(all),
	}
	if !meta.IsLastPage {
		next := page + 1
		meta.NextPage = &next
	}
	return &models.Response[[]venue.Venue]{Data: all[start:end], Meta: meta}
}

func (m *HolidazeApiClientMock) ListVenues(ctx context.Context, params ListVenuesParams) (*models.Response[[]venue.Venue], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.sortedVenues(), params), nil
}

func (m *HolidazeApiClientMock) SearchVenues(ctx context.Context, query string, params ListVenuesParams) (*models.Response[[]venue.Venue], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	var matches []venue.Venue
	for _, v := range m.sortedVenues() {
		if strings.Contains(strings.ToLower(v.Name), q) || strings.Contains(strings.ToLower(v.Description), q) {
			matches = append(matches, v)
		}
	}
	return paginate(matches, params), nil
}

func (m *HolidazeApiClientMock) GetVenue(ctx context.Context, venueID string) (*venue.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.venues[venueID]
	if !ok {
		return nil, notFound("venue")
	}
	cp := *v
	cp.Bookings = append([]venue.Booking(nil), v.Bookings...)
	return &cp, nil
}

func (m *HolidazeApiClientMock) CreateBooking(ctx context.Context, token string, req models.CreateBookingRequest) (*venue.Booking, error) {
	m.mu.Lock()
	m.BookingRequests = append(m.BookingRequests, req)
	override := m.CreateBookingFunc
	m.mu.Unlock()

	if override != nil {
		return override(ctx, token, req)
	}
	if token == "" {
		return nil, unauthorized()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.venues[req.VenueID]
	if !ok {
		return nil, notFound("venue")
	}
	requested, err := availability.IntervalFromStrings(req.DateFrom, req.DateTo)
	if err != nil {
		return nil, &api.APIError{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Message: err.Error()}
	}
	for _, b := range v.Bookings {
		existing, err := availability.IntervalFromStrings(b.DateFrom, b.DateTo)
		if err != nil {
			continue
		}
		if requested.Start.Before(existing.End) && existing.Start.Before(requested.End) {
			return nil, &api.APIError{StatusCode: http.StatusConflict, Status: "409 Conflict",
				Message: "The venue is already booked for the selected dates"}
		}
	}

	booking := venue.Booking{
		ID:       uuid.NewString(),
		DateFrom: requested.Start.Time().Format(time.RFC3339),
		DateTo:   requested.End.Time().Format(time.RFC3339),
		Guests:   req.Guests,
		Created:  time.Now().UTC().Format(time.RFC3339),
	}
	v.Bookings = append(v.Bookings, booking)
	return &booking, nil
}

func (m *HolidazeApiClientMock) CreateVenue(ctx context.Context, token string, req models.VenueRequest) (*venue.Venue, error) {
	if token == "" {
		return nil, unauthorized()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v := venueFromRequest(uuid.NewString(), req)
	m.venues[v.ID] = &v
	return &v, nil
}

func (m *HolidazeApiClientMock) UpdateVenue(ctx context.Context, token, venueID string, req models.VenueRequest) (*venue.Venue, error) {
	if token == "" {
		return nil, unauthorized()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.venues[venueID]
	if !ok {
		return nil, notFound("venue")
	}
	v := venueFromRequest(venueID, req)
	v.Bookings = existing.Bookings
	v.Owner = existing.Owner
	m.venues[venueID] = &v
	return &v, nil
}

func (m *HolidazeApiClientMock) DeleteVenue(ctx context.Context, token, venueID string) error {
	if token == "" {
		return unauthorized()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.venues[venueID]; !ok {
		return notFound("venue")
	}
	delete(m.venues, venueID)
	return nil
}

func (m *HolidazeApiClientMock) GetProfile(ctx context.Context, token, name string) (*models.Profile, error) {
	if token == "" {
		return nil, unauthorized()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Profile{Name: name}
	if stored, ok := m.profiles[name]; ok {
		cp := *stored
		p = &cp
	}
	for _, v := range m.sortedVenues() {
		if v.Owner != nil && v.Owner.Name == name {
			p.Venues = append(p.Venues, v)
		}
	}
	return p, nil
}

// Login accepts any registered email, or any email at all when nobody registered,
// and returns an HS256 token carrying the profile name.
func (m *HolidazeApiClientMock) Login(ctx context.Context, req models.LoginRequest) (*models.AuthData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := strings.SplitN(req.Email, "@", 2)[0]
	venueManager := false
	if len(m.profiles) > 0 {
		found := false
		for _, p := range m.profiles {
			if p.Email == req.Email {
				name, venueManager, found = p.Name, p.VenueManager, true
				break
			}
		}
		if !found {
			return nil, &api.APIError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized",
				Message: "Invalid email or password"}
		}
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name":  name,
		"email": req.Email,
		"iat":   time.Now().Unix(),
	}).SignedString([]byte(MOCK_SIGNING_KEY))
	if err != nil {
		return nil, err
	}
	return &models.AuthData{Name: name, Email: req.Email, AccessToken: token, VenueManager: venueManager}, nil
}

func (m *HolidazeApiClientMock) Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.profiles[req.Name]; exists {
		return nil, &api.APIError{StatusCode: http.StatusBadRequest, Status: "400 Bad Request",
			Message: "Profile already exists"}
	}
	p := &models.Profile{Name: req.Name, Email: req.Email, VenueManager: req.VenueManager}
	m.profiles[req.Name] = p
	cp := *p
	return &cp, nil
}

// BookingCount returns how many CreateBooking calls the mock received.
func (m *HolidazeApiClientMock) BookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.BookingRequests)
}

func venueFromRequest(id string, req models.VenueRequest) venue.Venue {
	return venue.Venue{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Media:       req.Media,
		Price:       req.Price,
		MaxGuests:   req.MaxGuests,
		Rating:      req.Rating,
		Meta:        req.Meta,
		Location:    req.Location,
		Created:     time.Now().UTC().Format(time.RFC3339),
	}
}
