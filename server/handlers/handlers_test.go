package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidaze-server/api"
	"holidaze-server/api/holidaze"
	"holidaze-server/auth"
	"holidaze-server/availability"
	"holidaze-server/booking"
	"holidaze-server/dao/redis"
	"holidaze-server/db"
	"holidaze-server/models"
	"holidaze-server/models/venue"
	services "holidaze-server/service"
)

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	router *mux.Router
	api    *holidaze.HolidazeApiClientMock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	apiMock := holidaze.NewHolidazeApiClientMock(venue.Venue{
		ID:       "venue-1",
		Name:     "Fjord Cabin",
		Price:    100,
		Location: venue.Location{Lat: 60.39, Lng: 5.32},
		Owner:    &venue.Owner{Name: "kari"},
		Bookings: []venue.Booking{{ID: "b1", DateFrom: "2024-06-10T00:00:00.000Z", DateTo: "2024-06-12T00:00:00.000Z"}},
	})
	dao := redis.NewRedisVenueDAO(db.NewMockRedisClient(), time.Hour)
	venueService := services.NewVenueService(dao, apiMock, logger, 29, availability.CheckoutBlocked).
		WithClock(func() time.Time { return testNow })
	sessions := services.NewBookingSessionService(venueService, apiMock, logger, time.Hour)
	manager := services.NewManagerService(apiMock, venueService, logger)

	vh := NewVenueHandler(venueService, logger)
	sh := NewSessionHandler(sessions, logger)
	sh.now = func() time.Time { return testNow }
	mh := NewManagerHandler(manager, logger)
	mh.now = func() time.Time { return testNow }

	r := mux.NewRouter()
	r.HandleFunc("/ping", vh.Ping).Methods("GET")
	r.HandleFunc("/v1/venues", vh.ListVenues).Methods("GET")
	r.HandleFunc("/v1/venues", mh.CreateVenue).Methods("POST")
	r.HandleFunc("/v1/venues/nearby", vh.GetVenuesNearby).Methods("GET")
	r.HandleFunc("/v1/venues/{id}", vh.GetVenue).Methods("GET")
	r.HandleFunc("/v1/venues/{id}", mh.UpdateVenue).Methods("PUT")
	r.HandleFunc("/v1/venues/{id}", mh.DeleteVenue).Methods("DELETE")
	r.HandleFunc("/v1/venues/{id}/availability", vh.GetAvailability).Methods("GET")
	r.HandleFunc("/v1/venues/{id}/occupancy.html", vh.GetOccupancyChart).Methods("GET")
	r.HandleFunc("/v1/venues/{id}/sessions", sh.StartSession).Methods("POST")
	r.HandleFunc("/v1/sessions/{sid}", sh.GetSession).Methods("GET")
	r.HandleFunc("/v1/sessions/{sid}", sh.CloseSession).Methods("DELETE")
	r.HandleFunc("/v1/sessions/{sid}/nights", sh.SetNights).Methods("PUT")
	r.HandleFunc("/v1/sessions/{sid}/selection", sh.SelectCheckIn).Methods("POST")
	r.HandleFunc("/v1/sessions/{sid}/selection", sh.ResetSelection).Methods("DELETE")
	r.HandleFunc("/v1/sessions/{sid}/confirm", sh.Confirm).Methods("POST")
	r.HandleFunc("/v1/profiles/{name}", mh.GetProfile).Methods("GET")
	r.HandleFunc("/v1/auth/login", mh.Login).Methods("POST")
	return &testServer{router: r, api: apiMock}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name":  "ola",
		"email": "ola@stud.noroff.no",
		"exp":   exp.Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)
	return tok
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/ping", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"pong"}`, rr.Body.String())
}

func TestGetAvailability(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/v1/venues/venue-1/availability?nights=2", "", "")

	require.Equal(t, http.StatusOK, rr.Code)
	view := decode[services.AvailabilityView](t, rr)
	assert.Equal(t, 2, view.Nights)
	assert.Contains(t, view.Available, availability.MustParseDateOnly("2024-06-08"))
	assert.NotContains(t, view.Available, availability.MustParseDateOnly("2024-06-09"))
	require.Len(t, view.Days, 30)
	assert.Equal(t, availability.Taken, view.Days[9].Classification)
	assert.False(t, view.Days[9].Selectable)
}

func TestGetAvailability_BadArguments(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"zero nights", "/v1/venues/venue-1/availability?nights=0", http.StatusBadRequest},
		{"non-numeric nights", "/v1/venues/venue-1/availability?nights=two", http.StatusBadRequest},
		{"unknown venue", "/v1/venues/nope/availability", http.StatusNotFound},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rr := s.do(t, "GET", test.path, "", "")
			assert.Equal(t, test.status, rr.Code)
			assert.Equal(t, test.status, decode[ErrorBody](t, rr).Status)
		})
	}
}

func TestListAndNearbyVenues(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/v1/venues?limit=10", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[models.Response[[]venue.Venue]](t, rr)
	assert.Len(t, list.Data, 1)

	rr = s.do(t, "GET", "/v1/venues?q=fjord", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[models.Response[[]venue.Venue]](t, rr).Data, 1)

	rr = s.do(t, "GET", "/v1/venues/nearby?lat=60.39&lng=5.32&radius=2", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]venue.Venue](t, rr), 1)

	rr = s.do(t, "GET", "/v1/venues/nearby?lat=60.39&radius=2", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid argument lng", decode[ErrorBody](t, rr).Error)
}

func TestGetOccupancyChart(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "GET", "/v1/venues/venue-1/occupancy.html", "", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Fjord Cabin")
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	token := signToken(t, testNow.Add(time.Hour))

	rr := s.do(t, "POST", "/v1/venues/venue-1/sessions", `{"nights":3}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	session := decode[services.SessionView](t, rr)

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/selection", `{"checkIn":"2024-06-08"}`, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/selection", `{"checkIn":"2024-06-13"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	selected := decode[services.SessionView](t, rr)
	assert.Equal(t, booking.DateSelected, selected.State)
	assert.Equal(t, "2024-06-16", selected.Pending.CheckOut.String())

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/confirm", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, s.api.BookingCount())

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/confirm", "", token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	confirmation := decode[booking.BookingConfirmation](t, rr)
	assert.NotEmpty(t, confirmation.BookingID)
	assert.Equal(t, 300.0, confirmation.Booking.TotalPrice)

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/confirm", "", token)
	assert.Equal(t, http.StatusConflict, rr.Code, "already confirmed")

	rr = s.do(t, "GET", "/v1/sessions/"+session.ID, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, booking.Confirmed, decode[services.SessionView](t, rr).State)

	rr = s.do(t, "DELETE", "/v1/sessions/"+session.ID, "", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.do(t, "GET", "/v1/sessions/"+session.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBookingFlow_ApiFailureIsBadGateway(t *testing.T) {
	s := newTestServer(t)
	s.api.CreateBookingFunc = func(ctx context.Context, token string, req models.CreateBookingRequest) (*venue.Booking, error) {
		return nil, &api.APIError{StatusCode: 500, Status: "500 Internal Server Error", Message: "Something went wrong"}
	}
	rr := s.do(t, "POST", "/v1/venues/venue-1/sessions", `{"nights":1}`, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	session := decode[services.SessionView](t, rr)
	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/selection", `{"checkIn":"2024-06-05"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/confirm", "", signToken(t, testNow.Add(time.Hour)))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "Something went wrong", decode[ErrorBody](t, rr).Error)

	rr = s.do(t, "DELETE", "/v1/sessions/"+session.ID+"/selection", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, booking.NoSelection, decode[services.SessionView](t, rr).State)
}

func TestConfirm_ExpiredToken(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, "POST", "/v1/venues/venue-1/sessions", `{"nights":1}`, "")
	session := decode[services.SessionView](t, rr)
	s.do(t, "POST", "/v1/sessions/"+session.ID+"/selection", `{"checkIn":"2024-06-05"}`, "")

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/confirm", "", signToken(t, testNow.Add(-time.Minute)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, auth.ErrSessionExpired.Error(), decode[ErrorBody](t, rr).Error)
	assert.Zero(t, s.api.BookingCount())
}

func TestSessionRequests_Validation(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "POST", "/v1/venues/venue-1/sessions", `{"nights":0}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, "POST", "/v1/venues/venue-1/sessions", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, "POST", "/v1/venues/venue-1/sessions", `{"nights":2}`, "")
	session := decode[services.SessionView](t, rr)

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/selection", `{"checkIn":"06/13/2024"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, "POST", "/v1/sessions/"+session.ID+"/selection", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, "PUT", "/v1/sessions/"+session.ID+"/nights", `{"nights":4}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 4, decode[services.SessionView](t, rr).Nights)

	rr = s.do(t, "GET", "/v1/sessions/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestManagerEndpoints(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, "POST", "/v1/venues", `{"name":"Loft","description":"Central","price":80,"maxGuests":2}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, "POST", "/v1/auth/login", `{"email":"kari@stud.noroff.no","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	token := decode[models.AuthData](t, rr).AccessToken

	rr = s.do(t, "POST", "/v1/venues", `{"name":"Loft","description":"Central","price":0,"maxGuests":2}`, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, "POST", "/v1/venues", `{"name":"Loft","description":"Central","price":80,"maxGuests":2}`, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[venue.Venue](t, rr)

	rr = s.do(t, "PUT", "/v1/venues/"+created.ID, `{"name":"Loft 2","description":"Central","price":85,"maxGuests":2}`, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Loft 2", decode[venue.Venue](t, rr).Name)

	rr = s.do(t, "DELETE", "/v1/venues/"+created.ID, "", token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, "DELETE", "/v1/venues/"+created.ID, "", token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, "GET", "/v1/profiles/kari", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[models.Profile](t, rr).Venues, 1)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&availability.InvalidArgumentError{Name: "nights"}, http.StatusBadRequest},
		{&booking.DateNotAvailableError{}, http.StatusConflict},
		{booking.ErrAuthenticationRequired, http.StatusUnauthorized},
		{&booking.InvalidStateError{State: booking.Submitting}, http.StatusConflict},
		{&booking.BookingError{Message: "x"}, http.StatusBadGateway},
		{services.ErrVenueNotFound, http.StatusNotFound},
		{&api.APIError{StatusCode: http.StatusForbidden}, http.StatusForbidden},
		{&api.APIError{StatusCode: http.StatusServiceUnavailable}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, test := range tests {
		assert.Equal(t, test.status, StatusFor(test.err), test.err.Error())
	}
}
