package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"holidaze-server/api"
	"holidaze-server/auth"
	"holidaze-server/availability"
	"holidaze-server/booking"
	services "holidaze-server/service"
)

var validate = validator.New()

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// badRequest marks an error caused by the request itself: bad query args or body.
type badRequest struct {
	err error
}

func (e *badRequest) Error() string { return e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }

func invalidArgument(name string) error {
	return &badRequest{err: fmt.Errorf("invalid argument %s", name)}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, log logrus.FieldLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("error encoding response")
	}
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var (
		reqErr       *badRequest
		notAvailable *booking.DateNotAvailableError
		invalidState *booking.InvalidStateError
		bookingErr   *booking.BookingError
		apiErr       *api.APIError
	)
	switch {
	case errors.As(err, &reqErr), errors.Is(err, availability.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrAuthenticationRequired),
		errors.Is(err, auth.ErrNoSession),
		errors.Is(err, auth.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.As(err, &notAvailable), errors.As(err, &invalidState):
		return http.StatusConflict
	case errors.As(err, &bookingErr):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrVenueNotFound), errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, log logrus.FieldLogger) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		msg = "Internal server error"
	}
	writeJSON(w, status, ErrorBody{Error: msg, Status: status}, log)
}

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &badRequest{err: fmt.Errorf("invalid request body: %w", err)}
	}
	if err := validate.Struct(dst); err != nil {
		return &badRequest{err: fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	f, err := strconv.ParseFloat(vals.Get(name), 64)
	if err != nil {
		return 0, invalidArgument(name)
	}
	return f, nil
}

// parseArgInt returns def when the arg is absent.
func parseArgInt(vals url.Values, name string, def int) (int, error) {
	s := vals.Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidArgument(name)
	}
	return n, nil
}
