package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"holidaze-server/auth"
	"holidaze-server/availability"
	services "holidaze-server/service"
)

const SESSION_ID_PATH_ARG = "sid"

type NightsRequest struct {
	Nights int `json:"nights" validate:"min=1"`
}

type SelectionRequest struct {
	CheckIn availability.DateOnly `json:"checkIn"`
}

// SessionHandler exposes booking sessions: pick a stay length, pick a check-in, confirm.
type SessionHandler struct {
	sessions *services.BookingSessionService
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewSessionHandler(sessions *services.BookingSessionService, logger logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		log:      logger.WithField("component", "SessionHandler"),
		now:      time.Now,
	}
}

// StartSession handles POST /v1/venues/{id}/sessions.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req NightsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.log)
		return
	}
	view, err := h.sessions.StartSession(r.Context(), mux.Vars(r)[VENUE_ID_PATH_ARG], req.Nights)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusCreated, view, h.log)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Get(mux.Vars(r)[SESSION_ID_PATH_ARG])
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, view, h.log)
}

func (h *SessionHandler) SetNights(w http.ResponseWriter, r *http.Request) {
	var req NightsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.log)
		return
	}
	view, err := h.sessions.SetNights(mux.Vars(r)[SESSION_ID_PATH_ARG], req.Nights)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, view, h.log)
}

func (h *SessionHandler) SelectCheckIn(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.log)
		return
	}
	if req.CheckIn.IsZero() {
		writeError(w, invalidArgument("checkIn"), h.log)
		return
	}
	view, err := h.sessions.Select(mux.Vars(r)[SESSION_ID_PATH_ARG], req.CheckIn)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, view, h.log)
}

// Confirm handles POST /v1/sessions/{sid}/confirm. A missing or unreadable bearer token
// reaches the controller as no credential, which answers 401 without calling the API.
func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := ""
	sess, err := auth.SessionFromRequest(r, h.now())
	switch {
	case err == nil:
		token = sess.AccessToken
	case errors.Is(err, auth.ErrSessionExpired):
		writeError(w, err, h.log)
		return
	}

	confirmation, err := h.sessions.Confirm(r.Context(), mux.Vars(r)[SESSION_ID_PATH_ARG], token)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusCreated, confirmation, h.log)
}

// ResetSelection handles DELETE /v1/sessions/{sid}/selection.
func (h *SessionHandler) ResetSelection(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Reset(mux.Vars(r)[SESSION_ID_PATH_ARG])
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, view, h.log)
}

func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(mux.Vars(r)[SESSION_ID_PATH_ARG])
	w.WriteHeader(http.StatusNoContent)
}
