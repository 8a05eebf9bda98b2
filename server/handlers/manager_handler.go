package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"holidaze-server/auth"
	"holidaze-server/models"
	services "holidaze-server/service"
)

const PROFILE_NAME_PATH_ARG = "name"

// ManagerHandler serves account and venue-manager endpoints. All but login and register
// need a bearer token.
type ManagerHandler struct {
	managerService *services.ManagerService
	log            logrus.FieldLogger
	now            func() time.Time
}

func NewManagerHandler(managerService *services.ManagerService, logger logrus.FieldLogger) *ManagerHandler {
	return &ManagerHandler{
		managerService: managerService,
		log:            logger.WithField("component", "ManagerHandler"),
		now:            time.Now,
	}
}

func (h *ManagerHandler) session(w http.ResponseWriter, r *http.Request) (*auth.Session, bool) {
	sess, err := auth.SessionFromRequest(r, h.now())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorBody{Error: err.Error(), Status: http.StatusUnauthorized}, h.log)
		return nil, false
	}
	return sess, true
}

func (h *ManagerHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req models.VenueRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.log)
		return
	}
	v, err := h.managerService.CreateVenue(r.Context(), sess.AccessToken, req)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusCreated, v, h.log)
}

func (h *ManagerHandler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req models.VenueRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.log)
		return
	}
	v, err := h.managerService.UpdateVenue(r.Context(), sess.AccessToken, mux.Vars(r)[VENUE_ID_PATH_ARG], req)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, v, h.log)
}

func (h *ManagerHandler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.managerService.DeleteVenue(r.Context(), sess.AccessToken, mux.Vars(r)[VENUE_ID_PATH_ARG]); err != nil {
		writeError(w, err, h.log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ManagerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	p, err := h.managerService.GetProfile(r.Context(), sess.AccessToken, mux.Vars(r)[PROFILE_NAME_PATH_ARG])
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, p, h.log)
}

func (h *ManagerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.log)
		return
	}
	data, err := h.managerService.Login(r.Context(), req)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, data, h.log)
}

func (h *ManagerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.log)
		return
	}
	p, err := h.managerService.Register(r.Context(), req)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusCreated, p, h.log)
}
