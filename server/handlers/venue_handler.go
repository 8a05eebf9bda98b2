package handlers

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"holidaze-server/api/holidaze"
	services "holidaze-server/service"
	"holidaze-server/util"
)

const (
	LAT_QUERY_ARG        = "lat"
	LNG_QUERY_ARG        = "lng"
	RADIUS_QUERY_ARG     = "radius"
	PAGE_QUERY_ARG       = "page"
	LIMIT_QUERY_ARG      = "limit"
	SEARCH_QUERY_ARG     = "q"
	SORT_QUERY_ARG       = "sort"
	SORT_ORDER_QUERY_ARG = "sortOrder"
	NIGHTS_QUERY_ARG     = "nights"

	VENUE_ID_PATH_ARG = "id"

	DEFAULT_NIGHTS = 1
)

type VenueHandler struct {
	venueService *services.VenueService
	log          logrus.FieldLogger
}

func NewVenueHandler(venueService *services.VenueService, logger logrus.FieldLogger) *VenueHandler {
	return &VenueHandler{venueService: venueService, log: logger.WithField("component", "VenueHandler")}
}

// ListVenues handles GET /v1/venues, searching when ?q= is given.
func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	page, err := parseArgInt(vals, PAGE_QUERY_ARG, 0)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	limit, err := parseArgInt(vals, LIMIT_QUERY_ARG, 0)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	params := holidaze.ListVenuesParams{
		Page:      page,
		Limit:     limit,
		Sort:      vals.Get(SORT_QUERY_ARG),
		SortOrder: vals.Get(SORT_ORDER_QUERY_ARG),
	}

	if q := vals.Get(SEARCH_QUERY_ARG); q != "" {
		resp, err := h.venueService.SearchVenues(r.Context(), q, params)
		if err != nil {
			writeError(w, err, h.log)
			return
		}
		writeJSON(w, http.StatusOK, resp, h.log)
		return
	}

	resp, err := h.venueService.ListVenues(r.Context(), params)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, resp, h.log)
}

// GetVenuesNearby handles GET /v1/venues/nearby?lat=&lng=&radius= (radius in km).
func (h *VenueHandler) GetVenuesNearby(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	lat, err := parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	lng, err := parseArgFloat64(vals, LNG_QUERY_ARG)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	radius, err := parseArgFloat64(vals, RADIUS_QUERY_ARG)
	if err != nil || radius <= 0 {
		writeError(w, invalidArgument(RADIUS_QUERY_ARG), h.log)
		return
	}

	venues, err := h.venueService.GetNearbyVenues(r.Context(), lat, lng, radius)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, venues, h.log)
}

func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	v, err := h.venueService.GetVenue(r.Context(), mux.Vars(r)[VENUE_ID_PATH_ARG])
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, v, h.log)
}

// GetAvailability handles GET /v1/venues/{id}/availability?nights=.
func (h *VenueHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	nights, err := parseArgInt(r.URL.Query(), NIGHTS_QUERY_ARG, DEFAULT_NIGHTS)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	view, err := h.venueService.GetAvailability(r.Context(), mux.Vars(r)[VENUE_ID_PATH_ARG], nights)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, view, h.log)
}

// GetOccupancyChart renders the venue's monthly occupancy as an HTML bar chart.
func (h *VenueHandler) GetOccupancyChart(w http.ResponseWriter, r *http.Request) {
	v, occupancy, err := h.venueService.GetOccupancy(r.Context(), mux.Vars(r)[VENUE_ID_PATH_ARG])
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	var buf bytes.Buffer
	if err := util.PlotOccupancy(&buf, v.Name, occupancy); err != nil {
		writeError(w, err, h.log)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.WithError(err).Warn("error writing chart")
	}
}

// Ping handles GET /ping
func (h *VenueHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"}, h.log)
}
