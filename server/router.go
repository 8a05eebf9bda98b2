package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// VenueRoutes are the read-only venue endpoints.
type VenueRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	ListVenues(w http.ResponseWriter, r *http.Request)
	GetVenuesNearby(w http.ResponseWriter, r *http.Request)
	GetVenue(w http.ResponseWriter, r *http.Request)
	GetAvailability(w http.ResponseWriter, r *http.Request)
	GetOccupancyChart(w http.ResponseWriter, r *http.Request)
}

// SessionRoutes drive a booking session.
type SessionRoutes interface {
	StartSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	CloseSession(w http.ResponseWriter, r *http.Request)
	SetNights(w http.ResponseWriter, r *http.Request)
	SelectCheckIn(w http.ResponseWriter, r *http.Request)
	ResetSelection(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
}

// ManagerRoutes are the account and venue-manager endpoints.
type ManagerRoutes interface {
	CreateVenue(w http.ResponseWriter, r *http.Request)
	UpdateVenue(w http.ResponseWriter, r *http.Request)
	DeleteVenue(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	venueHandler   VenueRoutes
	sessionHandler SessionRoutes
	managerHandler ManagerRoutes
	router         *mux.Router
	log            logrus.FieldLogger
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	venueHandler VenueRoutes,
	sessionHandler SessionRoutes,
	managerHandler ManagerRoutes,
	router *mux.Router,
	logger logrus.FieldLogger) *Router {
	return &Router{
		venueHandler:   venueHandler,
		sessionHandler: sessionHandler,
		managerHandler: managerHandler,
		router:         router,
		log:            logger.WithField("component", "Router"),
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(r.logRequests)

	r.router.HandleFunc("/ping", r.venueHandler.Ping).Methods("GET")

	// expects ?page={int}&limit={int}&q={search}
	r.router.HandleFunc("/v1/venues", r.venueHandler.ListVenues).Methods("GET")
	// expects ?lat={latitude(float)}&lng={longitude(float)}&radius={km(float)}
	r.router.HandleFunc("/v1/venues/nearby", r.venueHandler.GetVenuesNearby).Methods("GET")
	r.router.HandleFunc("/v1/venues/{id}", r.venueHandler.GetVenue).Methods("GET")
	// expects ?nights={int}, defaults to 1
	r.router.HandleFunc("/v1/venues/{id}/availability", r.venueHandler.GetAvailability).Methods("GET")
	r.router.HandleFunc("/v1/venues/{id}/occupancy.html", r.venueHandler.GetOccupancyChart).Methods("GET")

	r.router.HandleFunc("/v1/venues/{id}/sessions", r.sessionHandler.StartSession).Methods("POST")
	r.router.HandleFunc("/v1/sessions/{sid}", r.sessionHandler.GetSession).Methods("GET")
	r.router.HandleFunc("/v1/sessions/{sid}", r.sessionHandler.CloseSession).Methods("DELETE")
	r.router.HandleFunc("/v1/sessions/{sid}/nights", r.sessionHandler.SetNights).Methods("PUT")
	r.router.HandleFunc("/v1/sessions/{sid}/selection", r.sessionHandler.SelectCheckIn).Methods("POST")
	r.router.HandleFunc("/v1/sessions/{sid}/selection", r.sessionHandler.ResetSelection).Methods("DELETE")
	r.router.HandleFunc("/v1/sessions/{sid}/confirm", r.sessionHandler.Confirm).Methods("POST")

	r.router.HandleFunc("/v1/venues", r.managerHandler.CreateVenue).Methods("POST")
	r.router.HandleFunc("/v1/venues/{id}", r.managerHandler.UpdateVenue).Methods("PUT")
	r.router.HandleFunc("/v1/venues/{id}", r.managerHandler.DeleteVenue).Methods("DELETE")
	r.router.HandleFunc("/v1/profiles/{name}", r.managerHandler.GetProfile).Methods("GET")
	r.router.HandleFunc("/v1/auth/login", r.managerHandler.Login).Methods("POST")
	r.router.HandleFunc("/v1/auth/register", r.managerHandler.Register).Methods("POST")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		r.log.WithFields(logrus.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("handled request")
	})
}
