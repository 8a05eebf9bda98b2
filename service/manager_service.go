package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"holidaze-server/api/holidaze"
	"holidaze-server/models"
	"holidaze-server/models/venue"
)

// ManagerService covers what venue managers and account holders do besides booking.
type ManagerService struct {
	holidazeApi  holidaze.HolidazeAPI
	venueService *VenueService
	log          logrus.FieldLogger
}

func NewManagerService(holidazeApi holidaze.HolidazeAPI, venueService *VenueService, logger logrus.FieldLogger) *ManagerService {
	return &ManagerService{
		holidazeApi:  holidazeApi,
		venueService: venueService,
		log:          logger.WithField("component", "ManagerService"),
	}
}

func (ms *ManagerService) CreateVenue(ctx context.Context, token string, req models.VenueRequest) (*venue.Venue, error) {
	v, err := ms.holidazeApi.CreateVenue(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	ms.log.WithField("venue_id", v.ID).Info("venue created")
	return v, nil
}

func (ms *ManagerService) UpdateVenue(ctx context.Context, token, venueID string, req models.VenueRequest) (*venue.Venue, error) {
	v, err := ms.holidazeApi.UpdateVenue(ctx, token, venueID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update venue %s: %w", venueID, err)
	}
	ms.invalidate(ctx, venueID)
	return v, nil
}

func (ms *ManagerService) DeleteVenue(ctx context.Context, token, venueID string) error {
	if err := ms.holidazeApi.DeleteVenue(ctx, token, venueID); err != nil {
		return fmt.Errorf("failed to delete venue %s: %w", venueID, err)
	}
	ms.invalidate(ctx, venueID)
	return nil
}

// GetProfile returns the profile with its venues and bookings.
func (ms *ManagerService) GetProfile(ctx context.Context, token, name string) (*models.Profile, error) {
	p, err := ms.holidazeApi.GetProfile(ctx, token, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", name, err)
	}
	return p, nil
}

func (ms *ManagerService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthData, error) {
	data, err := ms.holidazeApi.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return data, nil
}

func (ms *ManagerService) Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error) {
	p, err := ms.holidazeApi.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return p, nil
}

func (ms *ManagerService) invalidate(ctx context.Context, venueID string) {
	if err := ms.venueService.InvalidateVenue(ctx, venueID); err != nil {
		ms.log.WithError(err).WithField("venue_id", venueID).Warn("failed to invalidate venue")
	}
}
