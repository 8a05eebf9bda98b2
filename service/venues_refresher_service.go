package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"holidaze-server/api/holidaze"
	"holidaze-server/dao/redis"
)

const REFRESH_PAGE_SIZE = 100

// Upper bound on pages per run, in case the API never reports a last page.
const REFRESH_MAX_PAGES = 50

// VenuesRefresherService periodically copies the Holidaze venue catalogue into the cache,
// which keeps the geo index behind /v1/venues/nearby populated.
type VenuesRefresherService struct {
	venueDao    *redis.RedisVenueDAO
	holidazeApi holidaze.HolidazeAPI
	log         logrus.FieldLogger
	pageSize    int
}

// NewVenuesRefresherService constructs a new Refresher with dependencies.
func NewVenuesRefresherService(
	venueDao *redis.RedisVenueDAO,
	holidazeApi holidaze.HolidazeAPI,
	logger logrus.FieldLogger,
) *VenuesRefresherService {
	return &VenuesRefresherService{
		venueDao:    venueDao,
		holidazeApi: holidazeApi,
		log:         logger.WithField("component", "VenuesRefresherService"),
		pageSize:    REFRESH_PAGE_SIZE,
	}
}

// StartPeriodicJob launches the background loop at the given interval. It stops when
// ctx is cancelled.
func (vr *VenuesRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go vr.startPeriodicJob(ctx, interval)
}

func (vr *VenuesRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			vr.log.Info("stopping periodic venues refresher job")
			return
		case <-ticker.C:
			vr.log.Info("running periodic venues refresher job")
			if n, err := vr.RefreshVenuesData(ctx); err != nil {
				vr.log.WithError(err).Error("RefreshVenuesData returned error")
			} else {
				vr.log.WithField("venues", n).Info("RefreshVenuesData completed successfully")
			}
		}
	}
}

// RefreshVenuesData pages through every venue and upserts it, returning how many were
// cached. A failed page ends the run; a failed upsert is logged and skipped. Venues
// invalidated while their page was in flight are left uncached.
func (vr *VenuesRefresherService) RefreshVenuesData(ctx context.Context) (int, error) {
	cached := 0
	for page := 1; page <= REFRESH_MAX_PAGES; page++ {
		mark := vr.venueDao.Mark()
		resp, err := vr.holidazeApi.ListVenues(ctx, holidaze.ListVenuesParams{Page: page, Limit: vr.pageSize})
		if err != nil {
			return cached, fmt.Errorf("failed to list venues page %d: %w", page, err)
		}
		vr.log.WithFields(logrus.Fields{"page": page, "venues": len(resp.Data)}).Debug("fetched venues page")

		for _, v := range resp.Data {
			stored, err := vr.venueDao.UpsertVenueSince(ctx, v, mark)
			if err != nil {
				vr.log.WithError(err).WithField("venue_id", v.ID).Warn("upsert failed")
				continue
			}
			if !stored {
				vr.log.WithField("venue_id", v.ID).Debug("venue invalidated during refresh, not cached")
				continue
			}
			vr.log.WithField("venue", v.ToString()).Debug("upserted venue")
			cached++
		}

		if len(resp.Data) == 0 || resp.Meta.IsLastPage {
			break
		}
	}
	return cached, nil
}
