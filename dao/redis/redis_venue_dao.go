package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"holidaze-server/db"
	"holidaze-server/models/venue"
)

const VENUES_GEO_KEY_V1 = "venues_geo_v1"
const VENUE_KEY_FORMAT_V1 = "venue_v1:%s"

// RedisVenueDAO caches Holidaze venues, bookings included, in Redis.
type RedisVenueDAO struct {
	client db.RedisClient
	ttl    time.Duration

	// deletes counts DeleteVenue calls; deletedAt holds the count at each venue's last delete.
	mu        sync.Mutex
	deletes   uint64
	deletedAt map[string]uint64
}

// NewRedisVenueDAO initializes a RedisVenueDAO with the Redis client. Entries expire
// after ttl; 0 keeps them until they are deleted.
func NewRedisVenueDAO(client db.RedisClient, ttl time.Duration) *RedisVenueDAO {
	return &RedisVenueDAO{client: client, ttl: ttl, deletedAt: make(map[string]uint64)}
}

func venueKey(venueID string) string {
	return fmt.Sprintf(VENUE_KEY_FORMAT_V1, venueID)
}

// UpsertVenue stores the venue's JSON, and adds it to the geo index when it has coordinates.
func (dao *RedisVenueDAO) UpsertVenue(ctx context.Context, v venue.Venue) error {
	key := venueKey(v.ID)
	if v.HasCoordinates() {
		if err := dao.client.AddLocationWithJSON(ctx, VENUES_GEO_KEY_V1, key, v.Location.Lat, v.Location.Lng, v, dao.ttl); err != nil {
			return fmt.Errorf("[RedisVenueDAO] failed to upsert venue %s: %w", v.ID, err)
		}
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal venue %s: %w", v.ID, err)
	}
	if err := dao.client.Set(ctx, key, string(data), dao.ttl); err != nil {
		return fmt.Errorf("[RedisVenueDAO] failed to upsert venue %s: %w", v.ID, err)
	}
	return nil
}

// Mark returns a token to pass to UpsertVenueSince. Take it before reading venues upstream.
func (dao *RedisVenueDAO) Mark() uint64 {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	return dao.deletes
}

// UpsertVenueSince stores v unless DeleteVenue dropped it after mark was taken, in which
// case the copy is stale and stored is false.
func (dao *RedisVenueDAO) UpsertVenueSince(ctx context.Context, v venue.Venue, mark uint64) (stored bool, err error) {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	if dao.deletedAt[v.ID] > mark {
		return false, nil
	}
	if err := dao.UpsertVenue(ctx, v); err != nil {
		return false, err
	}
	return true, nil
}

// GetVenue returns the cached venue, or nil without error on a cache miss.
func (dao *RedisVenueDAO) GetVenue(ctx context.Context, venueID string) (*venue.Venue, error) {
	str, err := dao.client.Get(ctx, venueKey(venueID))
	if errors.Is(err, db.ErrNil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue %s from redis: %w", venueID, err)
	}
	var v venue.Venue
	if err := json.Unmarshal([]byte(str), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
	}
	return &v, nil
}

// DeleteVenue drops the venue from the cache and the geo index.
func (dao *RedisVenueDAO) DeleteVenue(ctx context.Context, venueID string) error {
	dao.mu.Lock()
	dao.deletes++
	dao.deletedAt[venueID] = dao.deletes
	dao.mu.Unlock()

	key := venueKey(venueID)
	if err := dao.client.Del(ctx, key); err != nil {
		return fmt.Errorf("failed to delete venue key %s: %w", key, err)
	}
	if err := dao.client.RemoveLocation(ctx, VENUES_GEO_KEY_V1, key); err != nil {
		return fmt.Errorf("failed to remove venue %s from geo index: %w", venueID, err)
	}
	return nil
}

// GetNearbyVenues retrieves cached venues within radiusKm, nearest first.
func (dao *RedisVenueDAO) GetNearbyVenues(ctx context.Context, lat, lng, radiusKm float64) ([]venue.Venue, error) {
	venuesJSON, err := dao.client.GetLocationsWithinRadius(ctx, VENUES_GEO_KEY_V1, lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("[RedisVenueDAO] failed to get venues: %w", err)
	}

	venues := make([]venue.Venue, len(venuesJSON))
	for i, venueJSON := range venuesJSON {
		if err := json.Unmarshal([]byte(venueJSON), &venues[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
		}
	}
	return venues, nil
}
