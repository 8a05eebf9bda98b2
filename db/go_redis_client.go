package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// GoRedisClient implements RedisClient on top of go-redis.
type GoRedisClient struct {
	client *redis.Client
	log    logrus.FieldLogger
}

// NewGoRedisClient wraps an existing go-redis client.
func NewGoRedisClient(client *redis.Client, logger logrus.FieldLogger) *GoRedisClient {
	return &GoRedisClient{
		client: client,
		log:    logger.WithField("component", "GoRedisClient"),
	}
}

// Set sets a key-value pair in Redis; ttl 0 means no expiry.
func (r *GoRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves the value for a given key from Redis
func (r *GoRedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNil
	}
	return val, err
}

func (r *GoRedisClient) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// AddLocationWithJSON stores geolocation along with associated JSON data.
func (r *GoRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}, ttl time.Duration) error {
	// Serialize the data to JSON.
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Store the geolocation using GEOADD.
	if err := r.client.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      memberKey,
		Latitude:  lat,
		Longitude: lon,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add geolocation: %w", err)
	}

	// Store the JSON data associated with the same member.
	if err := r.client.Set(ctx, memberKey, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set JSON data: %w", err)
	}

	r.log.WithField("member", memberKey).Debug("added geolocation and JSON")
	return nil
}

// RemoveLocation drops a member from the geo index (a sorted set under the hood).
func (r *GoRedisClient) RemoveLocation(ctx context.Context, geoKey, memberKey string) error {
	return r.client.ZRem(ctx, geoKey, memberKey).Err()
}

// GetLocationsWithinRadius finds all members within radiusKm and returns their JSON data.
// Members whose JSON has expired are skipped.
func (r *GoRedisClient) GetLocationsWithinRadius(ctx context.Context, geoKey string, lat, lon, radiusKm float64) ([]string, error) {
	results, err := r.client.GeoRadius(ctx, geoKey, lon, lat, &redis.GeoRadiusQuery{
		Radius: radiusKm,
		Unit:   "km",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get nearby locations: %w", err)
	}

	var objects []string
	for _, loc := range results {
		// Fetch the JSON data for each location using its member name.
		data, err := r.client.Get(ctx, loc.Name).Result()
		if err != nil {
			r.log.WithField("member", loc.Name).WithError(err).Debug("skipping geo member")
			continue
		}
		objects = append(objects, data)
	}

	return objects, nil
}

func (r *GoRedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
