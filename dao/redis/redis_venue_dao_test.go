package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidaze-server/db"
	"holidaze-server/models/venue"
)

func testVenue(id string, lat, lng float64) venue.Venue {
	return venue.Venue{
		ID:       id,
		Name:     "Test Venue " + id,
		Price:    100,
		Location: venue.Location{City: "Oslo", Lat: lat, Lng: lng},
		Bookings: []venue.Booking{{ID: "b1", DateFrom: "2024-06-10T00:00:00.000Z", DateTo: "2024-06-12T00:00:00.000Z"}},
	}
}

func TestRedisVenueDAO_UpsertVenue_Success(t *testing.T) {
	// Setup
	mockClient := db.NewMockRedisClient()
	dao := NewRedisVenueDAO(mockClient, 0)
	ctx := context.Background()

	// Act
	err := dao.UpsertVenue(ctx, testVenue("venue123", 59.91, 10.75))

	// Assert
	require.NoError(t, err)
	storedValue, err := mockClient.Get(ctx, "venue_v1:venue123")
	require.NoError(t, err)

	var storedVenue venue.Venue
	require.NoError(t, json.Unmarshal([]byte(storedValue), &storedVenue))
	assert.Equal(t, "venue123", storedVenue.ID)
	assert.Len(t, storedVenue.Bookings, 1)
}

func TestRedisVenueDAO_GetVenue(t *testing.T) {
	dao := NewRedisVenueDAO(db.NewMockRedisClient(), 0)
	ctx := context.Background()

	missing, err := dao.GetVenue(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// No coordinates: cached but not geo indexed.
	require.NoError(t, dao.UpsertVenue(ctx, testVenue("venue123", 0, 0)))
	got, err := dao.GetVenue(ctx, "venue123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Test Venue venue123", got.Name)

	nearby, err := dao.GetNearbyVenues(ctx, 0, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestRedisVenueDAO_GetVenue_Expired(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	client := db.NewMockRedisClient().WithClock(func() time.Time { return now })
	dao := NewRedisVenueDAO(client, 10*time.Minute)
	ctx := context.Background()
	require.NoError(t, dao.UpsertVenue(ctx, testVenue("venue123", 59.91, 10.75)))

	now = now.Add(11 * time.Minute)

	got, err := dao.GetVenue(ctx, "venue123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisVenueDAO_GetNearbyVenues_Success(t *testing.T) {
	// Setup
	dao := NewRedisVenueDAO(db.NewMockRedisClient(), 0)
	ctx := context.Background()
	require.NoError(t, dao.UpsertVenue(ctx, testVenue("venue123", 40.7128, -74.0060)))
	require.NoError(t, dao.UpsertVenue(ctx, testVenue("venue456", 40.7130, -74.0050)))
	require.NoError(t, dao.UpsertVenue(ctx, testVenue("far", 59.91, 10.75)))

	// Act
	venues, err := dao.GetNearbyVenues(ctx, 40.7128, -74.0060, 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.Equal(t, "venue123", venues[0].ID, "nearest first")
	assert.Equal(t, "venue456", venues[1].ID)
}

func TestRedisVenueDAO_GetNearbyVenues_NoResults(t *testing.T) {
	dao := NewRedisVenueDAO(db.NewMockRedisClient(), 0)

	venues, err := dao.GetNearbyVenues(context.Background(), 40.7128, -74.0060, 1000)

	require.NoError(t, err)
	assert.Empty(t, venues)
}

func TestRedisVenueDAO_DeleteVenue(t *testing.T) {
	dao := NewRedisVenueDAO(db.NewMockRedisClient(), 0)
	ctx := context.Background()
	require.NoError(t, dao.UpsertVenue(ctx, testVenue("venue123", 40.7128, -74.0060)))

	require.NoError(t, dao.DeleteVenue(ctx, "venue123"))

	got, err := dao.GetVenue(ctx, "venue123")
	require.NoError(t, err)
	assert.Nil(t, got)
	venues, err := dao.GetNearbyVenues(ctx, 40.7128, -74.0060, 10)
	require.NoError(t, err)
	assert.Empty(t, venues)
}

func TestRedisVenueDAO_UpsertVenueSince_SkipsCopiesReadBeforeDelete(t *testing.T) {
	dao := NewRedisVenueDAO(db.NewMockRedisClient(), 0)
	ctx := context.Background()
	require.NoError(t, dao.UpsertVenue(ctx, testVenue("venue123", 59.91, 10.75)))

	mark := dao.Mark()
	stale := testVenue("venue123", 59.91, 10.75)
	stale.Bookings = nil
	require.NoError(t, dao.DeleteVenue(ctx, "venue123"))

	stored, err := dao.UpsertVenueSince(ctx, stale, mark)
	require.NoError(t, err)
	assert.False(t, stored)
	got, err := dao.GetVenue(ctx, "venue123")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Other venues and copies read after the delete are stored.
	stored, err = dao.UpsertVenueSince(ctx, testVenue("other", 59.9, 10.7), mark)
	require.NoError(t, err)
	assert.True(t, stored)
	stored, err = dao.UpsertVenueSince(ctx, testVenue("venue123", 59.91, 10.75), dao.Mark())
	require.NoError(t, err)
	assert.True(t, stored)
	got, err = dao.GetVenue(ctx, "venue123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Bookings, 1)
}
