package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Request_Success(t *testing.T) {
	// Mock server setup
	mockResponse := map[string]string{"message": "success"}
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-endpoint" {
			t.Errorf("Expected endpoint '/test-endpoint', got '%s'", r.URL.Path)
		}
		if got := r.Header.Get(API_KEY_HEADER); got != "key-123" {
			t.Errorf("Expected api key header 'key-123', got '%s'", got)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(mockResponse)
	}))
	defer mockServer.Close()

	// Test setup
	client := NewHTTPClient(mockServer.URL).WithAPIKey("key-123")
	var response map[string]string

	// Act
	err := client.Request(context.Background(), "GET", "/test-endpoint", nil, nil, &response)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "success", response["message"])
}

func TestHTTPClient_Request_SendsBodyAndHeaders(t *testing.T) {
	var received map[string]string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)

	err := client.Request(context.Background(), "POST", "/x", BearerHeaders("tok"), map[string]string{"key": "value"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "value", received["key"])
}

func TestHTTPClient_Request_Failure(t *testing.T) {
	// Mock server setup
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad request"}`))
	}))
	defer mockServer.Close()

	// Test setup
	client := NewHTTPClient(mockServer.URL)
	var response map[string]string

	// Act
	err := client.Request(context.Background(), "POST", "/test-endpoint", nil, map[string]string{"key": "value"}, &response)

	// Assert
	require.Error(t, err)
	assert.Equal(t, "unexpected status code: 400 Bad Request", err.Error())
}

func TestHTTPClient_Request_ErrorPayloadMessage(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"errors":[{"message":"The venue is already booked for the selected dates"}],"status":"Conflict","statusCode":409}`))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)

	err := client.Request(context.Background(), "POST", "/holidaze/bookings", nil, nil, nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "The venue is already booked for the selected dates", apiErr.Error())
}

func TestHTTPClient_Request_ContextCancelled(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.Request(ctx, "GET", "/slow", nil, nil, nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
