package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fuel-stop-planner/internal/domain"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestORS(t *testing.T, h http.HandlerFunc) *ORSProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewORSProvider("test-key", WithBaseURL(srv.URL), WithRetry(3, time.Millisecond))
	require.NoError(t, err)
	return p
}

func TestNewORSProviderRequiresKey(t *testing.T) {
	_, err := NewORSProvider("")
	require.Error(t, err)
}

func TestORSPath(t *testing.T) {
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/directions/driving-car", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("Authorization"))
		require.Equal(t, "-3.700000,40.400000", r.URL.Query().Get("start"))
		require.Equal(t, "2.170000,41.380000", r.URL.Query().Get("end"))
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[[-3.7,40.4],[-1.0,41.0],[2.17,41.38]]}}]}`))
	})

	pts, err := p.Path(context.Background(), []domain.Coordinates{
		{Lat: 40.4, Lon: -3.7},
		{Lat: 41.38, Lon: 2.17},
	})
	require.NoError(t, err)
	require.Equal(t, []domain.Coordinates{
		{Lat: 40.4, Lon: -3.7},
		{Lat: 41.0, Lon: -1.0},
		{Lat: 41.38, Lon: 2.17},
	}, pts)
}

func TestORSPathRejectsExtraWaypoints(t *testing.T) {
	p, err := NewORSProvider("k")
	require.NoError(t, err)
	_, err = p.Path(context.Background(), make([]domain.Coordinates, 3))
	require.Error(t, err)
}

func TestORSDistances(t *testing.T) {
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/matrix/driving-car", r.URL.Path)

		var req matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"distance"}, req.Metrics)
		require.Equal(t, [][]float64{{-3.7, 40.4}, {2.17, 41.38}}, req.Locations)

		_, _ = w.Write([]byte(`{"distances":[[0,620500.0],[618250.0,0]]}`))
	})

	m, err := p.Distances(context.Background(), []domain.Coordinates{
		{Lat: 40.4, Lon: -3.7},
		{Lat: 41.38, Lon: 2.17},
	})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, 620.5}, {618.25, 0}}, m)
}

func TestORSDistancesNullCell(t *testing.T) {
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"distances":[[0,null],[1000,0]]}`))
	})

	_, err := p.Distances(context.Background(), make([]domain.Coordinates, 2))
	require.Error(t, err)
}

func TestORSDistancesTrivialInputSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })

	m, err := p.Distances(context.Background(), make([]domain.Coordinates, 1))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0}}, m)
	require.Zero(t, calls.Load())
}

func TestORSRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"distances":[[0,1000],[1000,0]]}`))
	})

	m, err := p.Distances(context.Background(), make([]domain.Coordinates, 2))
	require.NoError(t, err)
	require.Equal(t, 1.0, m[0][1])
	require.Equal(t, int32(3), calls.Load())
}

func TestORSDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	})

	_, err := p.Distances(context.Background(), make([]domain.Coordinates, 2))
	require.Error(t, err)
	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusForbidden, he.Code)
	require.Equal(t, int32(1), calls.Load())
}

func TestORSGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	})

	_, err := p.Distances(context.Background(), make([]domain.Coordinates, 2))
	require.Error(t, err)
	require.Equal(t, int32(3), calls.Load())
}
