package distancematrix

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var points = []Point{{Lat: 40.70, Lng: -74.00}, {Lat: 40.72, Lng: -74.01}}

func TestClient_GetMatrix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/matrix", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		var req matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, points, req.Points)

		_, _ = w.Write([]byte(`{"distances_meters":[[0,2400],[2500,0]],"durations_seconds":[[0,300],[320,0]]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second, 0, 1, nopLogger{})
	matrix, err := client.GetMatrix(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 2400}, {2500, 0}}, matrix.DistanceMeters)
	assert.Equal(t, [][]float64{{0, 300}, {320, 0}}, matrix.DurationSeconds)
}

func TestClient_GetMatrixWrongSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"distances_meters":[[0]]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second, 0, 1, nopLogger{}).GetMatrix(context.Background(), points)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetMatrixProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second, 0, 1, nopLogger{}).GetMatrix(context.Background(), points)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_RateLimitWaitHonoursContext(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"distances_meters":[[0,1],[1,0]]}`))
	}))
	defer srv.Close()

	// Одна заявка в минуту: второй вызов не дождётся токена до дедлайна
	client := NewClient(srv.URL, "", time.Second, 1.0/60, 1, nopLogger{})

	_, err := client.GetMatrix(context.Background(), points)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.GetMatrix(ctx, points)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
