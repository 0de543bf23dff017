package get_day_route

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VideoBookingService/internal/domain"
	optimizeRoute "github.com/m04kA/VideoBookingService/internal/usecase/optimize_route"
)

type fakeUseCase struct {
	req  *optimizeRoute.Request
	resp *optimizeRoute.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *optimizeRoute.Request) (*optimizeRoute.Response, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var day = time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

func serve(uc *fakeUseCase, date, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/routes/"+date+query, nil)
	req = mux.SetURLVars(req, map[string]string{"date": date})
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{resp: &optimizeRoute.Response{
		Result: &domain.RouteOptimizationResult{
			Date:                 day,
			OptimizedOrder:       []string{"b-2", "b-1"},
			TotalDistanceMeters:  4200,
			TotalDurationSeconds: 376,
			Source:               domain.RouteSourceHaversine,
		},
		FromCache: true,
	}}

	rec := serve(uc, "2026-05-20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, day, uc.req.Date)
	assert.False(t, uc.req.Refresh)

	var resp DayRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-05-20", resp.Date)
	assert.Equal(t, []string{"b-2", "b-1"}, resp.OptimizedOrder)
	assert.Equal(t, []string{}, resp.Excluded)
	assert.Equal(t, 4200, resp.TotalDistanceMeters)
	assert.True(t, resp.FromCache)
}

func TestHandle_Refresh(t *testing.T) {
	uc := &fakeUseCase{resp: &optimizeRoute.Response{Result: &domain.RouteOptimizationResult{Date: day}}}

	rec := serve(uc, "2026-05-20", "?refresh=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, uc.req.Refresh)
	assert.Contains(t, rec.Body.String(), `"optimizedOrder":[]`)
}

func TestHandle_BadParams(t *testing.T) {
	uc := &fakeUseCase{}

	assert.Equal(t, http.StatusBadRequest, serve(uc, "20-05-2026", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(uc, "2026-05-20", "?refresh=maybe").Code)
	assert.Nil(t, uc.req)
}

func TestHandle_InternalError(t *testing.T) {
	rec := serve(&fakeUseCase{err: errors.New("db down")}, "2026-05-20", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
