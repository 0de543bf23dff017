package list_day_bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VideoBookingService/internal/service/bookings"
	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
)

type fakeService struct {
	req *models.GetDayBookingsRequest
	err error
}

func (f *fakeService) ListDayBookings(_ context.Context, req *models.GetDayBookingsRequest) (*models.BookingListResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "b-1"}}}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/api/v1/bookings?date=2026-05-20&status=approved")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookings":[{"id":"b-1"`)
	assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), svc.req.Date)
	assert.Equal(t, "approved", *svc.req.Status)
}

func TestHandle_NoStatus(t *testing.T) {
	svc := &fakeService{}
	serve(svc, "/api/v1/bookings?date=2026-05-20")
	assert.Nil(t, svc.req.Status)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/api/v1/bookings").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: bookings.ErrInvalidInput}, "/api/v1/bookings?date=2026-05-20&status=x").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: fmt.Errorf("boom")}, "/api/v1/bookings?date=2026-05-20").Code)
}
