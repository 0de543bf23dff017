package review_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
	reviewBooking "github.com/m04kA/VideoBookingService/internal/usecase/review_booking"
)

type fakeUseCase struct {
	req  *reviewBooking.Request
	resp *reviewBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *reviewBooking.Request) (*reviewBooking.Response, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc *fakeUseCase, action, payload string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/b-1/"+action, strings.NewReader(payload))
	req = mux.SetURLVars(req, map[string]string{"bookingId": "b-1", "action": action})
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Approve(t *testing.T) {
	uc := &fakeUseCase{resp: &reviewBooking.Response{
		Booking:        &domain.BookingRequest{ID: "b-1", Status: domain.StatusApproved},
		PreviousStatus: domain.StatusPending,
		Reminders:      []domain.ReminderEntry{{ID: "r1", Offset: 2 * time.Hour, Status: domain.ReminderPending}},
	}}

	rec := serve(uc, "approve", `{"expectedStatus":"pending","expectedUpdatedAt":"2026-05-01T10:00:00.123456Z","notes":"ok"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.req)
	assert.Equal(t, "b-1", uc.req.BookingID)
	assert.Equal(t, approval.ActionApprove, uc.req.Action)
	assert.Equal(t, domain.StatusPending, uc.req.ExpectedStatus)
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 123456000, time.UTC), uc.req.ExpectedUpdatedAt)
	assert.Equal(t, "ok", *uc.req.Notes)

	var resp ReviewBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.PreviousStatus)
	assert.Equal(t, "approved", resp.Booking.Status)
	assert.Len(t, resp.Reminders, 1)
}

func TestHandle_EmptyBody(t *testing.T) {
	uc := &fakeUseCase{resp: &reviewBooking.Response{
		Booking:            &domain.BookingRequest{ID: "b-1", Status: domain.StatusCancelled},
		PreviousStatus:     domain.StatusApproved,
		CancelledReminders: 2,
	}}

	rec := serve(uc, "cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, uc.req.ExpectedUpdatedAt.IsZero())
	assert.Empty(t, uc.req.ExpectedStatus)
	assert.Contains(t, rec.Body.String(), `"cancelledReminders":2`)
}

func TestHandle_BadBody(t *testing.T) {
	uc := &fakeUseCase{}

	assert.Equal(t, http.StatusBadRequest, serve(uc, "approve", `{"expectedUpdatedAt":"yesterday"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(uc, "approve", `{"expectedStatus":"maybe"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(uc, "approve", `{"unknown":1}`).Code)
	assert.Nil(t, uc.req)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", domain.NewInvalidValueError("action", "archive"), http.StatusBadRequest},
		{"not found", reviewBooking.ErrBookingNotFound, http.StatusNotFound},
		{"invalid transition", &domain.InvalidTransitionError{From: domain.StatusDeclined, To: domain.StatusApproved}, http.StatusConflict},
		{"conflict", &domain.ConcurrentModificationError{BookingID: "b-1"}, http.StatusConflict},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, serve(&fakeUseCase{err: tt.err}, "approve", "").Code)
		})
	}
}
