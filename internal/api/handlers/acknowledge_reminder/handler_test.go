package acknowledge_reminder

import (
	"context"
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
	acknowledgeReminder "github.com/m04kA/VideoBookingService/internal/usecase/acknowledge_reminder"
)

type fakeUseCase struct {
	req  *acknowledgeReminder.Request
	resp *acknowledgeReminder.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *acknowledgeReminder.Request) (*acknowledgeReminder.Response, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc *fakeUseCase) *httptest.ResponseRecorder {
	return serveBody(uc, "")
}

func serveBody(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/r1/ack", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"reminderId": "r1"})
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	sentAt := time.Date(2026, 5, 18, 9, 1, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &acknowledgeReminder.Response{Reminder: &domain.ReminderEntry{
		ID:        "r1",
		BookingID: "b-1",
		Offset:    2 * time.Hour,
		Status:    domain.ReminderSent,
		SentAt:    &sentAt,
	}}}

	rec := serve(uc)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r1", uc.req.ReminderID)
	assert.False(t, uc.req.Failed)
	assert.Contains(t, rec.Body.String(), `"status":"sent"`)
	assert.Contains(t, rec.Body.String(), `"offsetMinutes":120`)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(&fakeUseCase{err: acknowledgeReminder.ErrReminderNotFound}).Code)
	assert.Equal(t, http.StatusConflict, serve(&fakeUseCase{err: acknowledgeReminder.ErrReminderNotPending}).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{err: domain.NewMissingFieldError("reminderId")}).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeUseCase{err: errors.New("boom")}).Code)
}

func TestHandle_DeliveryFailure(t *testing.T) {
	uc := &fakeUseCase{resp: &acknowledgeReminder.Response{Reminder: &domain.ReminderEntry{
		ID:        "r1",
		BookingID: "b-1",
		Offset:    2 * time.Hour,
		Status:    domain.ReminderPending,
	}}}

	rec := serveBody(uc, `{"delivered":false,"reason":"mailbox full"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, uc.req.Failed)
	assert.Equal(t, "mailbox full", uc.req.Reason)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	serveBody(uc, `{"delivered":true}`)
	assert.False(t, uc.req.Failed)
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serveBody(uc, `{"delivered":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.req)

	rec = serveBody(uc, `{"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
