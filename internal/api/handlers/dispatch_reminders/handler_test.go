package dispatch_reminders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dispatchReminders "github.com/m04kA/VideoBookingService/internal/usecase/dispatch_reminders"
)

type fakeUseCase struct {
	req  *dispatchReminders.Request
	resp *dispatchReminders.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *dispatchReminders.Request) (*dispatchReminders.Response, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc *fakeUseCase, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/dispatch"+query, nil)
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{resp: &dispatchReminders.Response{Dispatched: 3}}

	rec := serve(uc, "?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, uc.req.Limit)
	assert.JSONEq(t, `{"dispatched":3}`, rec.Body.String())
}

func TestHandle_DefaultLimit(t *testing.T) {
	uc := &fakeUseCase{resp: &dispatchReminders.Response{}}

	require.Equal(t, http.StatusOK, serve(uc, "").Code)
	assert.Equal(t, 0, uc.req.Limit)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, "?limit=-1").Code)
	assert.Equal(t, http.StatusServiceUnavailable,
		serve(&fakeUseCase{err: fmt.Errorf("%w: broker down", dispatchReminders.ErrPublish)}, "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeUseCase{err: errors.New("boom")}, "").Code)
}
