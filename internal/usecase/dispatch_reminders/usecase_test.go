package dispatch_reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

var now = time.Date(2026, 5, 18, 9, 0, 0, 0, time.UTC)

type fakeReminderRepo struct {
	entries    []domain.ReminderEntry
	filters    []domain.DueRemindersFilter
	dispatched []string
}

func (f *fakeReminderRepo) ListDue(_ context.Context, filter domain.DueRemindersFilter) ([]domain.ReminderEntry, error) {
	f.filters = append(f.filters, filter)
	var out []domain.ReminderEntry
	for _, e := range f.entries {
		if e.IsDue(filter.Now) && len(out) < filter.Limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) MarkDispatched(_ context.Context, ids []string, at time.Time) (int64, error) {
	f.dispatched = append(f.dispatched, ids...)
	for i := range f.entries {
		for _, id := range ids {
			if f.entries[i].ID == id {
				f.entries[i].DispatchedAt = &at
			}
		}
	}
	return int64(len(ids)), nil
}

type fakePublisher struct {
	published []domain.ReminderEntry
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, entries []domain.ReminderEntry) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, entries...)
	return nil
}

type fakeMetrics struct{ total int }

func (f *fakeMetrics) ObserveRemindersDispatched(n int) { f.total += n }

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func entry(id string, at time.Time, status domain.ReminderStatus) domain.ReminderEntry {
	return domain.ReminderEntry{ID: id, BookingID: "b-1", ScheduledAt: at, Status: status}
}

func newUseCase(repo *fakeReminderRepo, pub *fakePublisher, metrics *fakeMetrics) *UseCase {
	uc := NewUseCase(repo, pub, fakeTx{}, metrics, nopLogger{})
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func TestExecute_DispatchesOnlyDuePending(t *testing.T) {
	repo := &fakeReminderRepo{entries: []domain.ReminderEntry{
		entry("due", now.Add(-time.Minute), domain.ReminderPending),
		entry("exact", now, domain.ReminderPending),
		entry("future", now.Add(time.Hour), domain.ReminderPending),
		entry("cancelled", now.Add(-time.Hour), domain.ReminderCancelled),
		entry("sent", now.Add(-time.Hour), domain.ReminderSent),
	}}
	pub := &fakePublisher{}
	metrics := &fakeMetrics{}

	resp, err := newUseCase(repo, pub, metrics).Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Dispatched)
	assert.Equal(t, []string{"due", "exact"}, repo.dispatched)
	require.Len(t, pub.published, 2)
	assert.Equal(t, DefaultBatchSize, repo.filters[0].Limit)
	assert.Equal(t, 2, metrics.total)

	// Статус не меняется до подтверждения диспетчером
	assert.Equal(t, domain.ReminderPending, repo.entries[0].Status)
}

func TestExecute_SecondRunSkipsDispatched(t *testing.T) {
	repo := &fakeReminderRepo{entries: []domain.ReminderEntry{entry("due", now, domain.ReminderPending)}}
	uc := newUseCase(repo, &fakePublisher{}, &fakeMetrics{})

	_, err := uc.Execute(context.Background(), &Request{Limit: 10})
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), &Request{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, resp.Dispatched)
}

func TestExecute_PublishFailureMarksNothing(t *testing.T) {
	repo := &fakeReminderRepo{entries: []domain.ReminderEntry{entry("due", now, domain.ReminderPending)}}
	pub := &fakePublisher{err: errors.New("broker down")}
	metrics := &fakeMetrics{}

	_, err := newUseCase(repo, pub, metrics).Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrPublish)
	assert.Empty(t, repo.dispatched)
	assert.Zero(t, metrics.total)
}

func TestExecute_RespectsLimit(t *testing.T) {
	repo := &fakeReminderRepo{entries: []domain.ReminderEntry{
		entry("r1", now, domain.ReminderPending),
		entry("r2", now, domain.ReminderPending),
		entry("r3", now, domain.ReminderPending),
	}}

	resp, err := newUseCase(repo, &fakePublisher{}, &fakeMetrics{}).Execute(context.Background(), &Request{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Dispatched)
}
