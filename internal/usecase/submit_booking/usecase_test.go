package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VideoBookingService/internal/domain"
	agentClient "github.com/m04kA/VideoBookingService/internal/integrations/agentdirectory"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
	"github.com/m04kA/VideoBookingService/internal/service/reminders"
	"github.com/m04kA/VideoBookingService/internal/service/scoring"
)

var (
	now       = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	preferred = time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
)

type fakeBookingRepo struct {
	created []*domain.BookingRequest
	err     error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.BookingRequest) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, booking)
	return nil
}

type fakeReminderRepo struct {
	created []domain.ReminderEntry
}

func (f *fakeReminderRepo) CreateBatch(_ context.Context, entries []domain.ReminderEntry) error {
	f.created = append(f.created, entries...)
	return nil
}

type fakeAgents struct {
	agent *domain.Agent
	err   error
}

func (f *fakeAgents) GetAgent(_ context.Context, _ string) (*domain.Agent, error) {
	return f.agent, f.err
}

type fakeCache struct {
	invalidated []time.Time
	err         error
}

func (f *fakeCache) Invalidate(_ context.Context, dates ...time.Time) error {
	f.invalidated = append(f.invalidated, dates...)
	return f.err
}

type fakeMetrics struct {
	decisions []string
	reminders map[string]int
}

func (f *fakeMetrics) ObserveDecision(outcome string) {
	f.decisions = append(f.decisions, outcome)
}

func (f *fakeMetrics) ObserveReminderScheduled(status string) {
	if f.reminders == nil {
		f.reminders = map[string]int{}
	}
	f.reminders[status]++
}

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

type fixture struct {
	uc        *UseCase
	bookings  *fakeBookingRepo
	reminders *fakeReminderRepo
	agents    *fakeAgents
	cache     *fakeCache
	metrics   *fakeMetrics
}

func newFixture(agent *domain.Agent) *fixture {
	settings := domain.DefaultEngineSettings()
	f := &fixture{
		bookings:  &fakeBookingRepo{},
		reminders: &fakeReminderRepo{},
		agents:    &fakeAgents{agent: agent},
		cache:     &fakeCache{},
		metrics:   &fakeMetrics{},
	}
	f.uc = NewUseCase(
		f.bookings,
		f.reminders,
		f.agents,
		f.cache,
		scoring.NewScorer(settings.Scoring),
		approval.NewDecider(settings.Approval),
		reminders.NewScheduler(settings.Reminders),
		fakeTx{},
		f.metrics,
		nopLogger{},
	)
	f.uc.timeProvider = fixedTime{t: now}
	seq := 0
	f.uc.newID = func() string {
		seq++
		return fmt.Sprintf("b-%d", seq)
	}
	return f
}

func eliteAgent() *domain.Agent {
	return &domain.Agent{ID: "agent-1", Tier: domain.AgentElite, MonthlyQuota: 10, MonthlyUsed: 2, PerformanceScore: 90}
}

func baseRequest() *Request {
	return &Request{
		AgentID:           "agent-1",
		PropertyValueTier: domain.PropertyOver2M,
		ShootComplexity:   domain.ComplexityQuick,
		PreferredDate:     preferred,
		IsFlexible:        true,
		Address:           "1 Main St",
		Coordinates:       &domain.Coordinates{Lat: 40.71, Lng: -74.0},
	}
}

func TestExecute_AutoApprove(t *testing.T) {
	f := newFixture(eliteAgent())

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, approval.OutcomeAutoApprove, resp.Outcome)
	assert.Equal(t, domain.StatusApproved, resp.Booking.Status)
	assert.Equal(t, domain.FlagAutoApproved, resp.Booking.ReviewFlag)
	assert.Equal(t, 100, resp.Booking.PriorityScore)
	assert.Len(t, resp.Booking.ScoreBreakdown, 5)
	assert.Equal(t, 60, resp.Booking.EstimatedDurationMinutes)
	assert.Equal(t, now, resp.Booking.CreatedAt)
	assert.Equal(t, now, resp.Booking.UpdatedAt)

	require.Len(t, f.bookings.created, 1)
	assert.Same(t, resp.Booking, f.bookings.created[0])

	require.Len(t, f.reminders.created, 4)
	for _, e := range f.reminders.created {
		assert.Equal(t, domain.ReminderPending, e.Status)
		assert.Equal(t, resp.Booking.ID, e.BookingID)
	}
	assert.Equal(t, map[string]int{"pending": 4}, f.metrics.reminders)

	assert.Equal(t, []time.Time{preferred}, f.cache.invalidated)
	assert.Equal(t, []string{"auto_approve"}, f.metrics.decisions)
}

func TestExecute_ManagerReview(t *testing.T) {
	f := newFixture(&domain.Agent{ID: "agent-1", Tier: domain.AgentPremium})

	req := baseRequest()
	req.PropertyValueTier = domain.Property1MTo2M
	req.ShootComplexity = domain.ComplexityStandard
	req.IsFlexible = false

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 71, resp.Booking.PriorityScore)
	assert.Equal(t, approval.OutcomeManagerReview, resp.Outcome)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Equal(t, domain.FlagManagerReview, resp.Booking.ReviewFlag)
	assert.Empty(t, resp.Reminders)
	assert.Empty(t, f.reminders.created)
	assert.Empty(t, f.cache.invalidated)
}

func TestExecute_AutoDecline(t *testing.T) {
	f := newFixture(&domain.Agent{ID: "agent-1", Tier: domain.AgentStandard})

	req := baseRequest()
	req.PropertyValueTier = domain.PropertyUnder500K
	req.ShootComplexity = domain.ComplexityLuxury
	req.IsFlexible = false
	req.PreferredDate = now

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 23, resp.Booking.PriorityScore)
	assert.Equal(t, domain.StatusDeclined, resp.Booking.Status)
	assert.Equal(t, domain.FlagAutoDeclined, resp.Booking.ReviewFlag)
	assert.Equal(t, 180, resp.Booking.EstimatedDurationMinutes)
	require.Len(t, f.bookings.created, 1)
}

func TestExecute_LowScoreFlexibleHeld(t *testing.T) {
	f := newFixture(&domain.Agent{ID: "agent-1", Tier: domain.AgentStandard})

	req := baseRequest()
	req.PropertyValueTier = domain.PropertyUnder500K
	req.ShootComplexity = domain.ComplexityLuxury
	req.PreferredDate = now

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 33, resp.Booking.PriorityScore)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Equal(t, domain.FlagFlexibleHold, resp.Booking.ReviewFlag)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		field  string
	}{
		{"no agent", func(r *Request) { r.AgentID = " " }, "agentId"},
		{"no date", func(r *Request) { r.PreferredDate = time.Time{} }, "preferredDate"},
		{"no address", func(r *Request) { r.Address = "" }, "address"},
		{"too many backup dates", func(r *Request) { r.BackupDates = make([]time.Time, domain.MaxBackupDates+1) }, "backupDates"},
		{"bad latitude", func(r *Request) { r.Coordinates = &domain.Coordinates{Lat: 91} }, "coordinates.lat"},
		{"unknown tier", func(r *Request) { r.PropertyValueTier = "castle" }, "propertyValueTier"},
		{"missing complexity", func(r *Request) { r.ShootComplexity = "" }, "shootComplexity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(eliteAgent())
			req := baseRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrValidation)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Empty(t, f.bookings.created)
		})
	}
}

func TestExecute_AgentErrors(t *testing.T) {
	f := newFixture(nil)
	f.agents.err = fmt.Errorf("%w: status 404", agentClient.ErrAgentNotFound)

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrAgentNotFound)

	f.agents.err = errors.New("connection refused")
	_, err = f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrAgentUnavailable)
	assert.Empty(t, f.bookings.created)
}

func TestExecute_RepositoryError(t *testing.T) {
	f := newFixture(eliteAgent())
	f.bookings.err = errors.New("db down")

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.cache.invalidated)
	assert.Empty(t, f.metrics.decisions)
}

func TestExecute_CacheErrorDoesNotFail(t *testing.T) {
	f := newFixture(eliteAgent())
	f.cache.err = errors.New("redis down")

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, resp.Booking.Status)
}
