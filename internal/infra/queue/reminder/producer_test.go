package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

type fakeWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w)
	at := time.Date(2026, 5, 18, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), []domain.ReminderEntry{
		{ID: "r1", BookingID: "b-1", Offset: 2 * time.Hour, ScheduledAt: at},
		{ID: "r2", BookingID: "b-2", Offset: 24 * time.Hour, ScheduledAt: at},
	})
	require.NoError(t, err)
	require.Len(t, w.written, 2)

	assert.Equal(t, []byte("b-1"), w.written[0].Key)

	var msg Message
	require.NoError(t, json.Unmarshal(w.written[0].Value, &msg))
	assert.Equal(t, Message{ReminderID: "r1", BookingID: "b-1", OffsetSeconds: 7200, ScheduledAt: at}, msg)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishEmptyIsNoop(t *testing.T) {
	w := &fakeWriter{err: errors.New("must not be called")}
	require.NoError(t, NewProducerWithWriter(w).Publish(context.Background(), nil))
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}

	err := NewProducerWithWriter(w).Publish(context.Background(), []domain.ReminderEntry{{ID: "r1"}})
	assert.ErrorIs(t, err, ErrPublish)
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := NewProducer(Config{Topic: "reminders"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewProducer(Config{Brokers: []string{"kafka:9092"}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}, Topic: "reminders"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
