package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

var (
	// ErrInvalidConfig возвращается при неполной конфигурации producer
	ErrInvalidConfig = errors.New("reminder.queue: invalid config")

	// ErrPublish возвращается, если сообщения не удалось записать в Kafka
	ErrPublish = errors.New("reminder.queue: failed to publish")
)

// Writer подмножество *kafka.Writer
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config параметры Kafka producer
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Message сообщение для диспетчера уведомлений
// Диспетчер подтверждает доставку через POST /api/v1/reminders/{reminderId}/ack
type Message struct {
	ReminderID    string    `json:"reminderId"`
	BookingID     string    `json:"bookingId"`
	OffsetSeconds int64     `json:"offsetSeconds"`
	ScheduledAt   time.Time `json:"scheduledAt"`
}

// Producer публикует наступившие напоминания в Kafka
type Producer struct {
	writer Writer
}

// NewProducer создает producer поверх kafka.Writer
// Ключ сообщения - ID брони, поэтому напоминания одной брони попадают в одну партицию
func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: at least one broker required", ErrInvalidConfig)
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("%w: topic required", ErrInvalidConfig)
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return NewProducerWithWriter(w), nil
}

// NewProducerWithWriter создает producer с готовым writer
func NewProducerWithWriter(w Writer) *Producer {
	return &Producer{writer: w}
}

// Publish синхронно записывает напоминания одной пачкой
func (p *Producer) Publish(ctx context.Context, entries []domain.ReminderEntry) error {
	if len(entries) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(entries))
	for _, e := range entries {
		value, err := json.Marshal(Message{
			ReminderID:    e.ID,
			BookingID:     e.BookingID,
			OffsetSeconds: int64(e.Offset / time.Second),
			ScheduledAt:   e.ScheduledAt,
		})
		if err != nil {
			return fmt.Errorf("%w: marshal reminder %s: %v", ErrPublish, e.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.BookingID),
			Value: value,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	return nil
}

// Close закрывает writer
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
