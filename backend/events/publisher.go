package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type EventType string

const (
	LessonCompleted EventType = "lesson.completed"
	CourseCompleted EventType = "course.completed"
	QuizSubmitted   EventType = "quiz.submitted"
)

type Event struct {
	Type       EventType `json:"type"`
	UserID     uint      `json:"user_id"`
	LessonID   uint      `json:"lesson_id,omitempty"`
	CourseID   uint      `json:"course_id,omitempty"`
	XP         int       `json:"xp,omitempty"`
	Score      int       `json:"score,omitempty"`
	Total      int       `json:"total,omitempty"`
	Passed     bool      `json:"passed,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type EventPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
	log      *zap.SugaredLogger
	mu       sync.Mutex
}

// NewEventPublisher returns a disabled publisher when url is empty.
func NewEventPublisher(url, exchange string, log *zap.SugaredLogger) (*EventPublisher, error) {
	log = log.Named("events")
	if url == "" {
		log.Warn("AMQP_URL is empty, event publishing is disabled")
		return &EventPublisher{exchange: exchange, log: log}, nil
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Infow("event publisher initialized", "exchange", exchange)

	return &EventPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
		log:      log,
	}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, event Event) error {
	if !p.enabled {
		p.log.Debugw("event publishing disabled, skipping", "type", event.Type)
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// amqp091 channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,         // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
			Headers: amqp091.Table{
				"event_type": string(event.Type),
				"user_id":    strconv.FormatUint(uint64(event.UserID), 10),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.log.Debugw("published event", "type", event.Type, "user_id", event.UserID)
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warnw("error closing RabbitMQ channel", "error", err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}

// MockPublisher records events in memory.
type MockPublisher struct {
	mu     sync.Mutex
	Events []Event
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make([]Event, 0)}
}

func (m *MockPublisher) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func (m *MockPublisher) ByType(t EventType) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
