package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// Publisher is the subset of *amqp.Channel used by AMQPSink.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes events to a topic exchange using the event type as routing key.
type AMQPSink struct {
	mu       sync.Mutex
	ch       Publisher
	exchange string
}

// NewAMQPSink opens a channel on conn and declares the durable topic exchange.
func NewAMQPSink(conn *amqp.Connection, exchange string) (*AMQPSink, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return NewAMQPSinkWithPublisher(ch, exchange), nil
}

// NewAMQPSinkWithPublisher builds a sink over an already prepared channel.
func NewAMQPSinkWithPublisher(ch Publisher, exchange string) *AMQPSink {
	return &AMQPSink{ch: ch, exchange: exchange}
}

func (s *AMQPSink) Name() string { return "amqp" }

type amqpEnvelope struct {
	Event
	Recipients []string `json:"recipients"`
}

// Deliver publishes one persistent JSON message per event.
func (s *AMQPSink) Deliver(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(amqpEnvelope{Event: e, Recipients: e.Recipients})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch.Publish(
		s.exchange,
		e.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.At,
			MessageId:    e.SubjectID,
			Body:         body,
		},
	)
}
