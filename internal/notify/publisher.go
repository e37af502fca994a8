package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Routing keys of the events published to the exchange.
const (
	AppointmentBooked   = "appointment.booked"
	AppointmentCanceled = "appointment.canceled"
	MessageSent         = "message.sent"
	PaymentUpdated      = "payment.updated"
)

// Publisher emits domain events. Publishing is best effort: callers log the
// error and carry on, the stored state is the source of truth.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialFunc opens a fresh connection and channel to the broker.
type dialFunc func() (channel, io.Closer, error)

// amqpPublisher holds one channel. When the broker drops it, the next Publish
// redials once and retries; if that fails the channel stays unset and the
// following Publish tries again.
type amqpPublisher struct {
	mu       sync.Mutex
	dial     dialFunc
	conn     io.Closer
	ch       channel
	exchange string
	log      *zap.Logger
}

// Connect dials the broker, retrying a few times, and declares a durable
// direct exchange.
func Connect(url, exchange string, retries int, delay time.Duration, log *zap.Logger) (Publisher, error) {
	const op = "notify.Connect"

	dial := func() (channel, io.Closer, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, err
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return ch, conn, nil
	}

	var (
		ch   channel
		conn io.Closer
		err  error
	)
	for i := 0; i < retries; i++ {
		ch, conn, err = dial()
		if err == nil {
			break
		}
		log.Warn("rabbitmq dial failed", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(delay)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := newPublisher(ch, exchange, log)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.conn = conn
	p.dial = dial
	return p, nil
}

func newPublisher(ch channel, exchange string, log *zap.Logger) (*amqpPublisher, error) {
	if err := declareExchange(ch, exchange); err != nil {
		return nil, err
	}
	return &amqpPublisher{ch: ch, exchange: exchange, log: log}, nil
}

func declareExchange(ch channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeDirect,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// Publish sends event as a persistent JSON message.
func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	const op = "notify.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		if err := p.redial(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	err = p.ch.Publish(p.exchange, routingKey, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) && p.dial != nil {
		p.log.Warn("rabbitmq channel closed, reconnecting")
		if err := p.redial(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		err = p.ch.Publish(p.exchange, routingKey, false, false, msg)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.log.Debug("event published", zap.String("routing_key", routingKey))
	return nil
}

// redial replaces the connection. Callers hold p.mu.
func (p *amqpPublisher) redial() error {
	if p.dial == nil {
		return errNoBroker
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil

	ch, conn, err := p.dial()
	if err != nil {
		return err
	}
	if err := declareExchange(ch, p.exchange); err != nil {
		_ = conn.Close()
		return err
	}
	p.ch, p.conn = ch, conn
	p.log.Info("rabbitmq connection re-established")
	return nil
}

var errNoBroker = errors.New("no broker connection")

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
