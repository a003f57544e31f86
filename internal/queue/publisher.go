package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// defaultDialTimeout applies when the publish context has no deadline.
const defaultDialTimeout = 5 * time.Second

// Publisher sends booking events to the topic exchange.  The connection is
// dialled lazily and dropped on any failure so the next call redials.
// Every step, including waiting for another publish to finish, is bounded
// by the caller's context.
type Publisher struct {
	url string

	// sem guards conn and ch; a one-slot channel so acquiring can be
	// abandoned when ctx ends.
	sem  chan struct{}
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, sem: make(chan struct{}, 1)}
}

func (p *Publisher) acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) release() { <-p.sem }

// Publish marshals ev and publishes it as a persistent message routed by
// its type.
func (p *Publisher) Publish(ctx context.Context, ev BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.acquire(ctx); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	defer p.release()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		ExchangeName, // exchange
		ev.Type,      // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Type:         ev.Type,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.reset()
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// channel returns an open channel, dialling and declaring the exchange
// when needed.  Callers hold the semaphore.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	timeout, err := dialTimeout(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareExchange(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.sem <- struct{}{}
	defer p.release()
	p.reset()
	return nil
}

// dialTimeout is the time left before ctx's deadline, or the default.
// amqp.DefaultDial applies it to both the TCP connect and the handshake.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}

func declareExchange(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // kind
		true,         // durable
		false,        // autoDelete
		false,        // internal
		false,        // noWait
		nil,          // args
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	return nil
}
