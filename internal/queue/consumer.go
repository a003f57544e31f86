package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AuditQueue receives every booking event for the audit log.
const AuditQueue = "booking.audit"

// AuditConsumer appends one line per booking event to a log file.
type AuditConsumer struct {
	url     string
	logPath string
	log     *logrus.Entry
}

// NewAuditConsumer returns a consumer for the broker at url writing to
// logPath.
func NewAuditConsumer(url, logPath string) *AuditConsumer {
	return &AuditConsumer{
		url:     url,
		logPath: logPath,
		log:     logrus.WithField("component", "audit-consumer"),
	}
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff whenever the broker goes away.  It returns nil on cancellation.
func (c *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.WithError(err).Warnf("dial failed; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.WithError(err).Warn("set QoS failed")
	}
	if err := declareExchange(ch); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(AuditQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(AuditQueue, "booking.*", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	msgs, err := ch.Consume(AuditQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := appendAuditLine(c.logPath, d.Body); err != nil {
				c.log.WithError(err).Error("handle message failed")
				_ = d.Nack(false, false) // reject without requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// appendAuditLine decodes one event and appends its summary to path.
func appendAuditLine(path string, body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingRef == "" || ev.Type == "" {
		return errors.New("event without booking id or type")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s | booking_id=%s | match_id=%d | ticket_type_id=%d | qty=%d | total=%d | status=%s | email=%s | event_id=%s\n",
		ev.OccurredAt, ev.Type, ev.BookingRef, ev.MatchID, ev.TicketTypeID, ev.Quantity, ev.TotalAmount, ev.Status, ev.Email, ev.EventID)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
