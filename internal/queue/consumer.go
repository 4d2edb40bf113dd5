package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/waste-pickup/internal/logger"
)

// Consumer drains booking.events and appends one line per event to a log
// file.  Run reconnects with exponential backoff until ctx is cancelled.
type Consumer struct {
	url     string
	logPath string
	log     *logger.Logger
}

func NewConsumer(url, logPath string, log *logger.Logger) *Consumer {
	return &Consumer{url: url, logPath: logPath, log: log}
}

func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("booking-consumer: dial failed", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("booking-consumer: consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("booking-consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(BookingEventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(BookingEventsQueue, "", false, false, false, false, nil)
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
			if err := c.handle(d.Body); err != nil {
				c.log.Error("booking-consumer: handle message failed", "error", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEvent(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatEvent renders ev as a single human-friendly log line.
func FormatEvent(ev BookingEvent) string {
	var b strings.Builder
	switch ev.Type {
	case EventBookingCreated:
		b.WriteString("Booking created")
	case EventBookingStatusChanged:
		b.WriteString("Booking status changed")
	default:
		b.WriteString("Booking event " + ev.Type)
	}
	fmt.Fprintf(&b, " | booking_id=%d", ev.BookingID)
	if ev.UserID != nil {
		fmt.Fprintf(&b, " | user_id=%d", *ev.UserID)
	}
	if ev.PickupDate != "" {
		fmt.Fprintf(&b, " | pickup=%s %s", ev.PickupDate, ev.PickupTime)
	}
	if ev.PreviousStatus != "" {
		fmt.Fprintf(&b, " | status=%s->%s", ev.PreviousStatus, ev.Status)
	} else {
		fmt.Fprintf(&b, " | status=%s", ev.Status)
	}
	return fmt.Sprintf("[%s] %s\n", ev.OccurredAt, b.String())
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
