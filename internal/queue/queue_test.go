package queue

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/match-ticket-booking/internal/model"
)

func TestNewBookingEventSnapshotsBooking(t *testing.T) {
	b := model.Booking{BookingRef: "IPLBK1", MatchID: 2, TicketTypeID: 3, Email: "a@x.in", Quantity: 4, TotalAmount: 480, Status: model.BookingPending}

	ev := NewBookingEvent(EventBookingCreated, b)

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, EventBookingCreated, ev.Type)
	assert.Equal(t, "IPLBK1", ev.BookingRef)
	assert.Equal(t, 4, ev.Quantity)
	assert.NotEqual(t, ev.EventID, NewBookingEvent(EventBookingCreated, b).EventID)
}

func TestAppendAuditLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	ev := NewBookingEvent(EventStatusChanged, model.Booking{BookingRef: "IPLBK9", Status: model.BookingApproved, Quantity: 1})
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, appendAuditLine(path, body))
	require.NoError(t, appendAuditLine(path, body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "booking.status_changed | booking_id=IPLBK9")
	assert.Contains(t, string(data), "status=approved")
	assert.Equal(t, 2, countLines(data))
}

func TestAppendAuditLineRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.log")
	assert.Error(t, appendAuditLine(path, []byte("not json")))
	assert.Error(t, appendAuditLine(path, []byte(`{"type":"booking.created"}`)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSleepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Minute))
	assert.True(t, sleep(context.Background(), time.Millisecond))
}

func countLines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}

// silentBroker accepts TCP connections and never answers the AMQP handshake.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublishGivesUpAtContextDeadline(t *testing.T) {
	p := NewPublisher(silentBroker(t))
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Publish(ctx, NewBookingEvent(EventBookingCreated, model.Booking{BookingRef: "IPLBK1"}))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConcurrentPublishesDoNotQueueBehindStalledDial(t *testing.T) {
	p := NewPublisher(silentBroker(t))
	defer p.Close()

	ev := NewBookingEvent(EventBookingCreated, model.Booking{BookingRef: "IPLBK2"})
	errs := make(chan error, 2)
	start := time.Now()
	for i := 0; i < 2; i++ {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()
			errs <- p.Publish(ctx, ev)
		}()
	}
	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			assert.Error(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("publish did not return")
		}
	}
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDialTimeoutFollowsDeadline(t *testing.T) {
	d, err := dialTimeout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultDialTimeout, d)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d, err = dialTimeout(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, d, time.Second)

	done, cancelDone := context.WithCancel(context.Background())
	cancelDone()
	_, err = dialTimeout(done)
	assert.ErrorIs(t, err, context.Canceled)
}
