package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/queue"
	"github.com/iliyamo/match-ticket-booking/internal/repository/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store     *memory.Store
	catalog   *Catalog
	inventory *Inventory
	bookings  *Bookings
	events    *recordingPublisher
	match     model.Match
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	inv := NewInventory(store)
	events := &recordingPublisher{}
	f := &fixture{
		store:     store,
		catalog:   NewCatalog(store),
		inventory: inv,
		bookings:  NewBookings(store, inv, DefaultFeePolicy(), nil, events),
		events:    events,
	}
	m, err := f.catalog.CreateMatch(context.Background(), CreateMatchInput{
		Team1: "Royal Challengers Bengaluru", Team2: "Delhi Capitals",
		Venue: "Bengaluru", Stadium: "M. Chinnaswamy Stadium",
		Date: "10 April 2025", Time: "7:30 PM IST",
	})
	require.NoError(t, err)
	f.match = m
	return f
}

func (f *fixture) ticketType(t *testing.T, name string, price int64, seats int) model.TicketType {
	t.Helper()
	tt, err := f.catalog.CreateTicketType(context.Background(), CreateTicketTypeInput{
		MatchID: f.match.ID, Name: name, Price: price, TotalSeats: seats,
	})
	require.NoError(t, err)
	return tt
}

func (f *fixture) available(t *testing.T, id int64) int {
	t.Helper()
	tt, err := f.catalog.GetTicketType(context.Background(), id)
	require.NoError(t, err)
	return tt.AvailableSeats
}

func bookingInput(matchID, ticketTypeID int64, qty int) CreateBookingInput {
	return CreateBookingInput{
		MatchID:      matchID,
		TicketTypeID: ticketTypeID,
		FullName:     "Asha Rao",
		Email:        "asha@example.in",
		Phone:        "+91 98450 00000",
		Quantity:     qty,
	}
}

const testCost = bcrypt.MinCost
