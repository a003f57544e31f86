// Package memory is an in-process implementation of repository.Store.
// It backs the test suites and STORAGE_DRIVER=memory.  A single RWMutex
// serialises writers; WithTx holds the write lock for the whole closure
// and restores a snapshot when the closure fails.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
)

type state struct {
	matches     map[int64]model.Match
	ticketTypes map[int64]model.TicketType
	bookings    map[string]model.Booking
	channels    map[int64]model.PaymentChannel
	admins      map[string]model.AdminUser
	nextID      int64
}

func (s *state) clone() *state {
	c := &state{
		matches:     make(map[int64]model.Match, len(s.matches)),
		ticketTypes: make(map[int64]model.TicketType, len(s.ticketTypes)),
		bookings:    make(map[string]model.Booking, len(s.bookings)),
		channels:    make(map[int64]model.PaymentChannel, len(s.channels)),
		admins:      make(map[string]model.AdminUser, len(s.admins)),
		nextID:      s.nextID,
	}
	for k, v := range s.matches {
		c.matches[k] = v
	}
	for k, v := range s.ticketTypes {
		c.ticketTypes[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.channels {
		c.channels[k] = v
	}
	for k, v := range s.admins {
		c.admins[k] = v
	}
	return c
}

// Store is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		st: &state{
			matches:     map[int64]model.Match{},
			ticketTypes: map[int64]model.TicketType{},
			bookings:    map[string]model.Booking{},
			channels:    map[int64]model.PaymentChannel{},
			admins:      map[string]model.AdminUser{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

type heldKey struct{ s *Store }

func (s *Store) held(ctx context.Context) bool {
	v, _ := ctx.Value(heldKey{s}).(bool)
	return v
}

// lock takes the write lock unless ctx already holds it and returns the
// matching unlock.
func (s *Store) lock(ctx context.Context) func() {
	if s.held(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if s.held(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// WithTx implements repository.Transactor.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.held(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(context.WithValue(ctx, heldKey{s}, true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// ---- matches ----

func (s *Store) ListMatches(ctx context.Context, active *bool) ([]model.Match, error) {
	defer s.rlock(ctx)()
	out := []model.Match{}
	for _, m := range s.st.matches {
		if active != nil && m.IsActive != *active {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	defer s.rlock(ctx)()
	m, ok := s.st.matches[id]
	if !ok {
		return model.Match{}, repository.ErrNotFound
	}
	return m, nil
}

func (s *Store) CreateMatch(ctx context.Context, m *model.Match) error {
	defer s.lock(ctx)()
	m.ID = s.id()
	m.CreatedAt = s.now()
	s.st.matches[m.ID] = *m
	return nil
}

func (s *Store) SaveMatch(ctx context.Context, m model.Match) error {
	defer s.lock(ctx)()
	old, ok := s.st.matches[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	m.CreatedAt = old.CreatedAt
	s.st.matches[m.ID] = m
	return nil
}

func (s *Store) DeleteMatch(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.st.matches[id]; !ok {
		return repository.ErrNotFound
	}
	for _, t := range s.st.ticketTypes {
		if t.MatchID == id {
			return repository.ErrReferenced
		}
	}
	delete(s.st.matches, id)
	return nil
}

// ---- ticket types ----

func (s *Store) ListTicketTypes(ctx context.Context, matchID int64) ([]model.TicketType, error) {
	defer s.rlock(ctx)()
	out := []model.TicketType{}
	for _, t := range s.st.ticketTypes {
		if t.MatchID == matchID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetTicketType(ctx context.Context, id int64) (model.TicketType, error) {
	defer s.rlock(ctx)()
	t, ok := s.st.ticketTypes[id]
	if !ok {
		return model.TicketType{}, repository.ErrNotFound
	}
	return t, nil
}

// GetTicketTypeForUpdate needs no extra locking: inside WithTx the write
// lock is already held.
func (s *Store) GetTicketTypeForUpdate(ctx context.Context, id int64) (model.TicketType, error) {
	return s.GetTicketType(ctx, id)
}

func (s *Store) CreateTicketType(ctx context.Context, t *model.TicketType) error {
	defer s.lock(ctx)()
	if _, ok := s.st.matches[t.MatchID]; !ok {
		return repository.ErrReferenced
	}
	for _, other := range s.st.ticketTypes {
		if other.MatchID == t.MatchID && other.Name == t.Name {
			return repository.ErrDuplicate
		}
	}
	t.ID = s.id()
	t.CreatedAt = s.now()
	s.st.ticketTypes[t.ID] = *t
	return nil
}

func (s *Store) SaveTicketType(ctx context.Context, t model.TicketType) error {
	defer s.lock(ctx)()
	old, ok := s.st.ticketTypes[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range s.st.ticketTypes {
		if other.ID != t.ID && other.MatchID == old.MatchID && other.Name == t.Name {
			return repository.ErrDuplicate
		}
	}
	t.MatchID = old.MatchID
	t.CreatedAt = old.CreatedAt
	s.st.ticketTypes[t.ID] = t
	return nil
}

func (s *Store) DeleteTicketType(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.st.ticketTypes[id]; !ok {
		return repository.ErrNotFound
	}
	for _, b := range s.st.bookings {
		if b.TicketTypeID == id {
			return repository.ErrReferenced
		}
	}
	delete(s.st.ticketTypes, id)
	return nil
}

func (s *Store) DecrementAvailable(ctx context.Context, id int64, qty int) error {
	defer s.lock(ctx)()
	t, ok := s.st.ticketTypes[id]
	if !ok {
		return repository.ErrNotFound
	}
	if t.AvailableSeats < qty {
		return repository.ErrInsufficientSeats
	}
	t.AvailableSeats -= qty
	s.st.ticketTypes[id] = t
	return nil
}

func (s *Store) IncrementAvailable(ctx context.Context, id int64, qty int) (model.TicketType, error) {
	defer s.lock(ctx)()
	t, ok := s.st.ticketTypes[id]
	if !ok {
		return model.TicketType{}, repository.ErrNotFound
	}
	t.AvailableSeats = min(t.TotalSeats, t.AvailableSeats+qty)
	s.st.ticketTypes[id] = t
	return t, nil
}

// ---- bookings ----

func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	defer s.lock(ctx)()
	if _, ok := s.st.bookings[b.BookingRef]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := s.st.ticketTypes[b.TicketTypeID]; !ok {
		return repository.ErrReferenced
	}
	b.ID = s.id()
	b.CreatedAt = s.now()
	s.st.bookings[b.BookingRef] = *b
	return nil
}

func (s *Store) GetBooking(ctx context.Context, ref string) (model.Booking, error) {
	defer s.rlock(ctx)()
	b, ok := s.st.bookings[ref]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	return b, nil
}

// GetBookingForUpdate relies on the write lock WithTx already holds.
func (s *Store) GetBookingForUpdate(ctx context.Context, ref string) (model.Booking, error) {
	return s.GetBooking(ctx, ref)
}

func (s *Store) ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	defer s.rlock(ctx)()
	out := []model.Booking{}
	for _, b := range s.st.bookings {
		if b.Email == email {
			out = append(out, b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListBookings(ctx context.Context) ([]model.Booking, error) {
	defer s.rlock(ctx)()
	out := make([]model.Booking, 0, len(s.st.bookings))
	for _, b := range s.st.bookings {
		out = append(out, b)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(bs []model.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if !bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].CreatedAt.After(bs[j].CreatedAt)
		}
		return bs[i].ID > bs[j].ID
	})
}

func (s *Store) UpdateBookingPayment(ctx context.Context, ref, method, utr string) (model.Booking, error) {
	defer s.lock(ctx)()
	b, ok := s.st.bookings[ref]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	if model.IsFinal(b.Status) {
		return b, nil
	}
	b.PaymentMethod = &method
	b.UTRNumber = &utr
	if b.Status == model.BookingPending {
		b.Status = model.BookingPaymentPending
	}
	s.st.bookings[ref] = b
	return b, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, ref, status string) (model.Booking, error) {
	defer s.lock(ctx)()
	b, ok := s.st.bookings[ref]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	if model.IsFinal(b.Status) {
		return b, nil
	}
	b.Status = status
	s.st.bookings[ref] = b
	return b, nil
}

// ---- payment channels ----

func (s *Store) ListActivePaymentChannels(ctx context.Context, limit int) ([]model.PaymentChannel, error) {
	defer s.rlock(ctx)()
	out := []model.PaymentChannel{}
	for _, ch := range s.st.channels {
		if ch.IsActive {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetPaymentChannel(ctx context.Context, id int64) (model.PaymentChannel, error) {
	defer s.rlock(ctx)()
	ch, ok := s.st.channels[id]
	if !ok {
		return model.PaymentChannel{}, repository.ErrNotFound
	}
	return ch, nil
}

func (s *Store) CreatePaymentChannel(ctx context.Context, ch *model.PaymentChannel) error {
	defer s.lock(ctx)()
	ch.ID = s.id()
	ch.CreatedAt = s.now()
	s.st.channels[ch.ID] = *ch
	return nil
}

func (s *Store) SavePaymentChannel(ctx context.Context, ch model.PaymentChannel) error {
	defer s.lock(ctx)()
	old, ok := s.st.channels[ch.ID]
	if !ok {
		return repository.ErrNotFound
	}
	ch.CreatedAt = old.CreatedAt
	s.st.channels[ch.ID] = ch
	return nil
}

func (s *Store) DeactivatePaymentChannels(ctx context.Context, exceptID int64) error {
	defer s.lock(ctx)()
	for id, ch := range s.st.channels {
		if id != exceptID && ch.IsActive {
			ch.IsActive = false
			s.st.channels[id] = ch
		}
	}
	return nil
}

// ---- admins ----

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	defer s.rlock(ctx)()
	u, ok := s.st.admins[strings.TrimSpace(username)]
	if !ok {
		return model.AdminUser{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateAdmin(ctx context.Context, u *model.AdminUser) error {
	defer s.lock(ctx)()
	u.Username = strings.TrimSpace(u.Username)
	if _, ok := s.st.admins[u.Username]; ok {
		return repository.ErrDuplicate
	}
	u.ID = s.id()
	u.CreatedAt = s.now()
	s.st.admins[u.Username] = *u
	return nil
}
