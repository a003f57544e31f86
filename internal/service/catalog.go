package service

import (
	"context"
	"strings"

	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
)

// CreateMatchInput describes a new match.
type CreateMatchInput struct {
	Team1     string  `json:"team1"`
	Team2     string  `json:"team2"`
	Team1Logo *string `json:"team1Logo"`
	Team2Logo *string `json:"team2Logo"`
	Venue     string  `json:"venue"`
	Stadium   string  `json:"stadium"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	IsActive  *bool   `json:"isActive"`
}

// CreateTicketTypeInput describes a new ticket type.  AvailableSeats
// defaults to TotalSeats.
type CreateTicketTypeInput struct {
	MatchID        int64   `json:"matchId"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Price          int64   `json:"price"`
	TotalSeats     int     `json:"totalSeats"`
	AvailableSeats *int    `json:"availableSeats"`
}

// Catalog manages matches and ticket types.
type Catalog struct {
	store repository.Store
}

func NewCatalog(store repository.Store) *Catalog {
	if store == nil {
		panic("nil store passed to NewCatalog")
	}
	return &Catalog{store: store}
}

func (c *Catalog) ListMatches(ctx context.Context, active *bool) ([]model.Match, error) {
	return c.store.ListMatches(ctx, active)
}

func (c *Catalog) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	m, err := c.store.GetMatch(ctx, id)
	if err != nil {
		return model.Match{}, storeErr(err, "match", id)
	}
	return m, nil
}

func validateMatch(m model.Match) error {
	required := []struct{ name, value string }{
		{"team1", m.Team1}, {"team2", m.Team2}, {"venue", m.Venue},
		{"stadium", m.Stadium}, {"date", m.Date}, {"time", m.Time},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return invalidf("%s is required", f.name)
		}
	}
	return nil
}

// CreateMatch stores a new match; it is active unless stated otherwise.
func (c *Catalog) CreateMatch(ctx context.Context, in CreateMatchInput) (model.Match, error) {
	m := model.Match{
		Team1:     strings.TrimSpace(in.Team1),
		Team2:     strings.TrimSpace(in.Team2),
		Team1Logo: in.Team1Logo,
		Team2Logo: in.Team2Logo,
		Venue:     strings.TrimSpace(in.Venue),
		Stadium:   strings.TrimSpace(in.Stadium),
		Date:      strings.TrimSpace(in.Date),
		Time:      strings.TrimSpace(in.Time),
		IsActive:  in.IsActive == nil || *in.IsActive,
	}
	if err := validateMatch(m); err != nil {
		return model.Match{}, err
	}
	if err := c.store.CreateMatch(ctx, &m); err != nil {
		return model.Match{}, storeErr(err, "match", m.Team1+" vs "+m.Team2)
	}
	return m, nil
}

// UpdateMatch applies patch to the display fields and the active flag.
func (c *Catalog) UpdateMatch(ctx context.Context, id int64, patch model.MatchPatch) (model.Match, error) {
	var out model.Match
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		m, err := c.store.GetMatch(ctx, id)
		if err != nil {
			return storeErr(err, "match", id)
		}
		patch.Apply(&m)
		if err := validateMatch(m); err != nil {
			return err
		}
		if err := c.store.SaveMatch(ctx, m); err != nil {
			return storeErr(err, "match", id)
		}
		out = m
		return nil
	})
	return out, err
}

// DeleteMatch removes a match that no ticket type references.
func (c *Catalog) DeleteMatch(ctx context.Context, id int64) error {
	return storeErr(c.store.DeleteMatch(ctx, id), "match", id)
}

// ListTicketTypes returns the ticket types of a match, cheapest first.  An
// unknown match yields an empty list.
func (c *Catalog) ListTicketTypes(ctx context.Context, matchID int64) ([]model.TicketType, error) {
	return c.store.ListTicketTypes(ctx, matchID)
}

func (c *Catalog) GetTicketType(ctx context.Context, id int64) (model.TicketType, error) {
	t, err := c.store.GetTicketType(ctx, id)
	if err != nil {
		return model.TicketType{}, storeErr(err, "ticket type", id)
	}
	return t, nil
}

// MaxTicketPrice caps the per-ticket price in the smallest currency unit.
const MaxTicketPrice int64 = 100_000_000

func validateTicketType(t model.TicketType) error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return invalidf("name is required")
	case t.Price < 0:
		return invalidf("price must not be negative")
	case t.Price > MaxTicketPrice:
		return invalidf("price must not exceed %d", MaxTicketPrice)
	case t.TotalSeats <= 0:
		return invalidf("total seats must be positive")
	case t.AvailableSeats < 0 || t.AvailableSeats > t.TotalSeats:
		return invalidf("available seats must be between 0 and %d", t.TotalSeats)
	}
	return nil
}

// CreateTicketType adds a ticket type to an existing match.
func (c *Catalog) CreateTicketType(ctx context.Context, in CreateTicketTypeInput) (model.TicketType, error) {
	t := model.TicketType{
		MatchID:        in.MatchID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Price:          in.Price,
		TotalSeats:     in.TotalSeats,
		AvailableSeats: in.TotalSeats,
	}
	if in.AvailableSeats != nil {
		t.AvailableSeats = *in.AvailableSeats
	}
	if err := validateTicketType(t); err != nil {
		return model.TicketType{}, err
	}
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := c.store.GetMatch(ctx, t.MatchID); err != nil {
			return storeErr(err, "match", t.MatchID)
		}
		if err := c.store.CreateTicketType(ctx, &t); err != nil {
			return storeErr(err, "ticket type", t.Name)
		}
		return nil
	})
	if err != nil {
		return model.TicketType{}, err
	}
	return t, nil
}

// UpdateTicketType applies patch under a row lock.  Changing TotalSeats
// moves AvailableSeats by the same amount so the sold count is kept; an
// explicit AvailableSeats in the patch overrides that.
func (c *Catalog) UpdateTicketType(ctx context.Context, id int64, patch model.TicketTypePatch) (model.TicketType, error) {
	var out model.TicketType
	err := c.store.WithTx(ctx, func(ctx context.Context) error {
		t, err := c.store.GetTicketTypeForUpdate(ctx, id)
		if err != nil {
			return storeErr(err, "ticket type", id)
		}
		if patch.Name != nil {
			t.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			t.Description = patch.Description
		}
		if patch.Price != nil {
			t.Price = *patch.Price
		}
		if patch.TotalSeats != nil {
			t.AvailableSeats += *patch.TotalSeats - t.TotalSeats
			t.TotalSeats = *patch.TotalSeats
		}
		if patch.AvailableSeats != nil {
			t.AvailableSeats = *patch.AvailableSeats
		}
		if err := validateTicketType(t); err != nil {
			return err
		}
		if err := c.store.SaveTicketType(ctx, t); err != nil {
			return storeErr(err, "ticket type", id)
		}
		out = t
		return nil
	})
	return out, err
}

// DeleteTicketType removes a ticket type no booking references.
func (c *Catalog) DeleteTicketType(ctx context.Context, id int64) error {
	return storeErr(c.store.DeleteTicketType(ctx, id), "ticket type", id)
}
