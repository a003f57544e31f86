package model

import "time"

// TicketType is a priced seating category of a match with a finite
// capacity.  AvailableSeats is only ever changed by the inventory
// engine or by an explicit admin correction, and always satisfies
// 0 <= AvailableSeats <= TotalSeats.
//
// Fields:
//  ID             – primary key identifier.
//  MatchID        – owning match.
//  Name           – category label, unique within a match.
//  Description    – optional free text.
//  Price          – price of one ticket in the smallest currency unit.
//  TotalSeats     – capacity of the category.
//  AvailableSeats – seats not yet reserved.
//  CreatedAt      – creation timestamp.
type TicketType struct {
	ID             int64     `db:"id" json:"id"`
	MatchID        int64     `db:"match_id" json:"matchId"`
	Name           string    `db:"name" json:"name"`
	Description    *string   `db:"description" json:"description,omitempty"`
	Price          int64     `db:"price" json:"price"`
	TotalSeats     int       `db:"total_seats" json:"totalSeats"`
	AvailableSeats int       `db:"available_seats" json:"availableSeats"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// Sold reports how many seats have been reserved so far.
func (t TicketType) Sold() int { return t.TotalSeats - t.AvailableSeats }

// TicketTypePatch carries a partial update of a ticket type.
type TicketTypePatch struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Price          *int64  `json:"price"`
	TotalSeats     *int    `json:"totalSeats"`
	AvailableSeats *int    `json:"availableSeats"`
}
