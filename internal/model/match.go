package model

import "time"

// Match is a scheduled fixture between two teams.  Ticket types hang
// off a match; bookings reference both.
//
// Fields:
//  ID        – primary key identifier.
//  Team1     – home side display name.
//  Team2     – away side display name.
//  Team1Logo – optional logo URL for Team1.
//  Team2Logo – optional logo URL for Team2.
//  Venue     – city or venue label.
//  Stadium   – stadium name.
//  Date      – display date, stored as entered by the admin.
//  Time      – display time, stored as entered by the admin.
//  IsActive  – whether the match is listed and open for booking.
//  CreatedAt – creation timestamp.
type Match struct {
	ID        int64     `db:"id" json:"id"`
	Team1     string    `db:"team1" json:"team1"`
	Team2     string    `db:"team2" json:"team2"`
	Team1Logo *string   `db:"team1_logo" json:"team1Logo,omitempty"`
	Team2Logo *string   `db:"team2_logo" json:"team2Logo,omitempty"`
	Venue     string    `db:"venue" json:"venue"`
	Stadium   string    `db:"stadium" json:"stadium"`
	Date      string    `db:"match_date" json:"date"`
	Time      string    `db:"match_time" json:"time"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MatchPatch carries a partial update.  Nil fields are left untouched.
type MatchPatch struct {
	Team1     *string `json:"team1"`
	Team2     *string `json:"team2"`
	Team1Logo *string `json:"team1Logo"`
	Team2Logo *string `json:"team2Logo"`
	Venue     *string `json:"venue"`
	Stadium   *string `json:"stadium"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	IsActive  *bool   `json:"isActive"`
}

// Apply copies every non-nil field of p onto m.
func (p MatchPatch) Apply(m *Match) {
	if p.Team1 != nil {
		m.Team1 = *p.Team1
	}
	if p.Team2 != nil {
		m.Team2 = *p.Team2
	}
	if p.Team1Logo != nil {
		m.Team1Logo = p.Team1Logo
	}
	if p.Team2Logo != nil {
		m.Team2Logo = p.Team2Logo
	}
	if p.Venue != nil {
		m.Venue = *p.Venue
	}
	if p.Stadium != nil {
		m.Stadium = *p.Stadium
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Time != nil {
		m.Time = *p.Time
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}
}
