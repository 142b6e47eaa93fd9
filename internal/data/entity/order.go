package entity

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutData is what the reconciler hands over once ticket counts are
// congruent with the seat selection. It carries everything the order queue
// needs; the reconciler itself persists nothing.
type CheckoutData struct {
	MovieID          int               `json:"movie_id"`
	MovieTitle       string            `json:"movie_title"`
	TheaterName      string            `json:"theater_name,omitempty"`
	Showtime         string            `json:"showtime,omitempty"`
	SelectedSeats    []Seat            `json:"selected_seats"`
	TicketSelections []TicketSelection `json:"ticket_selections"`
	Pricing          Pricing           `json:"pricing"`
}

// TicketOrder is a finalized seat+ticket selection queued for payment. It is
// immutable after creation: the queue only replaces or removes whole orders.
// SelectedSeats is a snapshot, not a live reference into any layout.
type TicketOrder struct {
	ID               string            `json:"id"`
	MovieID          int               `json:"movie_id"`
	MovieTitle       string            `json:"movie_title"`
	TheaterName      string            `json:"theater_name,omitempty"`
	Showtime         string            `json:"showtime,omitempty"`
	UserID           *uuid.UUID        `json:"user_id,omitempty"`
	SelectedSeats    []Seat            `json:"selected_seats"`
	TicketSelections []TicketSelection `json:"ticket_selections"`
	Pricing          Pricing           `json:"pricing"`
	CreatedAt        time.Time         `json:"created_at"`
}
