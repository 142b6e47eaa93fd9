package entity

import "fmt"

type SeatStatus string

const (
	SeatAvailable  SeatStatus = "available"
	SeatSelected   SeatStatus = "selected"
	SeatOccupied   SeatStatus = "occupied"
	SeatAccessible SeatStatus = "accessible"
	SeatEmpty      SeatStatus = "empty"
)

// Seat is one position in a layout grid. OriginalStatus remembers what a
// selected seat reverts to on deselection, so an accessible seat keeps its
// classification across a select/deselect round trip. Only the editor writes
// OriginalStatus.
type Seat struct {
	ID             string     `json:"id"` // row+number, e.g. "H5"
	Row            string     `json:"row"`
	Number         int        `json:"number"`
	Status         SeatStatus `json:"status"`
	OriginalStatus SeatStatus `json:"original_status"`
}

func NewSeat(row string, number int, status SeatStatus) Seat {
	return Seat{
		ID:             fmt.Sprintf("%s%d", row, number),
		Row:            row,
		Number:         number,
		Status:         status,
		OriginalStatus: status,
	}
}

// Selectable reports whether a viewer may toggle this seat. Occupied and
// empty positions are never directly selectable.
func (s Seat) Selectable() bool {
	switch s.Status {
	case SeatAvailable, SeatAccessible, SeatSelected:
		return true
	default:
		return false
	}
}

// PaintableStatuses is the fixed editor palette. Occupied and selected are
// not paint targets; occupied seats come from a booking feed, not the editor.
var PaintableStatuses = []SeatStatus{SeatAvailable, SeatAccessible, SeatEmpty}

func Paintable(status SeatStatus) bool {
	for _, s := range PaintableStatuses {
		if s == status {
			return true
		}
	}
	return false
}
