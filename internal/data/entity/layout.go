package entity

import "sort"

// SeatLayout is a named, persisted seat arrangement. The most recently
// updated layout is the default shown to viewers.
type SeatLayout struct {
	Base
	Name  string `json:"name"`
	Seats []Seat `json:"seats"`
}

// SeatsByRow groups seats for display, rows alphabetical and seats by number.
func (l *SeatLayout) SeatsByRow() [][]Seat {
	return GroupSeatsByRow(l.Seats)
}

func GroupSeatsByRow(seats []Seat) [][]Seat {
	byRow := make(map[string][]Seat)
	var rows []string
	for _, seat := range seats {
		if _, ok := byRow[seat.Row]; !ok {
			rows = append(rows, seat.Row)
		}
		byRow[seat.Row] = append(byRow[seat.Row], seat)
	}

	sort.Strings(rows)

	grouped := make([][]Seat, 0, len(rows))
	for _, row := range rows {
		rowSeats := byRow[row]
		sort.Slice(rowSeats, func(i, j int) bool { return rowSeats[i].Number < rowSeats[j].Number })
		grouped = append(grouped, rowSeats)
	}
	return grouped
}
