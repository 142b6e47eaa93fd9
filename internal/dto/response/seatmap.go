package response

import (
	"movie-storefront/internal/data/entity"
)

type SeatResponse struct {
	ID             string `json:"id"`
	Row            string `json:"row"`
	Number         int    `json:"number"`
	Status         string `json:"status"`
	OriginalStatus string `json:"original_status"`
}

type RowResponse struct {
	Row   string         `json:"row"`
	Seats []SeatResponse `json:"seats"`
}

type TicketSelectionResponse struct {
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type PricingResponse struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// SeatMapResponse is the full interaction-session view: grid, selection,
// reconciled ticket counts and running totals. CountDelta is tickets minus
// selected seats; non-zero drives the "counts don't match" warning.
type SeatMapResponse struct {
	SessionID        string                    `json:"session_id"`
	MovieID          int                       `json:"movie_id"`
	MovieTitle       string                    `json:"movie_title"`
	TheaterName      string                    `json:"theater_name,omitempty"`
	Showtime         string                    `json:"showtime,omitempty"`
	Mode             string                    `json:"mode"`
	EditStatus       string                    `json:"edit_status,omitempty"`
	LayoutID         string                    `json:"layout_id,omitempty"`
	Rows             []RowResponse             `json:"rows"`
	SelectedSeatIDs  []string                  `json:"selected_seat_ids"`
	TicketSelections []TicketSelectionResponse `json:"ticket_selections"`
	Pricing          PricingResponse           `json:"pricing"`
	CountDelta       int                       `json:"count_delta"`
}

type LayoutResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Rows      []RowResponse `json:"rows"`
	SeatCount int           `json:"seat_count"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// Helper converters

func SeatToResponse(seat entity.Seat) SeatResponse {
	return SeatResponse{
		ID:             seat.ID,
		Row:            seat.Row,
		Number:         seat.Number,
		Status:         string(seat.Status),
		OriginalStatus: string(seat.OriginalStatus),
	}
}

func SeatsToRows(seats []entity.Seat) []RowResponse {
	grouped := entity.GroupSeatsByRow(seats)
	rows := make([]RowResponse, 0, len(grouped))
	for _, rowSeats := range grouped {
		row := RowResponse{Row: rowSeats[0].Row, Seats: make([]SeatResponse, 0, len(rowSeats))}
		for _, seat := range rowSeats {
			row.Seats = append(row.Seats, SeatToResponse(seat))
		}
		rows = append(rows, row)
	}
	return rows
}

func PricingToResponse(p entity.Pricing) PricingResponse {
	return PricingResponse{Subtotal: p.Subtotal, Tax: p.Tax, Total: p.Total}
}

func LayoutToResponse(layout *entity.SeatLayout) LayoutResponse {
	return LayoutResponse{
		ID:        layout.ID.String(),
		Name:      layout.Name,
		Rows:      SeatsToRows(layout.Seats),
		SeatCount: len(layout.Seats),
		CreatedAt: layout.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: layout.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
