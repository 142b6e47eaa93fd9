package response

import (
	"time"

	"movie-storefront/internal/data/entity"
)

type OrderResponse struct {
	ID               string                    `json:"id"`
	MovieID          int                       `json:"movie_id"`
	MovieTitle       string                    `json:"movie_title"`
	TheaterName      string                    `json:"theater_name,omitempty"`
	Showtime         string                    `json:"showtime,omitempty"`
	UserID           string                    `json:"user_id,omitempty"`
	SeatIDs          []string                  `json:"seat_ids"`
	TicketSelections []TicketSelectionResponse `json:"ticket_selections"`
	Pricing          PricingResponse           `json:"pricing"`
	CreatedAt        time.Time                 `json:"created_at"`
}

func OrderToResponse(order *entity.TicketOrder) OrderResponse {
	seatIDs := make([]string, len(order.SelectedSeats))
	for i, seat := range order.SelectedSeats {
		seatIDs[i] = seat.ID
	}

	selections := make([]TicketSelectionResponse, 0, len(order.TicketSelections))
	for _, sel := range order.TicketSelections {
		selections = append(selections, TicketSelectionResponse{
			Category: string(sel.Category),
			Quantity: sel.Quantity,
		})
	}

	resp := OrderResponse{
		ID:               order.ID,
		MovieID:          order.MovieID,
		MovieTitle:       order.MovieTitle,
		TheaterName:      order.TheaterName,
		Showtime:         order.Showtime,
		SeatIDs:          seatIDs,
		TicketSelections: selections,
		Pricing:          PricingToResponse(order.Pricing),
		CreatedAt:        order.CreatedAt,
	}
	if order.UserID != nil {
		resp.UserID = order.UserID.String()
	}
	return resp
}

func OrdersToResponse(orders []*entity.TicketOrder) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = OrderToResponse(order)
	}
	return out
}
