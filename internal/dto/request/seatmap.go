package request

// CreateSeatMapRequest opens a seat-selection session for one movie. When
// LayoutID is omitted the most recently updated saved layout is used, and a
// built-in sample grid when none has been saved yet.
type CreateSeatMapRequest struct {
	MovieID     int     `json:"movie_id" validate:"required"`
	MovieTitle  string  `json:"movie_title" validate:"required"`
	TheaterName string  `json:"theater_name,omitempty"`
	Showtime    string  `json:"showtime,omitempty"`
	LayoutID    *string `json:"layout_id,omitempty" validate:"omitempty,uuid"`
}

type SeatActionRequest struct {
	SeatID string `json:"seat_id" validate:"required"`
}

type SetModeRequest struct {
	Mode       string `json:"mode" validate:"required,oneof=viewer editor"`
	EditStatus string `json:"edit_status,omitempty" validate:"omitempty,oneof=available accessible empty"`
}

type SaveLayoutRequest struct {
	Name string `json:"name" validate:"required"`
}

type AdjustQuantityRequest struct {
	Category string `json:"category" validate:"required,oneof=adult teen_senior child"`
	Delta    int    `json:"delta" validate:"required"`
}
