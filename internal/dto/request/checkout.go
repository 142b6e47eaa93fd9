package request

type ToggleOrderRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}
