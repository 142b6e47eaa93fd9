package response

// CheckoutSessionResponse is the batch-checkout view: the working order list,
// which of them are currently checked, and the totals for the checked subset.
type CheckoutSessionResponse struct {
	SessionID      string          `json:"session_id"`
	State          string          `json:"state"`
	Orders         []OrderResponse `json:"orders"`
	SelectedIDs    []string        `json:"selected_ids"`
	AllSelected    bool            `json:"all_selected"`
	Pricing        PricingResponse `json:"pricing"`
	SettledOrderID []string        `json:"settled_order_ids,omitempty"`
}
