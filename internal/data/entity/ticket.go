package entity

type TicketCategory string

const (
	CategoryAdult      TicketCategory = "adult"
	CategoryTeenSenior TicketCategory = "teen_senior"
	CategoryChild      TicketCategory = "child"
)

// Categories in pricing order: the first category absorbs the default
// quantity when the seat selection changes.
func Categories() []TicketCategory {
	return []TicketCategory{CategoryAdult, CategoryTeenSenior, CategoryChild}
}

type TicketSelection struct {
	Category TicketCategory `json:"category"`
	Quantity int            `json:"quantity"`
}

// PricingTable holds the per-movie category prices and tax rate.
type PricingTable struct {
	MovieID int                        `json:"movie_id"`
	Prices  map[TicketCategory]float64 `json:"prices"`
	TaxRate float64                    `json:"tax_rate"`
}

type Pricing struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputePricing derives totals from selections against the table. Totals are
// recomputed on every change, never cached across an interaction.
func ComputePricing(table PricingTable, selections []TicketSelection) Pricing {
	var subtotal float64
	for _, sel := range selections {
		subtotal += float64(sel.Quantity) * table.Prices[sel.Category]
	}
	tax := subtotal * table.TaxRate
	return Pricing{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
