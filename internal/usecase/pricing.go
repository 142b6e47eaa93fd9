package usecase

import (
	"movie-storefront/internal/data/entity"
	"movie-storefront/pkg/utils"
)

// PriceProvider hands out the pricing table for a movie. Tables are
// deterministic per movie id so totals are reproducible across sessions.
type PriceProvider interface {
	TableFor(movieID int) entity.PricingTable
}

// configPriceProvider derives every table from configuration: a base price
// for the first category and fixed ratios for the rest. A tiny deterministic
// per-movie offset keeps the base price varied across titles without
// reintroducing random pricing.
type configPriceProvider struct {
	cfg utils.PricingConfig
}

func NewPriceProvider(cfg utils.PricingConfig) PriceProvider {
	return &configPriceProvider{cfg: cfg}
}

func (p *configPriceProvider) TableFor(movieID int) entity.PricingTable {
	// Offset cycles through -1.0 .. +1.5 in 0.5 steps keyed by movie id.
	offset := float64(movieID%6)*0.5 - 1.0
	base := p.cfg.BasePrice + offset

	return entity.PricingTable{
		MovieID: movieID,
		Prices: map[entity.TicketCategory]float64{
			entity.CategoryAdult:      base,
			entity.CategoryTeenSenior: base * p.cfg.SecondRatio,
			entity.CategoryChild:      base * p.cfg.ThirdRatio,
		},
		TaxRate: p.cfg.TaxRate,
	}
}

// fixedPriceProvider always returns the same table. Used by tests and
// available for single-price promotions.
type fixedPriceProvider struct {
	table entity.PricingTable
}

func NewFixedPriceProvider(table entity.PricingTable) PriceProvider {
	return &fixedPriceProvider{table: table}
}

func (p *fixedPriceProvider) TableFor(movieID int) entity.PricingTable {
	table := p.table
	table.MovieID = movieID
	return table
}
