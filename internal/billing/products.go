package billing

import "github.com/uden-ai/uden-server/internal/config"

// ProductPremium is the only product code accepted by the order flow.
const ProductPremium = "PREMIUM"

// Catalog maps product codes to gateway price identifiers.
type Catalog struct {
	prices map[string]string
}

// NewCatalog builds the static product mapping from config.
func NewCatalog(cfg config.StripeConfig) *Catalog {
	return &Catalog{prices: map[string]string{
		ProductPremium: cfg.Products.Premium,
	}}
}

// LineItems returns the line items for a product code, or false for
// unrecognized codes.
func (c *Catalog) LineItems(product string) ([]LineItem, bool) {
	priceID, found := c.prices[product]
	if !found {
		return nil, false
	}
	return []LineItem{{PriceID: priceID, Quantity: 1}}, true
}
