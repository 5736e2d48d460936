package domain

import "github.com/shopspring/decimal"

const MaxRating = 5

// Product is a catalog entry as served by the backend
type Product struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Cost     decimal.Decimal `json:"cost"`
	Rating   int             `json:"rating"` // 0..5
	Image    string          `json:"image"`
}

// Stars returns the rating clamped to 0..MaxRating
func (p Product) Stars() int {
	return min(max(p.Rating, 0), MaxRating)
}

// Catalog indexes a product list by id
type Catalog map[string]Product

func NewCatalog(products []Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}

func (c Catalog) Lookup(id string) (Product, bool) {
	p, ok := c[id]
	return p, ok
}
