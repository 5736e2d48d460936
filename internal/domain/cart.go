package domain

import "github.com/shopspring/decimal"

// CartLine is one backend-owned cart entry
type CartLine struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// CartUpdate is the body of POST /cart
type CartUpdate struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// DisplayCartLine is a cart line joined with its catalog product.
// When Found is false the product fields are zero and only the line data is known.
type DisplayCartLine struct {
	CartLine
	Product Product
	Found   bool
}

// LineTotal is cost times quantity; zero for lines without a product
func (l DisplayCartLine) LineTotal() decimal.Decimal {
	if !l.Found {
		return decimal.Zero
	}
	return l.Product.Cost.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Title falls back to the product id for degraded lines
func (l DisplayCartLine) Title() string {
	if l.Found && l.Product.Name != "" {
		return l.Product.Name
	}
	return l.ProductID
}

// JoinCart merges cart lines with the catalog. Order follows the cart.
func JoinCart(lines []CartLine, catalog Catalog) []DisplayCartLine {
	out := make([]DisplayCartLine, 0, len(lines))
	for _, line := range lines {
		p, ok := catalog.Lookup(line.ProductID)
		out = append(out, DisplayCartLine{CartLine: line, Product: p, Found: ok})
	}
	return out
}

// ContainsProduct reports whether productID already has a cart line
func ContainsProduct(lines []CartLine, productID string) bool {
	for _, line := range lines {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}
