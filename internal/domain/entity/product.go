package entity

// Product is an immutable catalog definition. Stock and price live in the
// state store, not here.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Rarity    string  `json:"rarity"`
	BasePrice float64 `json:"base_price"`
	MaxStock  int     `json:"max_stock"`
	YieldRate float64 `json:"yield_rate"`
}

// Yields reports whether owning this product earns passive crypto yield.
func (p Product) Yields() bool {
	return p.YieldRate > 0
}
