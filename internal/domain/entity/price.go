package entity

import "time"

// PriceUpdate is the committed market state of one product, published to the
// state store after every stock mutation.
type PriceUpdate struct {
	ProductID string    `json:"product_id"`
	Stock     int       `json:"stock"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}
