package entity

import "time"

// CryptoAsset is one symbol of the simulated crypto basket. Its price follows
// an independent bounded random walk with no scarcity coupling.
type CryptoAsset struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	InitialPrice float64   `json:"initial_price"`
	Price        float64   `json:"price"`
	History      []float64 `json:"history"`
	UpdatedAt    time.Time `json:"updated_at"`
}
