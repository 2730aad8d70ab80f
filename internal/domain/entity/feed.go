package entity

import "time"

type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// TradeEvent is one entry of the Global Activity Feed. The feed exists for
// observability only; nothing derives balances or stock from it.
type TradeEvent struct {
	Actor     string      `json:"actor"`
	Bot       bool        `json:"bot"`
	Action    TradeAction `json:"action"`
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Price     float64     `json:"price"`
	CreatedAt time.Time   `json:"created_at"`
}
