package market

const (
	// surgeFactor scales how hard scarcity pushes the price above base:
	// empty shelves cost 2.5x base, a full warehouse costs exactly base.
	surgeFactor = 1.5

	// floorRatio keeps oversupplied products from hitting zero or going
	// negative.
	floorRatio = 0.01
)

// Price is the single pricing rule of the whole market. It is a pure function
// of committed stock; every caller (human purchase, liquidation, agent trade)
// applies it after the stock mutation commits, never speculatively.
func Price(basePrice float64, stock, maxStock int) float64 {
	ratio := float64(stock) / float64(maxStock)

	price := basePrice * (1 + surgeFactor*(1-ratio))

	if floor := basePrice * floorRatio; price < floor {
		return floor
	}

	return price
}
