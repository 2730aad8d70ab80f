package wallet

import (
	"context"
	"fmt"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

// BuyCrypto converts balance into units of a simulated symbol at its current
// walk price.
func (s *Service) BuyCrypto(ctx context.Context, userID, symbol string, units float64) error {
	if units <= 0 {
		return domain.NewError(errcodes.ValidationError, "units must be positive")
	}

	price, err := s.prices.Price(ctx, symbol)
	if err != nil {
		return err
	}

	cost := price * units

	return s.ledger.Update(ctx, userID, func(w *entity.Wallet) error {
		if !w.CanSpend(cost) {
			return domain.NewError(errcodes.InsufficientFunds,
				fmt.Sprintf("balance %.2f < cost %.2f", w.Balance, cost))
		}

		w.Spend(cost)
		w.Crypto[symbol] += units
		w.Append(newTx(entity.TxCryptoBuy, -cost, fmt.Sprintf("bought %.6f %s", units, symbol)))

		touch(w)

		return nil
	})
}

// SellCrypto converts held units back into balance at the current walk price.
// Holdings can never go negative.
func (s *Service) SellCrypto(ctx context.Context, userID, symbol string, units float64) error {
	if units <= 0 {
		return domain.NewError(errcodes.ValidationError, "units must be positive")
	}

	price, err := s.prices.Price(ctx, symbol)
	if err != nil {
		return err
	}

	proceeds := price * units

	return s.ledger.Update(ctx, userID, func(w *entity.Wallet) error {
		if w.Crypto[symbol] < units {
			return domain.NewError(errcodes.InsufficientHoldings,
				fmt.Sprintf("holding %.6f %s < selling %.6f", w.Crypto[symbol], symbol, units))
		}

		w.Crypto[symbol] -= units
		w.Credit(proceeds)
		w.Append(newTx(entity.TxCryptoSell, proceeds, fmt.Sprintf("sold %.6f %s", units, symbol)))

		touch(w)

		return nil
	})
}
