package market

import (
	"fmt"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

func requireFunds(w *entity.Wallet, amount float64) error {
	if !w.CanSpend(amount) {
		return domain.NewError(errcodes.InsufficientFunds,
			fmt.Sprintf("balance %.2f < required %.2f", w.Balance, amount))
	}
	return nil
}

func requireOwned(w *entity.Wallet, productID string, qty int) error {
	if w.Owned(productID) < qty {
		return domain.NewError(errcodes.ItemNotOwned,
			fmt.Sprintf("user %s owns %d of %s, needs %d", w.UserID, w.Owned(productID), productID, qty))
	}
	return nil
}
