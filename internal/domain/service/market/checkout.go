package market

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"market_sim/internal/domain/entity"
	"market_sim/internal/domain/value"
)

type CheckoutLine struct {
	ProductID string
	Quantity  int
}

type CheckoutResult struct {
	Total float64
	Lines []entity.PriceUpdate
}

// Checkout reserves every cart line and debits the buyer in one wallet
// commit. The cart is all-or-nothing: when any reservation or the debit
// fails, every already-reserved line is compensated with a release, so a
// partially-emptied cart is never visible to the user.
func (s *Service) Checkout(ctx context.Context, userID string, lines []CheckoutLine) (CheckoutResult, error) {
	var (
		result   CheckoutResult
		reserved []CheckoutLine
	)

	rollback := func() {
		for _, line := range reserved {
			if _, err := s.ReleaseStock(ctx, line.ProductID, line.Quantity, value.User(userID)); err != nil {
				logger(ctx).Error("checkout compensation failed",
					"user_id", userID,
					"product_id", line.ProductID,
					"error", err,
				)
			}
		}
	}

	for _, line := range lines {
		update, err := s.ReserveStock(ctx, line.ProductID, line.Quantity, value.User(userID))
		if err != nil {
			rollback()
			return CheckoutResult{}, fmt.Errorf("reserve %s: %w", line.ProductID, err)
		}

		reserved = append(reserved, line)
		result.Lines = append(result.Lines, update)
		result.Total += update.Price * float64(line.Quantity)
	}

	err := s.wallets.Update(ctx, userID, func(w *entity.Wallet) error {
		if err := requireFunds(w, result.Total); err != nil {
			return err
		}

		for i, line := range lines {
			w.Spend(result.Lines[i].Price * float64(line.Quantity))
			w.Purchased[line.ProductID] += line.Quantity
			w.Append(entity.Transaction{
				ID:          xid.New().String(),
				Kind:        entity.TxPurchase,
				Amount:      -result.Lines[i].Price * float64(line.Quantity),
				Description: fmt.Sprintf("bought %dx %s", line.Quantity, line.ProductID),
				CreatedAt:   time.Now(),
			})
		}

		w.UpdatedAt = time.Now()

		return nil
	})
	if err != nil {
		rollback()
		return CheckoutResult{}, err
	}

	return result, nil
}

// Liquidate sells qty owned units back to the market at the post-release
// price. The ownership check and the sale record commit in one wallet
// transaction; if that transaction fails the stock release is compensated.
func (s *Service) Liquidate(ctx context.Context, userID, productID string, qty int) (entity.PriceUpdate, error) {
	update, err := s.ReleaseStock(ctx, productID, qty, value.User(userID))
	if err != nil {
		return entity.PriceUpdate{}, err
	}

	proceeds := update.Price * float64(qty)

	err = s.wallets.Update(ctx, userID, func(w *entity.Wallet) error {
		if err := requireOwned(w, productID, qty); err != nil {
			return err
		}

		w.Sold[productID] += qty
		w.Credit(proceeds)
		w.Append(entity.Transaction{
			ID:          xid.New().String(),
			Kind:        entity.TxSale,
			Amount:      proceeds,
			Description: fmt.Sprintf("sold %dx %s", qty, productID),
			CreatedAt:   time.Now(),
		})
		w.UpdatedAt = time.Now()

		return nil
	})
	if err != nil {
		// The units went back on the shelf for an owner that could not sell
		// them; take them off again.
		if _, rbErr := s.ReserveStock(ctx, productID, qty, value.User(userID)); rbErr != nil {
			logger(ctx).Error("liquidation compensation failed",
				"user_id", userID,
				"product_id", productID,
				"error", rbErr,
			)
		}
		return entity.PriceUpdate{}, err
	}

	return update, nil
}
