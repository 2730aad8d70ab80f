package mining

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"market_sim/internal/domain/entity"
	"market_sim/internal/domain/service/crypto"
	"market_sim/internal/infrastructure/catalog"
	"market_sim/internal/metrics"
)

// TickYield is the fixed per-tick multiplier applied to a user's total yield
// rate on every accrual.
const TickYield = 0.00625

// errNothingToAccrue aborts the wallet transaction without writing when the
// tick is a no-op.
var errNothingToAccrue = errors.New("nothing to accrue")

type Ledger interface {
	Update(ctx context.Context, userID string, fn func(w *entity.Wallet) error) error
}

type CryptoPrices interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

// Service recomputes each user's passive yield from owned yield-producing
// assets and credits the accrued coin. The recomputation is local: it
// tolerates the order history being mutated concurrently because the whole
// derivation and credit run inside one wallet transaction.
type Service struct {
	ledger  Ledger
	catalog *catalog.Catalog
	prices  CryptoPrices
}

func NewService(ledger Ledger, cat *catalog.Catalog, prices CryptoPrices) *Service {
	return &Service{
		ledger:  ledger,
		catalog: cat,
		prices:  prices,
	}
}

// YieldRate derives the user's total earn rate from the ownership derivation
// over all yield-capable products.
func (s *Service) YieldRate(w *entity.Wallet) float64 {
	return lo.SumBy(s.catalog.YieldProducts(), func(p entity.Product) float64 {
		return p.YieldRate * float64(w.Owned(p.ID))
	})
}

// Accrue runs one yield tick for a user: credit rate x TickYield of the
// mining coin and bump the lifetime-earned counter valued at the coin's
// current simulated price. Returns the accrued amount (zero when the tick
// was a no-op).
func (s *Service) Accrue(ctx context.Context, userID string) (float64, error) {
	// Valued at accrual time, read once outside the retry loop.
	price, err := s.prices.Price(ctx, crypto.MiningSymbol)
	if err != nil {
		return 0, fmt.Errorf("mining coin price: %w", err)
	}

	var accrued float64

	err = s.ledger.Update(ctx, userID, func(w *entity.Wallet) error {
		rate := s.YieldRate(w)
		accrued = rate * TickYield

		if accrued == 0 && rate == w.LastYieldRate {
			return errNothingToAccrue
		}

		// Accrual credits the holding directly; it is not a ledger trade and
		// appends no transaction record.
		w.Crypto[crypto.MiningSymbol] += accrued
		w.LifetimeMined += accrued * price
		w.LastYieldRate = rate
		w.UpdatedAt = time.Now()

		return nil
	})
	if errors.Is(err, errNothingToAccrue) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	metrics.YieldAccrued.Add(accrued)
	metrics.AccrualRuns.Inc()

	return accrued, nil
}
