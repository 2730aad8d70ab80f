package mining

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_sim/internal/domain/entity"
	"market_sim/internal/infrastructure/catalog"
)

type fakeLedger struct {
	mu      sync.Mutex
	wallets map[string]*entity.Wallet
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{wallets: map[string]*entity.Wallet{}}
}

func (f *fakeLedger) Update(_ context.Context, userID string, fn func(w *entity.Wallet) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.wallets[userID]
	if !ok {
		w = entity.NewWallet(userID, 500)
	}

	clone := *w
	if err := fn(&clone); err != nil {
		return err
	}

	f.wallets[userID] = &clone
	return nil
}

type fixedPrices struct {
	price float64
}

func (f fixedPrices) Price(context.Context, string) (float64, error) {
	return f.price, nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]entity.Product{
		{ID: "rig", Name: "Mining Rig", BasePrice: 200, MaxStock: 20, YieldRate: 4},
		{ID: "sword", Name: "Sword", BasePrice: 10, MaxStock: 100},
	}, nil)
}

func TestYieldRate(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeLedger(), testCatalog(), fixedPrices{price: 120})

	w := entity.NewWallet("miner", 500)
	w.Purchased["rig"] = 2
	w.Purchased["sword"] = 5 // yields nothing

	assert.InDelta(t, 8.0, svc.YieldRate(w), 1e-9)

	// Sold units drop out of the derivation.
	w.Sold["rig"] = 1
	assert.InDelta(t, 4.0, svc.YieldRate(w), 1e-9)
}

func TestAccrue(t *testing.T) {
	t.Parallel()

	t.Run("credits rate times tick constant", func(t *testing.T) {
		t.Parallel()

		ledger := newFakeLedger()
		svc := NewService(ledger, testCatalog(), fixedPrices{price: 120})

		require.NoError(t, ledger.Update(context.Background(), "miner", func(w *entity.Wallet) error {
			w.Purchased["rig"] = 2
			return nil
		}))

		accrued, err := svc.Accrue(context.Background(), "miner")
		require.NoError(t, err)

		// 2 rigs x rate 4 x 0.00625 per tick.
		assert.InDelta(t, 0.05, accrued, 1e-9)

		w := ledger.wallets["miner"]
		assert.InDelta(t, 0.05, w.Crypto["NOVA"], 1e-9)
		assert.InDelta(t, 0.05*120, w.LifetimeMined, 1e-9)
		assert.InDelta(t, 8.0, w.LastYieldRate, 1e-9)

		// Accrual is not a trade; the history stays empty.
		assert.Empty(t, w.Transactions)
	})

	t.Run("accrual compounds across ticks", func(t *testing.T) {
		t.Parallel()

		ledger := newFakeLedger()
		svc := NewService(ledger, testCatalog(), fixedPrices{price: 120})

		require.NoError(t, ledger.Update(context.Background(), "miner", func(w *entity.Wallet) error {
			w.Purchased["rig"] = 2
			return nil
		}))

		for range 4 {
			_, err := svc.Accrue(context.Background(), "miner")
			require.NoError(t, err)
		}

		assert.InDelta(t, 0.2, ledger.wallets["miner"].Crypto["NOVA"], 1e-9)
	})

	t.Run("no yield assets is a no-op", func(t *testing.T) {
		t.Parallel()

		ledger := newFakeLedger()
		svc := NewService(ledger, testCatalog(), fixedPrices{price: 120})

		require.NoError(t, ledger.Update(context.Background(), "idler", func(w *entity.Wallet) error {
			w.Purchased["sword"] = 3
			return nil
		}))

		before := *ledger.wallets["idler"]

		accrued, err := svc.Accrue(context.Background(), "idler")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, accrued, 1e-9)
		assert.Equal(t, before.UpdatedAt, ledger.wallets["idler"].UpdatedAt)
	})

	t.Run("rate drop to zero is written once", func(t *testing.T) {
		t.Parallel()

		ledger := newFakeLedger()
		svc := NewService(ledger, testCatalog(), fixedPrices{price: 120})

		require.NoError(t, ledger.Update(context.Background(), "miner", func(w *entity.Wallet) error {
			w.Purchased["rig"] = 1
			return nil
		}))

		_, err := svc.Accrue(context.Background(), "miner")
		require.NoError(t, err)

		require.NoError(t, ledger.Update(context.Background(), "miner", func(w *entity.Wallet) error {
			w.Sold["rig"] = 1
			return nil
		}))

		// First tick after the sale records the new zero rate.
		accrued, err := svc.Accrue(context.Background(), "miner")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, accrued, 1e-9)
		assert.InDelta(t, 0.0, ledger.wallets["miner"].LastYieldRate, 1e-9)
	})
}
