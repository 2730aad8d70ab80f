package wallet

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/internal/infrastructure/catalog"
	"market_sim/pkg/errcodes"
)

const startingBalance = 500

// fakeLedger mirrors the wallet store contract: wallets are created on first
// touch and a failing mutation writes nothing, for either wallet of a pair.
type fakeLedger struct {
	mu      sync.Mutex
	wallets map[string]*entity.Wallet
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{wallets: map[string]*entity.Wallet{}}
}

func (f *fakeLedger) Get(_ context.Context, userID string) (*entity.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.wallets[userID]
	if !ok {
		return nil, domain.NewError(errcodes.WalletNotFound, "wallet not found: "+userID)
	}

	clone := *w
	return &clone, nil
}

func (f *fakeLedger) Update(_ context.Context, userID string, fn func(w *entity.Wallet) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := f.read(userID)
	if err := fn(clone); err != nil {
		return err
	}

	f.wallets[userID] = clone
	return nil
}

func (f *fakeLedger) UpdatePair(_ context.Context, firstID, secondID string, fn func(first, second *entity.Wallet) error) error {
	if firstID == secondID {
		return domain.NewError(errcodes.SelfReference, "operation requires two distinct wallets")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	first := f.read(firstID)
	second := f.read(secondID)

	if err := fn(first, second); err != nil {
		return err
	}

	f.wallets[firstID] = first
	f.wallets[secondID] = second
	return nil
}

func (f *fakeLedger) read(userID string) *entity.Wallet {
	if w, ok := f.wallets[userID]; ok {
		clone := *w
		return &clone
	}
	return entity.NewWallet(userID, startingBalance)
}

func (f *fakeLedger) get(userID string) *entity.Wallet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wallets[userID]
}

func (f *fakeLedger) seed(w *entity.Wallet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Normalize()
	f.wallets[w.UserID] = w
}

type fakePrices struct {
	prices map[string]float64
}

func (f *fakePrices) Price(_ context.Context, symbol string) (float64, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return 0, domain.NewError(errcodes.UnknownSymbol, "unknown symbol: "+symbol)
	}
	return price, nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]entity.Product{
			{ID: "sword", Name: "Sword", BasePrice: 10, MaxStock: 100},
			{ID: "rig", Name: "Mining Rig", BasePrice: 200, MaxStock: 20, YieldRate: 4},
		},
		[]entity.Mission{
			{ActionID: "first_trade", Title: "First Trade", Reward: 50, XP: 10, Recurrence: entity.MissionOneTime},
			{ActionID: "daily_login", Title: "Daily Login", Reward: 5, XP: 1, Recurrence: entity.MissionInfinite},
		},
	)
}

func newTestService(t *testing.T) (*Service, *fakeLedger) {
	t.Helper()

	ledger := newFakeLedger()
	prices := &fakePrices{prices: map[string]float64{"NOVA": 120, "PIXEL": 3.5}}

	return NewService(ledger, testCatalog(), prices), ledger
}

func TestGetWalletCreatesOnFirstTouch(t *testing.T) {
	t.Parallel()
	svc, ledger := newTestService(t)

	w, err := svc.GetWallet(context.Background(), "newcomer")
	require.NoError(t, err)

	assert.Equal(t, "newcomer", w.UserID)
	assert.InDelta(t, float64(startingBalance), w.Balance, 1e-9)
	assert.NotNil(t, ledger.get("newcomer"))

	// Second read returns the same record, not a fresh one.
	again, err := svc.GetWallet(context.Background(), "newcomer")
	require.NoError(t, err)
	assert.Equal(t, w.CreatedAt, again.CreatedAt)
}

func TestTransferCredits(t *testing.T) {
	t.Parallel()

	t.Run("moves the amount and appends a matched pair", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		require.NoError(t, svc.TransferCredits(context.Background(), "alice", "bob", 120))

		alice := ledger.get("alice")
		bob := ledger.get("bob")

		assert.InDelta(t, startingBalance-120, alice.Balance, 1e-9)
		assert.InDelta(t, startingBalance+120, bob.Balance, 1e-9)

		require.Len(t, alice.Transactions, 1)
		require.Len(t, bob.Transactions, 1)
		assert.Equal(t, entity.TxTransferOut, alice.Transactions[0].Kind)
		assert.InDelta(t, -120.0, alice.Transactions[0].Amount, 1e-9)
		assert.Equal(t, entity.TxTransferIn, bob.Transactions[0].Kind)
		assert.InDelta(t, 120.0, bob.Transactions[0].Amount, 1e-9)
	})

	t.Run("insufficient funds leaves both wallets untouched", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		err := svc.TransferCredits(context.Background(), "alice", "bob", startingBalance+1)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, errcodes.InsufficientFunds))
		assert.Nil(t, ledger.get("alice"))
		assert.Nil(t, ledger.get("bob"))
	})

	t.Run("rejects self transfer", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		err := svc.TransferCredits(context.Background(), "alice", "alice", 10)
		assert.True(t, domain.HasCode(err, errcodes.SelfReference))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		err := svc.TransferCredits(context.Background(), "alice", "bob", 0)
		assert.True(t, domain.HasCode(err, errcodes.ValidationError))
	})

	t.Run("privileged sender keeps its balance", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		house := entity.NewWallet("house", 0)
		house.Infinite = true
		ledger.seed(house)

		require.NoError(t, svc.TransferCredits(context.Background(), "house", "bob", 1_000_000))

		assert.InDelta(t, 0.0, ledger.get("house").Balance, 1e-9)
		assert.InDelta(t, startingBalance+1_000_000, ledger.get("bob").Balance, 1e-9)
		// The finite amount is still on record.
		assert.InDelta(t, -1_000_000.0, ledger.get("house").Transactions[0].Amount, 1e-9)
	})
}

func TestTransferItem(t *testing.T) {
	t.Parallel()

	t.Run("moves ownership without balance effects", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		owner := entity.NewWallet("owner", startingBalance)
		owner.Purchased["sword"] = 2
		ledger.seed(owner)

		require.NoError(t, svc.TransferItem(context.Background(), "owner", "friend", "sword"))

		assert.Equal(t, 1, ledger.get("owner").Owned("sword"))
		assert.Equal(t, 1, ledger.get("friend").Owned("sword"))
		assert.InDelta(t, float64(startingBalance), ledger.get("owner").Balance, 1e-9)
		assert.Equal(t, entity.TxGiftOut, ledger.get("owner").Transactions[0].Kind)
		assert.Equal(t, entity.TxGiftIn, ledger.get("friend").Transactions[0].Kind)
	})

	t.Run("rejects gifting an item you do not own", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		err := svc.TransferItem(context.Background(), "owner", "friend", "sword")
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, errcodes.ItemNotOwned))
		assert.Nil(t, ledger.get("friend"))
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		err := svc.TransferItem(context.Background(), "owner", "friend", "ghost")
		assert.True(t, domain.HasCode(err, errcodes.ProductNotFound))
	})
}

func TestExecutePvPTrade(t *testing.T) {
	t.Parallel()

	t.Run("swaps item and credits in one commit", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		seller := entity.NewWallet("seller", startingBalance)
		seller.Purchased["sword"] = 1
		ledger.seed(seller)

		require.NoError(t, svc.ExecutePvPTrade(context.Background(), "buyer", "seller", "sword", 75))

		assert.Equal(t, 1, ledger.get("buyer").Owned("sword"))
		assert.Equal(t, 0, ledger.get("seller").Owned("sword"))
		assert.InDelta(t, startingBalance-75, ledger.get("buyer").Balance, 1e-9)
		assert.InDelta(t, startingBalance+75, ledger.get("seller").Balance, 1e-9)
		assert.Equal(t, entity.TxPvPBuy, ledger.get("buyer").Transactions[0].Kind)
		assert.Equal(t, entity.TxPvPSell, ledger.get("seller").Transactions[0].Kind)
	})

	t.Run("insufficient funds leaves every record untouched", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		seller := entity.NewWallet("seller", startingBalance)
		seller.Purchased["sword"] = 1
		ledger.seed(seller)

		err := svc.ExecutePvPTrade(context.Background(), "buyer", "seller", "sword", startingBalance+1)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, errcodes.InsufficientFunds))

		assert.Equal(t, 1, ledger.get("seller").Owned("sword"))
		assert.Empty(t, ledger.get("seller").Transactions)
		assert.Nil(t, ledger.get("buyer"))
	})

	t.Run("seller must own the item", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		err := svc.ExecutePvPTrade(context.Background(), "buyer", "seller", "sword", 10)
		assert.True(t, domain.HasCode(err, errcodes.ItemNotOwned))
	})
}

func TestCryptoTrade(t *testing.T) {
	t.Parallel()

	t.Run("buy then sell round trip", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		require.NoError(t, svc.BuyCrypto(context.Background(), "trader", "PIXEL", 10))

		w := ledger.get("trader")
		assert.InDelta(t, startingBalance-35, w.Balance, 1e-9)
		assert.InDelta(t, 10.0, w.Crypto["PIXEL"], 1e-9)

		require.NoError(t, svc.SellCrypto(context.Background(), "trader", "PIXEL", 10))

		w = ledger.get("trader")
		assert.InDelta(t, float64(startingBalance), w.Balance, 1e-9)
		assert.InDelta(t, 0.0, w.Crypto["PIXEL"], 1e-9)
	})

	t.Run("holdings never go negative", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		err := svc.SellCrypto(context.Background(), "trader", "PIXEL", 1)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, errcodes.InsufficientHoldings))
		assert.Nil(t, ledger.get("trader"))
	})

	t.Run("unknown symbol is rejected before any write", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		err := svc.BuyCrypto(context.Background(), "trader", "DOGE", 1)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, errcodes.UnknownSymbol))
		assert.Nil(t, ledger.get("trader"))
	})
}
