package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_sim/pkg/tests"
)

func TestWalletOwned(t *testing.T) {
	t.Parallel()

	w := NewWallet("u1", 500)
	w.Purchased["sword"] = 3
	w.Sold["sword"] = 1
	w.GiftedIn["sword"] = 2

	assert.Equal(t, 4, w.Owned("sword"))
	assert.Equal(t, 0, w.Owned("shield"))

	// The derivation clamps at zero even on inconsistent counters.
	w.Sold["sword"] = 10
	assert.Equal(t, 0, w.Owned("sword"))
}

func TestWalletSpendCredit(t *testing.T) {
	t.Parallel()

	t.Run("spend and credit round trip", func(t *testing.T) {
		t.Parallel()

		random := tests.NewRandomizer()
		w := NewWallet("u1", 1000)

		for range 50 {
			amount := random.Float64() * 100

			require.True(t, w.CanSpend(amount))
			w.Spend(amount)
			w.Credit(amount)
		}

		assert.InDelta(t, 1000.0, w.Balance, 1e-6)
	})

	t.Run("cannot cover more than the balance", func(t *testing.T) {
		t.Parallel()

		w := NewWallet("u1", 10)
		assert.False(t, w.CanSpend(10.01))
		assert.True(t, w.CanSpend(10))
	})

	t.Run("privileged wallet covers anything and never moves", func(t *testing.T) {
		t.Parallel()

		w := NewWallet("house", 0)
		w.Infinite = true

		assert.True(t, w.CanSpend(1e12))
		w.Spend(1e12)
		w.Credit(42)
		assert.InDelta(t, 0.0, w.Balance, 1e-9)
	})
}

func TestWalletAppendIsNewestFirst(t *testing.T) {
	t.Parallel()

	w := NewWallet("u1", 500)
	w.Append(Transaction{ID: "a"})
	w.Append(Transaction{ID: "b"})
	w.Append(Transaction{ID: "c"})

	require.Len(t, w.Transactions, 3)
	assert.Equal(t, "c", w.Transactions[0].ID)
	assert.Equal(t, "a", w.Transactions[2].ID)
}

func TestWalletNormalize(t *testing.T) {
	t.Parallel()

	var w Wallet
	w.Normalize()

	// Maps are writable after a round trip through an older record.
	w.Crypto["NOVA"] = 1
	w.Purchased["sword"] = 1
	w.Sold["sword"] = 1
	w.GiftedIn["sword"] = 1
	w.CompletedMissions["m"] = 1
	w.ClaimedMissions["m"] = 1
}
