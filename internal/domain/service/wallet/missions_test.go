package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

func TestMissions(t *testing.T) {
	t.Parallel()

	t.Run("claim pays out once per completion", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		require.NoError(t, svc.CheckMission(context.Background(), "player", "first_trade"))
		require.NoError(t, svc.ClaimReward(context.Background(), "player", "first_trade"))

		w := ledger.get("player")
		assert.InDelta(t, startingBalance+50, w.Balance, 1e-9)
		assert.Equal(t, 10, w.XP)
		require.Len(t, w.Transactions, 1)
		assert.Equal(t, entity.TxReward, w.Transactions[0].Kind)
	})

	t.Run("one-time mission cannot be claimed twice", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		require.NoError(t, svc.CheckMission(context.Background(), "player", "first_trade"))
		require.NoError(t, svc.ClaimReward(context.Background(), "player", "first_trade"))

		err := svc.ClaimReward(context.Background(), "player", "first_trade")
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, errcodes.MissionAlreadyClaimed))

		// Re-checking a completed one-time mission is a no-op.
		require.NoError(t, svc.CheckMission(context.Background(), "player", "first_trade"))

		err = svc.ClaimReward(context.Background(), "player", "first_trade")
		assert.True(t, domain.HasCode(err, errcodes.MissionAlreadyClaimed))
		assert.InDelta(t, startingBalance+50, ledger.get("player").Balance, 1e-9)
	})

	t.Run("infinite mission re-arms after each claim", func(t *testing.T) {
		t.Parallel()
		svc, ledger := newTestService(t)

		for range 3 {
			require.NoError(t, svc.CheckMission(context.Background(), "player", "daily_login"))
			require.NoError(t, svc.ClaimReward(context.Background(), "player", "daily_login"))
		}

		assert.InDelta(t, startingBalance+15, ledger.get("player").Balance, 1e-9)
		assert.Equal(t, 3, ledger.get("player").XP)
	})

	t.Run("claiming before completion fails", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		err := svc.ClaimReward(context.Background(), "player", "first_trade")
		assert.True(t, domain.HasCode(err, errcodes.MissionNotCompleted))
	})

	t.Run("completion is idempotent while unclaimed", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		require.NoError(t, svc.CheckMission(context.Background(), "player", "daily_login"))
		require.NoError(t, svc.CheckMission(context.Background(), "player", "daily_login"))

		require.NoError(t, svc.ClaimReward(context.Background(), "player", "daily_login"))

		err := svc.ClaimReward(context.Background(), "player", "daily_login")
		assert.True(t, domain.HasCode(err, errcodes.MissionAlreadyClaimed))
	})

	t.Run("unknown mission", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		err := svc.CheckMission(context.Background(), "player", "ghost")
		assert.True(t, domain.HasCode(err, errcodes.MissionNotFound))
	})
}
