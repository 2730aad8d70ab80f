package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	cat := New(
		[]entity.Product{
			{ID: "sword", Name: "Sword", BasePrice: 10, MaxStock: 100},
			{ID: "rig", Name: "Mining Rig", BasePrice: 200, MaxStock: 20, YieldRate: 4},
		},
		[]entity.Mission{
			{ActionID: "first_trade", Title: "First Trade", Reward: 50, XP: 10, Recurrence: entity.MissionOneTime},
		},
	)

	t.Run("lookup", func(t *testing.T) {
		t.Parallel()

		product, err := cat.Product("sword")
		require.NoError(t, err)
		assert.Equal(t, "Sword", product.Name)

		_, err = cat.Product("ghost")
		assert.True(t, domain.HasCode(err, errcodes.ProductNotFound))
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		t.Parallel()

		products := cat.Products()
		require.Len(t, products, 2)
		assert.Equal(t, "sword", products[0].ID)
		assert.Equal(t, "rig", products[1].ID)
	})

	t.Run("yield subset", func(t *testing.T) {
		t.Parallel()

		yielding := cat.YieldProducts()
		require.Len(t, yielding, 1)
		assert.Equal(t, "rig", yielding[0].ID)
	})

	t.Run("missions", func(t *testing.T) {
		t.Parallel()

		mission, err := cat.Mission("first_trade")
		require.NoError(t, err)
		assert.False(t, mission.Repeatable())

		_, err = cat.Mission("ghost")
		assert.True(t, domain.HasCode(err, errcodes.MissionNotFound))
	})
}
