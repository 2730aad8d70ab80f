package pricewatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

type fakeSubscription struct {
	ch chan entity.PriceUpdate
}

func (f *fakeSubscription) SubscribePrices(context.Context) (<-chan entity.PriceUpdate, error) {
	return f.ch, nil
}

func TestMirror(t *testing.T) {
	t.Parallel()

	t.Run("miss before any update", func(t *testing.T) {
		t.Parallel()

		mirror := NewMirror(&fakeSubscription{})

		_, err := mirror.Last("sword")
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, errcodes.NotFound))
	})

	t.Run("keeps the newest committed update", func(t *testing.T) {
		t.Parallel()

		mirror := NewMirror(&fakeSubscription{})
		now := time.Now()

		mirror.apply(entity.PriceUpdate{ProductID: "sword", Stock: 90, Price: 11.5, UpdatedAt: now})
		mirror.apply(entity.PriceUpdate{ProductID: "sword", Stock: 80, Price: 13.0, UpdatedAt: now.Add(time.Second)})

		update, err := mirror.Last("sword")
		require.NoError(t, err)
		assert.InDelta(t, 13.0, update.Price, 1e-9)
	})

	t.Run("discards out-of-order updates", func(t *testing.T) {
		t.Parallel()

		mirror := NewMirror(&fakeSubscription{})
		now := time.Now()

		mirror.apply(entity.PriceUpdate{ProductID: "sword", Price: 13.0, UpdatedAt: now})
		mirror.apply(entity.PriceUpdate{ProductID: "sword", Price: 11.5, UpdatedAt: now.Add(-time.Second)})

		update, err := mirror.Last("sword")
		require.NoError(t, err)
		assert.InDelta(t, 13.0, update.Price, 1e-9)
	})

	t.Run("run consumes the subscription until cancel", func(t *testing.T) {
		t.Parallel()

		sub := &fakeSubscription{ch: make(chan entity.PriceUpdate, 1)}
		mirror := NewMirror(sub)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- mirror.Run(ctx)
		}()

		sub.ch <- entity.PriceUpdate{ProductID: "shield", Price: 20, UpdatedAt: time.Now()}

		require.Eventually(t, func() bool {
			_, err := mirror.Last("shield")
			return err == nil
		}, time.Second, 10*time.Millisecond)

		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("mirror did not stop after cancel")
		}
	})

	t.Run("snapshot lists fresh entries", func(t *testing.T) {
		t.Parallel()

		mirror := NewMirror(&fakeSubscription{})
		now := time.Now()

		mirror.apply(entity.PriceUpdate{ProductID: "sword", Price: 11.5, UpdatedAt: now})
		mirror.apply(entity.PriceUpdate{ProductID: "shield", Price: 20, UpdatedAt: now})

		assert.Len(t, mirror.Snapshot(), 2)
	})
}
