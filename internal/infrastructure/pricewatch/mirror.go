package pricewatch

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

const (
	priceTTL        = time.Minute
	cleanupInterval = 5 * time.Minute
)

// Subscription delivers committed price updates, typically backed by the
// state store's pub/sub channel.
type Subscription interface {
	SubscribePrices(ctx context.Context) (<-chan entity.PriceUpdate, error)
}

// Mirror is a process-local read model of the last committed price per
// product. It only ever reflects published commits, so a read here can be
// stale but never wrong. Entries expire when the feed goes quiet, forcing
// readers back to the authoritative store.
type Mirror struct {
	source Subscription
	cache  *gocache.Cache
}

func NewMirror(source Subscription) *Mirror {
	return &Mirror{
		source: source,
		cache:  gocache.New(priceTTL, cleanupInterval),
	}
}

// Run subscribes to the price channel and applies updates until ctx is
// cancelled.
func (m *Mirror) Run(ctx context.Context) error {
	updates, err := m.source.SubscribePrices(ctx)
	if err != nil {
		return err
	}

	logger(ctx).Info("price mirror started")

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("price mirror stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return ctx.Err()
			}
			m.apply(update)
		}
	}
}

// apply keeps the newest commit per product. Pub/sub delivery is ordered per
// publisher but updates from concurrent transactions can interleave, so the
// timestamp decides.
func (m *Mirror) apply(update entity.PriceUpdate) {
	if current, ok := m.cache.Get(update.ProductID); ok {
		if prev, ok := current.(entity.PriceUpdate); ok && prev.UpdatedAt.After(update.UpdatedAt) {
			return
		}
	}

	m.cache.Set(update.ProductID, update, priceTTL)
}

// Last returns the most recently observed committed price for a product.
func (m *Mirror) Last(productID string) (entity.PriceUpdate, error) {
	val, ok := m.cache.Get(productID)
	if !ok {
		return entity.PriceUpdate{}, domain.NewError(errcodes.NotFound, "no recent price for "+productID)
	}

	update, ok := val.(entity.PriceUpdate)
	if !ok {
		return entity.PriceUpdate{}, domain.NewError(errcodes.InternalServerError, "corrupt mirror entry")
	}

	return update, nil
}

// Snapshot lists every fresh entry, unordered.
func (m *Mirror) Snapshot() []entity.PriceUpdate {
	items := m.cache.Items()
	out := make([]entity.PriceUpdate, 0, len(items))

	for _, item := range items {
		if update, ok := item.Object.(entity.PriceUpdate); ok {
			out = append(out, update)
		}
	}

	return out
}
