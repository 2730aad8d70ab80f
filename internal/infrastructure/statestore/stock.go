package statestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

const (
	// PriceChannel carries every committed PriceUpdate as JSON.
	PriceChannel = "market:prices"

	// releaseCapFactor lets sell-backs oversupply a product, but only so far.
	releaseCapFactor = 1.5
)

func stockKey(productID string) string {
	return "stock:" + productID
}

func priceKey(productID string) string {
	return "price:" + productID
}

// StockStore is the authoritative per-product inventory counter. Every
// mutation is a single conditional transaction: precondition check, stock
// write, price recomputation and publish commit together or not at all.
type StockStore struct {
	store *Store
}

func NewStockStore(store *Store) *StockStore {
	return &StockStore{store: store}
}

// Reserve conditionally decrements stock by qty. The price function is the
// single pricing rule; it is applied to the post-commit stock value inside
// the same transaction.
func (ss *StockStore) Reserve(
	ctx context.Context,
	product entity.Product,
	qty int,
	price func(stock int) float64,
) (entity.PriceUpdate, error) {
	var update entity.PriceUpdate

	err := ss.store.Atomic(ctx, func(tx *redis.Tx) error {
		stock, err := readStock(ctx, tx, product)
		if err != nil {
			return err
		}

		if stock < qty {
			return domain.NewError(errcodes.InsufficientStock,
				fmt.Sprintf("product %s: stock %d < requested %d", product.ID, stock, qty))
		}

		update = entity.PriceUpdate{
			ProductID: product.ID,
			Stock:     stock - qty,
			Price:     price(stock - qty),
			UpdatedAt: time.Now(),
		}

		return ss.commit(ctx, tx, update)
	}, stockKey(product.ID))
	if err != nil {
		return entity.PriceUpdate{}, err
	}

	return update, nil
}

// Release increments stock by qty, capped at maxStock x 1.5 so agent
// sell-backs cannot flood a product without bound.
func (ss *StockStore) Release(
	ctx context.Context,
	product entity.Product,
	qty int,
	price func(stock int) float64,
) (entity.PriceUpdate, error) {
	var update entity.PriceUpdate

	err := ss.store.Atomic(ctx, func(tx *redis.Tx) error {
		stock, err := readStock(ctx, tx, product)
		if err != nil {
			return err
		}

		next := stock + qty
		if ceiling := int(float64(product.MaxStock) * releaseCapFactor); next > ceiling {
			next = ceiling
		}

		update = entity.PriceUpdate{
			ProductID: product.ID,
			Stock:     next,
			Price:     price(next),
			UpdatedAt: time.Now(),
		}

		return ss.commit(ctx, tx, update)
	}, stockKey(product.ID))
	if err != nil {
		return entity.PriceUpdate{}, err
	}

	return update, nil
}

// Current reads the committed stock, seeding the record to max capacity on
// first observation.
func (ss *StockStore) Current(ctx context.Context, product entity.Product) (int, error) {
	val, err := ss.store.Client().Get(ctx, stockKey(product.ID)).Int()
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "read stock")
	}

	// First observation: seed once, losing the race is fine.
	ok, err := ss.store.Client().SetNX(ctx, stockKey(product.ID), product.MaxStock, 0).Result()
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "seed stock")
	}
	if ok {
		return product.MaxStock, nil
	}

	val, err = ss.store.Client().Get(ctx, stockKey(product.ID)).Int()
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "read stock after seed")
	}

	return val, nil
}

// commit queues the stock write, the derived price hash and the pub/sub
// notification into the transaction pipeline.
func (ss *StockStore) commit(ctx context.Context, tx *redis.Tx, update entity.PriceUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "marshal price update")
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, stockKey(update.ProductID), update.Stock, 0)
		pipe.HSet(ctx, priceKey(update.ProductID), map[string]any{
			"price": strconv.FormatFloat(update.Price, 'f', -1, 64),
			"stock": strconv.Itoa(update.Stock),
			"ts":    strconv.FormatInt(update.UpdatedAt.UnixNano(), 10),
		})
		pipe.Publish(ctx, PriceChannel, payload)
		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

// readStock returns the committed stock inside a transaction, treating an
// absent record as a full warehouse (seeded by the commit that follows).
func readStock(ctx context.Context, tx *redis.Tx, product entity.Product) (int, error) {
	val, err := tx.Get(ctx, stockKey(product.ID)).Int()
	if errors.Is(err, redis.Nil) {
		return product.MaxStock, nil
	}
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "read stock")
	}

	return val, nil
}

// SubscribePrices converts the raw price channel into typed updates.
func (ss *StockStore) SubscribePrices(ctx context.Context) (<-chan entity.PriceUpdate, error) {
	raw, err := ss.store.Subscribe(ctx, PriceChannel)
	if err != nil {
		return nil, err
	}

	out := make(chan entity.PriceUpdate, 128)

	go func() {
		defer close(out)

		for payload := range raw {
			var update entity.PriceUpdate
			if err := json.Unmarshal(payload, &update); err != nil {
				logger(ctx).Error("malformed price update", "error", err)
				continue
			}

			select {
			case out <- update:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
