package market

import (
	"context"
	"fmt"
	"time"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/internal/domain/value"
	"market_sim/internal/infrastructure/catalog"
	"market_sim/internal/metrics"
	"market_sim/pkg/errcodes"
)

// StockLedger is the conditional-transaction contract of the stock store.
// Reserve fails with InsufficientStock when the precondition does not hold;
// both operations apply the injected pricing rule to the post-commit stock.
type StockLedger interface {
	Reserve(ctx context.Context, product entity.Product, qty int, price func(stock int) float64) (entity.PriceUpdate, error)
	Release(ctx context.Context, product entity.Product, qty int, price func(stock int) float64) (entity.PriceUpdate, error)
	Current(ctx context.Context, product entity.Product) (int, error)
}

type Feed interface {
	Append(ctx context.Context, event entity.TradeEvent) error
}

type WalletLedger interface {
	Update(ctx context.Context, userID string, fn func(w *entity.Wallet) error) error
}

// Service owns every stock and price mutation in the system. Agents and
// humans funnel through the same two ledger operations, so there is exactly
// one pricing rule and one concurrency discipline.
type Service struct {
	catalog *catalog.Catalog
	ledger  StockLedger
	feed    Feed
	wallets WalletLedger
}

func NewService(
	cat *catalog.Catalog,
	ledger StockLedger,
	feed Feed,
	wallets WalletLedger,
) *Service {
	return &Service{
		catalog: cat,
		ledger:  ledger,
		feed:    feed,
		wallets: wallets,
	}
}

// CurrentPrice derives the price from the committed stock without mutating
// anything.
func (s *Service) CurrentPrice(ctx context.Context, productID string) (entity.PriceUpdate, error) {
	product, err := s.catalog.Product(productID)
	if err != nil {
		return entity.PriceUpdate{}, err
	}

	stock, err := s.ledger.Current(ctx, product)
	if err != nil {
		return entity.PriceUpdate{}, fmt.Errorf("current stock: %w", err)
	}

	return entity.PriceUpdate{
		ProductID: product.ID,
		Stock:     stock,
		Price:     Price(product.BasePrice, stock, product.MaxStock),
		UpdatedAt: time.Now(),
	}, nil
}

// ReserveStock conditionally takes qty units off the shelf and publishes the
// recomputed price. The committed update is returned to the caller.
func (s *Service) ReserveStock(ctx context.Context, productID string, qty int, actor value.Actor) (entity.PriceUpdate, error) {
	product, err := s.catalog.Product(productID)
	if err != nil {
		return entity.PriceUpdate{}, err
	}

	if qty <= 0 {
		return entity.PriceUpdate{}, domain.NewError(errcodes.InvalidQuantity, "quantity must be positive")
	}

	update, err := s.ledger.Reserve(ctx, product, qty, func(stock int) float64 {
		return Price(product.BasePrice, stock, product.MaxStock)
	})
	if err != nil {
		if domain.HasCode(err, errcodes.InsufficientStock) {
			metrics.StockConflicts.Inc()
		}
		return entity.PriceUpdate{}, err
	}

	s.publishTrade(ctx, actor, entity.ActionBuy, product.ID, qty, update.Price)

	return update, nil
}

// ReleaseStock puts qty units back (liquidation or agent sell-back) and
// publishes the recomputed price.
func (s *Service) ReleaseStock(ctx context.Context, productID string, qty int, actor value.Actor) (entity.PriceUpdate, error) {
	product, err := s.catalog.Product(productID)
	if err != nil {
		return entity.PriceUpdate{}, err
	}

	if qty <= 0 {
		return entity.PriceUpdate{}, domain.NewError(errcodes.InvalidQuantity, "quantity must be positive")
	}

	update, err := s.ledger.Release(ctx, product, qty, func(stock int) float64 {
		return Price(product.BasePrice, stock, product.MaxStock)
	})
	if err != nil {
		return entity.PriceUpdate{}, err
	}

	s.publishTrade(ctx, actor, entity.ActionSell, product.ID, qty, update.Price)

	return update, nil
}

// publishTrade appends to the activity feed. The feed is observability only,
// so a failed append never fails the trade that already committed.
func (s *Service) publishTrade(ctx context.Context, actor value.Actor, action entity.TradeAction, productID string, qty int, price float64) {
	metrics.TradesTotal.WithLabelValues(string(action), actorLabel(actor)).Inc()
	metrics.ProductPrice.WithLabelValues(productID).Set(price)

	event := entity.TradeEvent{
		Actor:     actor.Label,
		Bot:       actor.Bot,
		Action:    action,
		ProductID: productID,
		Quantity:  qty,
		Price:     price,
		CreatedAt: time.Now(),
	}

	if err := s.feed.Append(ctx, event); err != nil {
		logger(ctx).Error("feed append failed", "product_id", productID, "error", err)
	}
}

func actorLabel(actor value.Actor) string {
	if actor.Bot {
		return "bot"
	}
	return "user"
}

// Products lists the catalog for read surfaces.
func (s *Service) Products() []entity.Product {
	return s.catalog.Products()
}
