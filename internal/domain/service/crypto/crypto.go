package crypto

import (
	"context"
	"math/rand"
	"time"

	"market_sim/internal/domain/entity"
	"market_sim/internal/metrics"
)

const (
	// MiningSymbol is the coin passive yield accrues into.
	MiningSymbol = "NOVA"

	// maxStepRatio bounds one walk step to +/-5% of the current price.
	maxStepRatio = 0.05

	// floorRatio keeps every symbol strictly positive relative to its
	// initial price.
	floorRatio = 0.1

	historyLimit = 64
)

// DefaultBasket is the fixed set of tradable symbols. There is no scarcity
// coupling; each price walks independently.
func DefaultBasket() []entity.CryptoAsset {
	now := time.Now()

	assets := []entity.CryptoAsset{
		{Symbol: MiningSymbol, Name: "Novacoin", InitialPrice: 120},
		{Symbol: "PIXEL", Name: "Pixel Token", InitialPrice: 3.5},
		{Symbol: "QUARK", Name: "Quark", InitialPrice: 42},
		{Symbol: "EMBER", Name: "Ember", InitialPrice: 0.85},
	}

	for i := range assets {
		assets[i].Price = assets[i].InitialPrice
		assets[i].History = []float64{assets[i].InitialPrice}
		assets[i].UpdatedAt = now
	}

	return assets
}

// Store is the conditional-transaction contract of the crypto store.
type Store interface {
	Seed(ctx context.Context, assets []entity.CryptoAsset) error
	Step(ctx context.Context, symbol string, step func(asset *entity.CryptoAsset)) (entity.CryptoAsset, error)
	Get(ctx context.Context, symbol string) (entity.CryptoAsset, error)
	List(ctx context.Context, symbols []string) ([]entity.CryptoAsset, error)
}

// Service drives the simulated crypto market: an independent bounded random
// walk per symbol, stepped by a single ticker goroutine.
type Service struct {
	store   Store
	symbols []string
	random  *rand.Rand
}

func NewService(store Store) *Service {
	basket := DefaultBasket()

	symbols := make([]string, len(basket))
	for i, asset := range basket {
		symbols[i] = asset.Symbol
	}

	return &Service{
		store:   store,
		symbols: symbols,
		random:  rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // simulation, not crypto
	}
}

// Seed writes the initial basket, keeping already-present records.
func (s *Service) Seed(ctx context.Context) error {
	return s.store.Seed(ctx, DefaultBasket())
}

// Tick applies one walk step to every symbol. Called from one goroutine only;
// the underlying store transaction keeps concurrent ticker instances from
// double-stepping.
func (s *Service) Tick(ctx context.Context) error {
	for _, symbol := range s.symbols {
		stepped, err := s.store.Step(ctx, symbol, func(asset *entity.CryptoAsset) {
			StepPrice(s.random, asset)
		})
		if err != nil {
			return err
		}

		metrics.CryptoPrice.WithLabelValues(symbol).Set(stepped.Price)
	}

	return nil
}

// Price returns the current simulated price of a symbol.
func (s *Service) Price(ctx context.Context, symbol string) (float64, error) {
	asset, err := s.store.Get(ctx, symbol)
	if err != nil {
		return 0, err
	}

	return asset.Price, nil
}

// Assets lists the whole basket.
func (s *Service) Assets(ctx context.Context) ([]entity.CryptoAsset, error) {
	return s.store.List(ctx, s.symbols)
}

// StepPrice applies one bounded random-walk step in place: a uniform drift in
// [-maxStepRatio, +maxStepRatio], floored at a fraction of the initial price
// so no symbol ever reaches zero.
func StepPrice(random *rand.Rand, asset *entity.CryptoAsset) {
	drift := (random.Float64()*2 - 1) * maxStepRatio

	price := asset.Price * (1 + drift)

	if floor := asset.InitialPrice * floorRatio; price < floor {
		price = floor
	}

	asset.Price = price
	asset.History = append(asset.History, price)
	if len(asset.History) > historyLimit {
		asset.History = asset.History[len(asset.History)-historyLimit:]
	}
	asset.UpdatedAt = time.Now()
}
