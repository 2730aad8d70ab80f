package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"market_sim/internal/domain/entity"
	"market_sim/internal/domain/value"
)

const (
	minActionDelay = 500 * time.Millisecond
	maxActionDelay = 3 * time.Second

	// buyProbability gives agents a slight demand bias so prices trend up
	// over time.
	buyProbability = 0.55

	// spawnStagger spreads agent startup so the pool does not open with a
	// synchronized burst against the state store.
	spawnStagger = 150 * time.Millisecond
)

// agentLabels are reused, non-unique identities shown in the activity feed.
var agentLabels = []string{ //nolint:gochecknoglobals
	"mx_trader", "bargain_bot", "stonk_goblin", "flipper_9000",
	"warehouse_wolf", "penny_pincher", "bulk_buyer", "midnight_scalper",
}

// Market is the only surface agents touch. They own no wallet and never
// affect a user's balance; they exist purely to perturb stock and price.
type Market interface {
	ReserveStock(ctx context.Context, productID string, qty int, actor value.Actor) (entity.PriceUpdate, error)
	ReleaseStock(ctx context.Context, productID string, qty int, actor value.Actor) (entity.PriceUpdate, error)
}

// AgentPool runs N independent trading agents, each on its own unsynchronized
// probabilistic timer. The pool tears down deterministically through its
// context.
type AgentPool struct {
	market   Market
	products []entity.Product
	size     int

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewAgentPool(market Market, products []entity.Product, size int) *AgentPool {
	return &AgentPool{
		market:   market,
		products: products,
		size:     size,
	}
}

func (p *AgentPool) Size() int {
	return p.size
}

// Start launches the pool in the background. It fails when the pool is
// already running.
func (p *AgentPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return errors.New("agent pool is already running")
	}
	if len(p.products) == 0 {
		return errors.New("agent pool needs a catalog to trade on")
	}

	poolCtx, cancel := context.WithCancel(ctx)
	p.cancelFunc = cancel
	p.isRunning = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			p.isRunning = false
			p.cancelFunc = nil
			p.mu.Unlock()
		}()

		if err := p.Run(poolCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("agent pool stopped", "error", err)
		}
	}()

	return nil
}

// Stop cancels the pool and waits for every agent to exit.
func (p *AgentPool) Stop() {
	p.mu.Lock()

	if !p.isRunning {
		p.mu.Unlock()
		return
	}

	if p.cancelFunc != nil {
		p.cancelFunc()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *AgentPool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunning
}

// Run blocks until ctx is cancelled, supervising all agents.
func (p *AgentPool) Run(ctx context.Context) error {
	logger(ctx).Info("agent pool started", "agents", p.size)

	var wg sync.WaitGroup

	for i := 0; i < p.size; i++ {
		// Staggered startup.
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case <-time.After(spawnStagger):
		}

		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			p.runAgent(ctx, rand.New(rand.NewSource(seed))) //nolint:gosec // simulation
		}(time.Now().UnixNano() + int64(i))
	}

	<-ctx.Done()
	wg.Wait()

	logger(ctx).Info("agent pool stopped")

	return ctx.Err()
}

// runAgent is one agent's unbounded loop. Every failure is swallowed: a
// rejected reservation is an expected market outcome, not an error, and must
// never halt the loop or leak to other agents.
func (p *AgentPool) runAgent(ctx context.Context, random *rand.Rand) {
	for {
		delay := minActionDelay + time.Duration(random.Int63n(int64(maxActionDelay-minActionDelay)))

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		p.act(ctx, random)
	}
}

func (p *AgentPool) act(ctx context.Context, random *rand.Rand) {
	product := p.products[random.Intn(len(p.products))]
	actor := value.Bot(agentLabels[random.Intn(len(agentLabels))])

	var err error
	if random.Float64() < buyProbability {
		_, err = p.market.ReserveStock(ctx, product.ID, 1, actor)
	} else {
		_, err = p.market.ReleaseStock(ctx, product.ID, 1, actor)
	}

	if err != nil && ctx.Err() == nil {
		// Expected under contention; keep it out of the error logs.
		logger(ctx).Debug("agent trade rejected",
			"agent", actor.Label,
			"product_id", product.ID,
			"error", fmt.Sprint(err),
		)
	}
}
