package application

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"market_sim/internal/config"
	"market_sim/internal/domain/service/crypto"
	"market_sim/internal/domain/service/market"
	"market_sim/internal/domain/service/mining"
	"market_sim/internal/domain/service/wallet"
	"market_sim/internal/infrastructure/catalog"
	"market_sim/internal/infrastructure/persistence"
	"market_sim/internal/infrastructure/pricewatch"
	"market_sim/internal/infrastructure/statestore"
	"market_sim/internal/server"
	"market_sim/internal/transport/tasks"
	"market_sim/internal/worker"
	"market_sim/pkg/application/connectors"
	"market_sim/pkg/application/modules"
	"market_sim/pkg/logx"
	"market_sim/pkg/middlewarex"
)

const (
	appName    = "market_sim"
	appVersion = "1.0.0"

	defaultQueue = "default"

	logFieldMaxLen = 2048
)

func Run(ctx context.Context) error { //nolint:funlen
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	// Connectors.
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	rds := &connectors.Redis{
		Address:        cfg.Redis.Addr,
		Password:       cfg.Redis.Password,
		DatabaseNumber: cfg.Redis.DB,
	}
	rdb := rds.Client(ctx)
	defer rds.Close(ctx)

	// Catalog: read once, immutable afterwards.
	productRepo := persistence.NewProductRepository(db)
	missionRepo := persistence.NewMissionRepository(db)

	products, err := productRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("productRepo.List: %w", err)
	}

	missions, err := missionRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("missionRepo.List: %w", err)
	}

	cat := catalog.New(products, missions)
	logger(ctx).Info("catalog loaded", "products", len(products), "missions", len(missions))

	// State store ledgers.
	store := statestore.New(rdb)
	stockStore := statestore.NewStockStore(store)
	walletStore := statestore.NewWalletStore(store, cfg.Market.StartingBalance)
	feedStore := statestore.NewFeedStore(store)
	cryptoStore := statestore.NewCryptoStore(store)

	// Domain services.
	cryptoService := crypto.NewService(cryptoStore)
	if err := cryptoService.Seed(ctx); err != nil {
		return fmt.Errorf("cryptoService.Seed: %w", err)
	}

	marketService := market.NewService(cat, stockStore, feedStore, walletStore)
	walletService := wallet.NewService(walletStore, cat, cryptoService)
	miningService := mining.NewService(walletStore, cat, cryptoService)

	mirror := pricewatch.NewMirror(stockStore)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Workers.
	agentPool := worker.NewAgentPool(marketService, cat.Products(), cfg.Agents.PoolSize)
	cryptoTicker := worker.NewCryptoTicker(cryptoService, cfg.Crypto.Interval)
	miner := worker.NewMiner(walletStore, asynqClient, cfg.Mining.Interval)

	if cfg.Agents.AutoStart {
		if err := agentPool.Start(ctx); err != nil {
			return fmt.Errorf("agentPool.Start: %w", err)
		}
		defer agentPool.Stop()
	}

	// HTTP surface.
	srv := server.NewServer(
		server.NewMarketServer(marketService, mirror, feedStore),
		server.NewWalletServer(walletService, cat),
		server.NewCryptoServer(cryptoService),
		server.NewAdminServer(ctx, agentPool),
	)

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.Recovery,
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := mirror.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("mirror.Run: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := cryptoTicker.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("cryptoTicker.Run: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := miner.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("miner.Run: %w", err)
		}
		return nil
	})

	modules.HTTPServer{ShutdownTimeout: cfg.Server.ShutdownTimeout}.Run(ctx, g, &http.Server{ //nolint:exhaustruct
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	})

	modules.AsynqServer{
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Addr,
		RedisDB:       cfg.Redis.DB,
	}.Run(ctx, g,
		modules.AsynqQueues{defaultQueue: cfg.Mining.Concurrency},
		modules.AsynqHandler{
			Pattern: tasks.TypeAccrue,
			Handle:  tasks.NewHandler(miningService).HandleAccrue,
		},
	)

	modules.MetricServer{ListenAddress: cfg.Server.MetricsAddr}.Run(ctx, g)

	modules.ProbeServer{
		Name:          appName,
		Version:       appVersion,
		ListenAddress: cfg.Server.ProbeAddr,
	}.Run(ctx, g)

	return g.Wait()
}
