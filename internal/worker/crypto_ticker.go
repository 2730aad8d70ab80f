package worker

import (
	"context"
	"time"

	crypto "market_sim/internal/domain/service/crypto"
)

// CryptoTicker steps the simulated crypto walk on a fixed period. One
// instance per process is enough; the store transaction protects against a
// second instance double-stepping.
type CryptoTicker struct {
	service  *crypto.Service
	interval time.Duration
}

func NewCryptoTicker(service *crypto.Service, interval time.Duration) *CryptoTicker {
	return &CryptoTicker{
		service:  service,
		interval: interval,
	}
}

func (t *CryptoTicker) Run(ctx context.Context) error {
	logger(ctx).Info("crypto ticker started", "interval", t.interval)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("crypto ticker stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := t.service.Tick(ctx); err != nil && ctx.Err() == nil {
				logger(ctx).Error("crypto tick failed", "error", err)
			}
		}
	}
}
