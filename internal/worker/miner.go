package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"market_sim/internal/transport/tasks"
)

// UserIndex lists every user with a wallet.
type UserIndex interface {
	Users(ctx context.Context) ([]string, error)
}

// Miner fans the periodic yield tick out as one accrual task per user. The
// accrual itself runs in the asynq worker, so a slow wallet transaction never
// delays the next tick.
type Miner struct {
	users    UserIndex
	client   *asynq.Client
	interval time.Duration
}

func NewMiner(users UserIndex, client *asynq.Client, interval time.Duration) *Miner {
	return &Miner{
		users:    users,
		client:   client,
		interval: interval,
	}
}

func (m *Miner) Run(ctx context.Context) error {
	logger(ctx).Info("mining scheduler started", "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("mining scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Miner) tick(ctx context.Context) {
	users, err := m.users.Users(ctx)
	if err != nil {
		logger(ctx).Error("list users for accrual", "error", err)
		return
	}

	for _, userID := range users {
		task, err := tasks.NewAccrueTask(userID)
		if err != nil {
			logger(ctx).Error("build accrual task", "user_id", userID, "error", err)
			continue
		}

		// A tick dropped for one user self-heals on the next one.
		if _, err := m.client.EnqueueContext(ctx, task, asynq.MaxRetry(1)); err != nil {
			logger(ctx).Error("enqueue accrual task", "user_id", userID, "error", err)
		}
	}
}
