package statestore

import (
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"market_sim/internal/domain"
	"market_sim/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// maxTxAttempts bounds the optimistic retry loop. A conflict past this budget
// means pathological contention and surfaces as WriteConflict.
const maxTxAttempts = 64

// Store wraps the shared state store client with the conditional-transaction
// contract every ledger in the system relies on: read, check, mutate and
// write in one commit, retried transparently on concurrent writers.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Client() *redis.Client {
	return s.rdb
}

// Atomic runs fn under WATCH of the given keys and retries it while
// concurrent commits invalidate the watched state. fn must re-read every
// watched key on each attempt and queue its writes via tx.TxPipelined.
func (s *Store) Atomic(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.rdb.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return domain.NewError(errcodes.WriteConflict, "transaction retry budget exhausted")
}

// Subscribe opens a push subscription on a pub/sub channel. The returned
// channel is closed when ctx is cancelled.
func (s *Store) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := s.rdb.Subscribe(ctx, channel)

	// Wait for the subscription confirmation so callers never miss commits
	// published after Subscribe returns.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, domain.WrapError(err, errcodes.InternalServerError, "subscribe "+channel)
	}

	out := make(chan []byte, 128)

	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
