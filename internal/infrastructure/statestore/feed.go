package statestore

import (
	"context"

	"github.com/redis/go-redis/v9"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

const (
	feedStream = "market:feed"

	// feedMaxLen bounds the activity feed via XADD MAXLEN ~.
	feedMaxLen int64 = 1000
)

// FeedStore is the append-only Global Activity Feed, kept as a capped stream.
// It exists for observability; no balance or stock is ever derived from it.
type FeedStore struct {
	store *Store
}

func NewFeedStore(store *Store) *FeedStore {
	return &FeedStore{store: store}
}

func (fs *FeedStore) Append(ctx context.Context, event entity.TradeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "marshal trade event")
	}

	args := &redis.XAddArgs{
		Stream: feedStream,
		MaxLen: feedMaxLen,
		Approx: true,
		Values: map[string]any{"payload": payload},
	}

	if err := fs.store.Client().XAdd(ctx, args).Err(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "append trade event")
	}

	return nil
}

// Recent returns up to count events, newest first.
func (fs *FeedStore) Recent(ctx context.Context, count int) ([]entity.TradeEvent, error) {
	msgs, err := fs.store.Client().XRevRangeN(ctx, feedStream, "+", "-", int64(count)).Result()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "read feed")
	}

	events := make([]entity.TradeEvent, 0, len(msgs))

	for _, msg := range msgs {
		raw, ok := msg.Values["payload"].(string)
		if !ok {
			continue
		}

		var event entity.TradeEvent
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			continue
		}

		events = append(events, event)
	}

	return events, nil
}
