package statestore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

// CryptoChannel carries every committed CryptoAsset step as JSON.
const CryptoChannel = "crypto:prices"

func cryptoKey(symbol string) string {
	return "crypto:" + symbol
}

// CryptoStore keeps one record per simulated symbol. Steps of the price walk
// go through the same conditional-transaction contract as the stock ledger,
// so two ticker instances can never double-apply a step.
type CryptoStore struct {
	store *Store
}

func NewCryptoStore(store *Store) *CryptoStore {
	return &CryptoStore{store: store}
}

// Seed writes the initial basket, keeping any record that already exists.
func (cs *CryptoStore) Seed(ctx context.Context, assets []entity.CryptoAsset) error {
	for _, asset := range assets {
		payload, err := json.Marshal(asset)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "marshal crypto asset")
		}

		if err := cs.store.Client().SetNX(ctx, cryptoKey(asset.Symbol), payload, 0).Err(); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "seed crypto asset")
		}
	}

	return nil
}

// Step atomically applies one walk step to a symbol and publishes the result.
func (cs *CryptoStore) Step(
	ctx context.Context,
	symbol string,
	step func(asset *entity.CryptoAsset),
) (entity.CryptoAsset, error) {
	var stepped entity.CryptoAsset

	err := cs.store.Atomic(ctx, func(tx *redis.Tx) error {
		asset, err := readCrypto(ctx, tx, symbol)
		if err != nil {
			return err
		}

		step(asset)
		stepped = *asset

		payload, err := json.Marshal(asset)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "marshal crypto asset")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cryptoKey(symbol), payload, 0)
			pipe.Publish(ctx, CryptoChannel, payload)
			return nil
		})
		return err
	}, cryptoKey(symbol))
	if err != nil {
		return entity.CryptoAsset{}, err
	}

	return stepped, nil
}

// Get reads one symbol.
func (cs *CryptoStore) Get(ctx context.Context, symbol string) (entity.CryptoAsset, error) {
	payload, err := cs.store.Client().Get(ctx, cryptoKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.CryptoAsset{}, domain.NewError(errcodes.UnknownSymbol, "unknown symbol: "+symbol)
	}
	if err != nil {
		return entity.CryptoAsset{}, domain.WrapError(err, errcodes.InternalServerError, "read crypto asset")
	}

	var asset entity.CryptoAsset
	if err := json.Unmarshal(payload, &asset); err != nil {
		return entity.CryptoAsset{}, domain.WrapError(err, errcodes.InternalServerError, "unmarshal crypto asset")
	}

	return asset, nil
}

// List reads the whole basket with one pipeline.
func (cs *CryptoStore) List(ctx context.Context, symbols []string) ([]entity.CryptoAsset, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	pipe := cs.store.Client().Pipeline()
	cmds := make([]*redis.StringCmd, len(symbols))
	for i, symbol := range symbols {
		cmds[i] = pipe.Get(ctx, cryptoKey(symbol))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "read crypto basket")
	}

	assets := make([]entity.CryptoAsset, 0, len(symbols))

	for _, cmd := range cmds {
		payload, err := cmd.Bytes()
		if err != nil {
			continue
		}

		var asset entity.CryptoAsset
		if err := json.Unmarshal(payload, &asset); err != nil {
			continue
		}

		assets = append(assets, asset)
	}

	return assets, nil
}

func readCrypto(ctx context.Context, tx *redis.Tx, symbol string) (*entity.CryptoAsset, error) {
	payload, err := tx.Get(ctx, cryptoKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewError(errcodes.UnknownSymbol, "unknown symbol: "+symbol)
	}
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "read crypto asset")
	}

	var asset entity.CryptoAsset
	if err := json.Unmarshal(payload, &asset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "unmarshal crypto asset")
	}

	return &asset, nil
}
