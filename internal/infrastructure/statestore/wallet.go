package statestore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

const walletIndexKey = "wallets:index"

func walletKey(userID string) string {
	return "wallet:" + userID
}

// WalletStore keeps one JSON record per participant and mutates it only
// through atomic read-modify-write transactions. Multi-party operations
// watch every involved record and commit all writes together.
type WalletStore struct {
	store *Store

	// startingBalance is granted to every wallet on first touch.
	startingBalance float64
}

func NewWalletStore(store *Store, startingBalance float64) *WalletStore {
	return &WalletStore{store: store, startingBalance: startingBalance}
}

// Get reads a wallet without creating it.
func (ws *WalletStore) Get(ctx context.Context, userID string) (*entity.Wallet, error) {
	payload, err := ws.store.Client().Get(ctx, walletKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewError(errcodes.WalletNotFound, "wallet not found: "+userID)
	}
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "read wallet")
	}

	return unmarshalWallet(payload)
}

// Update atomically applies fn to one wallet, creating it with the default
// starting balance on first touch. When fn returns an error nothing is
// written.
func (ws *WalletStore) Update(ctx context.Context, userID string, fn func(w *entity.Wallet) error) error {
	return ws.store.Atomic(ctx, func(tx *redis.Tx) error {
		wallet, err := ws.readWallet(ctx, tx, userID)
		if err != nil {
			return err
		}

		if err := fn(wallet); err != nil {
			return err
		}

		return ws.writeWallets(ctx, tx, wallet)
	}, walletKey(userID))
}

// UpdatePair atomically applies fn to two wallets in one commit. Either both
// records are written or neither is; this is what keeps transfer and trade
// conservation invariants intact under racing writers.
func (ws *WalletStore) UpdatePair(
	ctx context.Context,
	firstID, secondID string,
	fn func(first, second *entity.Wallet) error,
) error {
	if firstID == secondID {
		return domain.NewError(errcodes.SelfReference, "operation requires two distinct wallets")
	}

	return ws.store.Atomic(ctx, func(tx *redis.Tx) error {
		first, err := ws.readWallet(ctx, tx, firstID)
		if err != nil {
			return err
		}

		second, err := ws.readWallet(ctx, tx, secondID)
		if err != nil {
			return err
		}

		if err := fn(first, second); err != nil {
			return err
		}

		return ws.writeWallets(ctx, tx, first, second)
	}, walletKey(firstID), walletKey(secondID))
}

// Users lists every user that ever touched a wallet; the mining loop walks
// this set on each tick.
func (ws *WalletStore) Users(ctx context.Context) ([]string, error) {
	users, err := ws.store.Client().SMembers(ctx, walletIndexKey).Result()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "list wallets")
	}

	return users, nil
}

func (ws *WalletStore) writeWallets(ctx context.Context, tx *redis.Tx, wallets ...*entity.Wallet) error {
	payloads := make(map[string][]byte, len(wallets))

	for _, w := range wallets {
		payload, err := json.Marshal(w)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "marshal wallet")
		}
		payloads[w.UserID] = payload
	}

	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for userID, payload := range payloads {
			pipe.Set(ctx, walletKey(userID), payload, 0)
			pipe.SAdd(ctx, walletIndexKey, userID)
		}
		return nil
	})

	return err
}

func (ws *WalletStore) readWallet(ctx context.Context, tx *redis.Tx, userID string) (*entity.Wallet, error) {
	payload, err := tx.Get(ctx, walletKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.NewWallet(userID, ws.startingBalance), nil
	}
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "read wallet")
	}

	return unmarshalWallet(payload)
}

func unmarshalWallet(payload []byte) (*entity.Wallet, error) {
	var wallet entity.Wallet
	if err := json.Unmarshal(payload, &wallet); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "unmarshal wallet")
	}

	wallet.Normalize()

	return &wallet, nil
}
