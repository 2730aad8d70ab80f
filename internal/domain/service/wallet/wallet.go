package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/internal/infrastructure/catalog"
	"market_sim/pkg/errcodes"
)

// Ledger is the atomic read-modify-write contract of the wallet store. Every
// mutation of a wallet in the system goes through Update or UpdatePair;
// nothing writes balances directly.
type Ledger interface {
	Get(ctx context.Context, userID string) (*entity.Wallet, error)
	Update(ctx context.Context, userID string, fn func(w *entity.Wallet) error) error
	UpdatePair(ctx context.Context, firstID, secondID string, fn func(first, second *entity.Wallet) error) error
}

// CryptoPrices exposes the current simulated price of a symbol.
type CryptoPrices interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

type Service struct {
	ledger  Ledger
	catalog *catalog.Catalog
	prices  CryptoPrices
}

func NewService(ledger Ledger, cat *catalog.Catalog, prices CryptoPrices) *Service {
	return &Service{
		ledger:  ledger,
		catalog: cat,
		prices:  prices,
	}
}

// GetWallet returns the user's wallet, creating it on first authentication.
func (s *Service) GetWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	wallet, err := s.ledger.Get(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !domain.HasCode(err, errcodes.WalletNotFound) {
		return nil, err
	}

	// First touch: persist the default record, then read it back.
	if err := s.ledger.Update(ctx, userID, func(w *entity.Wallet) error {
		return nil
	}); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	return s.ledger.Get(ctx, userID)
}

// TransferCredits moves amount from sender to recipient in one commit. The
// sum of balance deltas across the commit is exactly zero (privileged
// sentinel accounts excepted), and a matched transaction pair is appended on
// both sides.
func (s *Service) TransferCredits(ctx context.Context, senderID, recipientID string, amount float64) error {
	if amount <= 0 {
		return domain.NewError(errcodes.ValidationError, "transfer amount must be positive")
	}
	if senderID == recipientID {
		return domain.NewError(errcodes.SelfReference, "cannot transfer to yourself")
	}

	return s.ledger.UpdatePair(ctx, senderID, recipientID, func(sender, recipient *entity.Wallet) error {
		if !sender.CanSpend(amount) {
			return domain.NewError(errcodes.InsufficientFunds,
				fmt.Sprintf("balance %.2f < transfer %.2f", sender.Balance, amount))
		}

		sender.Spend(amount)
		recipient.Credit(amount)

		sender.Append(newTx(entity.TxTransferOut, -amount, "transfer to "+recipientID))
		recipient.Append(newTx(entity.TxTransferIn, amount, "transfer from "+senderID))

		touch(sender, recipient)

		return nil
	})
}

// TransferItem gifts one owned unit of a product to another user. It is a
// peer gift, not a market trade: no stock or price side effects.
func (s *Service) TransferItem(ctx context.Context, senderID, recipientID, productID string) error {
	if senderID == recipientID {
		return domain.NewError(errcodes.SelfReference, "cannot gift to yourself")
	}

	if _, err := s.catalog.Product(productID); err != nil {
		return err
	}

	return s.ledger.UpdatePair(ctx, senderID, recipientID, func(sender, recipient *entity.Wallet) error {
		if sender.Owned(productID) < 1 {
			return domain.NewError(errcodes.ItemNotOwned, "you do not own "+productID)
		}

		sender.Sold[productID]++
		recipient.GiftedIn[productID]++

		sender.Append(newTx(entity.TxGiftOut, 0, "gifted "+productID+" to "+recipientID))
		recipient.Append(newTx(entity.TxGiftIn, 0, "received "+productID+" from "+senderID))

		touch(sender, recipient)

		return nil
	})
}

// ExecutePvPTrade buys one unit of a product straight out of another user's
// holdings: debit, credit, item transfer and the matched transaction pair
// commit together or not at all.
func (s *Service) ExecutePvPTrade(ctx context.Context, buyerID, sellerID, productID string, price float64) error {
	if price <= 0 {
		return domain.NewError(errcodes.ValidationError, "trade price must be positive")
	}
	if buyerID == sellerID {
		return domain.NewError(errcodes.SelfReference, "cannot trade with yourself")
	}

	if _, err := s.catalog.Product(productID); err != nil {
		return err
	}

	return s.ledger.UpdatePair(ctx, buyerID, sellerID, func(buyer, seller *entity.Wallet) error {
		if !buyer.CanSpend(price) {
			return domain.NewError(errcodes.InsufficientFunds,
				fmt.Sprintf("balance %.2f < trade price %.2f", buyer.Balance, price))
		}
		if seller.Owned(productID) < 1 {
			return domain.NewError(errcodes.ItemNotOwned, "seller does not own "+productID)
		}

		buyer.Spend(price)
		seller.Credit(price)

		seller.Sold[productID]++
		buyer.GiftedIn[productID]++

		buyer.Append(newTx(entity.TxPvPBuy, -price, fmt.Sprintf("pvp buy %s from %s", productID, sellerID)))
		seller.Append(newTx(entity.TxPvPSell, price, fmt.Sprintf("pvp sell %s to %s", productID, buyerID)))

		touch(buyer, seller)

		return nil
	})
}

func newTx(kind entity.TransactionKind, amount float64, description string) entity.Transaction {
	return entity.Transaction{
		ID:          xid.New().String(),
		Kind:        kind,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

func touch(wallets ...*entity.Wallet) {
	now := time.Now()
	for _, w := range wallets {
		w.UpdatedAt = now
	}
}
