package entity

import "time"

type TransactionKind string

const (
	TxPurchase    TransactionKind = "purchase"
	TxSale        TransactionKind = "sale"
	TxTransferIn  TransactionKind = "transfer_in"
	TxTransferOut TransactionKind = "transfer_out"
	TxGiftIn      TransactionKind = "gift_in"
	TxGiftOut     TransactionKind = "gift_out"
	TxPvPBuy      TransactionKind = "pvp_buy"
	TxPvPSell     TransactionKind = "pvp_sell"
	TxReward      TransactionKind = "reward"
	TxCryptoBuy   TransactionKind = "crypto_buy"
	TxCryptoSell  TransactionKind = "crypto_sell"
)

// Transaction is an immutable wallet ledger entry. Amount is signed: negative
// for money leaving the wallet, positive for money (or yield) entering it.
type Transaction struct {
	ID          string          `json:"id"`
	Kind        TransactionKind `json:"kind"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
