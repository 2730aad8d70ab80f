package entity

import "time"

// Wallet is the full economic state of one participant. It is stored as a
// single record in the state store and mutated only through atomic
// read-modify-write transactions; nothing writes individual fields in place.
type Wallet struct {
	UserID   string  `json:"user_id"`
	Balance  float64 `json:"balance"`
	Infinite bool    `json:"infinite,omitempty"` // privileged account, balance never decreases

	Crypto        map[string]float64 `json:"crypto"`
	LifetimeMined float64            `json:"lifetime_mined"`
	LastYieldRate float64            `json:"last_yield_rate"`

	// Ownership derivation inputs (owned = purchased - sold + gifted-in).
	Purchased map[string]int `json:"purchased"`
	Sold      map[string]int `json:"sold"`
	GiftedIn  map[string]int `json:"gifted_in"`

	// Newest-first, append-only.
	Transactions []Transaction `json:"transactions"`

	Friends  []string `json:"friends"`
	Incoming []string `json:"incoming_requests"`
	Outgoing []string `json:"outgoing_requests"`

	XP                int            `json:"xp"`
	CompletedMissions map[string]int `json:"completed_missions"` // actionID -> completions
	ClaimedMissions   map[string]int `json:"claimed_missions"`   // actionID -> claims

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWallet creates a wallet with all maps initialised, so callers never hit
// nil-map writes after unmarshalling older records.
func NewWallet(userID string, startingBalance float64) *Wallet {
	now := time.Now()

	return &Wallet{
		UserID:            userID,
		Balance:           startingBalance,
		Crypto:            map[string]float64{},
		Purchased:         map[string]int{},
		Sold:              map[string]int{},
		GiftedIn:          map[string]int{},
		CompletedMissions: map[string]int{},
		ClaimedMissions:   map[string]int{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Normalize initialises any nil maps on a record read back from the store.
func (w *Wallet) Normalize() {
	if w.Crypto == nil {
		w.Crypto = map[string]float64{}
	}
	if w.Purchased == nil {
		w.Purchased = map[string]int{}
	}
	if w.Sold == nil {
		w.Sold = map[string]int{}
	}
	if w.GiftedIn == nil {
		w.GiftedIn = map[string]int{}
	}
	if w.CompletedMissions == nil {
		w.CompletedMissions = map[string]int{}
	}
	if w.ClaimedMissions == nil {
		w.ClaimedMissions = map[string]int{}
	}
}

// Owned derives the effective owned quantity of a product. The derivation can
// never go negative: a sale is only recorded against a prior purchase or gift.
func (w *Wallet) Owned(productID string) int {
	owned := w.Purchased[productID] - w.Sold[productID] + w.GiftedIn[productID]
	if owned < 0 {
		return 0
	}
	return owned
}

// Append prepends a transaction record (history is newest-first).
func (w *Wallet) Append(tx Transaction) {
	w.Transactions = append([]Transaction{tx}, w.Transactions...)
}

// CanSpend reports whether the wallet covers amount. Privileged accounts
// cover anything.
func (w *Wallet) CanSpend(amount float64) bool {
	return w.Infinite || w.Balance >= amount
}

// Spend debits amount. On privileged accounts the balance is left untouched;
// the caller still records the finite amount in the transaction history.
func (w *Wallet) Spend(amount float64) {
	if w.Infinite {
		return
	}
	w.Balance -= amount
}

// Credit adds amount. Privileged accounts keep their sentinel balance.
func (w *Wallet) Credit(amount float64) {
	if w.Infinite {
		return
	}
	w.Balance += amount
}

// IsFriend reports an accepted symmetric edge with the given user.
func (w *Wallet) IsFriend(userID string) bool {
	for _, id := range w.Friends {
		if id == userID {
			return true
		}
	}
	return false
}

func (w *Wallet) HasIncoming(userID string) bool {
	for _, id := range w.Incoming {
		if id == userID {
			return true
		}
	}
	return false
}

func (w *Wallet) HasOutgoing(userID string) bool {
	for _, id := range w.Outgoing {
		if id == userID {
			return true
		}
	}
	return false
}
