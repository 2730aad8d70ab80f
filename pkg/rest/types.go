// Package rest holds the wire types of the public HTTP API.
package rest

import "time"

type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Rarity    string  `json:"rarity"`
	BasePrice float64 `json:"basePrice"`
	MaxStock  int     `json:"maxStock"`
	YieldRate float64 `json:"yieldRate,omitempty"`
}

type Price struct {
	ProductID string    `json:"productId"`
	Stock     int       `json:"stock"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProductWithPrice struct {
	Product
	Price *Price `json:"price,omitempty"`
}

type TradeRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type LiquidateRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CheckoutLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	Lines []CheckoutLine `json:"lines" validate:"required,min=1,dive"`
}

type CheckoutResponse struct {
	Total float64 `json:"total"`
	Lines []Price `json:"lines"`
}

type Transaction struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Wallet struct {
	UserID        string             `json:"userId"`
	Balance       float64            `json:"balance"`
	Infinite      bool               `json:"infinite,omitempty"`
	Crypto        map[string]float64 `json:"crypto"`
	LifetimeMined float64            `json:"lifetimeMined"`
	Owned         map[string]int     `json:"owned"`
	Transactions  []Transaction      `json:"transactions"`
	Friends       []string           `json:"friends"`
	Incoming      []string           `json:"incomingRequests"`
	Outgoing      []string           `json:"outgoingRequests"`
	XP            int                `json:"xp"`
}

type TransferRequest struct {
	RecipientID string  `json:"recipientId" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
}

type GiftRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	ProductID   string `json:"productId" validate:"required"`
}

type PvPTradeRequest struct {
	SellerID  string  `json:"sellerId" validate:"required"`
	ProductID string  `json:"productId" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

type FriendRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
}

type FriendResponse struct {
	RequesterID string `json:"requesterId" validate:"required"`
	Accept      bool   `json:"accept"`
}

type CryptoAsset struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	History   []float64 `json:"history"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CryptoOrder struct {
	Symbol string  `json:"symbol" validate:"required"`
	Units  float64 `json:"units" validate:"required,gt=0"`
}

type TradeEvent struct {
	Actor     string    `json:"actor"`
	Bot       bool      `json:"bot"`
	Action    string    `json:"action"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

type AgentPoolStatus struct {
	Running bool `json:"running"`
	Size    int  `json:"size"`
}

// Error is the common error envelope.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// ErrorCode is a machine-readable error code.
type ErrorCode string
