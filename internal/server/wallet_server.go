package server

import (
	"context"
	"fmt"
	"net/http"

	"market_sim/internal/domain/entity"
	"market_sim/pkg/httpx/reply"
	"market_sim/pkg/httpx/req"
	"market_sim/pkg/rest"
)

type walletService interface {
	GetWallet(ctx context.Context, userID string) (*entity.Wallet, error)
	TransferCredits(ctx context.Context, senderID, recipientID string, amount float64) error
	TransferItem(ctx context.Context, senderID, recipientID, productID string) error
	ExecutePvPTrade(ctx context.Context, buyerID, sellerID, productID string, price float64) error
	SendFriendRequest(ctx context.Context, senderID, recipientID string) error
	RespondToFriendRequest(ctx context.Context, userID, requesterID string, accept bool) error
	CheckMission(ctx context.Context, userID, actionID string) error
	ClaimReward(ctx context.Context, userID, actionID string) error
	BuyCrypto(ctx context.Context, userID, symbol string, units float64) error
	SellCrypto(ctx context.Context, userID, symbol string, units float64) error
}

type catalogReader interface {
	Products() []entity.Product
}

type WalletServer struct {
	walletService walletService
	catalog       catalogReader
}

func NewWalletServer(walletService walletService, catalog catalogReader) WalletServer {
	return WalletServer{
		walletService: walletService,
		catalog:       catalog,
	}
}

func (s WalletServer) getV1Wallet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	wallet, err := s.walletService.GetWallet(ctx, r.PathValue("userID"))
	if err != nil {
		return classify(fmt.Errorf("walletService.GetWallet: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWallet(wallet, s.catalog.Products()))

	return nil
}

func (s WalletServer) postV1Transfer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.TransferRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	err := s.walletService.TransferCredits(ctx, r.PathValue("userID"), request.RecipientID, request.Amount)
	if err != nil {
		return classify(fmt.Errorf("walletService.TransferCredits: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s WalletServer) postV1Gift(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.GiftRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	err := s.walletService.TransferItem(ctx, r.PathValue("userID"), request.RecipientID, request.ProductID)
	if err != nil {
		return classify(fmt.Errorf("walletService.TransferItem: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s WalletServer) postV1PvPTrade(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PvPTradeRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	err := s.walletService.ExecutePvPTrade(ctx, r.PathValue("userID"), request.SellerID, request.ProductID, request.Price)
	if err != nil {
		return classify(fmt.Errorf("walletService.ExecutePvPTrade: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s WalletServer) postV1FriendRequest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.FriendRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	err := s.walletService.SendFriendRequest(ctx, r.PathValue("userID"), request.RecipientID)
	if err != nil {
		return classify(fmt.Errorf("walletService.SendFriendRequest: %w", err))
	}

	reply.Created(w)

	return nil
}

func (s WalletServer) postV1FriendRespond(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.FriendResponse
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	err := s.walletService.RespondToFriendRequest(ctx, r.PathValue("userID"), request.RequesterID, request.Accept)
	if err != nil {
		return classify(fmt.Errorf("walletService.RespondToFriendRequest: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s WalletServer) postV1MissionCheck(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	err := s.walletService.CheckMission(ctx, r.PathValue("userID"), r.PathValue("actionID"))
	if err != nil {
		return classify(fmt.Errorf("walletService.CheckMission: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s WalletServer) postV1MissionClaim(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	err := s.walletService.ClaimReward(ctx, r.PathValue("userID"), r.PathValue("actionID"))
	if err != nil {
		return classify(fmt.Errorf("walletService.ClaimReward: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s WalletServer) postV1CryptoBuy(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CryptoOrder
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	err := s.walletService.BuyCrypto(ctx, r.PathValue("userID"), request.Symbol, request.Units)
	if err != nil {
		return classify(fmt.Errorf("walletService.BuyCrypto: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s WalletServer) postV1CryptoSell(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CryptoOrder
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	err := s.walletService.SellCrypto(ctx, r.PathValue("userID"), request.Symbol, request.Units)
	if err != nil {
		return classify(fmt.Errorf("walletService.SellCrypto: %w", err))
	}

	reply.OK(w)

	return nil
}
