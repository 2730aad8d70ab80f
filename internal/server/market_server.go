package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"market_sim/internal/domain/entity"
	"market_sim/internal/domain/service/market"
	"market_sim/internal/domain/value"
	"market_sim/pkg/httpx/reply"
	"market_sim/pkg/httpx/req"
	"market_sim/pkg/lox"
	"market_sim/pkg/rest"
)

const defaultFeedLimit = 50

type marketService interface {
	Products() []entity.Product
	CurrentPrice(ctx context.Context, productID string) (entity.PriceUpdate, error)
	ReserveStock(ctx context.Context, productID string, qty int, actor value.Actor) (entity.PriceUpdate, error)
	ReleaseStock(ctx context.Context, productID string, qty int, actor value.Actor) (entity.PriceUpdate, error)
	Checkout(ctx context.Context, userID string, lines []market.CheckoutLine) (market.CheckoutResult, error)
	Liquidate(ctx context.Context, userID, productID string, qty int) (entity.PriceUpdate, error)
}

type priceMirror interface {
	Last(productID string) (entity.PriceUpdate, error)
}

type feedReader interface {
	Recent(ctx context.Context, count int) ([]entity.TradeEvent, error)
}

type MarketServer struct {
	marketService marketService
	mirror        priceMirror
	feed          feedReader
}

func NewMarketServer(marketService marketService, mirror priceMirror, feed feedReader) MarketServer {
	return MarketServer{
		marketService: marketService,
		mirror:        mirror,
		feed:          feed,
	}
}

// getV1Products lists the catalog with the last observed price per product.
// Prices come from the local mirror; a product with no fresh mirror entry is
// listed without one rather than fanning N reads out to the state store.
func (s MarketServer) getV1Products(w http.ResponseWriter, r *http.Request) error {
	products := s.marketService.Products()

	response := make([]rest.ProductWithPrice, 0, len(products))

	for _, product := range products {
		item := rest.ProductWithPrice{Product: newRESTProduct(product)}

		if update, err := s.mirror.Last(product.ID); err == nil {
			price := newRESTPrice(update)
			item.Price = &price
		}

		response = append(response, item)
	}

	reply.JSON(r.Context(), w, http.StatusOK, response)

	return nil
}

// getV1ProductPrice reads the authoritative committed price.
func (s MarketServer) getV1ProductPrice(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	update, err := s.marketService.CurrentPrice(ctx, r.PathValue("id"))
	if err != nil {
		return classify(fmt.Errorf("marketService.CurrentPrice: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPrice(update))

	return nil
}

func (s MarketServer) postV1ProductReserve(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.TradeRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	update, err := s.marketService.ReserveStock(ctx, r.PathValue("id"), request.Quantity, value.User(request.UserID))
	if err != nil {
		return classify(fmt.Errorf("marketService.ReserveStock: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPrice(update))

	return nil
}

func (s MarketServer) postV1ProductRelease(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.TradeRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	update, err := s.marketService.ReleaseStock(ctx, r.PathValue("id"), request.Quantity, value.User(request.UserID))
	if err != nil {
		return classify(fmt.Errorf("marketService.ReleaseStock: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPrice(update))

	return nil
}

func (s MarketServer) postV1Checkout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CheckoutRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	lines := make([]market.CheckoutLine, len(request.Lines))
	for i, line := range request.Lines {
		lines[i] = market.CheckoutLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}

	result, err := s.marketService.Checkout(ctx, r.PathValue("userID"), lines)
	if err != nil {
		return classify(fmt.Errorf("marketService.Checkout: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCheckout(result))

	return nil
}

func (s MarketServer) postV1Liquidate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.LiquidateRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	update, err := s.marketService.Liquidate(ctx, r.PathValue("userID"), request.ProductID, request.Quantity)
	if err != nil {
		return classify(fmt.Errorf("marketService.Liquidate: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPrice(update))

	return nil
}

func (s MarketServer) getV1Feed(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	events, err := s.feed.Recent(ctx, limit)
	if err != nil {
		return classify(fmt.Errorf("feed.Recent: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(events, newRESTTradeEvent))

	return nil
}
