package server

import (
	"context"
	"fmt"
	"net/http"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
	"market_sim/pkg/httpx/reply"
	"market_sim/pkg/lox"
)

type cryptoService interface {
	Assets(ctx context.Context) ([]entity.CryptoAsset, error)
}

type CryptoServer struct {
	cryptoService cryptoService
}

func NewCryptoServer(cryptoService cryptoService) CryptoServer {
	return CryptoServer{cryptoService: cryptoService}
}

func (s CryptoServer) getV1CryptoAssets(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	assets, err := s.cryptoService.Assets(ctx)
	if err != nil {
		return classify(fmt.Errorf("cryptoService.Assets: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(assets, newRESTCryptoAsset))

	return nil
}

func (s CryptoServer) getV1CryptoAsset(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	symbol := r.PathValue("symbol")

	assets, err := s.cryptoService.Assets(ctx)
	if err != nil {
		return classify(fmt.Errorf("cryptoService.Assets: %w", err))
	}

	for _, asset := range assets {
		if asset.Symbol == symbol {
			reply.JSON(ctx, w, http.StatusOK, newRESTCryptoAsset(asset))
			return nil
		}
	}

	return classify(domain.NewError(errcodes.UnknownSymbol, "unknown symbol: "+symbol))
}
