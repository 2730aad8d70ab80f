package server

import (
	"git.appkode.ru/pub/go/failure"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/internal/domain/service/market"
	"market_sim/pkg/errcodes"
	"market_sim/pkg/lox"
	"market_sim/pkg/rest"
)

func newRESTProduct(product entity.Product) rest.Product {
	return rest.Product{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Rarity:    product.Rarity,
		BasePrice: product.BasePrice,
		MaxStock:  product.MaxStock,
		YieldRate: product.YieldRate,
	}
}

func newRESTPrice(update entity.PriceUpdate) rest.Price {
	return rest.Price{
		ProductID: update.ProductID,
		Stock:     update.Stock,
		Price:     update.Price,
		UpdatedAt: update.UpdatedAt,
	}
}

func newRESTCheckout(result market.CheckoutResult) rest.CheckoutResponse {
	return rest.CheckoutResponse{
		Total: result.Total,
		Lines: lox.Map(result.Lines, newRESTPrice),
	}
}

func newRESTWallet(wallet *entity.Wallet, products []entity.Product) rest.Wallet {
	owned := map[string]int{}
	for _, product := range products {
		if qty := wallet.Owned(product.ID); qty > 0 {
			owned[product.ID] = qty
		}
	}

	transactions := lox.Map(wallet.Transactions, func(tx entity.Transaction) rest.Transaction {
		return rest.Transaction{
			ID:          tx.ID,
			Kind:        string(tx.Kind),
			Amount:      tx.Amount,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		}
	})

	return rest.Wallet{
		UserID:        wallet.UserID,
		Balance:       wallet.Balance,
		Infinite:      wallet.Infinite,
		Crypto:        wallet.Crypto,
		LifetimeMined: wallet.LifetimeMined,
		Owned:         owned,
		Transactions:  transactions,
		Friends:       wallet.Friends,
		Incoming:      wallet.Incoming,
		Outgoing:      wallet.Outgoing,
		XP:            wallet.XP,
	}
}

func newRESTCryptoAsset(asset entity.CryptoAsset) rest.CryptoAsset {
	return rest.CryptoAsset{
		Symbol:    asset.Symbol,
		Name:      asset.Name,
		Price:     asset.Price,
		History:   asset.History,
		UpdatedAt: asset.UpdatedAt,
	}
}

func newRESTTradeEvent(event entity.TradeEvent) rest.TradeEvent {
	return rest.TradeEvent{
		Actor:     event.Actor,
		Bot:       event.Bot,
		Action:    string(event.Action),
		ProductID: event.ProductID,
		Quantity:  event.Quantity,
		Price:     event.Price,
		CreatedAt: event.CreatedAt,
	}
}

// classify maps domain error codes onto failure classes so reply.Error picks
// the right HTTP status. Unclassified errors fall through as 500s.
func classify(err error) error {
	if err == nil {
		return nil
	}

	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.ProductNotFound, errcodes.WalletNotFound, errcodes.MissionNotFound,
		errcodes.RequestNotFound, errcodes.UnknownSymbol, errcodes.NotFound:
		return failure.NewNotFoundErrorFromError(err, failure.WithCode(code))
	case errcodes.ValidationError, errcodes.InvalidQuantity, errcodes.SelfReference:
		return failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(code))
	case errcodes.InsufficientStock, errcodes.InsufficientFunds, errcodes.InsufficientHoldings,
		errcodes.ItemNotOwned, errcodes.MissionNotCompleted, errcodes.MissionAlreadyClaimed:
		return failure.NewUnprocessableEntityErrorFromError(err, failure.WithCode(code))
	case errcodes.AlreadyConnected, errcodes.AlreadyPending, errcodes.WriteConflict:
		return failure.NewConflictErrorFromError(err, failure.WithCode(code))
	case errcodes.Forbidden:
		return failure.NewForbiddenErrorFromError(err, failure.WithCode(code))
	default:
		return err
	}
}
