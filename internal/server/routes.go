package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"market_sim/pkg/contextx"
	"market_sim/pkg/httpx/reply"
	"market_sim/pkg/logx"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Route("/products", func(r chi.Router) {
				r.Get("/", handler(s.getV1Products))
				r.Get("/{id}/price", handler(s.getV1ProductPrice))
				r.Post("/{id}/reserve", handler(s.postV1ProductReserve))
				r.Post("/{id}/release", handler(s.postV1ProductRelease))
			})

			r.Get("/feed", handler(s.getV1Feed))

			r.Route("/crypto", func(r chi.Router) {
				r.Get("/", handler(s.getV1CryptoAssets))
				r.Get("/{symbol}", handler(s.getV1CryptoAsset))
			})

			r.Route("/wallets/{userID}", func(r chi.Router) {
				r.Use(userContext)

				r.Get("/", handler(s.getV1Wallet))
				r.Post("/checkout", handler(s.postV1Checkout))
				r.Post("/liquidate", handler(s.postV1Liquidate))
				r.Post("/transfer", handler(s.postV1Transfer))
				r.Post("/gift", handler(s.postV1Gift))
				r.Post("/pvp", handler(s.postV1PvPTrade))

				r.Route("/friends", func(r chi.Router) {
					r.Post("/requests", handler(s.postV1FriendRequest))
					r.Post("/respond", handler(s.postV1FriendRespond))
				})

				r.Route("/missions/{actionID}", func(r chi.Router) {
					r.Post("/check", handler(s.postV1MissionCheck))
					r.Post("/claim", handler(s.postV1MissionClaim))
				})

				r.Route("/crypto", func(r chi.Router) {
					r.Post("/buy", handler(s.postV1CryptoBuy))
					r.Post("/sell", handler(s.postV1CryptoSell))
				})
			})

			r.Route("/agents", func(r chi.Router) {
				r.Get("/", handler(s.getV1Agents))
				r.Post("/", handler(s.postV1Agents))
				r.Delete("/", handler(s.deleteV1Agents))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}

// userContext binds the wallet owner from the path to the request context so
// downstream log records carry the user.
func userContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if userID := chi.URLParam(r, "userID"); userID != "" {
			ctx = contextx.WithUserID(ctx, contextx.UserID(userID))
			ctx = contextx.WithLogger(
				ctx,
				contextx.LoggerFromContextOrDefault(ctx).With(slog.String(logx.FieldUserID, userID)),
			)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
