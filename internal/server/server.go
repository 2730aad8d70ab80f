package server

// Server aggregates the per-domain HTTP servers behind one route table.
type Server struct {
	MarketServer
	WalletServer
	CryptoServer
	AdminServer
}

func NewServer(
	marketServer MarketServer,
	walletServer WalletServer,
	cryptoServer CryptoServer,
	adminServer AdminServer,
) Server {
	return Server{
		MarketServer: marketServer,
		WalletServer: walletServer,
		CryptoServer: cryptoServer,
		AdminServer:  adminServer,
	}
}
