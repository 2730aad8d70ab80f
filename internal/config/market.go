package config

import "time"

type Market struct {
	StartingBalance float64 `env:"MARKET_STARTING_BALANCE" envDefault:"500"`
}

type Mining struct {
	Interval    time.Duration `env:"MINING_INTERVAL" envDefault:"5s"`
	Concurrency int           `env:"MINING_CONCURRENCY" envDefault:"8"`
}

type Crypto struct {
	Interval time.Duration `env:"CRYPTO_INTERVAL" envDefault:"3s"`
}

type Agents struct {
	PoolSize  int  `env:"AGENT_POOL_SIZE" envDefault:"5"`
	AutoStart bool `env:"AGENT_AUTO_START" envDefault:"true"`
}
