package w3bstitchsdk

import (
	"os"
	"strings"
	"time"
)

type Network string

const (
	NetworkL2 Network = "l2"
	NetworkL1 Network = "l1"
)

// Config defines the SDK behavior for direct core access.
type Config struct {
	L2RPCURL       string
	L1RPCURL       string
	AccountAddress string
	PrivateKey     string

	// StrictL1 fails L1 anchors when L1RPCURL is empty instead of using L2.
	StrictL1             bool
	SerializeSubmissions bool
	GasLimit             uint64
	RPCTimeout           time.Duration

	// ReceiptsDB enables the SQLite receipt journal when set.
	ReceiptsDB string
}

// ConfigFromEnv reads the same variables as the CLI.
func ConfigFromEnv() Config {
	return Config{
		L2RPCURL:       strings.TrimSpace(os.Getenv("L2_RPC_URL")),
		L1RPCURL:       strings.TrimSpace(os.Getenv("L1_RPC_URL")),
		AccountAddress: strings.TrimSpace(os.Getenv("ACCOUNT_ADDRESS")),
		PrivateKey:     strings.TrimSpace(os.Getenv("PRIVATE_KEY")),
		ReceiptsDB:     strings.TrimSpace(os.Getenv("W3B_RECEIPTS_DB")),
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.GasLimit == 0 {
		cfg.GasLimit = 200000
	}
	if cfg.RPCTimeout <= 0 {
		cfg.RPCTimeout = 15 * time.Second
	}
	cfg.ReceiptsDB = strings.TrimSpace(cfg.ReceiptsDB)
	return cfg
}
