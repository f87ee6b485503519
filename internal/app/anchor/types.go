package anchor

import (
	"math/big"
	"time"

	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

type Options struct {
	GasLimit       uint64
	RequestTimeout time.Duration
	// SerializeSubmissions holds a per (endpoint, address) lock from nonce
	// read to broadcast. Off by default: concurrent calls may race on nonce.
	SerializeSubmissions bool
}

const DefaultRequestTimeout = 15 * time.Second

type TxParams struct {
	Nonce    uint64
	ChainID  *big.Int
	GasPrice *big.Int
	GasLimit uint64
	Data     []byte
}

type SignedTx struct {
	Raw  []byte
	Hash string
}

type Result struct {
	TxHash      string
	ContentHash string
	Network     domain.Network
	Address     string
	ChainID     *big.Int
	Nonce       uint64
	GasPrice    *big.Int
	GasLimit    uint64
	DataSize    int
}

// Receipt is the journal record of a broadcast. It never carries the
// payload or key material.
type Receipt struct {
	ID          string
	TxHash      string
	ContentHash string
	Network     domain.Network
	Address     string
	ChainID     string
	Nonce       uint64
	DataSize    int
	CreatedAt   time.Time
}

type ReceiptQuery struct {
	ContentHash string
	Network     domain.Network
	Limit       int
}

const (
	DefaultReceiptLimit = 20
	MaxReceiptLimit     = 500
)
