package anchor

import (
	"context"
	"math/big"
	"time"

	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

type Canonicalizer interface {
	Canonicalize(ctx context.Context, input []byte) ([]byte, error)
}

type Hasher interface {
	SumHex(data []byte) string
}

type Clock interface {
	Now() time.Time
}

type ChainDialer interface {
	Dial(ctx context.Context, rpcURL string) (ChainClient, error)
}

// ChainClient is the subset of the JSON-RPC surface the submitter needs.
type ChainClient interface {
	Ping(ctx context.Context) error
	PendingNonce(ctx context.Context, address string) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	SendRawTransaction(ctx context.Context, raw []byte) error
	Close()
}

type Signer interface {
	// Resolve validates the identity offline and returns the canonical
	// form of its address.
	Resolve(identity domain.SigningIdentity) (string, error)
	SignSelfTransfer(identity domain.SigningIdentity, params TxParams) (SignedTx, error)
}

type Journal interface {
	Record(ctx context.Context, receipt Receipt) (Receipt, error)
}

type ReceiptLister interface {
	List(ctx context.Context, query ReceiptQuery) ([]Receipt, error)
}
