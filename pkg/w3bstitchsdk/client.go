package w3bstitchsdk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/canonicaljson"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/evmchain"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/hash"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/ident"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/sqlitereceipts"
	"github.com/osvaldoandrade/w3bstitch/internal/platform"
)

type HashResult struct {
	Canonical   []byte
	ContentHash string
}

type AnchorResult struct {
	TxHash      string
	ContentHash string
	Network     Network
	Address     string
	ChainID     string
	Nonce       uint64
	DataSize    int
}

type Receipt struct {
	ID          string
	TxHash      string
	ContentHash string
	Network     Network
	ChainID     string
	Nonce       uint64
	CreatedAt   time.Time
}

type ReceiptQuery struct {
	ContentHash string
	Network     Network
	Limit       int
}

// Client anchors Go values without going through the CLI or HTTP API.
type Client struct {
	cfg           Config
	canonicalizer canonicaljson.Canonicalizer
	hasher        hash.SHA256
	anchor        *anchor.Service
	receipts      *anchor.ReceiptService

	mu    sync.Mutex
	store *sqlitereceipts.Store
}

// New builds a client. It opens the receipt journal when configured but
// does not contact any chain.
func New(cfg Config) (*Client, error) {
	cfg = normalizeConfig(cfg)
	clock := platform.RealClock{}

	var store *sqlitereceipts.Store
	var journal anchor.Journal
	var lister anchor.ReceiptLister
	if cfg.ReceiptsDB != "" {
		opened, err := sqlitereceipts.Open(cfg.ReceiptsDB, ident.NewULIDGenerator(clock))
		if err != nil {
			return nil, err
		}
		store = opened
		journal = opened
		lister = opened
	}

	chains := domain.ChainConfig{
		L2RPCURL: cfg.L2RPCURL,
		L1RPCURL: cfg.L1RPCURL,
		StrictL1: cfg.StrictL1,
		Identity: domain.SigningIdentity{
			Address:    cfg.AccountAddress,
			PrivateKey: cfg.PrivateKey,
		},
	}
	canonicalizer := canonicaljson.Canonicalizer{}
	hasher := hash.SHA256{}
	return &Client{
		cfg:           cfg,
		canonicalizer: canonicalizer,
		hasher:        hasher,
		anchor: anchor.NewService(
			evmchain.Dialer{HTTPTimeout: cfg.RPCTimeout},
			canonicalizer,
			hasher,
			evmchain.Signer{},
			journal,
			clock,
			chains,
			anchor.Options{
				GasLimit:             cfg.GasLimit,
				RequestTimeout:       cfg.RPCTimeout,
				SerializeSubmissions: cfg.SerializeSubmissions,
			},
		),
		receipts: anchor.NewReceiptService(lister),
		store:    store,
	}, nil
}

// Close releases the receipt journal, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	store := c.store
	c.store = nil
	c.mu.Unlock()

	if store != nil {
		return store.Close()
	}
	return nil
}

// Hash returns the canonical JSON form of value and its content hash.
func (c *Client) Hash(ctx context.Context, value any) (HashResult, error) {
	canonical, err := c.canonicalizer.Marshal(ctx, value)
	if err != nil {
		return HashResult{}, fmt.Errorf("%w: %v", ErrPayloadNotSerializable, err)
	}
	return HashResult{Canonical: canonical, ContentHash: c.hasher.SumHex(canonical)}, nil
}

// Anchor submits value to the configured network and returns once the node
// accepted the transaction.
func (c *Client) Anchor(ctx context.Context, network Network, value any) (AnchorResult, error) {
	parsed, err := domain.ParseNetwork(string(network))
	if err != nil {
		return AnchorResult{}, err
	}
	packaged, err := c.Hash(ctx, value)
	if err != nil {
		return AnchorResult{}, err
	}
	result, err := c.anchor.AnchorNetwork(ctx, parsed, packaged.Canonical)
	if err != nil {
		return AnchorResult{}, err
	}
	return AnchorResult{
		TxHash:      result.TxHash,
		ContentHash: result.ContentHash,
		Network:     Network(result.Network),
		Address:     result.Address,
		ChainID:     anchor.ChainIDString(result.ChainID),
		Nonce:       result.Nonce,
		DataSize:    result.DataSize,
	}, nil
}

// Receipts lists journaled anchors, newest first.
func (c *Client) Receipts(ctx context.Context, query ReceiptQuery) ([]Receipt, error) {
	c.mu.Lock()
	closed := c.store == nil && c.cfg.ReceiptsDB != ""
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	receipts, err := c.receipts.List(ctx, anchor.ReceiptQuery{
		ContentHash: query.ContentHash,
		Network:     domain.Network(query.Network),
		Limit:       query.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Receipt, 0, len(receipts))
	for _, receipt := range receipts {
		out = append(out, Receipt{
			ID:          receipt.ID,
			TxHash:      receipt.TxHash,
			ContentHash: receipt.ContentHash,
			Network:     Network(receipt.Network),
			ChainID:     receipt.ChainID,
			Nonce:       receipt.Nonce,
			CreatedAt:   receipt.CreatedAt,
		})
	}
	return out, nil
}
