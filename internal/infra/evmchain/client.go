package evmchain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
)

const DefaultHTTPTimeout = 20 * time.Second

// Dialer opens JSON-RPC connections whose HTTP transport is always bounded.
type Dialer struct {
	HTTPTimeout time.Duration
}

func (d Dialer) Dial(ctx context.Context, rpcURL string) (anchor.ChainClient, error) {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		return nil, anchor.ErrRPCURLRequired
	}
	timeout := d.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	rpcClient, err := rpc.DialOptions(ctx, rpcURL, rpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return &Client{rpc: rpcClient, eth: ethclient.NewClient(rpcClient)}, nil
}

type Client struct {
	rpc *rpc.Client
	eth *ethclient.Client
}

// Ping checks liveness; web3_clientVersion is served by every node.
func (c *Client) Ping(ctx context.Context) error {
	var version string
	if err := c.rpc.CallContext(ctx, &version, "web3_clientVersion"); err != nil {
		return err
	}
	return nil
}

func (c *Client) PendingNonce(ctx context.Context, address string) (uint64, error) {
	if !common.IsHexAddress(address) {
		return 0, fmt.Errorf("invalid address %q", address)
	}
	return c.eth.PendingNonceAt(ctx, common.HexToAddress(address))
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.eth.ChainID(ctx)
}

func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasPrice(ctx)
}

func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) error {
	return c.rpc.CallContext(ctx, nil, "eth_sendRawTransaction", hexutil.Encode(raw))
}

func (c *Client) Close() {
	c.rpc.Close()
}
