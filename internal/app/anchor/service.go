package anchor

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

type Service struct {
	dialer        ChainDialer
	canonicalizer Canonicalizer
	hasher        Hasher
	signer        Signer
	journal       Journal
	clock         Clock
	chains        domain.ChainConfig
	opts          Options
	locks         *submissionLocks
	logger        *slog.Logger
}

// NewService wires the submitter. journal may be nil.
func NewService(dialer ChainDialer, canonicalizer Canonicalizer, hasher Hasher, signer Signer, journal Journal, clock Clock, chains domain.ChainConfig, opts Options) *Service {
	if opts.GasLimit == 0 {
		opts.GasLimit = domain.DefaultGasLimit
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return &Service{
		dialer:        dialer,
		canonicalizer: canonicalizer,
		hasher:        hasher,
		signer:        signer,
		journal:       journal,
		clock:         clock,
		chains:        chains,
		opts:          opts,
		locks:         newSubmissionLocks(),
		logger:        slog.Default().With("component", "anchor"),
	}
}

// AnchorNetwork resolves the configured endpoint and identity for network.
func (s *Service) AnchorNetwork(ctx context.Context, network domain.Network, payload []byte) (Result, error) {
	if !network.IsValid() {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrInvalidNetwork, network)
	}
	endpoint, err := s.chains.Endpoint(network)
	if err != nil {
		return Result{}, err
	}
	if endpoint.FallbackFromL2 {
		s.logger.Warn("l1 rpc url not configured, anchoring through the l2 endpoint", "network", network)
	}
	return s.Anchor(ctx, endpoint, s.chains.Identity, payload)
}

// Anchor broadcasts a self-transfer whose data field is the canonical form
// of payload. It does not wait for the transaction to be mined.
func (s *Service) Anchor(ctx context.Context, endpoint domain.ChainEndpoint, identity domain.SigningIdentity, payload []byte) (Result, error) {
	rpcURL := strings.TrimSpace(endpoint.RPCURL)
	if rpcURL == "" {
		return Result{}, ErrRPCURLRequired
	}
	if !identity.IsComplete() {
		return Result{}, ErrCredentialsRequired
	}
	address, err := s.signer.Resolve(identity)
	if err != nil {
		return Result{}, err
	}

	if len(payload) == 0 {
		return Result{}, ErrPayloadRequired
	}
	canonical, err := s.canonicalizer.Canonicalize(ctx, payload)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, fmt.Errorf("%w: %v", ErrPayloadNotSerializable, err)
	}
	if gas := IntrinsicGas(canonical); gas > s.opts.GasLimit {
		return Result{}, fmt.Errorf("%w: %d bytes need %d gas, limit is %d (max %d bytes)",
			ErrPayloadTooLarge, len(canonical), gas, s.opts.GasLimit, MaxDataSize(s.opts.GasLimit))
	}
	contentHash := s.hasher.SumHex(canonical)

	client, err := s.connect(ctx, rpcURL)
	if err != nil {
		return Result{}, err
	}
	defer client.Close()

	if s.opts.SerializeSubmissions {
		release := s.locks.acquire(rpcURL, address)
		defer release()
	}

	nonce, err := callWithTimeout(ctx, s.opts, func(ctx context.Context) (uint64, error) {
		return client.PendingNonce(ctx, address)
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: get transaction count: %w", ErrSubmissionFailed, err)
	}
	chainID, err := callWithTimeout(ctx, s.opts, client.ChainID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: get chain id: %w", ErrSubmissionFailed, err)
	}
	gasPrice, err := callWithTimeout(ctx, s.opts, client.GasPrice)
	if err != nil {
		return Result{}, fmt.Errorf("%w: get gas price: %w", ErrSubmissionFailed, err)
	}

	signed, err := s.signer.SignSelfTransfer(identity, TxParams{
		Nonce:    nonce,
		ChainID:  chainID,
		GasPrice: gasPrice,
		GasLimit: s.opts.GasLimit,
		Data:     canonical,
	})
	if err != nil {
		return Result{}, err
	}

	_, err = callWithTimeout(ctx, s.opts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.SendRawTransaction(ctx, signed.Raw)
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: send raw transaction: %w", ErrSubmissionFailed, err)
	}

	result := Result{
		TxHash:      signed.Hash,
		ContentHash: contentHash,
		Network:     endpoint.Network,
		Address:     address,
		ChainID:     chainID,
		Nonce:       nonce,
		GasPrice:    gasPrice,
		GasLimit:    s.opts.GasLimit,
		DataSize:    len(canonical),
	}
	s.logger.Info("anchor submitted",
		"network", endpoint.Network,
		"tx_hash", result.TxHash,
		"content_hash", contentHash,
		"chain_id", ChainIDString(chainID),
		"nonce", nonce,
	)
	s.record(ctx, result)
	return result, nil
}

func (s *Service) connect(ctx context.Context, rpcURL string) (ChainClient, error) {
	client, err := s.dialer.Dial(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEndpointUnreachable, rpcURL, err)
	}
	if _, err := callWithTimeout(ctx, s.opts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.Ping(ctx)
	}); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrEndpointUnreachable, rpcURL, err)
	}
	return client, nil
}

func (s *Service) record(ctx context.Context, result Result) {
	if s.journal == nil {
		return
	}
	receipt := Receipt{
		TxHash:      result.TxHash,
		ContentHash: result.ContentHash,
		Network:     result.Network,
		Address:     result.Address,
		ChainID:     ChainIDString(result.ChainID),
		Nonce:       result.Nonce,
		DataSize:    result.DataSize,
		CreatedAt:   s.clock.Now(),
	}
	if _, err := s.journal.Record(ctx, receipt); err != nil {
		s.logger.Warn("record anchor receipt", "tx_hash", result.TxHash, "err", err)
	}
}

func callWithTimeout[T any](ctx context.Context, opts Options, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, opts.RequestTimeout)
	defer cancel()
	return fn(callCtx)
}

// ChainIDString formats an optional chain id.
func ChainIDString(id *big.Int) string {
	if id == nil {
		return ""
	}
	return id.String()
}
