package evmchain

import (
	"context"
	"errors"
	"math/big"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/canonicaljson"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/hash"
	"github.com/osvaldoandrade/w3bstitch/internal/platform"
)

func newIdentity(t *testing.T) domain.SigningIdentity {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return domain.SigningIdentity{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}
}

func newAnchorService(rpcURL string, identity domain.SigningIdentity) *anchor.Service {
	chains := domain.ChainConfig{L2RPCURL: rpcURL, Identity: identity}
	return anchor.NewService(
		Dialer{HTTPTimeout: 2 * time.Second},
		canonicaljson.Canonicalizer{},
		hash.SHA256{},
		Signer{},
		nil,
		platform.RealClock{},
		chains,
		anchor.Options{RequestTimeout: 2 * time.Second},
	)
}

func TestAnchorWithoutPrivateKeyMakesNoRequests(t *testing.T) {
	node, server := newRPCNode(t)
	identity := newIdentity(t)
	identity.PrivateKey = ""

	_, err := newAnchorService(server.URL, identity).AnchorNetwork(context.Background(), domain.NetworkL2, []byte(`{"a":1}`))
	require.ErrorIs(t, err, anchor.ErrCredentialsRequired)
	require.Equal(t, anchor.KindConfiguration, anchor.KindOf(err))
	require.Empty(t, node.requests())
}

func TestAnchorUnreachableEndpointNamesURL(t *testing.T) {
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	_, err := newAnchorService(url, newIdentity(t)).AnchorNetwork(context.Background(), domain.NetworkL2, []byte(`{"a":1}`))
	require.ErrorIs(t, err, anchor.ErrEndpointUnreachable)
	require.Equal(t, anchor.KindConnectivity, anchor.KindOf(err))
	require.Contains(t, err.Error(), url)
}

func TestAnchorSubmitsSignedSelfTransfer(t *testing.T) {
	node, server := newRPCNode(t)
	identity := newIdentity(t)

	result, err := newAnchorService(server.URL, identity).AnchorNetwork(context.Background(), domain.NetworkL2, []byte(`{"b": 1, "a": 2}`))
	require.NoError(t, err)
	require.Equal(t, "d3626ac30a87e6f7a6428233b3c68299976865fa5508e4267c5415c76af7a772", result.ContentHash)
	require.Equal(t, identity.Address, result.Address)
	require.Equal(t, 0, big.NewInt(31337).Cmp(result.ChainID))

	sent := node.transactions()
	require.Len(t, sent, 1)
	tx := sent[0]
	require.Equal(t, tx.Hash().Hex(), result.TxHash)
	require.Equal(t, uint8(types.LegacyTxType), tx.Type())
	require.Equal(t, []byte(`{"a":2,"b":1}`), tx.Data())
	require.Equal(t, domain.DefaultGasLimit, tx.Gas())
	require.Equal(t, 0, tx.Value().Sign())
	require.NotNil(t, tx.To())
	require.Equal(t, common.HexToAddress(identity.Address), *tx.To())
	require.Equal(t, 0, big.NewInt(31337).Cmp(tx.ChainId()))

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(identity.Address), from)

	require.Equal(t, []string{
		"web3_clientVersion",
		"eth_getTransactionCount",
		"eth_chainId",
		"eth_gasPrice",
		"eth_sendRawTransaction",
	}, node.requests())
}

func TestSequentialAnchorsReturnDistinctHashes(t *testing.T) {
	node, server := newRPCNode(t)
	service := newAnchorService(server.URL, newIdentity(t))

	first, err := service.AnchorNetwork(context.Background(), domain.NetworkL2, []byte(`{"a":1}`))
	require.NoError(t, err)
	second, err := service.AnchorNetwork(context.Background(), domain.NetworkL2, []byte(`{"a":1}`))
	require.NoError(t, err)

	require.NotEqual(t, first.TxHash, second.TxHash)
	require.Equal(t, first.ContentHash, second.ContentHash)
	require.Equal(t, uint64(0), first.Nonce)
	require.Equal(t, uint64(1), second.Nonce)
	require.Len(t, node.transactions(), 2)
}

func TestAnchorRejectedSubmissionCarriesNodeMessage(t *testing.T) {
	node, server := newRPCNode(t)
	node.rejectSend = "insufficient funds for gas * price + value"

	_, err := newAnchorService(server.URL, newIdentity(t)).AnchorNetwork(context.Background(), domain.NetworkL2, []byte(`{"a":1}`))
	require.ErrorIs(t, err, anchor.ErrSubmissionFailed)
	require.Equal(t, anchor.KindSubmission, anchor.KindOf(err))
	require.Contains(t, err.Error(), "insufficient funds")
}

func TestAnchorOversizePayloadMakesNoRequests(t *testing.T) {
	node, server := newRPCNode(t)
	payload := []byte(`"` + strings.Repeat("x", 12000) + `"`)

	_, err := newAnchorService(server.URL, newIdentity(t)).AnchorNetwork(context.Background(), domain.NetworkL2, payload)
	require.ErrorIs(t, err, anchor.ErrPayloadTooLarge)
	require.Equal(t, anchor.KindSize, anchor.KindOf(err))
	require.Empty(t, node.requests())
}

func TestSignerResolveRejectsMismatchedAddress(t *testing.T) {
	identity := newIdentity(t)
	identity.Address = newIdentity(t).Address

	_, err := Signer{}.Resolve(identity)
	require.ErrorIs(t, err, anchor.ErrInvalidCredentials)
}

func TestSignerResolveRejectsMalformedKey(t *testing.T) {
	identity := newIdentity(t)
	identity.PrivateKey = "0xnot-a-key"

	_, err := Signer{}.Resolve(identity)
	require.ErrorIs(t, err, anchor.ErrInvalidCredentials)
	require.NotContains(t, err.Error(), "not-a-key")
}

func TestSignerResolveAcceptsUnprefixedKeyAndLowercaseAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)
	identity := domain.SigningIdentity{
		Address:    strings.ToLower(address.Hex()),
		PrivateKey: common.Bytes2Hex(crypto.FromECDSA(key)),
	}

	resolved, err := Signer{}.Resolve(identity)
	require.NoError(t, err)
	require.Equal(t, address.Hex(), resolved)
}

func TestSignSelfTransferRequiresChainID(t *testing.T) {
	_, err := Signer{}.SignSelfTransfer(newIdentity(t), anchor.TxParams{GasLimit: 21000})
	require.Error(t, err)
}

func TestRawTxDecoderRoundTrip(t *testing.T) {
	identity := newIdentity(t)
	signed, err := Signer{}.SignSelfTransfer(identity, anchor.TxParams{
		Nonce:    7,
		ChainID:  big.NewInt(10),
		GasPrice: big.NewInt(5),
		GasLimit: 50000,
		Data:     []byte(`{"a":1}`),
	})
	require.NoError(t, err)

	decoded, err := RawTxDecoder{}.DecodeRawTx(signed.Raw)
	require.NoError(t, err)
	require.Equal(t, signed.Hash, decoded.Hash)
	require.Equal(t, identity.Address, decoded.From)
	require.Equal(t, identity.Address, decoded.To)
	require.Equal(t, "10", decoded.ChainID)
	require.Equal(t, uint64(7), decoded.Nonce)
	require.Equal(t, []byte(`{"a":1}`), decoded.Data)
}

func TestRawTxDecoderRejectsGarbage(t *testing.T) {
	_, err := RawTxDecoder{}.DecodeRawTx([]byte{0x01})
	require.Error(t, err)
}

func TestDialRequiresURL(t *testing.T) {
	_, err := Dialer{}.Dial(context.Background(), " ")
	require.True(t, errors.Is(err, anchor.ErrRPCURLRequired))
}
