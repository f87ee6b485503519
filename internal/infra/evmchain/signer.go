package evmchain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

var errChainIDRequired = errors.New("chain id is required for replay-protected signing")

// Signer builds and signs legacy EIP-155 self-transfers. Key material is
// parsed per call and never returned or formatted into errors.
type Signer struct{}

func (Signer) Resolve(identity domain.SigningIdentity) (string, error) {
	key, err := parsePrivateKey(identity.PrivateKey)
	if err != nil {
		return "", err
	}
	address := strings.TrimSpace(identity.Address)
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: account address %q is not a hex address", anchor.ErrInvalidCredentials, address)
	}
	derived := crypto.PubkeyToAddress(key.PublicKey)
	if common.HexToAddress(address) != derived {
		return "", fmt.Errorf("%w: account address %s does not match private key", anchor.ErrInvalidCredentials, address)
	}
	return derived.Hex(), nil
}

func (Signer) SignSelfTransfer(identity domain.SigningIdentity, params anchor.TxParams) (anchor.SignedTx, error) {
	if params.ChainID == nil || params.ChainID.Sign() <= 0 {
		return anchor.SignedTx{}, errChainIDRequired
	}
	key, err := parsePrivateKey(identity.PrivateKey)
	if err != nil {
		return anchor.SignedTx{}, err
	}
	self := crypto.PubkeyToAddress(key.PublicKey)

	gasPrice := params.GasPrice
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    params.Nonce,
		GasPrice: gasPrice,
		Gas:      params.GasLimit,
		To:       &self,
		Value:    new(big.Int),
		Data:     params.Data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(params.ChainID), key)
	if err != nil {
		return anchor.SignedTx{}, fmt.Errorf("sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return anchor.SignedTx{}, fmt.Errorf("encode transaction: %w", err)
	}
	return anchor.SignedTx{Raw: raw, Hash: signed.Hash().Hex()}, nil
}

func parsePrivateKey(value string) (*ecdsa.PrivateKey, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if value == "" {
		return nil, anchor.ErrCredentialsRequired
	}
	key, err := crypto.HexToECDSA(value)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not a valid secp256k1 hex key", anchor.ErrInvalidCredentials)
	}
	return key, nil
}
