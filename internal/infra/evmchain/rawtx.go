package evmchain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/osvaldoandrade/w3bstitch/internal/app/inspect"
)

// RawTxDecoder extracts the data field from a signed, RLP/typed-envelope
// encoded transaction.
type RawTxDecoder struct{}

func (RawTxDecoder) DecodeRawTx(raw []byte) (inspect.RawTx, error) {
	var tx types.Transaction
	if err := tx.UnmarshalBinary(raw); err != nil {
		return inspect.RawTx{}, fmt.Errorf("decode transaction: %w", err)
	}
	decoded := inspect.RawTx{
		Hash:  tx.Hash().Hex(),
		Nonce: tx.Nonce(),
		Data:  tx.Data(),
	}
	if chainID := tx.ChainId(); chainID != nil && chainID.Sign() > 0 {
		decoded.ChainID = chainID.String()
		if from, err := types.Sender(types.LatestSignerForChainID(chainID), &tx); err == nil {
			decoded.From = from.Hex()
		}
	}
	if to := tx.To(); to != nil {
		decoded.To = to.Hex()
	}
	return decoded, nil
}
