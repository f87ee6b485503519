package inspect

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"
)

type Service struct {
	canonicalizer Canonicalizer
	hasher        Hasher
	decoder       RawTxDecoder
}

// NewService builds the inspector. decoder may be nil when only data fields
// are inspected.
func NewService(canonicalizer Canonicalizer, hasher Hasher, decoder RawTxDecoder) *Service {
	return &Service{
		canonicalizer: canonicalizer,
		hasher:        hasher,
		decoder:       decoder,
	}
}

// InspectData decodes a transaction data field and reports whether it holds
// canonical JSON.
func (s *Service) InspectData(ctx context.Context, dataHex string) (DataResult, error) {
	data, err := decodeHex(dataHex)
	if err != nil {
		return DataResult{}, err
	}
	return s.describe(ctx, data)
}

// InspectRawTx decodes a signed raw transaction and inspects its data field.
func (s *Service) InspectRawTx(ctx context.Context, rawHex string) (TxResult, error) {
	if s.decoder == nil {
		return TxResult{}, fmt.Errorf("%w: no transaction decoder configured", ErrInvalidTransaction)
	}
	raw, err := decodeHex(rawHex)
	if err != nil {
		return TxResult{}, err
	}
	tx, err := s.decoder.DecodeRawTx(raw)
	if err != nil {
		return TxResult{}, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	data := DataResult{}
	if len(tx.Data) > 0 {
		data, err = s.describe(ctx, tx.Data)
		if err != nil {
			return TxResult{}, err
		}
	}
	return TxResult{
		TxHash:       tx.Hash,
		From:         tx.From,
		To:           tx.To,
		ChainID:      tx.ChainID,
		Nonce:        tx.Nonce,
		SelfTransfer: tx.From != "" && strings.EqualFold(tx.From, tx.To),
		Data:         data,
	}, nil
}

func (s *Service) describe(ctx context.Context, data []byte) (DataResult, error) {
	if err := ctx.Err(); err != nil {
		return DataResult{}, err
	}
	result := DataResult{
		Payload:     string(data),
		ContentHash: s.hasher.SumHex(data),
		Size:        len(data),
	}
	canonical, err := s.canonicalizer.Canonicalize(ctx, data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return DataResult{}, ctxErr
		}
		return result, nil
	}
	result.JSON = true
	result.Canonical = bytes.Equal(canonical, data)
	return result, nil
}

func decodeHex(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if value == "" {
		return nil, ErrDataRequired
	}
	data, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return data, nil
}
