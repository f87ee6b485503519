package inspect

import "context"

type Canonicalizer interface {
	Canonicalize(ctx context.Context, input []byte) ([]byte, error)
}

type Hasher interface {
	SumHex(data []byte) string
}

type RawTxDecoder interface {
	DecodeRawTx(raw []byte) (RawTx, error)
}
