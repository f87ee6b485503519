package anchor

import "github.com/ethereum/go-ethereum/params"

// EIP-7623 calldata floor. A zero byte is one token, a non-zero byte four.
const (
	floorGasPerToken       uint64 = 10
	tokensPerNonZeroByte   uint64 = 4
	floorGasPerNonZeroByte        = floorGasPerToken * tokensPerNonZeroByte
)

// IntrinsicGas is the minimum gas a plain transfer carrying data needs: the
// standard data cost or the calldata floor, whichever is higher.
func IntrinsicGas(data []byte) uint64 {
	standard := params.TxGas
	var tokens uint64
	for _, b := range data {
		if b == 0 {
			standard += params.TxDataZeroGas
			tokens++
			continue
		}
		standard += params.TxDataNonZeroGasEIP2028
		tokens += tokensPerNonZeroByte
	}
	return max(standard, params.TxGas+floorGasPerToken*tokens)
}

// MaxDataSize is the largest all-non-zero data field that fits gasLimit.
func MaxDataSize(gasLimit uint64) int {
	if gasLimit <= params.TxGas {
		return 0
	}
	return int((gasLimit - params.TxGas) / floorGasPerNonZeroByte)
}
