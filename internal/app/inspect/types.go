package inspect

// DataResult describes the bytes carried by an anchor transaction's data
// field. ContentHash is computed over the bytes as found on chain.
type DataResult struct {
	Payload     string
	ContentHash string
	JSON        bool
	Canonical   bool
	Size        int
}

type RawTx struct {
	Hash    string
	From    string
	To      string
	ChainID string
	Nonce   uint64
	Data    []byte
}

type TxResult struct {
	TxHash       string
	From         string
	To           string
	ChainID      string
	Nonce        uint64
	SelfTransfer bool
	Data         DataResult
}
