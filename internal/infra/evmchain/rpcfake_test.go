package evmchain

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// rpcNode is a minimal JSON-RPC endpoint that answers the calls made by an
// anchor submission.
type rpcNode struct {
	mu         sync.Mutex
	chainID    *big.Int
	gasPrice   *big.Int
	nonce      uint64
	rejectSend string
	methods    []string
	sent       []*types.Transaction
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newRPCNode(t *testing.T) (*rpcNode, *httptest.Server) {
	t.Helper()
	node := &rpcNode{chainID: big.NewInt(31337), gasPrice: big.NewInt(1_000_000_000)}
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)
	return node, server
}

func (n *rpcNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.methods = append(n.methods, req.Method)

	var result any
	var rpcErr map[string]any
	switch req.Method {
	case "web3_clientVersion":
		result = "rpcnode/v0.0.1"
	case "eth_getTransactionCount":
		result = hexutil.Uint64(n.nonce)
	case "eth_chainId":
		result = (*hexutil.Big)(n.chainID)
	case "eth_gasPrice":
		result = (*hexutil.Big)(n.gasPrice)
	case "eth_sendRawTransaction":
		if n.rejectSend != "" {
			rpcErr = map[string]any{"code": -32000, "message": n.rejectSend}
			break
		}
		var encoded string
		if len(req.Params) != 1 || json.Unmarshal(req.Params[0], &encoded) != nil {
			rpcErr = map[string]any{"code": -32602, "message": "invalid params"}
			break
		}
		raw, err := hexutil.Decode(encoded)
		if err != nil {
			rpcErr = map[string]any{"code": -32602, "message": err.Error()}
			break
		}
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			rpcErr = map[string]any{"code": -32602, "message": err.Error()}
			break
		}
		n.sent = append(n.sent, tx)
		n.nonce++
		result = tx.Hash()
	default:
		rpcErr = map[string]any{"code": -32601, "message": "method not found"}
	}

	reply := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if rpcErr != nil {
		reply["error"] = rpcErr
	} else {
		reply["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply)
}

func (n *rpcNode) requests() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.methods...)
}

func (n *rpcNode) transactions() []*types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*types.Transaction(nil), n.sent...)
}
