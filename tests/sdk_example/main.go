package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/osvaldoandrade/w3bstitch/pkg/w3bstitchsdk"
)

func main() {
	cfg := w3bstitchsdk.ConfigFromEnv()
	if cfg.L2RPCURL == "" {
		fmt.Fprintln(os.Stderr, "L2_RPC_URL is required (for example http://127.0.0.1:8545)")
		os.Exit(1)
	}

	client, err := w3bstitchsdk.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	state := map[string]any{
		"ts":     time.Now().UTC().Format(time.RFC3339),
		"source": "sdk_example",
		"items":  []int{1, 2, 3},
	}

	ctx := context.Background()
	packaged, err := client.Hash(ctx, state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("canonical=%s hash=%s\n", packaged.Canonical, packaged.ContentHash)

	result, err := client.Anchor(ctx, w3bstitchsdk.NetworkL2, state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "anchor: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("anchored tx=%s chain=%s nonce=%d size=%d\n", result.TxHash, result.ChainID, result.Nonce, result.DataSize)

	if cfg.ReceiptsDB == "" {
		return
	}
	receipts, err := client.Receipts(ctx, w3bstitchsdk.ReceiptQuery{ContentHash: result.ContentHash})
	if err != nil {
		fmt.Fprintf(os.Stderr, "receipts: %v\n", err)
		return
	}
	for _, receipt := range receipts {
		fmt.Printf("receipt id=%s tx=%s network=%s\n", receipt.ID, receipt.TxHash, receipt.Network)
	}
}
