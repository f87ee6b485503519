package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/app/credential"
	"github.com/osvaldoandrade/w3bstitch/internal/app/inspect"
	"github.com/osvaldoandrade/w3bstitch/internal/app/state"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
	"github.com/osvaldoandrade/w3bstitch/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *RootOptions) *cobra.Command {
	addr := ":8000"
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				if value := envValue("W3B_ADDR"); value != "" {
					addr = value
				}
			}
			svc, err := newServices(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			router := httpapi.NewRouter(svc.Services, httpapi.Options{})
			return httpapi.Serve(ctx, addr, router, shutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "Listen address [W3B_ADDR]")
	return cmd
}

func newHashCmd(opts *RootOptions) *cobra.Command {
	var payload string
	var filePath string
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the canonical form and content hash of a JSON payload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readJSONInput("payload", payload, filePath)
			if err != nil {
				return err
			}
			svc, err := newServices(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer svc.Close()

			pkg, err := svc.State.Package(cmd.Context(), data)
			if err != nil {
				return err
			}
			return writeHashResult(cmd, pkg, opts.JSONOutput)
		},
	}
	cmd.Flags().StringVar(&payload, "payload", "", "Inline JSON payload")
	cmd.Flags().StringVar(&filePath, "file", "", "Path to JSON payload file ('-' for stdin)")
	return cmd
}

func newAnchorCmd(opts *RootOptions) *cobra.Command {
	var network string
	var payload string
	var filePath string
	cmd := &cobra.Command{
		Use:   "anchor",
		Short: "Anchor a JSON payload on the L2 (default) or L1 chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseNetwork(network)
			if err != nil {
				return fmt.Errorf("%w: %v", errInvalidInput, err)
			}
			data, err := readJSONInput("payload", payload, filePath)
			if err != nil {
				return err
			}
			svc, err := newServices(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer svc.Close()

			var result anchor.Result
			spinner := spinnerEnabled(cmd.ErrOrStderr(), opts.JSONOutput)
			err = withSpinner(cmd.Context(), cmd.ErrOrStderr(), spinner, "Submitting anchor", func() error {
				var runErr error
				result, runErr = svc.Anchor.AnchorNetwork(cmd.Context(), parsed, data)
				return runErr
			})
			if err != nil {
				return err
			}
			return writeAnchorResult(cmd, result, opts.JSONOutput)
		},
	}
	cmd.Flags().StringVar(&network, "network", string(domain.DefaultNetwork), "Target network (l2, l1)")
	cmd.Flags().StringVar(&payload, "payload", "", "Inline JSON payload")
	cmd.Flags().StringVar(&filePath, "file", "", "Path to JSON payload file ('-' for stdin)")
	return cmd
}

func newInspectCmd(opts *RootOptions) *cobra.Command {
	var rawTx bool
	cmd := &cobra.Command{
		Use:   "inspect <hex>",
		Short: "Decode an anchor transaction data field (or a raw signed transaction)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer svc.Close()

			if rawTx {
				result, err := svc.Inspect.InspectRawTx(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeTxInspectResult(cmd, result, opts.JSONOutput)
			}
			result, err := svc.Inspect.InspectData(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeDataInspectResult(cmd, result, opts.JSONOutput)
		},
	}
	cmd.Flags().BoolVar(&rawTx, "raw-tx", false, "Treat the argument as a signed raw transaction")
	return cmd
}

func newReceiptsCmd(opts *RootOptions) *cobra.Command {
	var limit int
	var contentHash string
	var network string
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "List journaled anchor receipts (requires --receipts-db)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newServices(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer svc.Close()

			receipts, err := svc.Receipts.List(cmd.Context(), anchor.ReceiptQuery{
				ContentHash: contentHash,
				Network:     domain.Network(network),
				Limit:       limit,
			})
			if err != nil {
				return err
			}
			return writeReceipts(cmd, receipts, opts.JSONOutput)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", anchor.DefaultReceiptLimit, "Maximum receipts to list")
	cmd.Flags().StringVar(&contentHash, "content-hash", "", "Only receipts for this content hash")
	cmd.Flags().StringVar(&network, "network", "", "Only receipts for this network (l2, l1)")
	return cmd
}

func newCredentialCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Issue toy provenance credentials",
		RunE:  runHelp,
	}
	cmd.AddCommand(newCredentialIssueCmd(opts))
	return cmd
}

func newCredentialIssueCmd(opts *RootOptions) *cobra.Command {
	var payload string
	var filePath string
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a credential from {issuer, subject, claims}",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readJSONInput("payload", payload, filePath)
			if err != nil {
				return err
			}
			svc, err := newServices(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer svc.Close()

			issued, err := svc.Credential.Issue(cmd.Context(), data)
			if err != nil {
				return err
			}
			return writeCredentialResult(cmd, issued, opts.JSONOutput)
		},
	}
	cmd.Flags().StringVar(&payload, "payload", "", "Inline JSON request")
	cmd.Flags().StringVar(&filePath, "file", "", "Path to JSON request file ('-' for stdin)")
	return cmd
}

// Canonical is emitted as a string so indentation cannot alter the hashed bytes.
type hashOutput struct {
	Canonical string `json:"canonical"`
	Hash      string `json:"hash"`
}

func writeHashResult(cmd *cobra.Command, pkg state.Package, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, hashOutput{Canonical: string(pkg.Canonical), Hash: pkg.Hash})
	}
	ui := newRenderer(out, asJSON)
	if err := writeKV(out, ui, "Hash", pkg.Hash); err != nil {
		return err
	}
	return writeKV(out, ui, "Canonical", string(pkg.Canonical))
}

type anchorOutput struct {
	TxHash      string `json:"transaction_hash"`
	ContentHash string `json:"content_hash"`
	Network     string `json:"network"`
	Address     string `json:"address"`
	ChainID     string `json:"chain_id"`
	Nonce       uint64 `json:"nonce"`
	GasPrice    string `json:"gas_price"`
	GasLimit    uint64 `json:"gas_limit"`
	DataSize    int    `json:"data_size"`
}

func writeAnchorResult(cmd *cobra.Command, result anchor.Result, asJSON bool) error {
	out := cmd.OutOrStdout()
	gasPrice := ""
	if result.GasPrice != nil {
		gasPrice = result.GasPrice.String()
	}
	if asJSON {
		return writeJSON(out, anchorOutput{
			TxHash:      result.TxHash,
			ContentHash: result.ContentHash,
			Network:     string(result.Network),
			Address:     result.Address,
			ChainID:     anchor.ChainIDString(result.ChainID),
			Nonce:       result.Nonce,
			GasPrice:    gasPrice,
			GasLimit:    result.GasLimit,
			DataSize:    result.DataSize,
		})
	}

	ui := newRenderer(out, asJSON)
	rows := [][2]string{
		{"Tx Hash", ui.ok(result.TxHash)},
		{"Content Hash", result.ContentHash},
		{"Network", string(result.Network)},
		{"Address", result.Address},
		{"Chain ID", anchor.ChainIDString(result.ChainID)},
		{"Nonce", fmt.Sprintf("%d", result.Nonce)},
		{"Gas Price", gasPrice},
		{"Gas Limit", fmt.Sprintf("%d", result.GasLimit)},
		{"Data Size", fmt.Sprintf("%d bytes", result.DataSize)},
	}
	return writeRows(out, ui, rows)
}

type dataOutput struct {
	Payload     string `json:"payload"`
	ContentHash string `json:"content_hash"`
	JSON        bool   `json:"json"`
	Canonical   bool   `json:"canonical"`
	Size        int    `json:"size"`
}

func toDataOutput(result inspect.DataResult) dataOutput {
	return dataOutput{
		Payload:     result.Payload,
		ContentHash: result.ContentHash,
		JSON:        result.JSON,
		Canonical:   result.Canonical,
		Size:        result.Size,
	}
}

func writeDataInspectResult(cmd *cobra.Command, result inspect.DataResult, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, toDataOutput(result))
	}
	ui := newRenderer(out, asJSON)
	return writeRows(out, ui, dataRows(ui, result))
}

func dataRows(ui renderer, result inspect.DataResult) [][2]string {
	canonical := ui.warn("no")
	if result.Canonical {
		canonical = ui.ok("yes")
	}
	payload := result.Payload
	if !result.JSON {
		payload = ui.dim("(not json) ") + payload
	}
	return [][2]string{
		{"Content Hash", result.ContentHash},
		{"Canonical", canonical},
		{"Size", fmt.Sprintf("%d bytes", result.Size)},
		{"Payload", payload},
	}
}

type txOutput struct {
	TxHash       string     `json:"transaction_hash"`
	From         string     `json:"from"`
	To           string     `json:"to"`
	ChainID      string     `json:"chain_id"`
	Nonce        uint64     `json:"nonce"`
	SelfTransfer bool       `json:"self_transfer"`
	Data         dataOutput `json:"data"`
}

func writeTxInspectResult(cmd *cobra.Command, result inspect.TxResult, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, txOutput{
			TxHash:       result.TxHash,
			From:         result.From,
			To:           result.To,
			ChainID:      result.ChainID,
			Nonce:        result.Nonce,
			SelfTransfer: result.SelfTransfer,
			Data:         toDataOutput(result.Data),
		})
	}
	ui := newRenderer(out, asJSON)
	rows := [][2]string{
		{"Tx Hash", result.TxHash},
		{"From", result.From},
		{"To", result.To},
		{"Chain ID", result.ChainID},
		{"Nonce", fmt.Sprintf("%d", result.Nonce)},
		{"Self Transfer", fmt.Sprintf("%t", result.SelfTransfer)},
	}
	return writeRows(out, ui, append(rows, dataRows(ui, result.Data)...))
}

type receiptOutput struct {
	ID          string `json:"id"`
	TxHash      string `json:"tx_hash"`
	ContentHash string `json:"content_hash"`
	Network     string `json:"network"`
	Address     string `json:"address"`
	ChainID     string `json:"chain_id"`
	Nonce       uint64 `json:"nonce"`
	DataSize    int    `json:"data_size"`
	CreatedAt   string `json:"created_at"`
}

func writeReceipts(cmd *cobra.Command, receipts []anchor.Receipt, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := make([]receiptOutput, 0, len(receipts))
		for _, receipt := range receipts {
			payload = append(payload, receiptOutput{
				ID:          receipt.ID,
				TxHash:      receipt.TxHash,
				ContentHash: receipt.ContentHash,
				Network:     string(receipt.Network),
				Address:     receipt.Address,
				ChainID:     receipt.ChainID,
				Nonce:       receipt.Nonce,
				DataSize:    receipt.DataSize,
				CreatedAt:   receipt.CreatedAt.Format(time.RFC3339Nano),
			})
		}
		return writeJSON(out, payload)
	}

	ui := newRenderer(out, asJSON)
	if len(receipts) == 0 {
		_, err := fmt.Fprintln(out, ui.dim("(no receipts)"))
		return err
	}
	for _, receipt := range receipts {
		if _, err := fmt.Fprintf(out, "%s  %s  %s  %s  %s\n",
			ui.dim(receipt.CreatedAt.Format(time.RFC3339)),
			ui.accent(string(receipt.Network)),
			receipt.TxHash,
			receipt.ContentHash,
			ui.dim(fmt.Sprintf("nonce=%d", receipt.Nonce)),
		); err != nil {
			return err
		}
	}
	return nil
}

type credentialOutput struct {
	Credential json.RawMessage `json:"credential"`
	Hash       string          `json:"hash"`
}

func writeCredentialResult(cmd *cobra.Command, issued credential.Issued, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, credentialOutput{Credential: json.RawMessage(issued.Canonical), Hash: issued.Hash})
	}
	ui := newRenderer(out, asJSON)
	return writeRows(out, ui, [][2]string{
		{"ID", issued.Credential.ID},
		{"Issuer", issued.Credential.Issuer},
		{"Subject", issued.Credential.Subject},
		{"Issued At", issued.Credential.IssuedAt},
		{"Hash", ui.ok(issued.Hash)},
		{"Credential", string(issued.Canonical)},
	})
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeRows(out io.Writer, ui renderer, rows [][2]string) error {
	for _, row := range rows {
		if err := writeKV(out, ui, row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeKV(out io.Writer, ui renderer, key, value string) error {
	_, err := fmt.Fprintf(out, "%s: %s\n", ui.key(key), value)
	return err
}

func readJSONInput(label, inline, filePath string) ([]byte, error) {
	inline = strings.TrimSpace(inline)
	filePath = strings.TrimSpace(filePath)
	if inline != "" && filePath != "" {
		return nil, fmt.Errorf("%w: use either --%s or --file, not both", errInvalidInput, label)
	}
	if inline == "" && filePath == "" {
		return nil, fmt.Errorf("%w: %s is required (use --%s or --file)", errInvalidInput, label, label)
	}
	if inline != "" {
		return []byte(inline), nil
	}
	if filePath == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read %s from stdin: %w", label, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", label, err)
	}
	return data, nil
}

func runHelp(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

