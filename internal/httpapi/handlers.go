package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/app/inspect"
	"github.com/osvaldoandrade/w3bstitch/internal/app/media"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": "W3b Stitch API", "see": "/health"})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.BodyLimit))
}

func (h *Handler) mediaHash(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MediaLimit)
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			err = fmt.Errorf("%w: %v", media.ErrFileRequired, err)
		}
		h.writeError(w, r, "media_hash_failed", err)
		return
	}
	defer file.Close()

	digest, err := h.svc.Media.Hash(r.Context(), header.Filename, file)
	if err != nil {
		h.writeError(w, r, "media_hash_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filename": digest.Filename,
		"sha256":   digest.SHA256,
		"size":     digest.Size,
	})
}

func (h *Handler) issueCredential(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, r, "credential_issue_failed", err)
		return
	}
	issued, err := h.svc.Credential.Issue(r.Context(), body)
	if err != nil {
		h.writeError(w, r, "credential_issue_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"credential": issued.Credential,
		"hash":       issued.Hash,
	})
}

func (h *Handler) packageState(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, r, "package_failed", err)
		return
	}
	pkg, err := h.svc.State.Package(r.Context(), body)
	if err != nil {
		h.writeError(w, r, "package_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bundle": jsontext.Value(pkg.Bundle),
		"hash":   pkg.Hash,
	})
}

type verifyRequest struct {
	Bundle   jsontext.Value `json:"bundle"`
	Expected string         `json:"expected"`
}

func (h *Handler) verifyState(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, r, "verify_failed", err)
		return
	}
	var req verifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, r, "verify_failed", fmt.Errorf("%w: %v", errInvalidQuery, err))
		return
	}
	result, err := h.svc.State.Verify(r.Context(), req.Bundle, req.Expected)
	if err != nil {
		h.writeError(w, r, "verify_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hash":     result.Hash,
		"expected": result.Expected,
		"match":    result.Match,
	})
}

func (h *Handler) anchor(network domain.Network) http.HandlerFunc {
	code := fmt.Sprintf("anchor_%s_failed", network)
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := h.readBody(w, r)
		if err != nil {
			_, kind := classify(err)
			h.metrics.observeAnchor(string(network), kind)
			h.writeError(w, r, code, err)
			return
		}
		result, err := h.svc.Anchor.AnchorNetwork(r.Context(), network, body)
		if err != nil {
			h.metrics.observeAnchor(string(network), string(anchor.KindOf(err)))
			h.writeError(w, r, code, err)
			return
		}
		h.metrics.observeAnchor(string(network), "ok")
		writeJSON(w, http.StatusOK, map[string]any{
			"anchored_data":                    jsontext.Value(body),
			"transaction_hash":                 result.TxHash,
			fmt.Sprintf("%s_tx_hash", network): result.TxHash,
			"content_hash":                     result.ContentHash,
			"network":                          result.Network,
			"address":                          result.Address,
			"chain_id":                         anchor.ChainIDString(result.ChainID),
			"nonce":                            result.Nonce,
			"data_size":                        result.DataSize,
		})
	}
}

type inspectRequest struct {
	Data  string `json:"data"`
	RawTx string `json:"raw_tx"`
}

func (h *Handler) inspect(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, r, "inspect_failed", err)
		return
	}
	var req inspectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, r, "inspect_failed", fmt.Errorf("%w: %v", errInvalidQuery, err))
		return
	}

	if req.RawTx != "" {
		result, err := h.svc.Inspect.InspectRawTx(r.Context(), req.RawTx)
		if err != nil {
			h.writeError(w, r, "inspect_failed", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"transaction_hash": result.TxHash,
			"from":             result.From,
			"to":               result.To,
			"chain_id":         result.ChainID,
			"nonce":            result.Nonce,
			"self_transfer":    result.SelfTransfer,
			"data":             dataResponse(result.Data),
		})
		return
	}

	result, err := h.svc.Inspect.InspectData(r.Context(), req.Data)
	if err != nil {
		h.writeError(w, r, "inspect_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse(result))
}

func dataResponse(result inspect.DataResult) map[string]any {
	return map[string]any{
		"payload":      result.Payload,
		"content_hash": result.ContentHash,
		"json":         result.JSON,
		"canonical":    result.Canonical,
		"size":         result.Size,
	}
}

type receiptResponse struct {
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

func (h *Handler) receipts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := intParam(query.Get("limit"))
	if err != nil {
		h.writeError(w, r, "receipts_failed", err)
		return
	}
	receipts, err := h.svc.Receipts.List(r.Context(), anchor.ReceiptQuery{
		ContentHash: query.Get("content_hash"),
		Network:     domain.Network(query.Get("network")),
		Limit:       limit,
	})
	if err != nil {
		h.writeError(w, r, "receipts_failed", err)
		return
	}
	out := make([]receiptResponse, 0, len(receipts))
	for _, receipt := range receipts {
		out = append(out, receiptResponse{
			ID:          receipt.ID,
			TxHash:      receipt.TxHash,
			ContentHash: receipt.ContentHash,
			Network:     string(receipt.Network),
			Address:     receipt.Address,
			ChainID:     receipt.ChainID,
			Nonce:       receipt.Nonce,
			DataSize:    receipt.DataSize,
			CreatedAt:   receipt.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"receipts": out})
}

func (h *Handler) twitterLookup(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Social.Lookup(r.Context(), r.URL.Query().Get("id_or_url"))
	if err != nil {
		h.writeError(w, r, "lookup_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) twitterUserTweets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	maxResults, err := intParam(query.Get("max_results"))
	if err != nil {
		h.writeError(w, r, "user_tweets_failed", err)
		return
	}
	body, err := h.svc.Social.UserTweets(r.Context(), query.Get("username"), maxResults)
	if err != nil {
		h.writeError(w, r, "user_tweets_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) twitterSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	maxResults, err := intParam(query.Get("max_results"))
	if err != nil {
		h.writeError(w, r, "search_failed", err)
		return
	}
	body, err := h.svc.Social.Search(r.Context(), query.Get("q"), maxResults)
	if err != nil {
		h.writeError(w, r, "search_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) webMetadata(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Webpage.Metadata(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		h.writeError(w, r, "metadata_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"platform":    page.Platform,
		"url":         page.URL,
		"title":       nullable(page.Title),
		"description": nullable(page.Description),
	})
}

func intParam(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", errInvalidQuery, value)
	}
	return n, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
