package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-json-experiment/json"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/app/credential"
	"github.com/osvaldoandrade/w3bstitch/internal/app/inspect"
	"github.com/osvaldoandrade/w3bstitch/internal/app/media"
	"github.com/osvaldoandrade/w3bstitch/internal/app/social"
	"github.com/osvaldoandrade/w3bstitch/internal/app/state"
	"github.com/osvaldoandrade/w3bstitch/internal/app/webpage"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

type errorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
	Status int    `json:"upstream_status,omitempty"`
	Body   string `json:"upstream_body,omitempty"`
}

var errInvalidQuery = errors.New("invalid query parameter")

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, value)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, code string, err error) {
	status, kind := classify(err)
	body := errorBody{Error: code, Kind: kind, Detail: err.Error()}

	var upstream *social.UpstreamError
	if errors.As(err, &upstream) {
		body.Status = upstream.Status
		body.Body = upstream.Body
	}
	if status >= http.StatusInternalServerError {
		h.logger.Warn("request failed", "error", code, "kind", kind, "err", err)
	}
	writeJSON(w, status, body)
}

// classify maps a service error onto an HTTP status and error kind.
func classify(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	var upstream *social.UpstreamError
	var fetchErr *webpage.FetchError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "size"
	case errors.As(err, &upstream), errors.As(err, &fetchErr):
		return http.StatusBadGateway, "upstream"
	case errors.Is(err, anchor.ErrJournalDisabled):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, social.ErrTokenRequired):
		return http.StatusInternalServerError, string(anchor.KindConfiguration)
	case errors.Is(err, social.ErrUserNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errInvalidQuery),
		errors.Is(err, anchor.ErrInvalidLimit),
		errors.Is(err, domain.ErrInvalidNetwork),
		errors.Is(err, state.ErrPayloadRequired),
		errors.Is(err, state.ErrPayloadNotSerializable),
		errors.Is(err, state.ErrHashRequired),
		errors.Is(err, state.ErrInvalidHash),
		errors.Is(err, inspect.ErrDataRequired),
		errors.Is(err, inspect.ErrInvalidData),
		errors.Is(err, inspect.ErrInvalidTransaction),
		errors.Is(err, media.ErrFileRequired),
		errors.Is(err, credential.ErrBodyRequired),
		errors.Is(err, credential.ErrInvalidRequest),
		errors.Is(err, social.ErrTweetIDRequired),
		errors.Is(err, social.ErrInvalidTweetID),
		errors.Is(err, social.ErrUsernameRequired),
		errors.Is(err, social.ErrQueryRequired),
		errors.Is(err, webpage.ErrURLRequired),
		errors.Is(err, webpage.ErrInvalidURL):
		return http.StatusBadRequest, "validation"
	}

	switch kind := anchor.KindOf(err); kind {
	case anchor.KindConfiguration:
		return http.StatusInternalServerError, string(kind)
	case anchor.KindConnectivity:
		return http.StatusServiceUnavailable, string(kind)
	case anchor.KindSerialization:
		return http.StatusBadRequest, string(kind)
	case anchor.KindSize:
		return http.StatusRequestEntityTooLarge, string(kind)
	case anchor.KindSubmission:
		return http.StatusBadGateway, string(kind)
	}
	return http.StatusInternalServerError, string(anchor.KindInternal)
}
