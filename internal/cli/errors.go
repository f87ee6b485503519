package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/app/credential"
	"github.com/osvaldoandrade/w3bstitch/internal/app/inspect"
	"github.com/osvaldoandrade/w3bstitch/internal/app/social"
	"github.com/osvaldoandrade/w3bstitch/internal/app/state"
	"github.com/osvaldoandrade/w3bstitch/internal/app/webpage"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

type ErrorKind string

const (
	KindInternal      ErrorKind = "internal"
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindConfiguration ErrorKind = "configuration"
	KindConnectivity  ErrorKind = "connectivity"
	KindSerialization ErrorKind = "serialization"
	KindSize          ErrorKind = "size"
	KindSubmission    ErrorKind = "submission"
	KindUpstream      ErrorKind = "upstream"
)

const (
	ExitInternal      = 1
	ExitInvalid       = 2
	ExitNotFound      = 3
	ExitConfiguration = 4
	ExitConnectivity  = 5
	ExitSubmission    = 6
	ExitSize          = 7
)

type ExitError struct {
	Code    int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e ExitError) Error() string {
	return errorMessage(e)
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func NormalizeError(err error) ExitError {
	if err == nil {
		return ExitError{Code: 0}
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == 0 {
			exitErr.Code = ExitInternal
		}
		return exitErr
	}

	var upstream *social.UpstreamError
	var fetchErr *webpage.FetchError
	switch {
	case errors.As(err, &upstream), errors.As(err, &fetchErr):
		return ExitError{Code: ExitSubmission, Kind: KindUpstream, Err: err}
	case errors.Is(err, social.ErrUserNotFound):
		return ExitError{Code: ExitNotFound, Kind: KindNotFound, Err: err}
	case errors.Is(err, anchor.ErrJournalDisabled),
		errors.Is(err, social.ErrTokenRequired):
		return ExitError{Code: ExitConfiguration, Kind: KindConfiguration, Err: err}
	case errors.Is(err, domain.ErrInvalidNetwork),
		errors.Is(err, anchor.ErrInvalidLimit),
		errors.Is(err, state.ErrPayloadRequired),
		errors.Is(err, state.ErrPayloadNotSerializable),
		errors.Is(err, state.ErrHashRequired),
		errors.Is(err, state.ErrInvalidHash),
		errors.Is(err, inspect.ErrDataRequired),
		errors.Is(err, inspect.ErrInvalidData),
		errors.Is(err, inspect.ErrInvalidTransaction),
		errors.Is(err, credential.ErrBodyRequired),
		errors.Is(err, credential.ErrInvalidRequest),
		errors.Is(err, social.ErrTweetIDRequired),
		errors.Is(err, social.ErrInvalidTweetID),
		errors.Is(err, social.ErrUsernameRequired),
		errors.Is(err, social.ErrQueryRequired),
		errors.Is(err, webpage.ErrURLRequired),
		errors.Is(err, webpage.ErrInvalidURL),
		errors.Is(err, errInvalidInput):
		return ExitError{Code: ExitInvalid, Kind: KindValidation, Err: err}
	}

	switch anchor.KindOf(err) {
	case anchor.KindConfiguration:
		return ExitError{Code: ExitConfiguration, Kind: KindConfiguration, Err: err}
	case anchor.KindConnectivity:
		return ExitError{Code: ExitConnectivity, Kind: KindConnectivity, Err: err}
	case anchor.KindSerialization:
		return ExitError{Code: ExitInvalid, Kind: KindSerialization, Err: err}
	case anchor.KindSize:
		return ExitError{Code: ExitSize, Kind: KindSize, Err: err}
	case anchor.KindSubmission:
		return ExitError{Code: ExitSubmission, Kind: KindSubmission, Err: err}
	default:
		return ExitError{Code: ExitInternal, Kind: KindInternal, Err: err}
	}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return NormalizeError(err).Code
}

func writeCLIError(w io.Writer, exitErr ExitError, asJSON bool) error {
	if exitErr.Code == 0 {
		return nil
	}
	message := errorMessage(exitErr)
	if asJSON {
		payload := struct {
			Code    int    `json:"code"`
			Kind    string `json:"kind"`
			Message string `json:"message"`
		}{
			Code:    exitErr.Code,
			Kind:    string(exitErr.Kind),
			Message: message,
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	ui := newRenderer(w, false)
	prefix := "Error"
	if exitErr.Kind != "" {
		prefix = fmt.Sprintf("Error (%s)", exitErr.Kind)
	}
	prefix = ui.err(prefix)
	_, err := fmt.Fprintf(w, "%s: %s\n", prefix, message)
	return err
}

func errorMessage(exitErr ExitError) string {
	if exitErr.Message != "" {
		return exitErr.Message
	}
	if exitErr.Err != nil {
		return exitErr.Err.Error()
	}
	return "unknown error"
}
