package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/app/inspect"
	"github.com/osvaldoandrade/w3bstitch/internal/app/social"
	"github.com/osvaldoandrade/w3bstitch/internal/app/state"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantKind ErrorKind
	}{
		{err: anchor.ErrRPCURLRequired, wantCode: ExitConfiguration, wantKind: KindConfiguration},
		{err: anchor.ErrCredentialsRequired, wantCode: ExitConfiguration, wantKind: KindConfiguration},
		{err: fmt.Errorf("%w: mismatch", anchor.ErrInvalidCredentials), wantCode: ExitConfiguration, wantKind: KindConfiguration},
		{err: domain.ErrL1NotConfigured, wantCode: ExitConfiguration, wantKind: KindConfiguration},
		{err: fmt.Errorf("%w: http://x: refused", anchor.ErrEndpointUnreachable), wantCode: ExitConnectivity, wantKind: KindConnectivity},
		{err: anchor.ErrPayloadNotSerializable, wantCode: ExitInvalid, wantKind: KindSerialization},
		{err: anchor.ErrPayloadTooLarge, wantCode: ExitSize, wantKind: KindSize},
		{err: fmt.Errorf("%w: nonce too low", anchor.ErrSubmissionFailed), wantCode: ExitSubmission, wantKind: KindSubmission},
		{err: anchor.ErrJournalDisabled, wantCode: ExitConfiguration, wantKind: KindConfiguration},
		{err: domain.ErrInvalidNetwork, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: state.ErrInvalidHash, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: inspect.ErrInvalidData, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: social.ErrTokenRequired, wantCode: ExitConfiguration, wantKind: KindConfiguration},
		{err: social.ErrUserNotFound, wantCode: ExitNotFound, wantKind: KindNotFound},
		{err: &social.UpstreamError{Status: 503}, wantCode: ExitSubmission, wantKind: KindUpstream},
		{err: errors.New("boom"), wantCode: ExitInternal, wantKind: KindInternal},
	}

	for _, tt := range tests {
		got := NormalizeError(tt.err)
		if got.Code != tt.wantCode {
			t.Fatalf("expected code %d, got %d for %v", tt.wantCode, got.Code, tt.err)
		}
		if got.Kind != tt.wantKind {
			t.Fatalf("expected kind %s, got %s for %v", tt.wantKind, got.Kind, tt.err)
		}
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("expected ExitCode(nil) == 0")
	}

	custom := ExitError{Code: 9, Kind: KindInternal, Message: "custom"}
	if ExitCode(custom) != 9 {
		t.Fatalf("expected ExitCode(custom) == 9")
	}
}

func TestWriteCLIErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	exitErr := NormalizeError(anchor.ErrCredentialsRequired)
	if err := writeCLIError(&buf, exitErr, true); err != nil {
		t.Fatalf("writeCLIError returned error: %v", err)
	}
	var payload struct {
		Code    int    `json:"code"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Code != ExitConfiguration || payload.Kind != "configuration" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestWriteCLIErrorText(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCLIError(&buf, NormalizeError(anchor.ErrPayloadTooLarge), false); err != nil {
		t.Fatalf("writeCLIError returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Error (size): payload too large") {
		t.Fatalf("unexpected text: %q", buf.String())
	}
}
