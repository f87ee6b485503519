package anchor

import (
	"errors"

	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

var ErrRPCURLRequired = errors.New("rpc url is required")
var ErrCredentialsRequired = errors.New("account address and private key are required")
var ErrInvalidCredentials = errors.New("invalid signing credentials")
var ErrEndpointUnreachable = errors.New("rpc endpoint unreachable")
var ErrPayloadRequired = errors.New("payload is required")
var ErrPayloadNotSerializable = errors.New("payload is not json serializable")
var ErrPayloadTooLarge = errors.New("payload too large for gas limit")
var ErrSubmissionFailed = errors.New("transaction submission failed")
var ErrJournalDisabled = errors.New("receipt journal is not configured")
var ErrInvalidLimit = errors.New("limit must be positive")

type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindConnectivity  Kind = "connectivity"
	KindSerialization Kind = "serialization"
	KindSize          Kind = "size"
	KindSubmission    Kind = "submission"
	KindInternal      Kind = "internal"
)

// KindOf maps an anchoring failure onto its error kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRPCURLRequired),
		errors.Is(err, ErrCredentialsRequired),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, domain.ErrL1NotConfigured),
		errors.Is(err, domain.ErrInvalidNetwork):
		return KindConfiguration
	case errors.Is(err, ErrEndpointUnreachable):
		return KindConnectivity
	case errors.Is(err, ErrPayloadRequired),
		errors.Is(err, ErrPayloadNotSerializable):
		return KindSerialization
	case errors.Is(err, ErrPayloadTooLarge):
		return KindSize
	case errors.Is(err, ErrSubmissionFailed):
		return KindSubmission
	default:
		return KindInternal
	}
}
