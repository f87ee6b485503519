package w3bstitchsdk

import (
	"errors"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

var (
	ErrClosed          = errors.New("w3bstitch-sdk: client is closed")
	ErrInvalidNetwork  = domain.ErrInvalidNetwork
	ErrL1NotConfigured = domain.ErrL1NotConfigured

	ErrRPCURLRequired         = anchor.ErrRPCURLRequired
	ErrCredentialsRequired    = anchor.ErrCredentialsRequired
	ErrInvalidCredentials     = anchor.ErrInvalidCredentials
	ErrPayloadRequired        = anchor.ErrPayloadRequired
	ErrPayloadNotSerializable = anchor.ErrPayloadNotSerializable
	ErrPayloadTooLarge        = anchor.ErrPayloadTooLarge
	ErrEndpointUnreachable    = anchor.ErrEndpointUnreachable
	ErrSubmissionFailed       = anchor.ErrSubmissionFailed
	ErrJournalDisabled        = anchor.ErrJournalDisabled
)
