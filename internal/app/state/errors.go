package state

import "errors"

var ErrPayloadRequired = errors.New("payload is required")
var ErrPayloadNotSerializable = errors.New("payload is not json serializable")
var ErrHashRequired = errors.New("expected hash is required")
var ErrInvalidHash = errors.New("invalid sha-256 hex hash")
