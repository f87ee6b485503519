package inspect

import "errors"

var ErrDataRequired = errors.New("data is required")
var ErrInvalidData = errors.New("invalid hex data")
var ErrInvalidTransaction = errors.New("invalid raw transaction")
