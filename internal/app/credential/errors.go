package credential

import "errors"

var ErrBodyRequired = errors.New("credential request body is required")
var ErrInvalidRequest = errors.New("invalid credential request")
