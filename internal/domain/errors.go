package domain

import "errors"

var ErrInvalidNetwork = errors.New("invalid network")
var ErrL1NotConfigured = errors.New("l1 rpc url is not configured")
